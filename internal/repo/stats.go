// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// MessagesStats returns aggregate metadata for messages within a given
// consultation thread: the total number of rows and the maximum SentAt
// timestamp among those rows.
//
// It executes two lightweight queries against the messages table scoped to
// the provided consultationID. When the thread has no messages, the returned
// count is 0 and maxSentAt is nil.
//
// Return values:
//   - count:     total messages for consultationID
//   - maxSentAt: pointer to the greatest SentAt, or nil if no rows
//   - err:       database error, if any
func MessagesStats(ctx context.Context, db *gorm.DB, consultationID string) (count int64, maxSentAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("consultation_id = ?", consultationID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest sent_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		SentAt time.Time
	}
	if err = q.Select("sent_at").Order("sent_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.SentAt, nil
}
