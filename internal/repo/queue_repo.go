// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the QueueEntry
// model: the provider-facing view of PENDING consultations.
//
// Queue entries piggyback on consultation transitions: they are inserted in
// the submit transaction and removed in the claim/cancel transaction, so the
// queue can never disagree with consultation state.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// BucketCount is one row of the per-bucket queue depth aggregate.
type BucketCount struct {
	PriorityBucket int
	Count          int64
}

// EnqueueConsultation inserts a queue entry for a newly submitted
// consultation. The consultation id is the primary key, so a second insert
// for the same consultation fails at the storage layer.
func EnqueueConsultation(ctx context.Context, db *gorm.DB, consultationID string, priorityBucket int, at time.Time) error {
	e := &domain.QueueEntry{
		ConsultationID: consultationID,
		PriorityBucket: priorityBucket,
		EnqueuedAt:     at,
	}
	return db.WithContext(ctx).Create(e).Error
}

// RemoveQueueEntry deletes the queue entry for consultationID. Removing an
// absent entry is not an error: the claim CAS is the authority on who won,
// and the entry may already be gone when a lost claim cleans up.
func RemoveQueueEntry(ctx context.Context, db *gorm.DB, consultationID string) error {
	return db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Delete(&domain.QueueEntry{}).Error
}

// ListQueueEntries returns a page of queue entries in claim order: urgent
// buckets first, then FIFO by enqueue time within a bucket. Equal timestamps
// (possible under clock coarsening) break ties by consultation id so the
// view is deterministic and restartable.
func ListQueueEntries(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.QueueEntry, error) {
	var out []domain.QueueEntry
	q := db.WithContext(ctx).
		Order("priority_bucket DESC, enqueued_at ASC, consultation_id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountQueueEntries returns the total number of pending queue entries.
func CountQueueEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.QueueEntry{}).Count(&total).Error
	return total, err
}

// CountQueueByBucket returns the queue depth per priority bucket. Used for
// the pending-consultations gauge.
func CountQueueByBucket(ctx context.Context, db *gorm.DB) ([]BucketCount, error) {
	var out []BucketCount
	err := db.WithContext(ctx).
		Model(&domain.QueueEntry{}).
		Select("priority_bucket, COUNT(*) as count").
		Group("priority_bucket").
		Scan(&out).Error
	return out, err
}
