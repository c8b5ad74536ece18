// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model and the per-consultation sequence counter.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// ErrThreadSealed is returned by NextSequence when the consultation exists
// but is in a terminal state, so its thread no longer accepts messages.
var ErrThreadSealed = errors.New("repo: thread sealed")

// NextSequence increments and returns the message sequence counter stored on
// the consultation row, refusing terminal consultations. It must be called
// inside the transaction that persists the message: the row update takes the
// write lock that serializes concurrent sends to the same consultation, while
// sends to different consultations touch different rows and proceed in
// parallel. The status predicate rides on the same UPDATE, so a transition
// that seals the thread between the caller's pre-check and this statement
// makes the send fail instead of committing into a closed thread.
func NextSequence(ctx context.Context, db *gorm.DB, consultationID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("id = ? AND status IN ?", consultationID,
			[]domain.Status{domain.StatusPending, domain.StatusClaimed}).
		UpdateColumn("last_seq", gorm.Expr("last_seq + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or it went terminal; re-read to tell apart.
		var cnt int64
		if err := db.WithContext(ctx).
			Model(&domain.Consultation{}).
			Where("id = ?", consultationID).
			Count(&cnt).Error; err != nil {
			return 0, err
		}
		if cnt == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrThreadSealed
	}
	var row struct {
		LastSeq int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Select("last_seq").
		Where("id = ?", consultationID).
		Scan(&row).Error
	return row.LastSeq, err
}

// NextSequenceAny is NextSequence without the open-thread guard. It exists
// for system-written closing notes, which are appended in the same
// transaction that resolves the consultation and therefore see the row
// already in its terminal state.
func NextSequenceAny(ctx context.Context, db *gorm.DB, consultationID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Where("id = ?", consultationID).
		UpdateColumn("last_seq", gorm.Expr("last_seq + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	var row struct {
		LastSeq int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Select("last_seq").
		Where("id = ?", consultationID).
		Scan(&row).Error
	return row.LastSeq, err
}

// CreateMessage inserts a new message row with a caller-assigned sequence
// number (obtained from NextSequence within the same transaction).
func CreateMessage(db *gorm.DB, consultationID string, seq int64, senderRole domain.Role, senderID, body string) (*domain.Message, error) {
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConsultationID: consultationID,
		Seq:            seq,
		SenderRole:     senderRole,
		SenderID:       senderID,
		Body:           body,
		SentAt:         time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMessagesSince returns messages with seq > sinceSeq in ascending
// sequence order. Every reader observes the same order because seq is the
// only sort key and is unique per consultation.
func ListMessagesSince(ctx context.Context, db *gorm.DB, consultationID string, sinceSeq int64, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).
		Where("consultation_id = ? AND seq > ?", consultationID, sinceSeq).
		Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB, consultationID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE consultation_id = ?", consultationID).Scan(&total).Error
	return total, err
}

// GetMessage fetches a message by ID.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
