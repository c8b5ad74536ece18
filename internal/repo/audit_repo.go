// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append and query paths for the
// audit ledger. There is deliberately no update or delete function: the
// ledger is append-only and rows outlive every other entity.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// AppendAudit inserts one audit entry. ID and RecordedAt are assigned here
// when the caller leaves them zero. The caller chooses the transaction: a
// success entry rides the operation's transaction, a denial entry is written
// on its own after the operation rolled back.
func AppendAudit(ctx context.Context, db *gorm.DB, e domain.AuditEntry) (*domain.AuditEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// AuditFilter narrows an audit query. Zero-valued fields are ignored.
type AuditFilter struct {
	ActorID     string
	Action      domain.AuditAction
	SubjectType string
	SubjectID   string
	Outcome     domain.AuditOutcome
	From        time.Time
	To          time.Time
}

// auditScope composes the WHERE clause for an AuditFilter.
func auditScope(db *gorm.DB, f AuditFilter) *gorm.DB {
	q := db.Model(&domain.AuditEntry{})
	if f.ActorID != "" {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.SubjectType != "" {
		q = q.Where("subject_type = ?", f.SubjectType)
	}
	if f.SubjectID != "" {
		q = q.Where("subject_id = ?", f.SubjectID)
	}
	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}
	if !f.From.IsZero() {
		q = q.Where("recorded_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("recorded_at < ?", f.To)
	}
	return q
}

// QueryAudit returns a page of audit entries matching the filter, ordered by
// recorded_at ascending with id as the deterministic tie-break.
func QueryAudit(ctx context.Context, db *gorm.DB, f AuditFilter, offset, limit int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	q := auditScope(db.WithContext(ctx), f).
		Order("recorded_at ASC, id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountAudit returns the total number of entries matching the filter.
func CountAudit(ctx context.Context, db *gorm.DB, f AuditFilter) (int64, error) {
	var total int64
	err := auditScope(db.WithContext(ctx), f).Count(&total).Error
	return total, err
}
