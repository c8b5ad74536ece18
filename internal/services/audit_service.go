// Package services – AuditService
//
// This file implements the query side of the audit ledger, consumed by the
// compliance collaborator and never by the workflow itself. Writes happen
// inside the operation transactions of the other services (or via
// auditDenied for rejected attempts); Record exists for collaborators that
// need to append entries of their own, such as export jobs.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
)

// AuditService exposes the append-only ledger to compliance tooling.
type AuditService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Retention is the compliance-mandated retention window, surfaced as
	// metadata on query responses. The core never deletes audit rows; the
	// regulatory window is enforced by the party that knows the statute.
	Retention time.Duration

	// StoreTimeout bounds every storage call. Zero means the package default.
	StoreTimeout time.Duration
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *gorm.DB, retention time.Duration) *AuditService {
	return &AuditService{DB: db, Retention: retention}
}

// Record appends one well-formed entry to the ledger. It fails only when
// storage is unavailable, in which case the triggering operation must fail
// with it.
func (s *AuditService) Record(ctx context.Context, e domain.AuditEntry) (*domain.AuditEntry, error) {
	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	rec, err := repo.AppendAudit(ctx, s.DB, e)
	if err != nil {
		return nil, storeErr(err)
	}
	return rec, nil
}

// Query returns a page of audit entries matching the filter, ordered by
// recorded time ascending. Only compliance and system actors may read the
// ledger; patients and providers never see it.
func (s *AuditService) Query(ctx context.Context, actor domain.Actor, f repo.AuditFilter, page, pageSize int) ([]domain.AuditEntry, int64, error) {
	if actor.Role != domain.RoleCompliance && actor.Role != domain.RoleSystem {
		return nil, 0, ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	total, err := repo.CountAudit(ctx, s.DB, f)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	if total == 0 {
		return []domain.AuditEntry{}, 0, nil
	}
	items, err := repo.QueryAudit(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return items, total, nil
}
