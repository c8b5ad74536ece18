// Package services – shared plumbing.
//
// This file holds helpers used across the service types: bounded-timeout
// contexts for storage calls, classification of transient storage failures,
// and the best-effort denial audit writer. Success audits ride the
// operation's transaction (see the individual services); denial audits are
// written here, on their own connection, after the operation rolled back.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
)

// defaultStoreTimeout bounds storage calls when a service is constructed
// without an explicit timeout. No operation in this core may block
// indefinitely.
const defaultStoreTimeout = 5 * time.Second

// opCtx derives a bounded context for one storage operation.
func opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr maps context expiry to the retryable ErrUnavailable sentinel and
// passes every other error through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrUnavailable
	}
	return err
}

// auditDenied records a denied attempt outside the failed operation's
// transaction. The denial record must survive the rollback, so it gets its
// own write; a failure here is logged but never masks the typed error the
// caller is about to return.
func auditDenied(ctx context.Context, db *gorm.DB, actor domain.Actor, action domain.AuditAction, subjectType, subjectID, detail string) {
	_, err := repo.AppendAudit(ctx, db, domain.AuditEntry{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      action,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Outcome:     domain.OutcomeDenied,
		Detail:      detail,
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("actor_id", actor.ID).
			Str("action", string(action)).
			Str("subject_id", subjectID).
			Msg("denied-attempt audit write failed")
	}
}
