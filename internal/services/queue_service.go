// Package services – QueueService
//
// This file implements the provider-facing queue: a read-only, restartable
// view of PENDING consultations and the claim operation. Claim is the one
// operation in the system that legitimately races — many providers may call
// it for the same consultation at once — and it is resolved with the
// consultation's version counter, not a lock: the claim is a targeted
// compare-and-swap through the same state machine as every other transition,
// so there is no second source of truth for consultation state and unrelated
// consultations never contend.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QueueService exposes pending consultations to providers and guarantees
// at most one successful claim per consultation.
type QueueService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StoreTimeout bounds every storage call. Zero means the package default.
	StoreTimeout time.Duration
}

// NewQueueService constructs a QueueService.
func NewQueueService(db *gorm.DB) *QueueService {
	return &QueueService{DB: db}
}

// Peek returns a page of the queue in claim order (urgent buckets first,
// FIFO within a bucket, consultation id as the deterministic tie-break).
// The view is read-only and restartable: callers may re-request it at will
// and nothing is reserved by looking.
func (s *QueueService) Peek(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.QueueEntry, int64, error) {
	if actor.Role != domain.RoleProvider && actor.Role != domain.RoleSystem {
		return nil, 0, ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	total, err := repo.CountQueueEntries(ctx, s.DB)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	if total == 0 {
		return []domain.QueueEntry{}, 0, nil
	}
	items, err := repo.ListQueueEntries(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return items, total, nil
}

// Claim attempts to take ownership of a PENDING consultation for providerID.
// Exactly one concurrent caller wins; every loser gets ErrAlreadyClaimed and
// observes no state change. The winning path binds the provider, removes the
// queue entry, and appends the CLAIM audit entry in one transaction.
//
// A repeat claim by the provider that already holds the consultation returns
// it unchanged — re-confirming one's own claim is a no-op, distinct from a
// different provider's ErrAlreadyClaimed.
func (s *QueueService) Claim(ctx context.Context, consultationID, providerID string) (*domain.Consultation, error) {
	tr := otel.Tracer("services/QueueService")
	ctx, span := tr.Start(ctx, "Claim",
		trace.WithAttributes(
			attribute.String("consultation.id", consultationID),
			attribute.String("provider.id", providerID),
		),
	)
	defer span.End()

	actor := domain.Actor{ID: providerID, Role: domain.RoleProvider}

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	cur, err := repo.GetConsultation(ctx, s.DB, consultationID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}

	if cur.Status != domain.StatusPending {
		if cur.Status == domain.StatusClaimed && cur.ProviderID != nil && *cur.ProviderID == providerID {
			return cur, nil
		}
		auditDenied(ctx, s.DB, actor, domain.AuditClaim, domain.SubjectConsultation, consultationID, "already claimed")
		return nil, ErrAlreadyClaimed
	}

	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := repo.ClaimConsultation(ctx, tx, consultationID, providerID, cur.Version, now)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyClaimed
		}
		if err := repo.RemoveQueueEntry(ctx, tx, consultationID); err != nil {
			return err
		}
		_, err = repo.AppendAudit(ctx, tx, domain.AuditEntry{
			ActorID:     providerID,
			ActorRole:   domain.RoleProvider,
			Action:      domain.AuditClaim,
			SubjectType: domain.SubjectConsultation,
			SubjectID:   consultationID,
			Outcome:     domain.OutcomeSuccess,
		})
		return err
	})
	if err != nil {
		if err == ErrAlreadyClaimed {
			// Lost the swap: re-read to distinguish our own earlier win from
			// another provider's.
			if again, rerr := repo.GetConsultation(ctx, s.DB, consultationID); rerr == nil &&
				again.Status == domain.StatusClaimed && again.ProviderID != nil && *again.ProviderID == providerID {
				return again, nil
			}
			auditDenied(ctx, s.DB, actor, domain.AuditClaim, domain.SubjectConsultation, consultationID, "lost claim race")
			return nil, ErrAlreadyClaimed
		}
		return nil, storeErr(err)
	}

	refreshQueueGauge(ctx, s.DB)
	return repo.GetConsultation(ctx, s.DB, consultationID)
}
