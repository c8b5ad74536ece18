// Package services – ConsultationService
//
// This file implements the ConsultationService, which owns the consultation
// lifecycle: submission into the provider queue and the one-directional state
// machine PENDING → CLAIMED → {RESOLVED, CANCELLED} (with PENDING → CANCELLED
// for patient withdrawal). Every mutation is a version-checked
// compare-and-swap, and the state change, queue side effect, and audit entry
// commit in one transaction — callers never observe a partial effect.
//
// Service-level errors (e.g., ErrInvalidTransition, ErrVersionConflict) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently. Denied attempts are themselves audited with outcome=denied.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// consultation and actor identifiers.
package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ConsultationService coordinates consultation lifecycle operations.
type ConsultationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxSummaryRunes caps submitted complaint text by rune length.
	MaxSummaryRunes int

	// UrgentKeywords mark a submission as urgent when any of them appears in
	// the summary (case-insensitive). Tiers are configuration, not code.
	UrgentKeywords []string

	// StoreTimeout bounds every storage call. Zero means the package default.
	StoreTimeout time.Duration
}

// NewConsultationService constructs a ConsultationService with sane defaults.
func NewConsultationService(db *gorm.DB) *ConsultationService {
	return &ConsultationService{
		DB:              db,
		MaxSummaryRunes: 4000,
	}
}

// Submit validates the complaint text, derives the priority bucket, and
// atomically creates the consultation, its queue entry, and the CREATE audit
// entry. The consultation starts PENDING at version 1.
func (s *ConsultationService) Submit(ctx context.Context, patientID, summary string, urgent bool) (*domain.Consultation, error) {
	tr := otel.Tracer("services/ConsultationService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("patient.id", patientID)),
	)
	defer span.End()

	summary = normalizeBody(summary)
	if summary == "" {
		return nil, ErrEmptySummary
	}
	if s.MaxSummaryRunes > 0 && utf8.RuneCountInString(summary) > s.MaxSummaryRunes {
		return nil, ErrSummaryTooLong
	}

	bucket := domain.BucketRoutine
	if urgent || s.matchesUrgentKeyword(summary) {
		bucket = domain.BucketUrgent
	}

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	var created *domain.Consultation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.CreateConsultation(ctx, tx, patientID, summary, bucket)
		if err != nil {
			return err
		}
		if err := repo.EnqueueConsultation(ctx, tx, c.ID, c.PriorityBucket, c.CreatedAt); err != nil {
			return err
		}
		if _, err := repo.AppendAudit(ctx, tx, domain.AuditEntry{
			ActorID:     patientID,
			ActorRole:   domain.RolePatient,
			Action:      domain.AuditCreate,
			SubjectType: domain.SubjectConsultation,
			SubjectID:   c.ID,
			Outcome:     domain.OutcomeSuccess,
		}); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	refreshQueueGauge(ctx, s.DB)
	return created, nil
}

// Get fetches one consultation for an actor bound to it (its patient, its
// provider, or a system/compliance actor). The access is recorded as a VIEW
// audit entry; if the ledger is unavailable the read fails too.
func (s *ConsultationService) Get(ctx context.Context, id string, actor domain.Actor) (*domain.Consultation, error) {
	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	c, err := repo.GetConsultation(ctx, s.DB, id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}
	if !canReadConsultation(c, actor) {
		auditDenied(ctx, s.DB, actor, domain.AuditView, domain.SubjectConsultation, id, "actor not bound to consultation")
		return nil, ErrForbidden
	}
	if _, err := repo.AppendAudit(ctx, s.DB, domain.AuditEntry{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      domain.AuditView,
		SubjectType: domain.SubjectConsultation,
		SubjectID:   id,
		Outcome:     domain.OutcomeSuccess,
	}); err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

// ListPage returns a page of the actor's own consultations: submissions for
// a patient, claimed cases for a provider. Per-consultation VIEW entries are
// recorded on detail fetches, not on owner listings.
func (s *ConsultationService) ListPage(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Consultation, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	var (
		total int64
		items []domain.Consultation
		err   error
	)
	switch actor.Role {
	case domain.RolePatient:
		if total, err = repo.CountConsultationsByPatient(ctx, s.DB, actor.ID); err == nil && total > 0 {
			items, err = repo.ListConsultationsByPatientPage(ctx, s.DB, actor.ID, offset, pageSize)
		}
	case domain.RoleProvider:
		if total, err = repo.CountConsultationsByProvider(ctx, s.DB, actor.ID); err == nil && total > 0 {
			items, err = repo.ListConsultationsByProviderPage(ctx, s.DB, actor.ID, offset, pageSize)
		}
	default:
		return nil, 0, ErrForbidden
	}
	if err != nil {
		return nil, 0, storeErr(err)
	}
	if items == nil {
		items = []domain.Consultation{}
	}
	return items, total, nil
}

// Transition moves a consultation to target under optimistic concurrency.
// expectedVersion must match the stored version or the call fails with
// ErrVersionConflict; unreachable targets fail with ErrInvalidTransition.
// On success the version increments and the state change, queue side effect,
// audit entry, and optional resolution note commit together.
//
// A non-empty note on a RESOLVED transition is stored as a final system
// message in the thread before it seals.
func (s *ConsultationService) Transition(ctx context.Context, id string, expectedVersion int64, target domain.Status, actor domain.Actor, note string) (*domain.Consultation, error) {
	tr := otel.Tracer("services/ConsultationService")
	ctx, span := tr.Start(ctx, "Transition",
		trace.WithAttributes(
			attribute.String("consultation.id", id),
			attribute.String("actor.id", actor.ID),
			attribute.String("target", string(target)),
		),
	)
	defer span.End()

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	cur, err := repo.GetConsultation(ctx, s.DB, id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}

	action := transitionAction(target)

	if !cur.Status.CanTransitionTo(target) {
		auditDenied(ctx, s.DB, actor, action, domain.SubjectConsultation, id,
			"transition "+string(cur.Status)+" -> "+string(target)+" not permitted")
		return nil, ErrInvalidTransition
	}
	if !canTransition(cur, target, actor) {
		auditDenied(ctx, s.DB, actor, action, domain.SubjectConsultation, id, "actor not permitted for transition")
		return nil, ErrForbidden
	}
	if cur.Version != expectedVersion {
		auditDenied(ctx, s.DB, actor, action, domain.SubjectConsultation, id, "version conflict")
		return nil, ErrVersionConflict
	}

	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var won bool
		var err error
		if target == domain.StatusClaimed {
			won, err = repo.ClaimConsultation(ctx, tx, id, actor.ID, expectedVersion, now)
		} else {
			won, err = repo.TransitionConsultation(ctx, tx, id, cur.Status, target, expectedVersion, now)
		}
		if err != nil {
			return err
		}
		if !won {
			return ErrVersionConflict
		}

		// Leaving PENDING removes the queue entry in the same transaction.
		if cur.Status == domain.StatusPending {
			if err := repo.RemoveQueueEntry(ctx, tx, id); err != nil {
				return err
			}
		}

		if target == domain.StatusResolved && note != "" {
			// The row is already RESOLVED inside this transaction, so the
			// closing note takes the unguarded sequence path.
			seq, err := repo.NextSequenceAny(ctx, tx, id)
			if err != nil {
				return err
			}
			if _, err := repo.CreateMessage(tx, id, seq, domain.RoleSystem, actor.ID, note); err != nil {
				return err
			}
		}

		_, err = repo.AppendAudit(ctx, tx, domain.AuditEntry{
			ActorID:     actor.ID,
			ActorRole:   actor.Role,
			Action:      action,
			SubjectType: domain.SubjectConsultation,
			SubjectID:   id,
			Outcome:     domain.OutcomeSuccess,
		})
		return err
	})
	if err != nil {
		if err == ErrVersionConflict {
			// Lost the swap after the pre-check: another actor got there first.
			auditDenied(ctx, s.DB, actor, action, domain.SubjectConsultation, id, "version conflict")
			return nil, ErrVersionConflict
		}
		return nil, storeErr(err)
	}

	if cur.Status == domain.StatusPending {
		refreshQueueGauge(ctx, s.DB)
	}
	return repo.GetConsultation(ctx, s.DB, id)
}

// Cancel withdraws a consultation from PENDING or CLAIMED. It is a
// convenience wrapper around Transition using the currently stored version.
func (s *ConsultationService) Cancel(ctx context.Context, id string, actor domain.Actor) (*domain.Consultation, error) {
	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	cur, err := repo.GetConsultation(ctx, s.DB, id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}
	return s.Transition(ctx, id, cur.Version, domain.StatusCancelled, actor, "")
}

// matchesUrgentKeyword reports whether the summary contains any configured
// urgency keyword.
func (s *ConsultationService) matchesUrgentKeyword(summary string) bool {
	if len(s.UrgentKeywords) == 0 {
		return false
	}
	low := strings.ToLower(summary)
	for _, kw := range s.UrgentKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

// transitionAction maps a target state onto its audit action.
func transitionAction(target domain.Status) domain.AuditAction {
	switch target {
	case domain.StatusClaimed:
		return domain.AuditClaim
	case domain.StatusResolved:
		return domain.AuditResolve
	default:
		return domain.AuditUpdate
	}
}

// canReadConsultation reports whether the actor may view the consultation.
func canReadConsultation(c *domain.Consultation, actor domain.Actor) bool {
	switch actor.Role {
	case domain.RoleSystem, domain.RoleCompliance:
		return true
	case domain.RolePatient:
		return c.PatientID == actor.ID
	case domain.RoleProvider:
		return c.ProviderID != nil && *c.ProviderID == actor.ID
	}
	return false
}

// canTransition reports whether the actor may drive the given transition.
// Claims need a provider (any, while PENDING); resolution needs the bound
// provider; cancellation needs the owning patient or the bound provider.
// System actors may drive any legal transition.
func canTransition(c *domain.Consultation, target domain.Status, actor domain.Actor) bool {
	if actor.Role == domain.RoleSystem {
		return true
	}
	switch target {
	case domain.StatusClaimed:
		return actor.Role == domain.RoleProvider
	case domain.StatusResolved:
		return actor.Role == domain.RoleProvider && c.ProviderID != nil && *c.ProviderID == actor.ID
	case domain.StatusCancelled:
		if actor.Role == domain.RolePatient {
			return c.PatientID == actor.ID
		}
		if actor.Role == domain.RoleProvider {
			return c.ProviderID != nil && *c.ProviderID == actor.ID
		}
	}
	return false
}
