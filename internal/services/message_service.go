// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the ordered message thread attached to each consultation. It enforces
// thread access (patient, bound provider, and system actors only), rejects
// sends into sealed threads, assigns gap-free per-consultation sequence
// numbers, and persists the message together with its MESSAGE audit entry in
// one transaction.
//
// Ordering: the sequence counter lives on the consultation row and is
// incremented inside the send transaction, so concurrent sends to one
// consultation serialize on that row while sends to different consultations
// proceed fully in parallel. Any two readers of a thread observe the same
// gap-free order, which is what makes resuming from a sequence number safe.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// consultation and actor identifiers. Message bodies never appear in spans
// or logs.
package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"
)

// MessageService coordinates thread access checks, sequence assignment, and
// message persistence.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxBodyRunes caps message bodies by rune length.
	MaxBodyRunes int

	// StoreTimeout bounds every storage call. Zero means the package default.
	StoreTimeout time.Duration
}

// NewMessageService constructs a MessageService with sane defaults.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		DB:           db,
		MaxBodyRunes: 8000,
	}
}

// Send validates and normalizes the body, verifies the actor is bound to an
// open thread, assigns the next sequence number, and persists the message
// with its audit entry atomically.
func (s *MessageService) Send(ctx context.Context, consultationID string, actor domain.Actor, body string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("consultation.id", consultationID),
			attribute.String("actor.id", actor.ID),
		),
	)
	defer span.End()

	body = normalizeBody(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return nil, ErrMessageTooLong
	}

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	c, err := repo.GetConsultation(ctx, s.DB, consultationID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}
	if c.Status.Terminal() {
		auditDenied(ctx, s.DB, actor, domain.AuditMessage, domain.SubjectThread, consultationID, "thread closed")
		return nil, ErrThreadClosed
	}
	if !canPostToThread(c, actor) {
		auditDenied(ctx, s.DB, actor, domain.AuditMessage, domain.SubjectThread, consultationID, "actor not bound to thread")
		return nil, ErrForbidden
	}

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := repo.NextSequence(ctx, tx, consultationID)
		if err != nil {
			return err
		}
		m, err := repo.CreateMessage(tx, consultationID, seq, actor.Role, actor.ID, body)
		if err != nil {
			return err
		}
		msg = m
		_, err = repo.AppendAudit(ctx, tx, domain.AuditEntry{
			ActorID:     actor.ID,
			ActorRole:   actor.Role,
			Action:      domain.AuditMessage,
			SubjectType: domain.SubjectThread,
			SubjectID:   consultationID,
			Outcome:     domain.OutcomeSuccess,
		})
		return err
	})
	if err != nil {
		if err == repo.ErrThreadSealed {
			// A terminal transition landed between the pre-check and the
			// sequence update; the transaction rolled back with nothing
			// written, so the denial is recorded here.
			auditDenied(ctx, s.DB, actor, domain.AuditMessage, domain.SubjectThread, consultationID, "thread closed")
			return nil, ErrThreadClosed
		}
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}
	return msg, nil
}

// History returns messages with sequence numbers greater than sinceSeq in
// ascending order, letting clients resume a thread after a disconnect
// without re-processing or missing messages. The read is recorded as a VIEW
// audit entry; if the ledger is unavailable the read fails too.
func (s *MessageService) History(ctx context.Context, consultationID string, actor domain.Actor, sinceSeq int64, limit int) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("consultation.id", consultationID),
			attribute.String("actor.id", actor.ID),
			attribute.Int64("since_seq", sinceSeq),
		),
	)
	defer span.End()

	ctx, cancel := opCtx(ctx, s.StoreTimeout)
	defer cancel()

	c, err := repo.GetConsultation(ctx, s.DB, consultationID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrConsultationNotFound
		}
		return nil, storeErr(err)
	}
	if !canReadThread(c, actor) {
		auditDenied(ctx, s.DB, actor, domain.AuditView, domain.SubjectThread, consultationID, "actor not bound to thread")
		return nil, ErrForbidden
	}

	items, err := repo.ListMessagesSince(ctx, s.DB, consultationID, sinceSeq, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	if _, err := repo.AppendAudit(ctx, s.DB, domain.AuditEntry{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      domain.AuditView,
		SubjectType: domain.SubjectThread,
		SubjectID:   consultationID,
		Outcome:     domain.OutcomeSuccess,
	}); err != nil {
		return nil, storeErr(err)
	}
	if items == nil {
		items = []domain.Message{}
	}
	return items, nil
}

// canPostToThread reports whether the actor may write into the thread:
// the owning patient, the bound provider, or a system actor.
func canPostToThread(c *domain.Consultation, actor domain.Actor) bool {
	switch actor.Role {
	case domain.RoleSystem:
		return true
	case domain.RolePatient:
		return c.PatientID == actor.ID
	case domain.RoleProvider:
		return c.ProviderID != nil && *c.ProviderID == actor.ID
	}
	return false
}

// canReadThread mirrors canPostToThread; terminal threads stay readable by
// the same parties even though they reject writes.
func canReadThread(c *domain.Consultation, actor domain.Actor) bool {
	return canPostToThread(c, actor)
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// normalizeBody prepares clinical text for persistence: NFC normalization
// (clients disagree on composed vs. decomposed forms), LF line endings,
// collapsed blank runs, and trimmed surrounding whitespace.
func normalizeBody(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
