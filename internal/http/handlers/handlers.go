// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the service contracts consumed by the handlers, the
// Handlers aggregate, and the actor-identity helpers. Handlers are
// transport-thin: they validate input, call application services, and
// translate results into HTTP responses. Authentication happens upstream;
// the verified (actorId, role) pair arrives via middleware and is trusted
// here without re-verification.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
)

//
// Service contracts (context-aware)
//

// ConsultationService defines consultation lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConsultationService interface {
	// Submit creates a PENDING consultation and its queue entry.
	Submit(ctx context.Context, patientID, summary string, urgent bool) (*domain.Consultation, error)
	// Get fetches one consultation visible to the actor.
	Get(ctx context.Context, id string, actor domain.Actor) (*domain.Consultation, error)
	// ListPage returns a page of the actor's own consultations and the total count.
	ListPage(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Consultation, int64, error)
	// Transition moves a consultation to a target state under optimistic concurrency.
	Transition(ctx context.Context, id string, expectedVersion int64, target domain.Status, actor domain.Actor, note string) (*domain.Consultation, error)
	// Cancel withdraws a consultation from PENDING or CLAIMED.
	Cancel(ctx context.Context, id string, actor domain.Actor) (*domain.Consultation, error)
}

// QueueService defines the provider-queue operations consumed by HTTP handlers.
type QueueService interface {
	// Peek returns a page of the pending queue in claim order.
	Peek(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.QueueEntry, int64, error)
	// Claim attempts to take ownership of a pending consultation.
	Claim(ctx context.Context, consultationID, providerID string) (*domain.Consultation, error)
}

// MessageService defines thread operations consumed by HTTP handlers.
type MessageService interface {
	// Send appends a message to an open consultation thread.
	Send(ctx context.Context, consultationID string, actor domain.Actor, body string) (*domain.Message, error)
	// History returns messages with seq > sinceSeq in ascending order.
	History(ctx context.Context, consultationID string, actor domain.Actor, sinceSeq int64, limit int) ([]domain.Message, error)
}

// AuditService defines the compliance-facing ledger query consumed by HTTP handlers.
type AuditService interface {
	// Query returns a page of audit entries matching the filter.
	Query(ctx context.Context, actor domain.Actor, f repo.AuditFilter, page, pageSize int) ([]domain.AuditEntry, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for consultations, the provider queue,
// messages, and the audit ledger. It depends on abstract service interfaces
// to keep transport concerns separate from business logic.
type Handlers struct {
	consultSvc ConsultationService
	queueSvc   QueueService
	msgSvc     MessageService
	auditSvc   AuditService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(consultSvc ConsultationService, queueSvc QueueService, msgSvc MessageService, auditSvc AuditService) *Handlers {
	return &Handlers{consultSvc: consultSvc, queueSvc: queueSvc, msgSvc: msgSvc, auditSvc: auditSvc}
}

// actorFrom extracts the verified actor identity from the Gin context (set
// by upstream middleware), falling back to the X-Actor-ID / X-Actor-Role
// headers when the identity middleware is not installed. The second return
// value is false when no usable identity is present, in which case the
// handler should respond 401.
func actorFrom(c *gin.Context) (domain.Actor, bool) {
	var a domain.Actor
	if v, ok := c.Get("actorID"); ok {
		if s, ok := v.(string); ok {
			a.ID = s
		}
	}
	if v, ok := c.Get("actorRole"); ok {
		if s, ok := v.(string); ok {
			a.Role = domain.Role(s)
		}
	}
	if a.ID == "" && c != nil && c.Request != nil {
		a.ID = strings.TrimSpace(c.GetHeader("X-Actor-ID"))
		a.Role = domain.Role(strings.ToLower(strings.TrimSpace(c.GetHeader("X-Actor-Role"))))
	}
	if a.ID == "" || !a.Role.Valid() {
		return domain.Actor{}, false
	}
	return a, true
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination computes pagination metadata for a page of results.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
