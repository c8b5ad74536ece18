// Message HTTP handlers.
//
// This file exposes REST endpoints for consultation threads:
//   - POST /consultations/{id}/messages   (append a message to the thread)
//   - GET  /consultations/{id}/messages   (read the thread, resumable by sequence)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to application services (MessageService)
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (actor, consultation, key), the handler returns that
// recorded message and sets `Idempotency-Replayed: true`. A dropped response
// to a retried send therefore never duplicates a message in the thread.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
	"github.com/tbourn/go-consult-backend/internal/services"
	"github.com/tbourn/go-consult-backend/internal/utils"
)

//
// DTOs
//

// SendMessageRequest is the JSON payload for appending a thread message.
//
// Body is normalized by the service layer (Unicode NFC, line endings, blank
// runs) before persistence. The service also enforces a maximum rune count,
// which can be configured in MessageService.
type SendMessageRequest struct {
	// Body is the message text. It must be non-empty after normalization.
	Body string `json:"body" binding:"required,min=1" example:"Has the fever responded to paracetamol?"`
}

// SendMessageResponse is the JSON envelope for a newly appended message.
type SendMessageResponse struct {
	// Message is the persisted message, including its assigned sequence number.
	Message *domain.Message `json:"message"`
}

// ThreadResponse contains a slice of thread messages in sequence order.
//
// NextSince is the highest sequence number in the slice (or the request's
// since value when empty); passing it back as ?since= resumes the thread
// without gaps or duplicates.
type ThreadResponse struct {
	Messages  []domain.Message `json:"messages"`
	NextSince int64            `json:"next_since"`
}

//
// Helpers
//

// discoverMaxBodyRunes inspects the concrete MessageService for a configured
// body-length limit. If unavailable, it returns a conservative fallback.
func discoverMaxBodyRunes(msgSvc MessageService) int {
	const fallback = 8000
	if ms, ok := msgSvc.(*services.MessageService); ok {
		if ms.MaxBodyRunes > 0 {
			return ms.MaxBodyRunes
		}
	}
	return fallback
}

//
// Handlers
//

// SendMessage godoc
// @ID          sendMessage
// @Summary     Append a message to a consultation thread
// @Description Appends a message to the consultation's ordered thread. The
// @Description thread must be open (consultation not RESOLVED/CANCELLED) and
// @Description the caller must be its patient, its provider, or a system actor.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-Actor-ID       header  string  true  "Verified actor id"    example(provider-17)
// @Param       X-Actor-Role     header  string  true  "Verified actor role"  example(provider)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Consultation ID (UUID)"  format(uuid)
// @Param       body             body    handlers.SendMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.SendMessageResponse  "Appended message"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse        "Not bound to thread"
// @Failure     404  {object}  handlers.ErrorResponse        "Consultation not found"
// @Failure     409  {object}  handlers.ErrorResponse        "Thread closed"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /consultations/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	consultationID := c.Param("id")

	if _, err := uuid.Parse(consultationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "consultation id must be a UUID")
		return
	}
	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "body required")
		return
	}

	// Early size cap to fail fast at the edge (service has a second guard
	// after normalization).
	maxRunes := discoverMaxBodyRunes(h.msgSvc)
	if maxRunes > 0 && utf8.RuneCountInString(req.Body) > maxRunes {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, fmt.Sprintf("body too long: max %d runes", maxRunes))
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKeyFrom(c)
	if idemKey != "" {
		if svc, okSvc := h.msgSvc.(*services.MessageService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, actor.ID, consultationID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(svc.DB, rec.MessageID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, SendMessageResponse{Message: prev})
					return
				}
			}
		}
	}

	m, err := h.msgSvc.Send(ctx, consultationID, actor, req.Body)
	if err != nil {
		switch err {
		case services.ErrConsultationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "consultation not found")
		case services.ErrEmptyMessage:
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "body required")
		case services.ErrMessageTooLong:
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, fmt.Sprintf("body too long: max %d runes", maxRunes))
		case services.ErrThreadClosed:
			fail(c, http.StatusConflict, ErrCodeThreadClosed, "thread is closed")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "actor not bound to thread")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSendFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.msgSvc.(*services.MessageService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, actor.ID, consultationID, idemKey, m.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, SendMessageResponse{Message: m})
}

// GetThread godoc
// @ID          getThread
// @Summary     Read a consultation thread
// @Description Returns messages with sequence numbers greater than `since`, in
// @Description ascending order. Clients resume after a disconnect by passing
// @Description the `next_since` value from their previous response. Terminal
// @Description consultations stay readable. The read is audited.
// @Tags        Messages
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       id            path    string  true  "Consultation ID (UUID)"  format(uuid)
// @Param       since         query   int     false "Return messages with seq > since"  minimum(0) default(0)
// @Param       limit         query   int     false "Maximum messages to return"        minimum(1) maximum(500) default(100)
//
// @Success     200  {object}  handlers.ThreadResponse
// @Success     304  "Not modified (If-None-Match matched)"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not bound to thread"
// @Failure     404  {object}  handlers.ErrorResponse  "Consultation not found"
// @Router      /consultations/{id}/messages [get]
func (h *Handlers) GetThread(c *gin.Context) {
	ctx := c.Request.Context()
	consultationID := c.Param("id")

	if _, err := uuid.Parse(consultationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "consultation id must be a UUID")
		return
	}
	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}

	sinceSeq := int64(utils.AtoiDefault(c.Query("since"), 0))
	if sinceSeq < 0 {
		sinceSeq = 0
	}
	limit := utils.AtoiDefault(c.Query("limit"), 100)
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}

	// The access check and VIEW audit live in History, so it runs before any
	// conditional-read handling. The thread's ETag encodes its message count
	// and last activity; handing that to an unbound actor would leak thread
	// metadata, and answering 304 up front would skip the audit entry.
	items, err := h.msgSvc.History(ctx, consultationID, actor, sinceSeq, limit)
	if err != nil {
		switch err {
		case services.ErrConsultationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "consultation not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "actor not bound to thread")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	// ETag (best effort). The tag folds in the message count and the newest
	// timestamp, so it changes exactly when the thread does. A matching
	// If-None-Match short-circuits the body only; the audited read above has
	// already happened.
	var db *gorm.DB
	if svc, okSvc := h.msgSvc.(*services.MessageService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, statsErr := repo.MessagesStats(ctx, db, consultationID)
		if statsErr == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"thread:%s:%d:%d"`, consultationID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	nextSince := sinceSeq
	if n := len(items); n > 0 {
		nextSince = items[n-1].Seq
	}
	ok(c, http.StatusOK, ThreadResponse{Messages: items, NextSince: nextSince})
}

// idempotencyKeyFrom extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback behavior reads the
// "Idempotency-Key" header directly when no dedicated middleware exists.
func idempotencyKeyFrom(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
