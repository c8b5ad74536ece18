// Provider queue HTTP handlers.
//
// This file exposes REST endpoints for the pending-consultation queue:
//   - GET  /queue                        (peek at claimable cases in claim order)
//   - POST /consultations/{id}/claim     (claim a pending case)
//
// Claim order is urgent-before-routine, oldest-first within a bucket. Peeking
// never reserves anything; two providers may see the same case and race to
// claim it, and exactly one wins.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/services"
)

// QueueResponse contains a page of queue entries in claim order plus
// pagination metadata.
type QueueResponse struct {
	Entries    []domain.QueueEntry `json:"entries"`
	Pagination Pagination          `json:"pagination"`
}

// ClaimResponse is the JSON envelope for a successful (or idempotently
// replayed) claim.
type ClaimResponse struct {
	Consultation *domain.Consultation `json:"consultation"`
}

// PeekQueue godoc
// @ID          peekQueue
// @Summary     Peek at the provider queue
// @Description Returns pending consultations in claim order: urgent before
// @Description routine, oldest submission first within a bucket. Peeking does
// @Description not reserve anything.
// @Tags        Queue
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       page          query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size     query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.QueueResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse  "Role cannot view queue"
// @Router      /queue [get]
func (h *Handlers) PeekQueue(c *gin.Context) {
	ctx := c.Request.Context()

	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}
	page, pageSize := clampPagination(c)

	entries, total, err := h.queueSvc.Peek(ctx, actor, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "role cannot view the queue")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, QueueResponse{
		Entries:    entries,
		Pagination: newPagination(page, pageSize, total),
	})
}

// ClaimConsultation godoc
// @ID          claimConsultation
// @Summary     Claim a pending consultation
// @Description Atomically assigns the consultation to the calling provider and
// @Description removes it from the queue. At most one provider wins a race;
// @Description losers receive already_claimed. Re-claiming a case the caller
// @Description already holds replays the success.
// @Tags        Queue
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       id            path    string  true  "Consultation ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.ClaimResponse  "Claimed consultation"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller is not a provider"
// @Failure     404  {object}  handlers.ErrorResponse  "Consultation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already claimed by another provider"
// @Router      /consultations/{id}/claim [post]
func (h *Handlers) ClaimConsultation(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "consultation id must be a UUID")
		return
	}
	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}
	if actor.Role != domain.RoleProvider {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only providers claim consultations")
		return
	}

	claimed, err := h.queueSvc.Claim(ctx, id, actor.ID)
	if err != nil {
		failConsultationErr(c, err)
		return
	}
	ok(c, http.StatusOK, ClaimResponse{Consultation: claimed})
}
