// Consultation HTTP handlers.
//
// This file exposes REST endpoints for consultation resources:
//   - POST /consultations                    (submit a new case)
//   - GET  /consultations                    (list own cases, paginated)
//   - GET  /consultations/{id}               (fetch one case)
//   - POST /consultations/{id}/transition    (drive the state machine)
//   - POST /consultations/{id}/cancel        (withdraw a case)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate typed service errors into HTTP responses. Every
// conflict keeps its own code (invalid_transition vs version_conflict vs
// already_claimed) so clients can decide whether a retry makes sense.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/services"
	"github.com/tbourn/go-consult-backend/internal/utils"
)

//
// DTOs
//

// SubmitConsultationRequest is the JSON payload for submitting a case.
type SubmitConsultationRequest struct {
	// Summary is the patient's complaint text. It must be non-empty.
	Summary string `json:"summary" binding:"required,min=1" example:"Persistent cough and low-grade fever for five days"`
	// Urgent flags the case for the urgent priority bucket.
	Urgent bool `json:"urgent" example:"false"`
}

// TransitionConsultationRequest is the JSON payload for a state transition.
type TransitionConsultationRequest struct {
	// Target is the requested state: CLAIMED, RESOLVED, or CANCELLED.
	Target string `json:"target" binding:"required" example:"RESOLVED"`
	// ExpectedVersion is the version the caller last read; the transition
	// fails with version_conflict if the stored version moved on.
	ExpectedVersion int64 `json:"expected_version" binding:"required,min=1" example:"2"`
	// Note optionally closes a RESOLVED case with a final system message.
	Note string `json:"note,omitempty" example:"Advised rest and fluids; follow up if fever persists."`
}

// ConsultationResponse is the JSON envelope for a single consultation.
type ConsultationResponse struct {
	Consultation *domain.Consultation `json:"consultation"`
}

// ListConsultationsResponse contains a page of consultations and pagination metadata.
type ListConsultationsResponse struct {
	Consultations []domain.Consultation `json:"consultations"`
	Pagination    Pagination            `json:"pagination"`
}

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// SubmitConsultation godoc
// @ID          submitConsultation
// @Summary     Submit a consultation
// @Description Creates a new PENDING consultation for the calling patient and
// @Description places it in the provider queue. Priority is derived from the
// @Description urgent flag and configured keywords, never set directly.
// @Tags        Consultations
// @Accept      json
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"    example(patient-9d2f)
// @Param       X-Actor-Role  header  string  true  "Verified actor role"  example(patient)
// @Param       body          body    handlers.SubmitConsultationRequest  true  "Case submission payload"
//
// @Success     201  {object}  handlers.ConsultationResponse  "Created consultation"
// @Failure     401  {object}  handlers.ErrorResponse         "Missing identity"
// @Failure     422  {object}  handlers.ErrorResponse         "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse         "Internal error"
// @Router      /consultations [post]
func (h *Handlers) SubmitConsultation(c *gin.Context) {
	ctx := c.Request.Context()

	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}
	if actor.Role != domain.RolePatient && actor.Role != domain.RoleSystem {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only patients submit consultations")
		return
	}

	var req SubmitConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "summary required")
		return
	}

	created, err := h.consultSvc.Submit(ctx, actor.ID, req.Summary, req.Urgent)
	if err != nil {
		switch err {
		case services.ErrEmptySummary:
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "summary required")
		case services.ErrSummaryTooLong:
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "summary too long")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, ConsultationResponse{Consultation: created})
}

// GetConsultation godoc
// @ID          getConsultation
// @Summary     Fetch one consultation
// @Description Returns a single consultation. The caller must be its patient,
// @Description its provider, or a system/compliance actor; the access is audited.
// @Tags        Consultations
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       id            path    string  true  "Consultation ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.ConsultationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not bound to consultation"
// @Failure     404  {object}  handlers.ErrorResponse  "Consultation not found"
// @Router      /consultations/{id} [get]
func (h *Handlers) GetConsultation(c *gin.Context) {
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

	got, err := h.consultSvc.Get(ctx, id, actor)
	if err != nil {
		failConsultationErr(c, err)
		return
	}
	ok(c, http.StatusOK, ConsultationResponse{Consultation: got})
}

// ListConsultations godoc
// @ID          listConsultations
// @Summary     List own consultations
// @Description Returns a paginated list of the caller's consultations:
// @Description submissions for patients, claimed cases for providers.
// @Tags        Consultations
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       page          query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size     query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListConsultationsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse  "Role cannot list"
// @Router      /consultations [get]
func (h *Handlers) ListConsultations(c *gin.Context) {
	ctx := c.Request.Context()

	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.consultSvc.ListPage(ctx, actor, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "role cannot list consultations")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, ListConsultationsResponse{
		Consultations: items,
		Pagination:    newPagination(page, pageSize, total),
	})
}

// TransitionConsultation godoc
// @ID          transitionConsultation
// @Summary     Transition a consultation
// @Description Moves the consultation to the target state under optimistic
// @Description concurrency. The caller supplies the version it last read; a
// @Description stale version yields version_conflict, an unreachable target
// @Description yields invalid_transition, and neither changes any state.
// @Tags        Consultations
// @Accept      json
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       id            path    string  true  "Consultation ID (UUID)"  format(uuid)
// @Param       body          body    handlers.TransitionConsultationRequest  true  "Transition payload"
//
// @Success     200  {object}  handlers.ConsultationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Actor not permitted"
// @Failure     404  {object}  handlers.ErrorResponse  "Consultation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "invalid_transition or version_conflict"
// @Router      /consultations/{id}/transition [post]
func (h *Handlers) TransitionConsultation(c *gin.Context) {
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

	var req TransitionConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "target and expected_version required")
		return
	}
	target := domain.Status(req.Target)
	switch target {
	case domain.StatusClaimed, domain.StatusResolved, domain.StatusCancelled:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "target must be CLAIMED, RESOLVED, or CANCELLED")
		return
	}

	updated, err := h.consultSvc.Transition(ctx, id, req.ExpectedVersion, target, actor, req.Note)
	if err != nil {
		failConsultationErr(c, err)
		return
	}
	ok(c, http.StatusOK, ConsultationResponse{Consultation: updated})
}

// CancelConsultation godoc
// @ID          cancelConsultation
// @Summary     Cancel a consultation
// @Description Withdraws the consultation from PENDING or CLAIMED. Convenience
// @Description wrapper over transition that uses the currently stored version.
// @Tags        Consultations
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true  "Verified actor id"
// @Param       X-Actor-Role  header  string  true  "Verified actor role"
// @Param       id            path    string  true  "Consultation ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.ConsultationResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Actor not permitted"
// @Failure     404  {object}  handlers.ErrorResponse  "Consultation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already terminal"
// @Router      /consultations/{id}/cancel [post]
func (h *Handlers) CancelConsultation(c *gin.Context) {
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

	updated, err := h.consultSvc.Cancel(ctx, id, actor)
	if err != nil {
		failConsultationErr(c, err)
		return
	}
	ok(c, http.StatusOK, ConsultationResponse{Consultation: updated})
}

// failConsultationErr maps consultation service errors onto HTTP responses.
// Shared by the consultation and queue handlers so every endpoint reports a
// given conflict the same way.
func failConsultationErr(c *gin.Context, err error) {
	switch err {
	case services.ErrConsultationNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "consultation not found")
	case services.ErrForbidden:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "actor not permitted")
	case services.ErrInvalidTransition:
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, "transition not permitted from current state")
	case services.ErrVersionConflict:
		fail(c, http.StatusConflict, ErrCodeVersionConflict, "stored version changed, re-fetch and retry")
	case services.ErrAlreadyClaimed:
		fail(c, http.StatusConflict, ErrCodeAlreadyClaimed, "consultation already claimed")
	case services.ErrUnavailable:
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
