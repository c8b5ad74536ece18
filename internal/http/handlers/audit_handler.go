// Audit ledger HTTP handlers.
//
// This file exposes the compliance-facing read endpoint:
//   - GET /audit   (filtered, paginated ledger query)
//
// Only compliance and system actors may query the ledger. Filters arrive as
// query parameters; time bounds use RFC 3339. Entries are returned in
// recorded order so an export reads as a chronology.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
	"github.com/tbourn/go-consult-backend/internal/services"
)

// AuditResponse contains a page of ledger entries and pagination metadata.
type AuditResponse struct {
	Entries    []domain.AuditEntry `json:"entries"`
	Pagination Pagination          `json:"pagination"`
}

// QueryAudit godoc
// @ID          queryAudit
// @Summary     Query the audit ledger
// @Description Returns audit entries matching the given filters, ordered by
// @Description recording time. Restricted to compliance and system actors.
// @Tags        Audit
// @Produce     json
//
// @Param       X-Actor-ID    header  string  true   "Verified actor id"
// @Param       X-Actor-Role  header  string  true   "Verified actor role"  example(compliance)
// @Param       actor_id      query   string  false  "Filter by acting actor id"
// @Param       action        query   string  false  "Filter by action"  Enums(VIEW, CREATE, UPDATE, CLAIM, MESSAGE, RESOLVE)
// @Param       subject_type  query   string  false  "Filter by subject type"  Enums(consultation, message_thread)
// @Param       subject_id    query   string  false  "Filter by subject id"
// @Param       outcome       query   string  false  "Filter by outcome"  Enums(success, denied)
// @Param       from          query   string  false  "Lower time bound (inclusive, RFC 3339)"  format(date-time)
// @Param       to            query   string  false  "Upper time bound (exclusive, RFC 3339)"  format(date-time)
// @Param       page          query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size     query   int     false  "Items per page"  minimum(1) maximum(100) default(50)
//
// @Success     200  {object}  handlers.AuditResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad filter value"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse  "Role cannot query the ledger"
// @Router      /audit [get]
func (h *Handlers) QueryAudit(c *gin.Context) {
	ctx := c.Request.Context()

	actor, okActor := actorFrom(c)
	if !okActor {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "verified identity required")
		return
	}

	f := repo.AuditFilter{
		ActorID:     c.Query("actor_id"),
		Action:      domain.AuditAction(c.Query("action")),
		SubjectType: c.Query("subject_type"),
		SubjectID:   c.Query("subject_id"),
		Outcome:     domain.AuditOutcome(c.Query("outcome")),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be RFC 3339")
			return
		}
		f.From = t.UTC()
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to must be RFC 3339")
			return
		}
		f.To = t.UTC()
	}

	page, pageSize := clampPagination(c)

	entries, total, err := h.auditSvc.Query(ctx, actor, f, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "role cannot query the audit ledger")
		case services.ErrUnavailable:
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable, retry later")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, AuditResponse{
		Entries:    entries,
		Pagination: newPagination(page, pageSize, total),
	})
}
