// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements ActorIdentity, the middleware that turns the verified
// identity headers into context values consumed by handlers, the rate
// limiter, and the access log. Authentication itself happens upstream (an
// API gateway terminates the session and injects X-Actor-ID / X-Actor-Role);
// this middleware only parses and normalizes what the gateway already
// verified.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

const (
	// HeaderActorID carries the verified actor identifier.
	HeaderActorID = "X-Actor-ID"
	// HeaderActorRole carries the verified actor role (patient, provider,
	// system, compliance).
	HeaderActorRole = "X-Actor-Role"

	// ctxKeyActorID and ctxKeyActorRole are the Gin context keys under which
	// the parsed identity is stored.
	ctxKeyActorID   = "actorID"
	ctxKeyActorRole = "actorRole"
)

// ActorIdentity parses the identity headers into the Gin context.
//
// Behavior:
//   - Both headers present and the role valid: stores "actorID" and
//     "actorRole" in the context and proceeds.
//   - Headers absent: proceeds without identity; handlers that require one
//     respond 401 themselves, so public routes (health, docs) stay open.
//   - Role present but unrecognized: proceeds without identity rather than
//     failing the request here, for the same reason.
//
// The role comparison is case-insensitive; the stored value is lowercase.
func ActorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderActorID))
		role := domain.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderActorRole))))
		if id != "" && role.Valid() {
			c.Set(ctxKeyActorID, id)
			c.Set(ctxKeyActorRole, string(role))
		}
		c.Next()
	}
}

// ActorFrom returns the parsed identity stored by ActorIdentity. The second
// return value is false when the request carried no usable identity.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	var a domain.Actor
	if v, ok := c.Get(ctxKeyActorID); ok {
		if s, ok := v.(string); ok {
			a.ID = s
		}
	}
	if v, ok := c.Get(ctxKeyActorRole); ok {
		if s, ok := v.(string); ok {
			a.Role = domain.Role(s)
		}
	}
	if a.ID == "" || !a.Role.Valid() {
		return domain.Actor{}, false
	}
	return a, true
}
