// Package services defines the business logic for consultations, the
// provider queue, messaging, and the audit ledger. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
//
// Retry semantics (for callers):
//   - ErrEmptySummary / ErrSummaryTooLong / ErrEmptyMessage /
//     ErrMessageTooLong: malformed input, never retried automatically.
//   - ErrInvalidTransition / ErrAlreadyClaimed / ErrVersionConflict:
//     concurrency or logic conflicts; re-fetch current state, retry once at most.
//   - ErrThreadClosed / ErrForbidden: permanent for the given actor/state.
//   - ErrUnavailable: transient storage failure; safe to retry with backoff
//     because no partial effect is ever committed.
package services

import "errors"

// Consultation-related errors.
var (
	// ErrConsultationNotFound indicates that the requested consultation does
	// not exist.
	ErrConsultationNotFound = errors.New("consultation not found")

	// ErrEmptySummary is returned when a submission carries no complaint text.
	ErrEmptySummary = errors.New("summary is empty")

	// ErrSummaryTooLong is returned when a submission exceeds the maximum
	// configured length limit.
	ErrSummaryTooLong = errors.New("summary too long")

	// ErrInvalidTransition is returned when the target state is not reachable
	// from the consultation's current state, including any mutation of a
	// terminal consultation.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrVersionConflict is returned when the caller's expected version no
	// longer matches the stored version: another actor mutated the
	// consultation first. Callers should re-fetch and reconsider.
	ErrVersionConflict = errors.New("version conflict")

	// ErrAlreadyClaimed is returned when a provider attempts to claim a
	// consultation that another provider already owns (or that left PENDING).
	ErrAlreadyClaimed = errors.New("consultation already claimed")
)

// Messaging-related errors.
var (
	// ErrEmptyMessage is returned when a send request contains an empty body.
	ErrEmptyMessage = errors.New("message body is empty")

	// ErrMessageTooLong is returned when a message body exceeds the maximum
	// configured length limit.
	ErrMessageTooLong = errors.New("message body too long")

	// ErrThreadClosed is returned when sending to a consultation in a
	// terminal state. The thread seals with the consultation.
	ErrThreadClosed = errors.New("thread closed")
)

// Access errors.
var (
	// ErrForbidden is returned when the actor is not bound to the
	// consultation (or lacks the role) required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable wraps transient storage failures (timeouts, cancelled
	// contexts). The triggering operation committed nothing.
	ErrUnavailable = errors.New("storage unavailable")
)
