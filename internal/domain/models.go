// Package domain defines the persistence models for consultations, queue
// entries, messages, and audit entries. These types are mapped with GORM and
// form the core data layer of the consultation platform.
package domain

import (
	"time"
)

// Status is the lifecycle state of a consultation. The set is closed: a
// consultation is created PENDING and only ever moves forward; RESOLVED and
// CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusClaimed   Status = "CLAIMED"
	StatusResolved  Status = "RESOLVED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// CanTransitionTo reports whether target is directly reachable from s.
// Legal edges: PENDING→CLAIMED, PENDING→CANCELLED (patient withdrawal),
// CLAIMED→RESOLVED, CLAIMED→CANCELLED. No state is re-enterable.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusClaimed || target == StatusCancelled
	case StatusClaimed:
		return target == StatusResolved || target == StatusCancelled
	default:
		return false
	}
}

// Role identifies the kind of actor performing an operation. The identity
// itself is verified upstream by the authentication collaborator; this core
// only consumes the (id, role) pair.
type Role string

const (
	RolePatient    Role = "patient"
	RoleProvider   Role = "provider"
	RoleSystem     Role = "system"
	RoleCompliance Role = "compliance"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleSystem, RoleCompliance:
		return true
	}
	return false
}

// Actor is the verified identity attached to a request.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Priority buckets for the provider queue. Buckets are small ints so queue
// ordering stays a plain ORDER BY; higher buckets drain first.
const (
	BucketRoutine = 0
	BucketUrgent  = 1
)

// Consultation represents one patient case moving through submission,
// provider review, and resolution.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - PatientID: identifier of the submitting patient; indexed.
//   - ProviderID: identifier of the claiming provider; nil until claimed.
//   - Status: lifecycle state (enforced by DB constraint).
//   - PriorityBucket: queue tier derived at submission.
//   - Version: monotonic counter for optimistic concurrency. Every state
//     mutation is a compare-and-swap on this column.
//   - LastSeq: highest message sequence number issued for this thread.
//     Incremented inside the send transaction so sequence assignment is
//     serialized on this row.
//   - ClaimedAt / ResolvedAt: transition timestamps; nil until reached.
//
// Consultations are never physically deleted; terminal rows are retained
// for the audit trail.
type Consultation struct {
	ID             string     `json:"id"              gorm:"type:char(36);primaryKey"`
	PatientID      string     `json:"patient_id"      gorm:"type:varchar(64);not null;index:idx_patient_consultations"`
	ProviderID     *string    `json:"provider_id"     gorm:"type:varchar(64);index:idx_provider_consultations"`
	Status         Status     `json:"status"          gorm:"type:varchar(16);not null;index;check:status IN ('PENDING','CLAIMED','RESOLVED','CANCELLED')"`
	Summary        string     `json:"summary"         gorm:"type:text;not null"`
	PriorityBucket int        `json:"priority_bucket" gorm:"not null;default:0"`
	Version        int64      `json:"version"         gorm:"not null;default:1"`
	LastSeq        int64      `json:"-"               gorm:"not null;default:0"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// TableName returns the database table name for Consultation.
func (Consultation) TableName() string { return "consultations" }

// QueueEntry is the provider-facing view of a PENDING consultation. The
// consultation id is the primary key, so a consultation can appear in the
// queue at most once. Entries exist only while the consultation is PENDING
// and are removed in the same transaction as the claim or cancellation.
type QueueEntry struct {
	ConsultationID string    `json:"consultation_id" gorm:"type:char(36);primaryKey"`
	PriorityBucket int       `json:"priority_bucket" gorm:"not null;index:idx_queue_order,priority:1"`
	EnqueuedAt     time.Time `json:"enqueued_at"     gorm:"not null;index:idx_queue_order,priority:2"`
}

// TableName returns the database table name for QueueEntry.
func (QueueEntry) TableName() string { return "queue_entries" }

// Message represents a single utterance within a consultation thread.
// Messages are immutable once persisted: there is no update or delete path
// and no UpdatedAt/DeletedAt columns.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ConsultationID: owning thread (part of the unique sequence index).
//   - Seq: per-consultation sequence number, gap-free and strictly
//     increasing. Assigned by the message service, never by callers; the
//     unique index is the storage-level backstop against collisions.
//   - SenderRole: "patient", "provider", or "system" (DB constraint).
//   - SenderID: identifier of the author.
//   - Body: full text content.
//   - SentAt: server-side persistence timestamp.
type Message struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConsultationID string    `json:"consultation_id" gorm:"type:char(36);not null;uniqueIndex:ux_consultation_seq,priority:1"`
	Seq            int64     `json:"seq"             gorm:"not null;uniqueIndex:ux_consultation_seq,priority:2"`
	SenderRole     Role      `json:"sender_role"     gorm:"type:varchar(16);not null;check:sender_role IN ('patient','provider','system')"`
	SenderID       string    `json:"sender_id"       gorm:"type:varchar(64);not null"`
	Body           string    `json:"body"            gorm:"type:text;not null"`
	SentAt         time.Time `json:"sent_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// AuditAction enumerates the kinds of access recorded in the audit ledger.
type AuditAction string

const (
	AuditView    AuditAction = "VIEW"
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditClaim   AuditAction = "CLAIM"
	AuditMessage AuditAction = "MESSAGE"
	AuditResolve AuditAction = "RESOLVE"
)

// AuditOutcome records whether the audited attempt succeeded or was denied.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeDenied  AuditOutcome = "denied"
)

// Subject types referenced by audit entries.
const (
	SubjectConsultation = "consultation"
	SubjectThread       = "message_thread"
)

// AuditEntry is an immutable record of one access or mutation event touching
// protected health data. Entries are append-only: nothing in the codebase
// updates or deletes a row, and retention is enforced by the compliance
// collaborator, never here.
type AuditEntry struct {
	ID          string       `json:"id"           gorm:"type:char(36);primaryKey"`
	ActorID     string       `json:"actor_id"     gorm:"type:varchar(64);not null;index"`
	ActorRole   Role         `json:"actor_role"   gorm:"type:varchar(16);not null"`
	Action      AuditAction  `json:"action"       gorm:"type:varchar(16);not null;index;check:action IN ('VIEW','CREATE','UPDATE','CLAIM','MESSAGE','RESOLVE')"`
	SubjectType string       `json:"subject_type" gorm:"type:varchar(32);not null;index:idx_audit_subject,priority:1"`
	SubjectID   string       `json:"subject_id"   gorm:"type:char(36);not null;index:idx_audit_subject,priority:2"`
	Outcome     AuditOutcome `json:"outcome"      gorm:"type:varchar(8);not null;check:outcome IN ('success','denied')"`
	Detail      string       `json:"detail,omitempty" gorm:"type:text"`
	RecordedAt  time.Time    `json:"recorded_at"  gorm:"not null;index"`
}

// TableName returns the database table name for AuditEntry.
func (AuditEntry) TableName() string { return "audit_entries" }
