// Package audit defines the compliance events emitted by the application
// lifecycle and the publisher boundary they cross. Events are emitted, not
// stored; downstream retention is a consumer concern.
package audit

import (
	"context"
	"time"

	id "registrar/pkg/domain"
)

// AuditEvent names one lifecycle action.
type AuditEvent string

const (
	EventApplicationSubmitted AuditEvent = "application_submitted"
	EventApplicationRejected  AuditEvent = "application_rejected"
	EventApplicationApproved  AuditEvent = "application_approved"
	EventApplicationDenied    AuditEvent = "application_denied"
	EventApplicationWithdrawn AuditEvent = "application_withdrawn"
	EventCompanyRegistered    AuditEvent = "company_registered"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Action        AuditEvent       `json:"action"`
	Timestamp     time.Time        `json:"timestamp"`
	CompanyID     id.CompanyID     `json:"company_id"`
	ApplicationID id.ApplicationID `json:"application_id"`
	Kind          string           `json:"kind,omitempty"`
	ActorID       string           `json:"actor_id,omitempty"`
	RequestID     string           `json:"request_id,omitempty"`
	Reason        string           `json:"reason,omitempty"`
}

// Publisher delivers events to a sink. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
