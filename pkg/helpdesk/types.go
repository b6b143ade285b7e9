// Package helpdesk contains the escalation core: the help-request ledger and
// its state machine, the orchestrating agent, and the expiry sweeper.
package helpdesk

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle state of a help request.
type State string

const (
	// StatePending is the initial state: waiting for a supervisor answer.
	StatePending State = "pending"
	// StateResolved is terminal: a supervisor answered.
	StateResolved State = "resolved"
	// StateUnresolved is reached when the TTL elapses. A late supervisor
	// answer still moves the request to resolved.
	StateUnresolved State = "unresolved"
)

// Valid reports whether s is a known state. The empty string is allowed as a
// list filter meaning "all states".
func (s State) Valid() bool {
	switch s {
	case StatePending, StateResolved, StateUnresolved:
		return true
	}
	return false
}

// ErrNotFound is returned when a request id does not exist.
var ErrNotFound = errors.New("help request not found")

// Customer identifies a caller, keyed by phone for de-duplication at
// escalation time. Created lazily on first escalation, never updated.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Supervisor is a human answerer. Email receives escalation notifications.
type Supervisor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HelpRequest is one escalation. TimeoutAt is set exactly once at creation.
// The response fields are populated if and only if the state is resolved.
type HelpRequest struct {
	ID                   int64      `json:"id"`
	CustomerID           int64      `json:"customer_id"`
	QuestionText         string     `json:"question_text"`
	CreatedAt            time.Time  `json:"created_at"`
	State                State      `json:"state"`
	AssignedSupervisorID *int64     `json:"assigned_supervisor_id,omitempty"`
	ResponseText         string     `json:"response_text"`
	ResponseAt           *time.Time `json:"response_at,omitempty"`
	TimeoutAt            time.Time  `json:"timeout_at"`
}

// Caller is the inbound identity of a customer, as supplied by the transport
// boundary.
type Caller struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NotificationPort delivers best-effort messages. Implementations must never
// return control-flow errors to the caller: delivery failure is logged and
// swallowed so it cannot fail the primary operation.
type NotificationPort interface {
	NotifyCustomer(ctx context.Context, recipient Caller, message string)
	NotifySupervisor(ctx context.Context, req HelpRequest)
}
