/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened.
type EventType string

const (
	EventRequestCreated   EventType = "request.created"
	EventRequestResolved  EventType = "request.resolved"
	EventRequestExpired   EventType = "request.expired"
	EventKnowledgeCreated EventType = "knowledge.created"
)

// Event is one audit record. Events are emitted fire-and-forget; consumers
// must tolerate loss.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	// Actor is who triggered the event: a customer phone number, a
	// supervisor reference, or "sweeper".
	Actor     string         `json:"actor,omitempty"`
	RequestID int64          `json:"requestID,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewEvent allocates an event with a fresh id and the current timestamp.
func NewEvent(eventType EventType) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
