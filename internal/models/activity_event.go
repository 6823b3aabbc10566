package models

import "time"

// Activity event types.
const (
	EventUserRegistered = "USER_REGISTERED"
	EventTodoCreated    = "TODO_CREATED"
	EventTodoUpdated    = "TODO_UPDATED"
	EventTodoToggled    = "TODO_TOGGLED"
	EventTodoDeleted    = "TODO_DELETED"
	EventTodoDueSoon    = "TODO_DUE_SOON"
)

// ActivityEvent is a single owner-scoped audit entry.
type ActivityEvent struct {
	Seq        int64     `json:"-"` // store-assigned cursor for streaming
	EventID    string    `json:"event_id"`
	OwnerID    int       `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"`
	Message    string    `json:"message"` // human-readable
	Metadata   any       `json:"metadata,omitempty"`
}
