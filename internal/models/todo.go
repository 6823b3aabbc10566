package models

import "time"

// Priority levels accepted for a todo.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the accepted priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single task record, visible and mutable only to its owner.
type Todo struct {
	ID          int        `json:"id"`
	OwnerID     int        `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"` // low | medium | high
	DueDate     *time.Time `json:"due_date,omitempty"`
	Reminded    bool       `json:"-"` // due-soon reminder already emitted
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoStats is a per-owner snapshot of todo counters.
type TodoStats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Pending    int            `json:"pending"`
	ByPriority map[string]int `json:"by_priority"`
}
