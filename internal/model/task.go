package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    *Priority `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask carries the fields a caller supplies on creation.
// The store assigns ID, CreatedAt and UpdatedAt.
type NewTask struct {
	Title       string
	Description *string
	Completed   bool
	Priority    Priority
}

// TaskPatch holds the fields to merge onto an existing row.
// Unset fields are left untouched.
type TaskPatch struct {
	Title       Field[string]
	Description Field[*string]
	Completed   Field[bool]
	Priority    Field[*Priority]
}

// Apply merges the patch onto t. It does not touch timestamps.
func (p TaskPatch) Apply(t *Task) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Completed.Set {
		t.Completed = p.Completed.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
}
