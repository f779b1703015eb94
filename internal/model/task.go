package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

const (
	AssigneeReasonMentioned      = "mentioned in message"
	AssigneeReasonDepartmentLead = "department lead"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// AssigneeSuggestion carries why a user was proposed, so the caller can
// rank mentions above department defaults.
type AssigneeSuggestion struct {
	UserID     uuid.UUID `json:"user_id"`
	Reason     string    `json:"reason"`
	Confidence string    `json:"confidence"`
}

// TaskSuggestion is the advisor's output: a bag of proposals derived from
// message text alone. A missing due date means no guess was possible.
type TaskSuggestion struct {
	Title     string               `json:"title"`
	Priority  string               `json:"priority"`
	DueDate   *time.Time           `json:"due_date,omitempty"`
	Assignees []AssigneeSuggestion `json:"assignees"`
	Keywords  []string             `json:"keywords"`
}

// TaskParams is the payload sent to the task service.
type TaskParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	Keywords    []string   `json:"keywords,omitempty"`
}

type Task struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
}
