package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaskID identifies a task within a project. IDs are assigned from a
// per-project counter starting at 1 and are never reused.
type TaskID int64

func (id TaskID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseTaskID parses a positive task identifier.
func ParseTaskID(s string) (TaskID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, NewValidationError([]string{fmt.Sprintf("task id must be a positive integer, got %q", s)})
	}
	return TaskID(n), nil
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusClosed     TaskStatus = "closed"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []TaskStatus{StatusOpen, StatusInProgress, StatusClosed}

// IsValid checks if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Marker returns the short bracketed form used in task listings.
func (s TaskStatus) Marker() string {
	switch s {
	case StatusOpen:
		return "[O]"
	case StatusInProgress:
		return "[I]"
	case StatusClosed:
		return "[C]"
	default:
		return "[?]"
	}
}

// ParseStatus parses a status name. Hyphenated and upper-case spellings
// ("in-progress", "Closed") are accepted.
func ParseStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !status.IsValid() {
		return "", NewValidationError([]string{fmt.Sprintf("no such status %q (use open, in_progress or closed)", s)})
	}
	return status, nil
}

// Task represents a unit of work in a project.
type Task struct {
	ID          TaskID     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      TaskStatus `json:"status" yaml:"status"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// NewTask creates an open task with the given id and name.
func NewTask(id TaskID, name string, now time.Time) *Task {
	return &Task{
		ID:        id,
		Name:      name,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetDescription sets the task description.
func (t *Task) SetDescription(desc string) {
	t.Description = &desc
}

// DescriptionText returns the description or an empty string.
func (t *Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Clone returns a copy that shares no memory with t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		desc := *t.Description
		c.Description = &desc
	}
	return &c
}

// Repr returns the one-line listing form, e.g. "[O]     3: Write docs".
func (t *Task) Repr() string {
	return fmt.Sprintf("%s %5d: %s", t.Status.Marker(), t.ID, t.Name)
}
