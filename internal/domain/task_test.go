package domain

import (
	"testing"
	"time"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"StatusOpen is valid", StatusOpen, true},
		{"StatusInProgress is valid", StatusInProgress, true},
		{"StatusClosed is valid", StatusClosed, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"random string is invalid", TaskStatus("random"), false},
		{"similar but wrong is invalid", TaskStatus("Open"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("TaskStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    TaskStatus
		wantErr bool
	}{
		{"open", StatusOpen, false},
		{"in_progress", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"Closed", StatusClosed, false},
		{" closed ", StatusClosed, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !HasCode(err, ErrCodeValidationFailed) {
				t.Errorf("ParseStatus(%q) error code = %v, want validation", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		input   string
		want    TaskID
		wantErr bool
	}{
		{"1", 1, false},
		{" 17 ", 17, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaskID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTaskID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTaskID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	task := NewTask(3, "Write docs", now)

	if task.ID != 3 {
		t.Errorf("ID = %v, want 3", task.ID)
	}
	if task.Status != StatusOpen {
		t.Errorf("Status = %v, want %v", task.Status, StatusOpen)
	}
	if task.Description != nil {
		t.Error("Description should be nil")
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Error("timestamps should equal the creation time")
	}
}

func TestTask_Clone(t *testing.T) {
	task := NewTask(1, "a", time.Now())
	task.SetDescription("original")

	c := task.Clone()
	*c.Description = "changed"
	c.Name = "b"

	if task.DescriptionText() != "original" {
		t.Errorf("clone shares description with original: %q", task.DescriptionText())
	}
	if task.Name != "a" {
		t.Errorf("clone shares name with original: %q", task.Name)
	}
}

func TestTask_Repr(t *testing.T) {
	task := NewTask(6, "Task 6", time.Now())
	task.Status = StatusClosed

	if got, want := task.Repr(), "[C]     6: Task 6"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}
}
