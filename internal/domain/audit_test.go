package domain

import (
	"testing"
	"time"
)

func TestAuditAction_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		action AuditAction
		want   bool
	}{
		{"ActionCreate is valid", ActionCreate, true},
		{"ActionDelete is valid", ActionDelete, true},
		{"ActionSetStatus is valid", ActionSetStatus, true},
		{"ActionAddDependency is valid", ActionAddDependency, true},
		{"ActionRemoveDependency is valid", ActionRemoveDependency, true},
		{"ActionInsertBetween is valid", ActionInsertBetween, true},
		{"empty string is invalid", AuditAction(""), false},
		{"random string is invalid", AuditAction("random"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.IsValid(); got != tt.want {
				t.Errorf("AuditAction.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewAuditEntry(t *testing.T) {
	entry := NewAuditEntry(7, ActionCreate, "alice@host:/src")

	if entry.TaskID != 7 {
		t.Errorf("NewAuditEntry() TaskID = %v, want %v", entry.TaskID, 7)
	}
	if entry.Action != ActionCreate {
		t.Errorf("NewAuditEntry() Action = %v, want %v", entry.Action, ActionCreate)
	}
	if time.Since(entry.ChangedAt) > time.Second {
		t.Error("NewAuditEntry() ChangedAt should be recent")
	}
	if entry.Field != nil || entry.OldValue != nil || entry.NewValue != nil {
		t.Error("NewAuditEntry() optional fields should be nil")
	}
}

func TestAuditEntry_Builders(t *testing.T) {
	entry := NewAuditEntry(7, ActionSetStatus, "bob").
		WithField("status").
		WithOldValue("open").
		WithNewValue("closed")

	if entry.Field == nil || *entry.Field != "status" {
		t.Errorf("Field = %v, want status", entry.Field)
	}
	if entry.OldValue == nil || *entry.OldValue != "open" {
		t.Errorf("OldValue = %v, want open", entry.OldValue)
	}
	if entry.NewValue == nil || *entry.NewValue != "closed" {
		t.Errorf("NewValue = %v, want closed", entry.NewValue)
	}
}

func TestValidateProjectName(t *testing.T) {
	valid := []string{"app", "my-app", "my_app_2"}
	for _, name := range valid {
		if err := ValidateProjectName(name); err != nil {
			t.Errorf("ValidateProjectName(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", "has space", "../etc", "a/b"}
	for _, name := range invalid {
		if err := ValidateProjectName(name); err == nil {
			t.Errorf("ValidateProjectName(%q) = nil, want error", name)
		}
	}
}
