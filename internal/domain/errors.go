package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"
	ErrCodeDependencyNotFound  ErrorCode = "DEPENDENCY_NOT_FOUND"
	ErrCodeProjectNotFound     ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeProjectExists       ErrorCode = "PROJECT_EXISTS"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeSelfDependency      ErrorCode = "SELF_DEPENDENCY"
	ErrCodeDuplicateDependency ErrorCode = "DUPLICATE_DEPENDENCY"
	ErrCodeCycleDetected       ErrorCode = "CYCLE_DETECTED"
	ErrCodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}

	cause error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of an internal error, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound reports whether err refers to a missing task, dependency or project.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeTaskNotFound) ||
		HasCode(err, ErrCodeDependencyNotFound) ||
		HasCode(err, ErrCodeProjectNotFound)
}

// IsConflict reports whether err is a rejected graph mutation or a clashing project.
func IsConflict(err error) bool {
	return HasCode(err, ErrCodeCycleDetected) ||
		HasCode(err, ErrCodeDuplicateDependency) ||
		HasCode(err, ErrCodeSelfDependency) ||
		HasCode(err, ErrCodeProjectExists)
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(id TaskID) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: fmt.Sprintf("Task %d not found", id),
		Context: map[string]interface{}{"id": id},
	}
}

// NewDependencyNotFoundError creates a dependency not found error.
func NewDependencyNotFoundError(parentID, childID TaskID) *DomainError {
	return &DomainError{
		Code:    ErrCodeDependencyNotFound,
		Message: fmt.Sprintf("Task %d does not depend on task %d", parentID, childID),
		Context: map[string]interface{}{
			"parent_id": parentID,
			"child_id":  childID,
		},
	}
}

// NewProjectNotFoundError creates a project not found error.
func NewProjectNotFoundError(project string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProjectNotFound,
		Message: fmt.Sprintf("Project %s not found", project),
		Context: map[string]interface{}{"project": project},
	}
}

// NewProjectExistsError creates a project already exists error.
func NewProjectExistsError(project string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProjectExists,
		Message: fmt.Sprintf("Project %s already exists", project),
		Context: map[string]interface{}{"project": project},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewSelfDependencyError creates an error for an edge from a task to itself.
func NewSelfDependencyError(id TaskID) *DomainError {
	return &DomainError{
		Code:    ErrCodeSelfDependency,
		Message: fmt.Sprintf("Task %d cannot depend on itself", id),
		Context: map[string]interface{}{"id": id},
	}
}

// NewDuplicateDependencyError creates an error for an edge that already exists.
func NewDuplicateDependencyError(parentID, childID TaskID) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateDependency,
		Message: fmt.Sprintf("Task %d already depends on task %d", parentID, childID),
		Context: map[string]interface{}{
			"parent_id": parentID,
			"child_id":  childID,
		},
	}
}

// NewCycleDetectedError creates a cycle detected error. The path starts and
// ends at the parent of the rejected edge.
func NewCycleDetectedError(parentID, childID TaskID, path []TaskID) *DomainError {
	return &DomainError{
		Code:    ErrCodeCycleDetected,
		Message: fmt.Sprintf("Adding dependency of task %d on task %d would create a cycle", parentID, childID),
		Context: map[string]interface{}{
			"parent_id": parentID,
			"child_id":  childID,
			"path":      path,
		},
	}
}

// NewInternalError creates an internal error.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
		cause:   err,
	}
}

// AsDomainError converts any error into a DomainError, wrapping unknown
// errors as internal errors.
func AsDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err)
}
