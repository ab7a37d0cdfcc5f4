package main

import (
	"errors"

	"github.com/tasktree/tasktree/internal/config"
	"github.com/tasktree/tasktree/internal/domain"
)

// Exit codes for the CLI
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitNoProject        = 3
	ExitNotFound         = 4
	ExitValidationFailed = 5
	ExitConflict         = 6
)

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, config.ErrNoProject) {
		return ExitNoProject
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return ExitGeneralError
	}
	switch domainErr.Code {
	case domain.ErrCodeProjectNotFound:
		return ExitNoProject
	case domain.ErrCodeTaskNotFound, domain.ErrCodeDependencyNotFound:
		return ExitNotFound
	case domain.ErrCodeValidationFailed:
		return ExitValidationFailed
	case domain.ErrCodeProjectExists, domain.ErrCodeCycleDetected,
		domain.ErrCodeDuplicateDependency, domain.ErrCodeSelfDependency:
		return ExitConflict
	default:
		return ExitGeneralError
	}
}
