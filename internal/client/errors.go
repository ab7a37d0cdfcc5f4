package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/tasktree/tasktree/internal/domain"
)

// ErrServerNotRunning indicates the server is not reachable.
var ErrServerNotRunning = errors.New("server is not running or unreachable")

// apiErrorResponse is the API error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	} `json:"error"`
}

// parseErrorResponse turns an error response into a *domain.DomainError
// carrying the server's code, message and context.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}
	return &domain.DomainError{
		Code:    domain.ErrorCode(apiErr.Error.Code),
		Message: apiErr.Error.Message,
		Context: apiErr.Error.Context,
	}
}

// wrapConnectionError marks refused connections with ErrServerNotRunning.
func wrapConnectionError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return errors.Join(ErrServerNotRunning, err)
	}
	return err
}
