// Package client is a typed Go client for the tasktree HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// Client talks to one tasktree server.
type Client struct {
	baseURL string
	actor   string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. http://localhost:7433.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuditPage is one page of audit log entries.
type AuditPage struct {
	Data       []*domain.AuditEntry `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

// =============================================================================
// System and projects
// =============================================================================

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

// ListProjects returns every project name.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	var names []string
	err := c.do(ctx, http.MethodGet, "/v1/projects", nil, &names)
	return names, err
}

// CreateProject creates a project, replacing an existing one when replace is set.
func (c *Client) CreateProject(ctx context.Context, name, description string, replace bool) (*domain.Project, error) {
	body := map[string]interface{}{"name": name, "description": description, "replace": replace}
	var project domain.Project
	if err := c.do(ctx, http.MethodPost, "/v1/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject returns a project's metadata and task counts.
func (c *Client) GetProject(ctx context.Context, project string) (*service.ProjectSummary, error) {
	var summary service.ProjectSummary
	if err := c.do(ctx, http.MethodGet, projectPath(project, ""), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteProject removes a project and all of its tasks.
func (c *Client) DeleteProject(ctx context.Context, project string) error {
	return c.do(ctx, http.MethodDelete, projectPath(project, ""), nil, nil)
}

// =============================================================================
// Tasks
// =============================================================================

// CreateTask creates a task; description may be nil.
func (c *Client) CreateTask(ctx context.Context, project, name string, description *string) (*domain.Task, error) {
	body := map[string]interface{}{"name": name, "description": description}
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, projectPath(project, "/tasks"), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns a task with its direct neighbours and availability.
func (c *Client) GetTask(ctx context.Context, project string, id domain.TaskID) (*service.TaskDetail, error) {
	var detail service.TaskDetail
	if err := c.do(ctx, http.MethodGet, taskPath(project, id, ""), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteTask removes a task and every edge touching it.
func (c *Client) DeleteTask(ctx context.Context, project string, id domain.TaskID) error {
	return c.do(ctx, http.MethodDelete, taskPath(project, id, ""), nil, nil)
}

// ListTasks returns the tasks matching sel; empty means available.
func (c *Client) ListTasks(ctx context.Context, project string, sel domain.Selector) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := c.do(ctx, http.MethodGet, projectPath(project, "/tasks")+query("select", string(sel)), nil, &tasks)
	return tasks, err
}

// SearchTasks matches q against names and descriptions; empty sel means all.
func (c *Client) SearchTasks(ctx context.Context, project, q string, sel domain.Selector) ([]*domain.Task, error) {
	params := url.Values{"q": {q}}
	if sel != "" {
		params.Set("select", string(sel))
	}
	var tasks []*domain.Task
	err := c.do(ctx, http.MethodGet, projectPath(project, "/tasks/search")+"?"+params.Encode(), nil, &tasks)
	return tasks, err
}

// SetStatus sets a task's status and returns the parents it made available.
func (c *Client) SetStatus(ctx context.Context, project string, id domain.TaskID, status domain.TaskStatus) (*service.StatusChange, error) {
	var change service.StatusChange
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, taskPath(project, id, "/status"), body, &change); err != nil {
		return nil, err
	}
	return &change, nil
}

// Available reports whether a task can be worked on now.
func (c *Client) Available(ctx context.Context, project string, id domain.TaskID) (bool, error) {
	var resp struct {
		Available bool `json:"available"`
	}
	err := c.do(ctx, http.MethodGet, taskPath(project, id, "/available"), nil, &resp)
	return resp.Available, err
}

// =============================================================================
// Dependencies
// =============================================================================

// AddDependencies makes parent depend on every child, atomically.
func (c *Client) AddDependencies(ctx context.Context, project string, parent domain.TaskID, children ...domain.TaskID) error {
	body := map[string]interface{}{"children": children}
	return c.do(ctx, http.MethodPost, taskPath(project, parent, "/deps"), body, nil)
}

// RemoveDependency removes the edge parent -> child.
func (c *Client) RemoveDependency(ctx context.Context, project string, parent, child domain.TaskID) error {
	return c.do(ctx, http.MethodDelete, taskPath(project, parent, "/deps/"+child.String()), nil, nil)
}

// InsertBetween replaces parent -> child with parent -> between -> child.
func (c *Client) InsertBetween(ctx context.Context, project string, parent, between, child domain.TaskID) error {
	body := map[string]interface{}{"between": between}
	return c.do(ctx, http.MethodPost, taskPath(project, parent, "/deps/"+child.String()+"/insert"), body, nil)
}

// ListDependencies returns the transitive dependencies of id matching sel;
// empty means available.
func (c *Client) ListDependencies(ctx context.Context, project string, id domain.TaskID, sel domain.Selector) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := c.do(ctx, http.MethodGet, taskPath(project, id, "/deps")+query("select", string(sel)), nil, &tasks)
	return tasks, err
}

// =============================================================================
// Audit and export
// =============================================================================

// History returns a task's audit entries, newest first.
func (c *Client) History(ctx context.Context, project string, id domain.TaskID) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	err := c.do(ctx, http.MethodGet, taskPath(project, id, "/history"), nil, &entries)
	return entries, err
}

// QueryAudit queries the project's audit log. params holds raw query
// parameters such as actor, action, operation, page and per_page.
func (c *Client) QueryAudit(ctx context.Context, project string, params url.Values) (*AuditPage, error) {
	path := projectPath(project, "/audit")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var page AuditPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Export returns the raw project snapshot in the given format.
func (c *Client) Export(ctx context.Context, project string, format service.ExportFormat) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, projectPath(project, "/export")+query("format", string(format)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

// =============================================================================
// Helpers
// =============================================================================

func projectPath(project, path string) string {
	return "/v1/projects/" + url.PathEscape(project) + path
}

func taskPath(project string, id domain.TaskID, path string) string {
	return projectPath(project, "/tasks/"+strconv.FormatInt(int64(id), 10)+path)
}

func query(key, value string) string {
	if value == "" {
		return ""
	}
	return "?" + url.Values{key: {value}}.Encode()
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil. Non-2xx responses become domain errors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = &buf
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapConnectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.actor != "" {
		req.Header.Set("X-Tasktree-Actor", c.actor)
	}
	return req, nil
}
