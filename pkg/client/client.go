package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naveenspark/roster/pkg/domain"
)

// Client is the roster API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a new API client.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Engineers ---

// CreateEngineerRequest is the payload for adding an engineer.
type CreateEngineerRequest struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password,omitempty"`
	Seniority   domain.Seniority `json:"seniority"`
	Department  string           `json:"department,omitempty"`
	Skills      []string         `json:"skills"`
	MaxCapacity int              `json:"maxCapacity"`
}

// ListEngineers returns every engineer.
func (c *Client) ListEngineers(ctx context.Context) ([]domain.Engineer, error) {
	var out struct {
		Engineers []domain.Engineer `json:"engineers"`
	}
	if err := c.get(ctx, "/api/engineers", &out); err != nil {
		return nil, fmt.Errorf("client.ListEngineers: %w", err)
	}
	return out.Engineers, nil
}

// GetEngineer fetches a single engineer by ID.
func (c *Client) GetEngineer(ctx context.Context, id string) (*domain.Engineer, error) {
	var out struct {
		Engineer domain.Engineer `json:"engineer"`
	}
	if err := c.get(ctx, "/api/engineers/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("client.GetEngineer: %w", err)
	}
	return &out.Engineer, nil
}

// GetEngineerCapacity returns the capacity breakdown for an engineer.
func (c *Client) GetEngineerCapacity(ctx context.Context, id string) (*domain.Capacity, error) {
	var out struct {
		Capacity domain.Capacity `json:"capacity"`
	}
	if err := c.get(ctx, "/api/engineers/"+url.PathEscape(id)+"/capacity", &out); err != nil {
		return nil, fmt.Errorf("client.GetEngineerCapacity: %w", err)
	}
	return &out.Capacity, nil
}

// CreateEngineer adds an engineer.
func (c *Client) CreateEngineer(ctx context.Context, req CreateEngineerRequest) (*domain.Engineer, error) {
	var out struct {
		Engineer domain.Engineer `json:"engineer"`
	}
	if err := c.post(ctx, "/api/engineers", req, &out); err != nil {
		return nil, fmt.Errorf("client.CreateEngineer: %w", err)
	}
	return &out.Engineer, nil
}

// DeleteEngineer removes an engineer.
func (c *Client) DeleteEngineer(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/engineers/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteEngineer: %w", err)
	}
	return nil
}

// --- Projects ---

// ProjectRequest is the payload for creating or updating a project.
type ProjectRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Status         domain.ProjectStatus `json:"status"`
	StartDate      string               `json:"startDate"`
	EndDate        string               `json:"endDate,omitempty"`
	TeamSize       int                  `json:"teamSize"`
	RequiredSkills []string             `json:"requiredSkills"`
	ManagerID      string               `json:"managerId"`
}

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out struct {
		Projects []domain.Project `json:"projects"`
	}
	if err := c.get(ctx, "/api/projects", &out); err != nil {
		return nil, fmt.Errorf("client.ListProjects: %w", err)
	}
	return out.Projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var out struct {
		Project domain.Project `json:"project"`
	}
	if err := c.get(ctx, "/api/projects/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("client.GetProject: %w", err)
	}
	return &out.Project, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req ProjectRequest) (*domain.Project, error) {
	var out struct {
		Project domain.Project `json:"project"`
	}
	if err := c.post(ctx, "/api/projects", req, &out); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &out.Project, nil
}

// UpdateProject replaces a project's editable fields.
func (c *Client) UpdateProject(ctx context.Context, id string, req ProjectRequest) (*domain.Project, error) {
	var out struct {
		Project domain.Project `json:"project"`
	}
	if err := c.doRequest(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), req, &out); err != nil {
		return nil, fmt.Errorf("client.UpdateProject: %w", err)
	}
	return &out.Project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// --- Assignments ---

// AssignmentRequest is the payload for creating or updating an assignment.
type AssignmentRequest struct {
	EngineerID           string `json:"engineerId"`
	ProjectID            string `json:"projectId"`
	AllocationPercentage int    `json:"allocationPercentage"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate,omitempty"`
	Role                 string `json:"role"`
}

// ListAssignments returns every assignment visible to the caller.
func (c *Client) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	var out struct {
		Assignments []domain.Assignment `json:"assignments"`
	}
	if err := c.get(ctx, "/api/assignments", &out); err != nil {
		return nil, fmt.Errorf("client.ListAssignments: %w", err)
	}
	return out.Assignments, nil
}

// GetAssignment fetches a single assignment by ID.
func (c *Client) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	var out struct {
		Assignment domain.Assignment `json:"assignment"`
	}
	if err := c.get(ctx, "/api/assignments/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("client.GetAssignment: %w", err)
	}
	return &out.Assignment, nil
}

// CreateAssignment creates an assignment.
func (c *Client) CreateAssignment(ctx context.Context, req AssignmentRequest) (*domain.Assignment, error) {
	var out struct {
		Assignment domain.Assignment `json:"assignment"`
	}
	if err := c.post(ctx, "/api/assignments", req, &out); err != nil {
		return nil, fmt.Errorf("client.CreateAssignment: %w", err)
	}
	return &out.Assignment, nil
}

// UpdateAssignment replaces an assignment's editable fields.
func (c *Client) UpdateAssignment(ctx context.Context, id string, req AssignmentRequest) (*domain.Assignment, error) {
	var out struct {
		Assignment domain.Assignment `json:"assignment"`
	}
	if err := c.doRequest(ctx, http.MethodPut, "/api/assignments/"+url.PathEscape(id), req, &out); err != nil {
		return nil, fmt.Errorf("client.UpdateAssignment: %w", err)
	}
	return &out.Assignment, nil
}

// DeleteAssignment removes an assignment.
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/assignments/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteAssignment: %w", err)
	}
	return nil
}

// --- Profile ---

// ProfileRequest is the payload for updating the caller's profile.
type ProfileRequest struct {
	Name        string           `json:"name"`
	Skills      []string         `json:"skills"`
	Seniority   domain.Seniority `json:"seniority"`
	MaxCapacity int              `json:"maxCapacity"`
	Department  string           `json:"department,omitempty"`
}

// GetProfile returns the caller's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/api/auth/profile", &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdateProfile updates the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.doRequest(ctx, http.MethodPut, "/api/auth/profile", req, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &p, nil
}

// LoginResponse is the body returned by the login endpoint.
type LoginResponse struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/auth/login", body, &out); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug("request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.String("request_id", reqID),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message, FromServer: true}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, FromServer: true}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
