// Package client is the typed SDK for the activity feed API. It carries the
// tenant header on every call and decodes the response envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

const headerTenant = "X-Tenant-ID"

// Activity is the wire representation of one feed record.
type Activity struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenantId"`
	ActorID   string         `json:"actorId"`
	ActorName string         `json:"actorName"`
	Type      string         `json:"type"`
	EntityID  *string        `json:"entityId"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

type CreateActivityParams struct {
	ActorID   string         `json:"actorId"`
	ActorName string         `json:"actorName"`
	Type      string         `json:"type"`
	EntityID  string         `json:"entityId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ListActivitiesParams struct {
	Cursor string
	Limit  int
	Type   string
}

// Page is one slice of the feed plus the pagination state to continue it.
type Page struct {
	Activities []Activity
	NextCursor string
	HasMore    bool
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

type Option func(*Client)

// WithHTTPClient replaces the transport, including its timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

type Client struct {
	baseURL  string
	tenantID string
	http     *http.Client
}

func New(baseURL, tenantID string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("client base url is required")
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, errors.New("client tenant id is required")
	}

	c := &Client{
		baseURL:  baseURL,
		tenantID: tenantID,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TenantID returns the tenant this client is scoped to.
func (c *Client) TenantID() string {
	return c.tenantID
}

func (c *Client) CreateActivity(ctx context.Context, params CreateActivityParams) (*Activity, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/activities", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}

	var activity Activity
	if err := json.Unmarshal(envelope.Data, &activity); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return &activity, nil
}

func (c *Client) ListActivities(ctx context.Context, params ListActivitiesParams) (*Page, error) {
	query := url.Values{}
	if cursor := strings.TrimSpace(params.Cursor); cursor != "" {
		query.Set("cursor", cursor)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if activityType := strings.TrimSpace(params.Type); activityType != "" {
		query.Set("type", activityType)
	}

	target := c.baseURL + "/activities"
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success    bool       `json:"success"`
		Data       []Activity `json:"data"`
		NextCursor *string    `json:"nextCursor"`
		HasMore    bool       `json:"hasMore"`
		Error      string     `json:"error"`
	}
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}

	page := &Page{
		Activities: envelope.Data,
		HasMore:    envelope.HasMore,
	}
	if envelope.NextCursor != nil {
		page.NextCursor = *envelope.NextCursor
	}
	if page.Activities == nil {
		page.Activities = []Activity{}
	}
	return page, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set(headerTenant, c.tenantID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error string `json:"error"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Error) != "" {
		message = envelope.Error
	}
	return &APIError{Status: status, Message: message}
}
