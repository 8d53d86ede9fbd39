package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	pageSize = 100
)

// ErrNotConfigured is returned when the client lacks a secret or database id.
var ErrNotConfigured = errors.New("notion: secret and database id are required")

// Config holds the credentials and target database of a Client.
type Config struct {
	Secret     string // integration token
	DatabaseID string
	BaseURL    string // default DefaultBaseURL
	Version    string // Notion-Version header, default DefaultVersion
}

// Configured reports whether both the secret and the database id are set.
func (c Config) Configured() bool {
	return c.Secret != "" && c.DatabaseID != ""
}

// APIError is the error object Notion returns with non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: API returned status %d", e.Status)
	}
	return fmt.Sprintf("notion: API returned status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client queries a single Notion database.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a Client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// QueryDatabase returns every row of the configured database in the order
// Notion returns them, following pagination until has_more is false.
func (c *Client) QueryDatabase(ctx context.Context) (DatabaseResponse, error) {
	if !c.config.Configured() {
		return DatabaseResponse{}, ErrNotConfigured
	}
	var all DatabaseResponse
	cursor := ""
	for {
		page, err := c.queryPage(ctx, cursor)
		if err != nil {
			return DatabaseResponse{}, err
		}
		all.Object = page.Object
		all.Results = append(all.Results, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}
	if all.Results == nil {
		all.Results = []Row{}
	}
	return all, nil
}

func (c *Client) queryPage(ctx context.Context, cursor string) (DatabaseResponse, error) {
	body, err := json.Marshal(queryRequest{PageSize: pageSize, StartCursor: cursor})
	if err != nil {
		return DatabaseResponse{}, fmt.Errorf("encode query: %w", err)
	}
	endpoint := c.config.BaseURL + "/v1/databases/" + url.PathEscape(c.config.DatabaseID) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return DatabaseResponse{}, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Secret)
	req.Header.Set("Notion-Version", c.config.Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return DatabaseResponse{}, fmt.Errorf("notion query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(b, apiErr)
		apiErr.Status = resp.StatusCode
		return DatabaseResponse{}, apiErr
	}

	var page DatabaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return DatabaseResponse{}, fmt.Errorf("decode notion response: %w", err)
	}
	return page, nil
}
