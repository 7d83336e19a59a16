// Package github provides a small client for the GitHub REST API used by the
// MCP tools to browse the owner's repositories.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/config"
	"github.com/folio-engine/folio-engine/pkg/retry"
)

// DefaultTimeout is the maximum time to wait for GitHub responses.
const DefaultTimeout = 30 * time.Second

// UserAgent identifies this service to the GitHub API.
const UserAgent = "portfolio-assistant/1.0"

const (
	acceptJSON   = "application/vnd.github+json"
	acceptRaw    = "application/vnd.github.v3.raw"
	reposPerPage = "100"
)

// ErrNotConfigured is returned when the token or username is missing.
var ErrNotConfigured = errors.New("github client is not configured: GITHUB_TOKEN and GITHUB_USERNAME are required")

// Repo is the subset of repository fields surfaced by list_repos.
type Repo struct {
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	HTMLURL         string  `json:"html_url"`
	PushedAt        *string `json:"pushed_at"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Private         bool    `json:"private"`
}

// StatusError is a non-success response. Rate limits and server errors are retryable.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github responded with status %d", e.Status)
}

// IsRetryable reports whether the request is worth repeating.
func (e *StatusError) IsRetryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// Client provides access to the GitHub REST API.
type Client struct {
	httpClient *http.Client
	retry      *retry.Config
	baseURL    string
	token      string
	username   string
	logger     *zap.Logger
}

// NewClient creates a GitHub client from configuration. A client without a
// token or username still constructs; its calls return ErrNotConfigured.
func NewClient(cfg config.GitHubConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		retry:    retry.DefaultConfig(),
		baseURL:  baseURL,
		token:    cfg.Token,
		username: cfg.Username,
		logger:   logger.Named("github"),
	}
}

// Configured reports whether both the token and username are set.
func (c *Client) Configured() bool {
	return c.token != "" && c.username != ""
}

// Username returns the configured account name.
func (c *Client) Username() string {
	return c.username
}

// ListRepos returns the configured user's repositories, most recently pushed first.
func (c *Client) ListRepos(ctx context.Context) ([]Repo, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint, err := buildURL(c.baseURL, url.Values{
		"per_page": {reposPerPage},
		"sort":     {"pushed"},
	}, "users", c.username, "repos")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	body, status, err := c.get(ctx, endpoint, acceptJSON)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.statusError("list repos", endpoint, status, body)
	}

	repos := []Repo{}
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("failed to decode repositories: %w", err)
	}
	return repos, nil
}

// ReadReadme returns the raw README of owner/repo. A repository without a
// README yields an empty string and no error.
func (c *Client) ReadReadme(ctx context.Context, owner, repo string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	endpoint, err := buildURL(c.baseURL, nil, "repos", owner, repo, "readme")
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}

	body, status, err := c.get(ctx, endpoint, acceptRaw)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		return string(body), nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", c.statusError("read readme", endpoint, status, body)
	}
}

// RepoDetails returns the full repository document for owner/repo.
func (c *Client) RepoDetails(ctx context.Context, owner, repo string) (map[string]any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint, err := buildURL(c.baseURL, nil, "repos", owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	body, status, err := c.get(ctx, endpoint, acceptJSON)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.statusError("get repo details", endpoint, status, body)
	}

	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode repository: %w", err)
	}
	return details, nil
}

// get issues a GET, retrying transport failures, rate limits and 5xx.
// Once retries are exhausted the last response is returned as-is.
func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, int, error) {
	var body []byte
	var status int
	err := retry.DoIfRetryable(ctx, c.retry, func() error {
		var reqErr error
		body, status, reqErr = c.getOnce(ctx, endpoint, accept)
		if reqErr != nil {
			return reqErr
		}
		if statusErr := (&StatusError{Status: status}); statusErr.IsRetryable() {
			return statusErr
		}
		return nil
	})
	var statusErr *StatusError
	if err != nil && !errors.As(err, &statusErr) {
		return nil, 0, err
	}
	return body, status, nil
}

func (c *Client) getOnce(ctx context.Context, endpoint, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("GitHub request failed",
			zap.String("url", endpoint),
			zap.Error(err))
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) statusError(op, endpoint string, status int, body []byte) error {
	c.logger.Error("GitHub returned error",
		zap.String("op", op),
		zap.String("url", endpoint),
		zap.Int("status", status),
		zap.String("body", string(body)))
	return fmt.Errorf("github %s failed: status %d", op, status)
}

// buildURL constructs a URL by parsing the base and joining path segments.
func buildURL(baseURL string, query url.Values, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}
