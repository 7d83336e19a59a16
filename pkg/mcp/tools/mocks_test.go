package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/github"
	"github.com/folio-engine/folio-engine/pkg/models"
)

type scopeKey struct{}

type fakeScopes struct {
	acquired int
	released int
	err      error
}

func (f *fakeScopes) WithScope(ctx context.Context) (context.Context, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.acquired++
	return context.WithValue(ctx, scopeKey{}, true), func() { f.released++ }, nil
}

type mockPortfolioService struct {
	items       []*models.PortfolioItem
	stats       *models.PortfolioStats
	lastFilters models.PortfolioFilters
	scoped      bool
	err         error
}

func (m *mockPortfolioService) List(ctx context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error) {
	m.lastFilters = filters
	m.scoped, _ = ctx.Value(scopeKey{}).(bool)
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockPortfolioService) Get(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockPortfolioService) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*models.StatusUpdateResult, error) {
	return nil, errors.New("not used")
}

func (m *mockPortfolioService) Stats(ctx context.Context) (*models.PortfolioStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

func (m *mockPortfolioService) RecentEvents(ctx context.Context, limit int) ([]*models.PortfolioEvent, error) {
	return nil, errors.New("not used")
}

func (m *mockPortfolioService) SocialAnalytics(ctx context.Context) (*models.SocialAnalytics, error) {
	return nil, errors.New("not used")
}

type mockGitHubClient struct {
	repos     []github.Repo
	readme    string
	details   map[string]any
	err       error
	lastOwner string
	lastRepo  string
}

func (m *mockGitHubClient) ListRepos(ctx context.Context) ([]github.Repo, error) {
	return m.repos, m.err
}

func (m *mockGitHubClient) ReadReadme(ctx context.Context, owner, repo string) (string, error) {
	m.lastOwner, m.lastRepo = owner, repo
	return m.readme, m.err
}

func (m *mockGitHubClient) RepoDetails(ctx context.Context, owner, repo string) (map[string]any, error) {
	m.lastOwner, m.lastRepo = owner, repo
	return m.details, m.err
}

// toolResponse is the decoded JSON-RPC response of a tools/call.
type toolResponse struct {
	Result *struct {
		IsError bool              `json:"isError"`
		Content []mcp.TextContent `json:"content"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r toolResponse) text(t *testing.T) string {
	t.Helper()
	require.NotNil(t, r.Result, "expected a tool result")
	require.NotEmpty(t, r.Result.Content)
	return r.Result.Content[0].Text
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) toolResponse {
	t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  params,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	var resp toolResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func newTestServer() *server.MCPServer {
	return server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
}
