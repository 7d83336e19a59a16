package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/mcp/tools"
)

func listToolNames(t *testing.T, s *Server) []string {
	t.Helper()
	result := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestNewServer(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())
	require.NotNil(t, s)
	require.NotNil(t, s.MCP())
	assert.Same(t, s.mcp, s.MCP())
	assert.NotNil(t, s.NewStreamableHTTPServer())
}

func TestRegisterTools_AllGroups(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())
	s.RegisterTools(ToolDeps{
		Service:   "folio-engine",
		Version:   "1.0.0",
		Portfolio: &tools.PortfolioToolDeps{Scopes: &fakeScopes{}, Logger: zap.NewNop()},
		GitHub:    &tools.GitHubToolDeps{Logger: zap.NewNop()},
	})

	assert.ElementsMatch(t, []string{
		"health",
		"portfolio_list_items",
		"portfolio_get_item",
		"portfolio_stats",
		"github_list_repos",
		"github_read_readme",
		"github_get_repo_details",
	}, listToolNames(t, s))
}

func TestRegisterTools_SkipsNilGroups(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())
	s.RegisterTools(ToolDeps{Service: "folio-engine", Version: "1.0.0"})

	assert.Equal(t, []string{"health"}, listToolNames(t, s))
}

func TestServer_RegisterTool(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())

	handlerCalled := false
	s.RegisterTool(mcp.NewTool("echo", mcp.WithDescription("A test tool")),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			handlerCalled = true
			return mcp.NewToolResultText("success"), nil
		})

	assert.False(t, handlerCalled, "handler should not be called during registration")
	assert.Contains(t, listToolNames(t, s), "echo")
}
