package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/github"
)

// GitHubClient is the subset of the GitHub client used by the tools.
type GitHubClient interface {
	ListRepos(ctx context.Context) ([]github.Repo, error)
	ReadReadme(ctx context.Context, owner, repo string) (string, error)
	RepoDetails(ctx context.Context, owner, repo string) (map[string]any, error)
}

// GitHubToolDeps contains dependencies for GitHub tools.
type GitHubToolDeps struct {
	Client GitHubClient
	Logger *zap.Logger
}

// RegisterGitHubTools registers tools that browse the owner's repositories.
func RegisterGitHubTools(s *server.MCPServer, deps *GitHubToolDeps) {
	registerListReposTool(s, deps)
	registerReadReadmeTool(s, deps)
	registerRepoDetailsTool(s, deps)
}

func githubAnnotations() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

// githubError maps client failures to tool results. A missing token is
// something the operator can fix, so it is reported rather than raised.
func githubError(deps *GitHubToolDeps, op string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, github.ErrNotConfigured) {
		return NewErrorResult("not_configured", err.Error()), nil
	}
	deps.Logger.Error("GitHub tool failed", zap.String("op", op), zap.Error(err))
	return nil, err
}

func ownerRepoArgs(req mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	owner := trimString(req.GetString("owner", ""))
	repo := trimString(req.GetString("repo", ""))
	if owner == "" || repo == "" {
		return "", "", NewErrorResult("invalid_input", "owner and repo are required")
	}
	return owner, repo, nil
}

func registerListReposTool(s *server.MCPServer, deps *GitHubToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List the configured GitHub user's repositories, most recently pushed first."),
	}
	tool := mcp.NewTool("github_list_repos", append(opts, githubAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repos, err := deps.Client.ListRepos(ctx)
		if err != nil {
			return githubError(deps, "list_repos", err)
		}
		return jsonResult(repos)
	})
}

func registerReadReadmeTool(s *server.MCPServer, deps *GitHubToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Read the raw README of a repository. Returns an empty readme when the repository has none."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
	}
	tool := mcp.NewTool("github_read_readme", append(opts, githubAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		owner, repo, errResult := ownerRepoArgs(req)
		if errResult != nil {
			return errResult, nil
		}
		readme, err := deps.Client.ReadReadme(ctx, owner, repo)
		if err != nil {
			return githubError(deps, "read_readme", err)
		}
		return jsonResult(map[string]string{
			"owner":  owner,
			"repo":   repo,
			"readme": readme,
		})
	})
}

func registerRepoDetailsTool(s *server.MCPServer, deps *GitHubToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get the full GitHub repository document for owner/repo."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
	}
	tool := mcp.NewTool("github_get_repo_details", append(opts, githubAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		owner, repo, errResult := ownerRepoArgs(req)
		if errResult != nil {
			return errResult, nil
		}
		details, err := deps.Client.RepoDetails(ctx, owner, repo)
		if err != nil {
			return githubError(deps, "get_repo_details", err)
		}
		return jsonResult(details)
	})
}
