package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// PortfolioToolDeps contains dependencies for portfolio tools.
type PortfolioToolDeps struct {
	Scopes    ScopeProvider
	Portfolio services.PortfolioService
	Logger    *zap.Logger
}

// RegisterPortfolioTools registers the read-only portfolio tools.
func RegisterPortfolioTools(s *server.MCPServer, deps *PortfolioToolDeps) {
	registerListItemsTool(s, deps)
	registerGetItemTool(s, deps)
	registerStatsTool(s, deps)
}

// withScope runs fn on a fresh connection scope.
func withScope(ctx context.Context, deps *PortfolioToolDeps, fn func(ctx context.Context) (*mcp.CallToolResult, error)) (*mcp.CallToolResult, error) {
	scoped, release, err := deps.Scopes.WithScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer release()
	return fn(scoped)
}

func readOnlyAnnotations() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
}

func registerListItemsTool(s *server.MCPServer, deps *PortfolioToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"List portfolio items, most recently updated first. " +
				"Optionally filter by review status, primary language and minimum AI confidence.",
		),
		mcp.WithString("status",
			mcp.Description("Review status to filter by"),
			mcp.Enum("draft", "approved", "published", "archived"),
		),
		mcp.WithString("language", mcp.Description("Primary GitHub language, exact match")),
		mcp.WithNumber("min_confidence", mcp.Description("Minimum AI confidence score between 0 and 1")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items (default 50)")),
	}
	tool := mcp.NewTool("portfolio_list_items", append(opts, readOnlyAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filters := models.PortfolioFilters{Limit: models.DefaultPortfolioLimit}
		if status := trimString(req.GetString("status", "")); status != "" {
			st := models.PortfolioStatus(status)
			filters.Status = &st
		}
		if language := trimString(req.GetString("language", "")); language != "" {
			filters.Language = &language
		}
		minConfidence, ok, err := optionalNumber(req, "min_confidence")
		if err != nil {
			return NewErrorResult("invalid_input", err.Error()), nil
		}
		if ok {
			filters.MinConfidence = &minConfidence
		}
		limit, ok, err := optionalNumber(req, "limit")
		if err != nil {
			return NewErrorResult("invalid_input", err.Error()), nil
		}
		if ok {
			filters.Limit = int(limit)
		}

		return withScope(ctx, deps, func(ctx context.Context) (*mcp.CallToolResult, error) {
			items, err := deps.Portfolio.List(ctx, filters)
			if err != nil {
				return resultForError(err)
			}
			return jsonResult(struct {
				Items []*models.PortfolioItem `json:"items"`
				Count int                     `json:"count"`
			}{Items: items, Count: len(items)})
		})
	})
}

func registerGetItemTool(s *server.MCPServer, deps *PortfolioToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get one portfolio item by id, including metrics and achievements."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Portfolio item id")),
	}
	tool := mcp.NewTool("portfolio_get_item", append(opts, readOnlyAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawID, ok, err := optionalNumber(req, "id")
		if err != nil || !ok {
			return NewErrorResult("invalid_input", "id is required and must be a number"), nil
		}
		id := int64(rawID)
		if id <= 0 || float64(id) != rawID {
			return NewErrorResult("invalid_input", "id must be a positive integer"), nil
		}

		return withScope(ctx, deps, func(ctx context.Context) (*mcp.CallToolResult, error) {
			item, err := deps.Portfolio.Get(ctx, id)
			if err != nil {
				return resultForError(err)
			}
			return jsonResult(item)
		})
	})
}

func registerStatsTool(s *server.MCPServer, deps *PortfolioToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Portfolio statistics: counts per status, average confidence, total stars and top languages."),
	}
	tool := mcp.NewTool("portfolio_stats", append(opts, readOnlyAnnotations()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return withScope(ctx, deps, func(ctx context.Context) (*mcp.CallToolResult, error) {
			stats, err := deps.Portfolio.Stats(ctx)
			if err != nil {
				deps.Logger.Error("Failed to compute portfolio stats", zap.Error(err))
				return resultForError(err)
			}
			return jsonResult(stats)
		})
	})
}
