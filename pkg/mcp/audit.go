package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/mcp/tools"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// Event actions written for tool calls.
const (
	ActionToolCall  = "mcp_tool_call"
	ActionToolError = "mcp_tool_error"
)

// recordTimeout bounds the event append, which runs after the response.
const recordTimeout = 5 * time.Second

// maxParamSize is the longest string argument kept in an event payload.
const maxParamSize = 1024

// AuditLogger records MCP tool calls as portfolio events asynchronously.
type AuditLogger struct {
	scopes   tools.ScopeProvider
	recorder services.EventRecorder
	logger   *zap.Logger

	// dispatch runs record; tests replace it to record synchronously.
	dispatch func(func())
	inflight sync.WaitGroup

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an AuditLogger that appends to the event log.
func NewAuditLogger(scopes tools.ScopeProvider, recorder services.EventRecorder, logger *zap.Logger) *AuditLogger {
	return &AuditLogger{
		scopes:   scopes,
		recorder: recorder,
		logger:   logger.Named("mcp-audit"),
		dispatch: func(f func()) { go f() },
	}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(ctx context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	event := a.buildEvent(ctx, id, req)
	event.Action = ActionToolCall
	event.Status = models.EventStatusOK
	if result != nil && result.IsError {
		event.Status = models.EventStatusError
	}
	if summary := summarizeResult(result); summary != nil {
		event.Payload["result"] = summary
	}

	a.enqueue(event)
}

func (a *AuditLogger) onError(ctx context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}

	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	event := a.buildEvent(ctx, id, req)
	event.Action = ActionToolError
	event.Status = models.EventStatusError
	event.Payload["error"] = truncate(err.Error())

	a.enqueue(event)
}

func (a *AuditLogger) loadAndDeleteStart(id any) time.Time {
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		return v.(time.Time)
	}
	return time.Now()
}

func (a *AuditLogger) buildEvent(ctx context.Context, id any, req *mcplib.CallToolRequest) *models.NewEvent {
	durationMs := time.Since(a.loadAndDeleteStart(id)).Milliseconds()

	payload := map[string]any{
		"tool":        req.Params.Name,
		"duration_ms": durationMs,
	}
	if params := sanitizeParams(req.GetArguments()); params != nil {
		payload["params"] = params
	}
	if subject := auth.GetSubjectFromContext(ctx); subject != "" {
		payload["subject"] = subject
	}

	return &models.NewEvent{
		Source:  models.EventSourceMCP,
		Repo:    repoFromArgs(req.GetArguments()),
		Payload: payload,
	}
}

func (a *AuditLogger) enqueue(event *models.NewEvent) {
	a.inflight.Add(1)
	a.dispatch(func() {
		defer a.inflight.Done()
		a.record(event)
	})
}

// Drain waits for pending event appends until ctx is done. Call it after the
// HTTP server has stopped accepting requests and before the pool closes.
func (a *AuditLogger) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// record appends the event on its own connection. The caller's scope is
// already released when the hooks fire.
func (a *AuditLogger) record(event *models.NewEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	scoped, release, err := a.scopes.WithScope(ctx)
	if err != nil {
		a.logger.Warn("Failed to record MCP event: could not acquire connection",
			zap.String("action", event.Action),
			zap.Error(err))
		return
	}
	defer release()

	if err := a.recorder.Record(scoped, event); err != nil {
		a.logger.Error("Failed to record MCP event",
			zap.String("action", event.Action),
			zap.Any("tool", event.Payload["tool"]),
			zap.Error(err))
	}
}

// repoFromArgs returns "owner/repo" for tools addressed at one repository.
func repoFromArgs(args map[string]any) *string {
	owner, _ := args["owner"].(string)
	repo, _ := args["repo"].(string)
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil
	}
	full := owner + "/" + repo
	return &full
}

var sensitiveKeyParts = []string{"password", "secret", "token", "api_key", "apikey", "authorization", "credential"}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// sanitizeParams prepares tool arguments for the event payload: sensitive
// values are hashed and long strings truncated.
func sanitizeParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}

	sanitized := make(map[string]any, len(params))
	for k, v := range params {
		sanitized[k] = sanitizeValue(k, v)
	}
	return sanitized
}

func sanitizeValue(key string, value any) any {
	if isSensitiveKey(key) {
		return hashSensitiveValue(value)
	}

	switch val := value.(type) {
	case string:
		return truncate(val)
	case map[string]any:
		return sanitizeParams(val)
	default:
		return value
	}
}

func truncate(s string) string {
	if len(s) > maxParamSize {
		return s[:maxParamSize] + "...[truncated]"
	}
	return s
}

// hashSensitiveValue returns a SHA-256 hash prefix for sensitive values,
// allowing correlation across events without storing the actual value.
func hashSensitiveValue(value any) string {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	default:
		str = fmt.Sprintf("%v", v)
	}
	hash := sha256.Sum256([]byte(str))
	return "sha256:" + hex.EncodeToString(hash[:8])
}

// summarizeResult creates a compact summary of the tool result.
func summarizeResult(result *mcplib.CallToolResult) map[string]any {
	if result == nil {
		return nil
	}

	summary := map[string]any{
		"is_error": result.IsError,
	}

	if len(result.Content) > 0 {
		summary["content_count"] = len(result.Content)
		for _, c := range result.Content {
			if tc, ok := c.(mcplib.TextContent); ok {
				text := tc.Text
				if len(text) > 200 {
					text = text[:200] + "...[truncated]"
				}
				summary["preview"] = text
				break
			}
		}
	}

	return summary
}
