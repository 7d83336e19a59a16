package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/folio-engine/folio-engine/pkg/models"
)

type fakeScopes struct {
	err error
}

func (f *fakeScopes) WithScope(ctx context.Context) (context.Context, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return ctx, func() {}, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []*models.NewEvent
	err    error
}

func (f *fakeRecorder) Record(ctx context.Context, event *models.NewEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeRecorder) RecordAfter(ctx context.Context, event *models.NewEvent) models.AuditOutcome {
	if err := f.Record(ctx, event); err != nil {
		return models.AuditOutcome{Err: err}
	}
	return models.AuditOutcome{Recorded: true}
}

func newSyncAuditLogger(scopes *fakeScopes, recorder *fakeRecorder, logger *zap.Logger) *AuditLogger {
	a := NewAuditLogger(scopes, recorder, logger)
	a.dispatch = func(f func()) { f() }
	return a
}

func callToolRequest(name string, args map[string]any) *mcplib.CallToolRequest {
	req := &mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestAuditLogger_RecordsToolCallThroughHooks(t *testing.T) {
	recorder := &fakeRecorder{}
	a := newSyncAuditLogger(&fakeScopes{}, recorder, zap.NewNop())

	s := NewServer("test", "1.0.0", a.Hooks(), zap.NewNop())
	s.RegisterTool(mcplib.NewTool("echo"), func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return mcplib.NewToolResultText("hello"), nil
	})

	s.MCP().HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"owner":"octo","repo":"folio"}}}`))

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, models.EventSourceMCP, event.Source)
	assert.Equal(t, ActionToolCall, event.Action)
	assert.Equal(t, models.EventStatusOK, event.Status)
	require.NotNil(t, event.Repo)
	assert.Equal(t, "octo/folio", *event.Repo)
	assert.Equal(t, "echo", event.Payload["tool"])
	assert.Contains(t, event.Payload, "duration_ms")

	result, ok := event.Payload["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", result["preview"])
}

func TestAuditLogger_ErrorResultMarksStatus(t *testing.T) {
	recorder := &fakeRecorder{}
	a := newSyncAuditLogger(&fakeScopes{}, recorder, zap.NewNop())

	result := mcplib.NewToolResultText(`{"error":true}`)
	result.IsError = true
	a.afterCallTool(context.Background(), 1, callToolRequest("portfolio_get_item", map[string]any{"id": float64(9)}), result)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, models.EventStatusError, recorder.events[0].Status)
	assert.Nil(t, recorder.events[0].Repo)
}

func TestAuditLogger_OnErrorRecordsToolError(t *testing.T) {
	recorder := &fakeRecorder{}
	a := newSyncAuditLogger(&fakeScopes{}, recorder, zap.NewNop())

	req := callToolRequest("portfolio_stats", nil)
	a.beforeCallTool(context.Background(), 2, req)
	a.onError(context.Background(), 2, mcplib.MethodToolsCall, req, errors.New("connection reset"))

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, ActionToolError, event.Action)
	assert.Equal(t, models.EventStatusError, event.Status)
	assert.Equal(t, "connection reset", event.Payload["error"])
	assert.NotContains(t, event.Payload, "params")

	_, pending := a.startTimes.Load(2)
	assert.False(t, pending, "start time should be cleared")
}

func TestAuditLogger_OnErrorIgnoresOtherMethods(t *testing.T) {
	recorder := &fakeRecorder{}
	a := newSyncAuditLogger(&fakeScopes{}, recorder, zap.NewNop())

	a.onError(context.Background(), 3, mcplib.MethodToolsList, nil, errors.New("boom"))
	assert.Empty(t, recorder.events)
}

func TestAuditLogger_RecordFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	a := newSyncAuditLogger(&fakeScopes{err: errors.New("pool closed")}, &fakeRecorder{}, zap.New(core))
	a.afterCallTool(context.Background(), 1, callToolRequest("health", nil), nil)
	assert.Equal(t, 1, logs.FilterMessage("Failed to record MCP event: could not acquire connection").Len())

	b := newSyncAuditLogger(&fakeScopes{}, &fakeRecorder{err: errors.New("insert failed")}, zap.New(core))
	b.afterCallTool(context.Background(), 1, callToolRequest("health", nil), nil)
	assert.Equal(t, 1, logs.FilterMessage("Failed to record MCP event").Len())
}

func TestSanitizeParams(t *testing.T) {
	long := strings.Repeat("x", maxParamSize+10)
	got := sanitizeParams(map[string]any{
		"owner":     "octo",
		"api_token": "ghp_secret",
		"body":      long,
		"limit":     float64(5),
		"nested":    map[string]any{"password": "hunter2"},
	})

	assert.Equal(t, "octo", got["owner"])
	assert.Equal(t, float64(5), got["limit"])
	assert.True(t, strings.HasPrefix(got["api_token"].(string), "sha256:"))
	assert.NotContains(t, got["api_token"], "ghp_secret")
	assert.True(t, strings.HasSuffix(got["body"].(string), "...[truncated]"))
	nested := got["nested"].(map[string]any)
	assert.True(t, strings.HasPrefix(nested["password"].(string), "sha256:"))

	assert.Nil(t, sanitizeParams(nil))
}

func TestHashSensitiveValue_Deterministic(t *testing.T) {
	a := hashSensitiveValue("value")
	assert.Equal(t, a, hashSensitiveValue("value"))
	assert.NotEqual(t, a, hashSensitiveValue("other"))
	assert.Len(t, strings.TrimPrefix(a, "sha256:"), 16)
}

func TestSummarizeResult(t *testing.T) {
	assert.Nil(t, summarizeResult(nil))

	summary := summarizeResult(mcplib.NewToolResultText(strings.Repeat("a", 300)))
	assert.Equal(t, false, summary["is_error"])
	assert.Equal(t, 1, summary["content_count"])
	assert.True(t, strings.HasSuffix(summary["preview"].(string), "...[truncated]"))
}

func TestRepoFromArgs(t *testing.T) {
	assert.Nil(t, repoFromArgs(nil))
	assert.Nil(t, repoFromArgs(map[string]any{"owner": "octo"}))
	got := repoFromArgs(map[string]any{"owner": " octo ", "repo": "folio"})
	require.NotNil(t, got)
	assert.Equal(t, "octo/folio", *got)
}

// gatedRecorder blocks each append until gate is closed.
type gatedRecorder struct {
	*fakeRecorder
	gate chan struct{}
}

func (g *gatedRecorder) Record(ctx context.Context, event *models.NewEvent) error {
	<-g.gate
	return g.fakeRecorder.Record(ctx, event)
}

func TestAuditLogger_DrainWaitsForPendingAppends(t *testing.T) {
	recorder := &gatedRecorder{fakeRecorder: &fakeRecorder{}, gate: make(chan struct{})}
	a := NewAuditLogger(&fakeScopes{}, recorder, zap.NewNop())

	a.afterCallTool(context.Background(), 1, callToolRequest("portfolio_stats", nil), mcplib.NewToolResultText("{}"))

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Drain(short), context.DeadlineExceeded)

	close(recorder.gate)
	require.NoError(t, a.Drain(context.Background()))

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.events, 1)
	assert.Equal(t, ActionToolCall, recorder.events[0].Action)
}

func TestAuditLogger_DrainWithNothingPending(t *testing.T) {
	a := NewAuditLogger(&fakeScopes{}, &fakeRecorder{}, zap.NewNop())
	assert.NoError(t, a.Drain(context.Background()))
}
