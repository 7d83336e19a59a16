// Package audit writes security events to a dedicated "security_audit" logger
// in structured JSON so they can be shipped to a SIEM and filtered apart from
// application logs.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/logging"
	"github.com/folio-engine/folio-engine/pkg/middleware"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection matches a bound filter value.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventCapabilityDenied is logged when a request fails its capability check.
	EventCapabilityDenied SecurityEventType = "capability_denied"
)

// maxLoggedValueLen caps attacker-controlled values in the log.
const maxLoggedValueLen = 256

// SecurityEvent is the JSON document emitted for each security event.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Subject   string            `json:"subject,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails describes a filter value that matched an injection pattern.
type SQLInjectionDetails struct {
	Source      string `json:"source"`    // list endpoint, e.g. "portfolio_items"
	Predicate   string `json:"predicate"` // predicate template the value was bound to
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"`
}

// CapabilityDeniedDetails describes a rejected capability check.
type CapabilityDeniedDetails struct {
	Capability string `json:"capability"`
	Reason     string `json:"reason"`
}

// SecurityAuditor logs security events.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates an auditor logging under the "security_audit" name.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

var _ auth.DenialRecorder = (*SecurityAuditor)(nil)

// LogInjectionAttempt records a detected injection pattern at ERROR level.
// Filter values are always bound as parameters, so a match is a probe rather
// than an exploit; it is still reported with critical severity.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, details SQLInjectionDetails, clientIP string) {
	details.ParamValue = logging.TruncateString(details.ParamValue, maxLoggedValueLen)
	event := a.newEvent(ctx, EventSQLInjectionAttempt, details, clientIP, "critical")

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", marshalEvent(event)),
		zap.String("source", details.Source),
		zap.String("predicate", details.Predicate),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("subject", event.Subject),
		zap.String("severity", event.Severity),
	)
}

// InspectFilters runs injection detection over the filters bound into a list
// query and logs every match. It returns the number of matches. The query is
// never blocked.
func (a *SecurityAuditor) InspectFilters(ctx context.Context, source string, filters []sql.Filter) int {
	results := sql.CheckFilters(filters)
	if len(results) == 0 {
		return 0
	}

	clientIP := middleware.ClientIPFromContext(ctx)
	for _, r := range results {
		value, _ := r.ParamValue.(string)
		a.LogInjectionAttempt(ctx, SQLInjectionDetails{
			Source:      source,
			Predicate:   r.ParamName,
			ParamValue:  value,
			Fingerprint: r.Fingerprint,
		}, clientIP)
	}
	return len(results)
}

// LogCapabilityDenied records a rejected capability check at WARN level.
func (a *SecurityAuditor) LogCapabilityDenied(ctx context.Context, capability, reason, clientIP string) {
	event := a.newEvent(ctx, EventCapabilityDenied, CapabilityDeniedDetails{
		Capability: capability,
		Reason:     reason,
	}, clientIP, "warning")

	a.logger.Warn("Capability check denied",
		zap.String("event_json", marshalEvent(event)),
		zap.String("capability", capability),
		zap.String("reason", reason),
		zap.String("client_ip", clientIP),
		zap.String("subject", event.Subject),
		zap.String("severity", event.Severity),
	)
}

func (a *SecurityAuditor) newEvent(ctx context.Context, eventType SecurityEventType, details any, clientIP, severity string) SecurityEvent {
	return SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Subject:   auth.GetSubjectFromContext(ctx),
		ClientIP:  clientIP,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  severity,
	}
}

// marshalEvent serializes known types; the error is unreachable.
func marshalEvent(event SecurityEvent) string {
	b, _ := json.Marshal(event)
	return string(b)
}
