// Package metrics counts HTTP requests by route and status and serves them in
// the Prometheus text exposition format.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// Metric family names.
const (
	RequestsTotal          = "folio_http_requests_total"
	RequestDurationSeconds = "folio_http_request_duration_seconds_total"
)

// unmatchedRoute labels requests no route pattern matched.
const unmatchedRoute = "unmatched"

type routeKey struct {
	route  string
	status int
}

type routeStats struct {
	count   uint64
	seconds float64
}

// Registry holds the request counters.
type Registry struct {
	mu     sync.Mutex
	routes map[routeKey]*routeStats
	logger *zap.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		routes: make(map[routeKey]*routeStats),
		logger: logger.Named("metrics"),
	}
}

// Observe records one finished request.
func (reg *Registry) Observe(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = unmatchedRoute
	}
	key := routeKey{route: route, status: status}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	s, ok := reg.routes[key]
	if !ok {
		s = &routeStats{}
		reg.routes[key] = s
	}
	s.count++
	s.seconds += elapsed.Seconds()
}

// Middleware records every request served by next. It must wrap the
// ServeMux directly so the matched pattern is visible on the request.
func (reg *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		reg.Observe(r.Pattern, rec.status, time.Since(start))
	})
}

// Families returns a snapshot of the metric families, sorted by labels.
func (reg *Registry) Families() []*dto.MetricFamily {
	reg.mu.Lock()
	keys := make([]routeKey, 0, len(reg.routes))
	snapshot := make(map[routeKey]routeStats, len(reg.routes))
	for k, s := range reg.routes {
		keys = append(keys, k)
		snapshot[k] = *s
	}
	reg.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].route != keys[j].route {
			return keys[i].route < keys[j].route
		}
		return keys[i].status < keys[j].status
	})

	counter := dto.MetricType_COUNTER
	requests := &dto.MetricFamily{
		Name: ptr(RequestsTotal),
		Help: ptr("HTTP requests by route pattern and status code."),
		Type: &counter,
	}
	durations := &dto.MetricFamily{
		Name: ptr(RequestDurationSeconds),
		Help: ptr("Total seconds spent serving HTTP requests by route pattern and status code."),
		Type: &counter,
	}
	for _, k := range keys {
		s := snapshot[k]
		labels := []*dto.LabelPair{
			{Name: ptr("route"), Value: ptr(k.route)},
			{Name: ptr("status"), Value: ptr(strconv.Itoa(k.status))},
		}
		requests.Metric = append(requests.Metric, &dto.Metric{
			Label:   labels,
			Counter: &dto.Counter{Value: ptr(float64(s.count))},
		})
		durations.Metric = append(durations.Metric, &dto.Metric{
			Label:   labels,
			Counter: &dto.Counter{Value: ptr(s.seconds)},
		})
	}
	return []*dto.MetricFamily{requests, durations}
}

// Handler serves GET /metrics.
func (reg *Registry) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		for _, mf := range reg.Families() {
			if len(mf.Metric) == 0 {
				continue
			}
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				reg.logger.Error("Failed to write metric family",
					zap.String("family", mf.GetName()),
					zap.Error(err))
				return
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func ptr[T any](v T) *T {
	return &v
}
