package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/span"
)

const analyzeBody = `{
  "project": "api",
  "site": {"region": "A1", "importance_level": 2, "design_life": 50, "terrain_category": 2, "height": 10},
  "building": {"width": 20, "depth": 20, "roof_type": "gable", "roof_angle": 5},
  "panel": {"width": 1.1, "depth": 2.2, "rail_orientation": "width"},
  "rail": {"brand": "Acme", "model": "R-40", "breaking_load_kn": 3.2, "test_span_m": 1.2, "safety_factor": 1.5},
  "num_spans": 3
}`

func newServer(opts Options) *Server {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Minute
	}
	return New(analysis.NewAnalyzer(asnzs.DefaultTable(), span.DefaultOptions()), opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeAndCache(t *testing.T) {
	h := newServer(Options{}).Router()

	first := do(t, h, http.MethodPost, "/api/analyze", analyzeBody)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", first.Code, first.Body.String())
	}
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}

	var res analysis.Result
	if err := json.Unmarshal(first.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(res.Zones) != len(asnzs.Zones) {
		t.Errorf("zones = %d, want %d", len(res.Zones), len(asnzs.Zones))
	}
	if res.Zones[res.Critical].Zone.Code != "RA4" {
		t.Errorf("critical = %s, want RA4", res.Zones[res.Critical].Zone.Code)
	}

	second := do(t, h, http.MethodPost, "/api/analyze", analyzeBody)
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Errorf("cached response differs from the original")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	h := newServer(Options{}).Router()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", "{", http.StatusBadRequest},
		{"unknown field", `{"colour": "red"}`, http.StatusBadRequest},
		{"unknown region", strings.Replace(analyzeBody, `"A1"`, `"Q7"`, 1), http.StatusUnprocessableEntity},
		{"zero safety factor", strings.Replace(analyzeBody, `"safety_factor": 1.5`, `"safety_factor": 0`, 1), http.StatusUnprocessableEntity},
		{"rail file", strings.Replace(analyzeBody, `"num_spans": 3`, `"num_spans": 3, "rail_file": "/etc/passwd"`, 1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/api/analyze", tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestBeam(t *testing.T) {
	h := newServer(Options{}).Router()

	rec := do(t, h, http.MethodPost, "/api/beam", `{"span_length": 2, "num_spans": 2, "load": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res beam.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.SupportMoments[1] != -0.5 {
		t.Errorf("interior moment = %v, want -0.5", res.SupportMoments[1])
	}

	rec = do(t, h, http.MethodPost, "/api/beam", `{"span_length": -1, "num_spans": 2, "load": 1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative span status = %d, want 422", rec.Code)
	}
}

func TestBeamRejectsOversizedModels(t *testing.T) {
	h := newServer(Options{}).Router()

	tests := []struct {
		name string
		body string
	}{
		{"too many spans", `{"span_length": 1, "num_spans": 2500, "load": 1}`},
		{"too many samples", `{"span_length": 1, "num_spans": 2, "load": 1, "points_per_span": 100000}`},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/api/beam", tt.body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", tt.name, rec.Code)
		}
		if rec.Body.Len() > 1024 {
			t.Errorf("%s: body is %d bytes, want a short error", tt.name, rec.Body.Len())
		}
	}
}

func TestAnalyzeRejectsOversizedSearch(t *testing.T) {
	h := newServer(Options{}).Router()

	tests := []struct {
		name   string
		modify func(*analysis.Input)
	}{
		{"too many spans", func(in *analysis.Input) { in.NumSpans = beam.MaxSpans + 1 }},
		{"too many steps", func(in *analysis.Input) { in.Search.Step = 1e-6 }},
		{"too many samples", func(in *analysis.Input) { in.Search.PointsPerSpan = beam.MaxPointsPerSpan + 1 }},
	}
	for _, tt := range tests {
		var in analysis.Input
		if err := json.Unmarshal([]byte(analyzeBody), &in); err != nil {
			t.Fatal(err)
		}
		tt.modify(&in)
		body, err := json.Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		if rec := do(t, h, http.MethodPost, "/api/analyze", string(body)); rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", tt.name, rec.Code)
		}
	}
}

func TestRegionsAndHealth(t *testing.T) {
	h := newServer(Options{}).Router()

	rec := do(t, h, http.MethodGet, "/api/regions", "")
	var regions RegionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &regions); err != nil {
		t.Fatal(err)
	}
	if len(regions.Regions) != 14 || regions.Regions[0] != "A0" {
		t.Errorf("regions = %v", regions.Regions)
	}
	if len(regions.Categories) != 6 || regions.Categories[0] != 1 {
		t.Errorf("terrain categories = %v", regions.Categories)
	}

	rec = do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/healthz", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz status = %d, want 405", rec.Code)
	}
}

func TestMetricsExposed(t *testing.T) {
	h := newServer(Options{}).Router()
	do(t, h, http.MethodPost, "/api/analyze", analyzeBody)
	do(t, h, http.MethodPost, "/api/analyze", analyzeBody)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`http_requests_total{route="analyze",status="200"} 2`,
		"analysis_cache_hits_total 1",
		"analysis_cache_misses_total 1",
		"analyses_total",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := newServer(Options{Rate: 0.001, Burst: 1}).Router()

	if rec := do(t, h, http.MethodGet, "/api/regions", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/regions", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz is not rate limited, status = %d", rec.Code)
	}
}

func TestHandlerLogsAccess(t *testing.T) {
	var buf bytes.Buffer
	h := newServer(Options{}).Handler(&buf)
	do(t, h, http.MethodGet, "/healthz", "")
	if !strings.Contains(buf.String(), "GET /healthz") {
		t.Errorf("access log = %q, want GET /healthz entry", buf.String())
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Minute, 0, nil)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get = %v, %v, want 1, true", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if n := c.Prune(); n != 0 {
		t.Errorf("Prune left %d entries, want 0", n)
	}
}

func TestCacheSetDropsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Millisecond, 0, nil)
	c.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	now = now.Add(time.Hour)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("new-%d", i), i)
	}
	if n := c.Len(); n != 100 {
		t.Errorf("entries held = %d, want 100", n)
	}
	if _, ok := c.Get("old-0"); ok {
		t.Error("expired entry still served")
	}
}

func TestCacheBoundedSize(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Hour, 3, nil)
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		now = now.Add(time.Second)
	}
	if n := c.Len(); n != 3 {
		t.Errorf("entries held = %d, want 3", n)
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if v, ok := c.Get("k4"); !ok || v != 4 {
		t.Errorf("Get(k4) = %v, %v, want 4, true", v, ok)
	}
}

func TestAnalyzeCacheEvictsThroughServer(t *testing.T) {
	srv := newServer(Options{CacheTTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv.cache.now = func() time.Time { return now }
	h := srv.Router()

	do(t, h, http.MethodPost, "/api/analyze", analyzeBody)
	now = now.Add(time.Hour)
	other := strings.Replace(analyzeBody, `"project": "api"`, `"project": "other"`, 1)
	if rec := do(t, h, http.MethodPost, "/api/analyze", other); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if n := srv.cache.Len(); n != 1 {
		t.Errorf("cache entries = %d, want 1 after expiry", n)
	}
}

func TestLimiterDropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if n := l.Clients(); n != 50 {
		t.Fatalf("clients = %d, want 50", n)
	}

	now = now.Add(2 * clientIdle)
	if !l.Allow("10.0.1.1") {
		t.Error("new client should be allowed")
	}
	if n := l.Clients(); n != 1 {
		t.Errorf("clients = %d, want 1 after idle sweep", n)
	}
}

func TestLimiterRefillsWithClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("second request in the same instant should be limited")
	}
	now = now.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("request after refill should be allowed")
	}
}

func TestPruneCacheStopsWithContext(t *testing.T) {
	srv := newServer(Options{CacheTTL: time.Millisecond})
	srv.cache.Set("stale", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.pruneCache(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for srv.cache.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("stale entry not pruned")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pruneCache did not return after cancel")
	}
}
