package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/gravity/pkg/observability"
	"github.com/matzehuels/gravity/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(pipeline.NewRunner(nil, nil, nil), Options{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", rec.Header().Get(RequestIDHeader))
	}
	if !strings.HasPrefix(rec.Header().Get("Server"), "gravity/") {
		t.Errorf("Server header = %q", rec.Header().Get("Server"))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestServer(t).Handler()
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid request id should be replaced")
	}
}

func TestVersion(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"go_version"`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestLayout(t *testing.T) {
	body := `{
		"tasks": [
			{"id": "ship release", "priority": 9, "time_minutes": 120, "quadrant": 1},
			{"id": "plan sprint", "priority": 6, "time_minutes": 60, "quadrant": 2},
			{"label": "no id yet", "priority": 2, "quadrant": 4}
		],
		"formats": ["dot", "json"]
	}`
	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Layout.Nodes) != 3 {
		t.Fatalf("got %d nodes", len(resp.Layout.Nodes))
	}
	if _, err := uuid.Parse(resp.Layout.Nodes[2].ID); err != nil {
		t.Errorf("missing id should be a UUID, got %q", resp.Layout.Nodes[2].ID)
	}
	if !bytes.HasPrefix(resp.Artifacts["dot"], []byte("graph G {")) {
		t.Errorf("dot artifact = %q", resp.Artifacts["dot"])
	}
	if resp.RequestID == "" || resp.RequestID != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request id mismatch: %q vs %q", resp.RequestID, rec.Header().Get(RequestIDHeader))
	}
	if resp.TasksHash == "" {
		t.Error("tasks_hash should be set")
	}
}

func TestLayoutWithoutFormats(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/v1/layout", `{"tasks":[{"id":"a"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Artifacts) != 0 {
		t.Errorf("artifacts = %v, want none", resp.Artifacts)
	}
	if resp.Layout.Nodes[0].Quadrant != 4 {
		t.Errorf("missing quadrant should default to Q4, got %v", resp.Layout.Nodes[0].Quadrant)
	}
}

func TestLayoutConfigOverrides(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/v1/layout", `{"tasks":[{"id":"a","priority":10,"time_minutes":480}],"config":{"r_min":10}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Layout.Config.RMin != 10 {
		t.Errorf("RMin = %v, want 10", resp.Layout.Config.RMin)
	}
	if resp.Layout.Nodes[0].R != 10 {
		t.Errorf("heaviest task r = %v, want 10", resp.Layout.Nodes[0].R)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty body", ``, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", `{"tasks": [`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"taskz": []}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", `{"tasks":[{"id":"a"}],"formats":["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"invalid override", `{"tasks":[{"id":"a"}],"config":{"r_max":1}}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"unknown override", `{"tasks":[{"id":"a"}],"config":{"radius":1}}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"bad task id", `{"tasks":[{"id":"a\u0001"}]}`, http.StatusBadRequest, "INVALID_TASK"},
	}
	h := newTestServer(t).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeError(t, rec).Error.Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestLayoutTooManyTasks(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"tasks":[`)
	for i := 0; i <= MaxTasks; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{}`)
	}
	b.WriteString(`]}`)

	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/v1/layout", b.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestLayoutRequiresJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(`{"tasks":[]}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestAngles(t *testing.T) {
	body := `{"tasks":[
		{"id":"write report","weight":0.8,"quadrant":2},
		{"id":"reply to mail","weight":0.3,"quadrant":2}
	]}`
	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/v1/angles", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp AnglesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Angles["write report"] != 67.5 || resp.Angles["reply to mail"] != 112.5 {
		t.Errorf("angles = %v", resp.Angles)
	}

	rec = do(t, newTestServer(t).Handler(), http.MethodPost, "/v1/angles", `{"tasks":[{"id":"","weight":1}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty id: status = %d", rec.Code)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error.Code != "NOT_FOUND" {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/v1/layout", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)

	s := New(nil, Options{Metrics: reg})
	h := s.Handler()

	do(t, h, http.MethodPost, "/v1/layout", `{"tasks":[{"id":"a"}]}`)
	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`gravity_http_requests_total{code="200",method="POST",route="/v1/layout"} 1`,
		`gravity_layout_runs_total{status="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
