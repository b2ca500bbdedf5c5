package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)

	tests := []struct {
		name    string
		install func()
		check   func() bool
	}{
		{
			name:    "pipeline",
			install: func() { SetPipelineHooks(&recorder{}) },
			check:   func() bool { _, ok := Pipeline().(*recorder); return ok },
		},
		{
			name:    "cache",
			install: func() { SetCacheHooks(&recorder{}) },
			check:   func() bool { _, ok := Cache().(*recorder); return ok },
		},
		{
			name:    "http",
			install: func() { SetHTTPHooks(&recorder{}) },
			check:   func() bool { _, ok := HTTP().(*recorder); return ok },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			if tt.check() {
				t.Fatal("recorder installed before Set")
			}
			tt.install()
			if !tt.check() {
				t.Fatal("recorder not installed")
			}
			Reset()
			if tt.check() {
				t.Fatal("Reset kept the recorder")
			}
		})
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)
	r := &recorder{}
	SetPipelineHooks(r)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(r) {
		t.Error("SetPipelineHooks(nil) replaced the installed hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
}

func TestRecorderSeesEvents(t *testing.T) {
	t.Cleanup(Reset)
	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, 3)
	Pipeline().OnLayoutComplete(ctx, 3, 1, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheSet(ctx, "layout", 42)

	want := []string{"layout-start:3", "layout-complete:3/1", "miss:layout", "set:layout"}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, r.events[i], want[i])
		}
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnLayoutStart(ctx, 5)
	h.OnLayoutComplete(ctx, 5, 2, time.Millisecond, nil)
	h.OnLayoutComplete(ctx, 0, 0, 0, errors.New("boom"))
	if got := testutil.ToFloat64(h.layouts.WithLabelValues("success")); got != 1 {
		t.Errorf("successful layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.layouts.WithLabelValues("error")); got != 1 {
		t.Errorf("failed layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.overflow); got != 2 {
		t.Errorf("overflow = %v, want 2", got)
	}

	h.OnRenderStart(ctx, []string{"svg", "png"})
	h.OnRenderComplete(ctx, []string{"svg", "png"}, 10*time.Millisecond, nil)
	if got := testutil.ToFloat64(h.renders.WithLabelValues("svg,png", "success")); got != 1 {
		t.Errorf("renders = %v, want 1", got)
	}

	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 512)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheHit(ctx, "layout")
	if got := testutil.ToFloat64(h.cacheOps.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.cacheBytes.WithLabelValues("layout")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	h.OnRequest(ctx, "POST", "/v1/layout")
	if got := testutil.ToFloat64(h.requestInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
	if got := testutil.ToFloat64(h.requestInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.requests.WithLabelValues("POST", "/v1/layout", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metrics registered")
	}
}

func TestPrometheusHooksDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	NewPrometheusHooks(reg)
}

type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	events []string
}

func (r *recorder) OnLayoutStart(_ context.Context, n int) {
	r.events = append(r.events, fmt.Sprintf("layout-start:%d", n))
}

func (r *recorder) OnLayoutComplete(_ context.Context, n, overflow int, _ time.Duration, _ error) {
	r.events = append(r.events, fmt.Sprintf("layout-complete:%d/%d", n, overflow))
}

func (r *recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.events = append(r.events, "miss:"+keyType)
}

func (r *recorder) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.events = append(r.events, "set:"+keyType)
}
