package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx)
	p.OnLoadComplete(ctx, 100, 250, time.Second, nil)
	p.OnComposeStart(ctx, 100)
	p.OnComposeComplete(ctx, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 4096, time.Second, nil)

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "TB", 100)
	l.OnLayoutComplete(ctx, "TB", 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/api/render")
	s.OnResponse(ctx, "POST", "/api/render", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() default is not NoopPipelineHooks")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() default is not NoopLayoutHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not NoopCacheHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() default is not NoopServerHooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks did not take")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks did not take")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks did not take")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks did not take")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore the no-op pipeline hooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) replaced the registered hooks")
	}

	Reset()
}

func TestMetricsImplementsHooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("test")

	// Exercise every hook; the assertion is that nothing panics and the
	// registry gathers cleanly afterwards.
	m.OnLoadStart(ctx)
	m.OnLoadComplete(ctx, 10, 12, time.Millisecond, nil)
	m.OnComposeStart(ctx, 10)
	m.OnComposeComplete(ctx, time.Millisecond, nil)
	m.OnLayoutStart(ctx, "TB", 10)
	m.OnLayoutComplete(ctx, "TB", 2, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "LR", 0, time.Millisecond, context.Canceled)
	m.OnRenderStart(ctx, "svg")
	m.OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 512)
	m.OnRequest(ctx, "POST", "/api/render")
	m.OnResponse(ctx, "POST", "/api/render", 200, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("Gather() returned no metric families")
	}

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"test_stage_duration_seconds",
		"test_layout_runs_total",
		"test_cache_ops_total",
		"test_http_requests_total",
	} {
		if !names[want] {
			t.Errorf("Gather() missing %s", want)
		}
	}
}

func TestMetricsIndependentRegistries(t *testing.T) {
	// Two collectors must not collide on registration.
	a := NewMetrics("gjs")
	b := NewMetrics("gjs")
	a.OnCacheHit(context.Background(), "graph")
	if _, err := b.Registry().Gather(); err != nil {
		t.Fatalf("Gather() on second collector error = %v", err)
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testLayoutHooks struct{ NoopLayoutHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
