package sandbox

import (
	"context"
	"testing"
	"time"
)

func newTestDiscoverer(t *testing.T) *Discoverer {
	t.Helper()
	pool, err := NewPool(DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return NewDiscoverer(pool)
}

func TestDiscoverFunctionDeclaration(t *testing.T) {
	d := newTestDiscoverer(t)
	disc := d.Discover(context.Background(), "function App() { return null }")

	if disc.Component != "App" {
		t.Errorf("expected App, got %q", disc.Component)
	}
}

func TestDiscoverPriorityOrder(t *testing.T) {
	// App is earlier in the priority list, so it wins even though
	// HomePage is declared first.
	d := newTestDiscoverer(t)
	code := "function HomePage() { return null }\nfunction App() { return null }"
	disc := d.Discover(context.Background(), code)

	if disc.Component != "App" {
		t.Errorf("expected App to win over HomePage, got %q", disc.Component)
	}
}

func TestDiscoverFallbackToUppercaseCallable(t *testing.T) {
	d := newTestDiscoverer(t)
	disc := d.Discover(context.Background(), "function Dashboard() { return null }")

	if disc.Component != "Dashboard" {
		t.Errorf("expected Dashboard, got %q", disc.Component)
	}
}

func TestDiscoverExcludesFrameworkBases(t *testing.T) {
	// Component and PureComponent come from the prelude; with nothing
	// else defined there is no root.
	d := newTestDiscoverer(t)
	disc := d.Discover(context.Background(), "var x = 1;")

	if disc.Component != "" {
		t.Errorf("expected no component, got %q", disc.Component)
	}
	for _, c := range disc.Candidates {
		if c == "Component" || c == "PureComponent" {
			t.Errorf("framework base %q leaked into candidates", c)
		}
	}
}

func TestDiscoverFallsBackOnJSX(t *testing.T) {
	// goja cannot parse JSX; the lexical scan must still find the root.
	d := newTestDiscoverer(t)
	disc := d.Discover(context.Background(), "function App() { return <div>hi</div>; }")

	if disc.Component != "App" {
		t.Errorf("expected App via lexical fallback, got %q", disc.Component)
	}
}

func TestLexicalScanArrowComponents(t *testing.T) {
	disc := LexicalScan("const Widget = () => null;\nconst helper = () => 1;")

	if disc.Component != "Widget" {
		t.Errorf("expected Widget, got %q", disc.Component)
	}
}

func TestLexicalScanPriority(t *testing.T) {
	disc := LexicalScan("class HomePage {}\nfunction App() { return null }")

	if disc.Component != "App" {
		t.Errorf("expected App, got %q", disc.Component)
	}
}

func TestRuntimeTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create runtime: %v", err)
	}
	defer rt.Close()

	_, err = rt.Execute(context.Background(), "while (true) {}")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestRuntimeConsoleCapture(t *testing.T) {
	rt, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create runtime: %v", err)
	}
	defer rt.Close()

	res, err := rt.Execute(context.Background(), `console.log("hello", 42)`)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(res.Console) != 1 {
		t.Fatalf("expected 1 console entry, got %d", len(res.Console))
	}
	if res.Console[0].Message != "hello 42" {
		t.Errorf("unexpected console message %q", res.Console[0].Message)
	}
}

func TestRuntimeBlocksHostGlobals(t *testing.T) {
	rt, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create runtime: %v", err)
	}
	defer rt.Close()

	res, err := rt.Execute(context.Background(), "typeof require")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if res.Value != "undefined" {
		t.Errorf("require should be undefined, got %v", res.Value)
	}
}

func TestPoolReuse(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer pool.Close()

	for i := 0; i < 3; i++ {
		if _, err := pool.Execute(context.Background(), "1 + 1"); err != nil {
			t.Fatalf("execution %d failed: %v", i, err)
		}
	}

	stats := pool.Stats()
	if stats["available"] != 1 {
		t.Errorf("expected 1 available runtime, got %v", stats["available"])
	}
}
