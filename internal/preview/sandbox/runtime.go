package sandbox

import (
	"context"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// Runtime wraps a goja VM with execution controls.
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	console   []LogEntry
	consoleMu sync.Mutex
}

// New creates a new sandboxed runtime.
func New(config Config) (*Runtime, error) {
	r := &Runtime{
		vm:     goja.New(),
		config: config,
	}
	if err := r.setupGlobals(); err != nil {
		return nil, err
	}
	return r, nil
}

// Execute runs JavaScript code with timeout enforcement. The returned
// Result carries console output and the exported final value; evaluation
// errors land in Result.Error as well as the error return.
func (r *Runtime) Execute(ctx context.Context, script string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	result := &Result{}

	timer := time.NewTimer(r.config.Timeout)
	defer timer.Stop()

	done := make(chan struct{})
	go func() {
		select {
		case <-timer.C:
			r.vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			r.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	r.consoleMu.Lock()
	r.console = nil
	r.consoleMu.Unlock()

	val, err := r.vm.RunString(script)
	close(done)

	result.Duration = time.Since(start)

	r.consoleMu.Lock()
	result.Console = append([]LogEntry{}, r.console...)
	r.consoleMu.Unlock()

	if err != nil {
		r.vm.ClearInterrupt()
		result.Error = err
		return result, err
	}

	if val != nil && !goja.IsUndefined(val) && !goja.IsNull(val) {
		result.Value = val.Export()
	}
	return result, nil
}

// setupGlobals removes host-facing globals and installs the console.
func (r *Runtime) setupGlobals() error {
	if r.config.MaxCallStack > 0 {
		r.vm.SetMaxCallStackSize(r.config.MaxCallStack)
	}

	r.vm.Set("require", goja.Undefined())
	r.vm.Set("process", goja.Undefined())
	r.vm.Set("module", goja.Undefined())
	r.vm.Set("exports", goja.Undefined())

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		console.Set("log", r.makeConsoleFunc("log"))
		console.Set("warn", r.makeConsoleFunc("warn"))
		console.Set("error", r.makeConsoleFunc("error"))
		console.Set("info", r.makeConsoleFunc("info"))
		r.vm.Set("console", console)
	}

	// Timers are no-ops: discovery is a single synchronous pass.
	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})
	r.vm.Set("setInterval", func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})

	return nil
}

func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var msg string
		for i, arg := range call.Arguments {
			if i > 0 {
				msg += " "
			}
			msg += arg.String()
		}

		r.consoleMu.Lock()
		r.console = append(r.console, LogEntry{
			Level:   level,
			Message: msg,
			Time:    time.Now(),
		})
		r.consoleMu.Unlock()

		return goja.Undefined()
	}
}

// Reset clears the runtime state for reuse.
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = goja.New()
	r.console = nil
	return r.setupGlobals()
}

// Close releases resources.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = nil
	r.console = nil
	return nil
}
