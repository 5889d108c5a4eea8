package sandbox

import (
	"context"
	"regexp"

	"github.com/bytedance/sonic"

	"github.com/microapp/previewd/internal/shared/types"
)

// PriorityNames is the ordered list of conventional root-component names.
// Discovery selects the first one bound to a callable, so an earlier name
// wins even when a later one is also defined.
var PriorityNames = []string{"App", "Page", "Home", "HomePage", "Main", "Index", "Root"}

// ExcludedNames are framework base classes that never count as a root
// component during the uppercase-callable fallback scan.
var ExcludedNames = []string{"Component", "PureComponent"}

// stubPrelude declares the framework surface stripped code may reference
// by bare name. Hooks return inert values; components are only declared
// during discovery, never rendered, so stubs suffice.
const stubPrelude = `
function useState(init) { var v = (typeof init === "function") ? init() : init; return [v, function () {}]; }
function useEffect() {}
function useLayoutEffect() {}
function useMemo(fn) { return fn(); }
function useCallback(fn) { return fn; }
function useRef(init) { return { current: init }; }
function useContext() { return undefined; }
function useReducer(reducer, init) { return [init, function () {}]; }
function Component(props) { this.props = props || {}; this.state = {}; }
Component.prototype.setState = function () {};
Component.prototype.render = function () { return null; };
function PureComponent(props) { Component.call(this, props); }
PureComponent.prototype = Object.create(Component.prototype);
var React = {
	createElement: function () { return null; },
	Fragment: "Fragment",
	Component: Component,
	PureComponent: PureComponent,
	useState: useState, useEffect: useEffect, useMemo: useMemo,
	useCallback: useCallback, useRef: useRef, useContext: useContext,
	useReducer: useReducer,
};
var ReactDOM = { render: function () {}, createRoot: function () { return { render: function () {} }; } };
function cn() { return Array.prototype.slice.call(arguments).filter(Boolean).join(" "); }
var clsx = cn, classNames = cn;
`

// Discoverer performs root-component discovery over stripped bundles.
type Discoverer struct {
	pool *Pool
}

// NewDiscoverer creates a discoverer backed by a runtime pool.
func NewDiscoverer(pool *Pool) *Discoverer {
	return &Discoverer{pool: pool}
}

// Discover evaluates code in a sandboxed runtime and searches for the root
// component. Total: evaluation failures (JSX, syntax the stripper could not
// reduce) fall back to a lexical declaration scan, so a Discovery is always
// returned.
func (d *Discoverer) Discover(ctx context.Context, code string) types.Discovery {
	script := stubPrelude + "\n" + code + "\n" + discoveryScript()
	res, err := d.pool.Execute(ctx, script)
	if err != nil || res == nil || res.Value == nil {
		return LexicalScan(code)
	}

	out, ok := res.Value.(map[string]any)
	if !ok {
		return LexicalScan(code)
	}

	var disc types.Discovery
	if name, ok := out["component"].(string); ok {
		disc.Component = name
	}
	if raw, ok := out["candidates"].([]any); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				disc.Candidates = append(disc.Candidates, s)
			}
		}
	}
	if disc.Component == "" && len(disc.Candidates) == 0 {
		return LexicalScan(code)
	}
	return disc
}

// discoveryScript builds the in-VM search: priority names first (probed
// with eval so lexical bindings count), then the first uppercase callable
// that is not a framework base class.
func discoveryScript() string {
	priority, _ := sonic.MarshalString(PriorityNames)
	excluded, _ := sonic.MarshalString(ExcludedNames)
	return `(function () {
	var priority = ` + priority + `;
	var excluded = ` + excluded + `;
	var g = (typeof globalThis !== "undefined") ? globalThis : this;
	var seen = {};
	var candidates = [];
	var builtin = /^(Array|Object|String|Number|Boolean|Function|Symbol|Date|RegExp|Error|EvalError|TypeError|RangeError|ReferenceError|SyntaxError|URIError|AggregateError|Promise|Map|Set|WeakMap|WeakSet|WeakRef|FinalizationRegistry|Proxy|Reflect|JSON|Math|ArrayBuffer|SharedArrayBuffer|DataView|Int8Array|Uint8Array|Uint8ClampedArray|Int16Array|Uint16Array|Int32Array|Uint32Array|Float32Array|Float64Array|BigInt|BigInt64Array|BigUint64Array|React|ReactDOM)$/;
	function note(name, fn) {
		if (typeof fn !== "function") return;
		if (seen[name] || excluded.indexOf(name) >= 0) return;
		if (name[0] < "A" || name[0] > "Z") return;
		if (builtin.test(name)) return;
		seen[name] = true;
		candidates.push(name);
	}
	var names = Object.getOwnPropertyNames(g);
	for (var i = 0; i < names.length; i++) note(names[i], g[names[i]]);
	for (var i = 0; i < priority.length; i++) {
		var fn;
		try { fn = eval(priority[i]); } catch (e) { continue; }
		note(priority[i], fn);
		if (typeof fn === "function") return { component: priority[i], candidates: candidates };
	}
	if (candidates.length > 0) return { component: candidates[0], candidates: candidates };
	return { component: "", candidates: candidates };
})()`
}

var declPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?function[ \t]+([A-Z]\w*)`),
	regexp.MustCompile(`(?m)^[ \t]*class[ \t]+([A-Z]\w*)`),
	regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)[ \t]+([A-Z]\w*)[ \t]*=[ \t]*(?:async[ \t]+)?(?:function\b|\(|[\w$]+[ \t]*=>)`),
}

// LexicalScan is the JSX-tolerant fallback: collect uppercase declaration
// names in order of appearance and apply the same priority rules.
func LexicalScan(code string) types.Discovery {
	excluded := make(map[string]bool, len(ExcludedNames))
	for _, n := range ExcludedNames {
		excluded[n] = true
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, re := range declPatterns {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			name := m[1]
			if seen[name] || excluded[name] {
				continue
			}
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	disc := types.Discovery{Candidates: candidates}
	for _, name := range PriorityNames {
		if seen[name] {
			disc.Component = name
			return disc
		}
	}
	if len(candidates) > 0 {
		disc.Component = candidates[0]
	}
	return disc
}
