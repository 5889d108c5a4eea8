package preview

import (
	"html"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/microapp/previewd/internal/preview/sandbox"
)

// documentShell is the fixed outer document. Placeholder tokens are
// substituted by renderDocument; the runtime compiler (Babel standalone)
// executes the single inline script block, so user code and the discovery
// scaffold share one evaluation scope.
const documentShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>{{TITLE}}</title>
<script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
<script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
<style>
{{BASE_CSS}}
{{STYLES}}
</style>
</head>
<body>
<div id="root"></div>
<script>
(function () {
	function showFatal(title, detail) {
		var root = document.getElementById("root");
		if (!root) return;
		root.innerHTML = "";
		var panel = document.createElement("div");
		panel.className = "preview-error-panel";
		var heading = document.createElement("h2");
		heading.textContent = title;
		var body = document.createElement("pre");
		body.textContent = detail || "";
		panel.appendChild(heading);
		panel.appendChild(body);
		root.appendChild(panel);
	}
	window.__previewShowFatal = showFatal;
	window.addEventListener("error", function (event) {
		showFatal("Runtime error", (event.error && event.error.stack) || event.message);
	});
	window.addEventListener("unhandledrejection", function (event) {
		var reason = event.reason;
		showFatal("Unhandled rejection", (reason && reason.stack) || String(reason));
	});
})();
</script>
<script type="text/babel" data-presets="react">
var useState = React.useState;
var useEffect = React.useEffect;
var useLayoutEffect = React.useLayoutEffect;
var useMemo = React.useMemo;
var useCallback = React.useCallback;
var useRef = React.useRef;
var useContext = React.useContext;
var useReducer = React.useReducer;
var Component = React.Component;
var PureComponent = React.PureComponent;
function cn() { return Array.prototype.slice.call(arguments).filter(Boolean).join(" "); }
var clsx = cn, classNames = cn;

{{USER_CODE}}

class ErrorBoundary extends React.Component {
	constructor(props) {
		super(props);
		this.state = { error: null };
	}
	static getDerivedStateFromError(error) {
		return { error: error };
	}
	render() {
		if (this.state.error) {
			var err = this.state.error;
			return React.createElement(
				"div", { className: "preview-error-panel" },
				React.createElement("h2", null, "Render error in " + this.props.componentName),
				React.createElement("pre", null, (err && err.stack) || String(err))
			);
		}
		return this.props.children;
	}
}

(function () {
	var priority = {{PRIORITY}};
	var excluded = {{EXCLUDED}};
	function callable(name) {
		var fn;
		try { fn = eval(name); } catch (e) { return null; }
		return (typeof fn === "function") ? fn : null;
	}
	function findRoot() {
		for (var i = 0; i < priority.length; i++) {
			var fn = callable(priority[i]);
			if (fn) return { name: priority[i], fn: fn };
		}
		var names = Object.getOwnPropertyNames(window);
		for (var i = 0; i < names.length; i++) {
			var n = names[i];
			if (n[0] < "A" || n[0] > "Z") continue;
			if (excluded.indexOf(n) >= 0) continue;
			if (typeof window[n] === "function" && /^[A-Z]/.test(n)) {
				if (n === "ErrorBoundary") continue;
				var builtin = /^(Array|Object|String|Number|Boolean|Function|Symbol|Date|RegExp|Error|TypeError|RangeError|SyntaxError|Promise|Map|Set|WeakMap|WeakSet|Proxy|Reflect|JSON|Math|Intl|ArrayBuffer|DataView|Int8Array|Uint8Array|Uint8ClampedArray|Int16Array|Uint16Array|Int32Array|Uint32Array|Float32Array|Float64Array|BigInt|React|ReactDOM|Babel)$/.test(n) || /^(HTML|SVG|CSS|DOM|Web|Blob|File|URL|XML|Image|Audio|Video|Option|Worker|Event|Node|Text|Range|Touch)/.test(n);
				if (builtin) continue;
				return { name: n, fn: window[n] };
			}
		}
		return null;
	}
	function candidateNames() {
		var out = [];
		for (var i = 0; i < priority.length; i++) {
			if (callable(priority[i])) out.push(priority[i]);
		}
		return out;
	}
	try {
		var found = findRoot();
		var container = document.getElementById("root");
		if (!found) {
			var known = candidateNames();
			window.__previewShowFatal(
				"No root component found",
				known.length
					? "Callable names discovered: " + known.join(", ")
					: "Define a component named App (or Page, Home, HomePage, Main, Index, Root), or any capitalized function."
			);
			return;
		}
		ReactDOM.createRoot(container).render(
			React.createElement(ErrorBoundary, { componentName: found.name },
				React.createElement(found.fn))
		);
	} catch (e) {
		window.__previewShowFatal("Mount failure", (e && e.stack) || String(e));
	}
})();
</script>
</body>
</html>
`

// baseCSS styles the error and diagnostic panels; user CSS is appended
// after it so projects can override anything.
const baseCSS = `html, body, #root { margin: 0; min-height: 100vh; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; }
.preview-error-panel { margin: 16px; padding: 16px; border: 1px solid #f5c2c7; border-radius: 8px; background: #fff5f5; color: #842029; }
.preview-error-panel h2 { margin: 0 0 8px; font-size: 16px; }
.preview-error-panel pre { margin: 0; font-size: 12px; white-space: pre-wrap; word-break: break-word; }
.preview-diagnostic { margin: 16px; padding: 16px; border: 1px solid #b6d4fe; border-radius: 8px; background: #f0f7ff; color: #084298; }
.preview-diagnostic h2 { margin: 0 0 8px; font-size: 16px; }
.preview-diagnostic ul { margin: 8px 0 0 20px; padding: 0; }`

// renderDocument substitutes the scaffold placeholders. All substituted
// values except userCode and styles are JSON- or HTML-escaped upstream.
func renderDocument(title, styles, userCode string) string {
	priority, _ := sonic.MarshalString(sandbox.PriorityNames)
	excluded, _ := sonic.MarshalString(sandbox.ExcludedNames)
	return strings.NewReplacer(
		"{{TITLE}}", html.EscapeString(title),
		"{{BASE_CSS}}", baseCSS,
		"{{STYLES}}", styles,
		"{{USER_CODE}}", userCode,
		"{{PRIORITY}}", priority,
		"{{EXCLUDED}}", excluded,
	).Replace(documentShell)
}

// renderDiagnostic produces the terminal "no recognized script files"
// document listing exactly the submitted paths.
func renderDiagnostic(paths []string) string {
	var items strings.Builder
	for _, p := range paths {
		items.WriteString("<li><code>")
		items.WriteString(html.EscapeString(p))
		items.WriteString("</code></li>\n")
	}
	return `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Preview</title><style>
` + baseCSS + `
</style></head>
<body>
<div class="preview-diagnostic">
<h2>No components found</h2>
<p>None of the uploaded files has a recognized script extension (.js, .jsx, .ts, .tsx, .mjs). Files received:</p>
<ul>
` + items.String() + `</ul>
</div>
</body>
</html>
`
}

// renderFailure is the outer-boundary fallback: a minimal document whose
// body is exactly the caught error's description.
func renderFailure(desc string) string {
	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"/></head><body>" +
		html.EscapeString(desc) + "</body></html>\n"
}
