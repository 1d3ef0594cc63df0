package specifier

import "strings"

// NodeBuiltinPrefix marks a module that is always provided by the runtime.
const NodeBuiltinPrefix = "node:"

// nodeBuiltins contains the top-level Node.js built-in module names.
// Subpath modules (fs/promises, path/posix) are covered by their package name.
var nodeBuiltins = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}

// NodeBuiltins returns a copy of the built-in module set.
func NodeBuiltins() map[string]bool {
	builtins := make(map[string]bool, len(nodeBuiltins))
	for name := range nodeBuiltins {
		builtins[name] = true
	}
	return builtins
}

// IsBuiltin reports whether name is a Node.js built-in module.
func IsBuiltin(name string) bool {
	if strings.HasPrefix(name, NodeBuiltinPrefix) {
		return true
	}
	return nodeBuiltins[name]
}
