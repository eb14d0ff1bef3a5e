package surface

import (
	"fmt"
	"strings"

	"github.com/flykit-labs/flykit/internal/extension"
)

// wrapSource turns a registered script into an init script. Init scripts
// run before any page script, so the payload is deferred to the requested
// injection point and skipped in child frames unless SubFrames is set.
// The payload runs inside a function, so its top-level declarations do not
// become globals.
func wrapSource(s extension.Script) string {
	var b strings.Builder
	b.WriteString("(function () {\n")
	if !s.SubFrames {
		b.WriteString("if (window.top !== window) { return; }\n")
	}
	b.WriteString("var run = function () {\n")
	b.WriteString(s.Source)
	b.WriteString("\n};\n")

	switch s.InjectionPoint {
	case extension.InjectDocumentCreation:
		b.WriteString("run();\n")
	case extension.InjectDeferred:
		b.WriteString(`if (document.readyState === "complete") { run(); } else { window.addEventListener("load", run, { once: true }); }` + "\n")
	default:
		b.WriteString(`if (document.readyState === "loading") { document.addEventListener("DOMContentLoaded", run, { once: true }); } else { run(); }` + "\n")
	}

	b.WriteString("})();\n")
	fmt.Fprintf(&b, "//# sourceURL=extension://%s/%s\n", s.Name, extension.ScriptFile)
	return b.String()
}
