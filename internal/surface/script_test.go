package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flykit-labs/flykit/internal/extension"
)

func TestWrapSource_DocumentReady(t *testing.T) {
	ext := extension.Extension{ID: "darkreader"}
	src := wrapSource(extension.ExtensionScript(ext, `document.body.classList.add("dark");`))

	assert.Contains(t, src, `document.body.classList.add("dark");`)
	assert.Contains(t, src, `document.readyState === "loading"`)
	assert.Contains(t, src, "DOMContentLoaded")
	assert.NotContains(t, src, "window.top !== window")
	assert.True(t, strings.HasSuffix(src, "//# sourceURL=extension://darkreader/content.js\n"))
	require.NoError(t, extension.Lint("wrapped.js", src))
}

func TestWrapSource_TopFrameOnly(t *testing.T) {
	src := wrapSource(extension.Script{Name: "top", Source: "void 0;", SubFrames: false})
	assert.Contains(t, src, "if (window.top !== window) { return; }")
	require.NoError(t, extension.Lint("wrapped.js", src))
}

func TestWrapSource_InjectionPoints(t *testing.T) {
	tests := []struct {
		point extension.InjectionPoint
		want  string
	}{
		{extension.InjectDocumentCreation, "run();\n})();"},
		{extension.InjectDeferred, `window.addEventListener("load", run`},
		{extension.InjectDocumentReady, `addEventListener("DOMContentLoaded", run`},
	}
	for _, tt := range tests {
		src := wrapSource(extension.Script{Name: "x", Source: "void 0;", InjectionPoint: tt.point, SubFrames: true})
		assert.Contains(t, src, tt.want)
		assert.NoError(t, extension.Lint("wrapped.js", src))
	}
}

func TestWrapSource_PayloadWithTrailingComment(t *testing.T) {
	src := wrapSource(extension.Script{Name: "c", Source: "void 0; // trailing", SubFrames: true})
	require.NoError(t, extension.Lint("wrapped.js", src))
}
