package web

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
)

func TestRenderIndex(t *testing.T) {
	var b bytes.Buffer
	if err := RenderIndex(&b, Page{Title: "Cars <&>", Debug: true}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "<title>Cars &lt;&amp;&gt;</title>") {
		t.Error("title not escaped into the page")
	}
	for _, id := range []string{"scatter_plot", "corr_heatmap_plot", "histogram_plot", "box_plot"} {
		if !strings.Contains(out, `id="`+id+`"`) {
			t.Errorf("missing chart container %s", id)
		}
	}
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"app.js", "styles.css"} {
		if _, err := fs.Stat(Static(), name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestAppDropsStaleResponses(t *testing.T) {
	src, err := fs.ReadFile(Static(), "app.js")
	if err != nil {
		t.Fatal(err)
	}
	js := string(src)
	for _, want := range []string{"++requestSeq", "(drawnSeq[c.id] || 0) > seq", "drawnSeq[c.id] = seq"} {
		if !strings.Contains(js, want) {
			t.Errorf("app.js: missing %q", want)
		}
	}
	if strings.Contains(js, "res.updated.forEach(draw)") {
		t.Error("app.js draws widget responses without checking their order")
	}
}
