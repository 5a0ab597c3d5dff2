package sanitize

import (
	"strings"
	"testing"
)

func TestPreview_StripsScripts(t *testing.T) {
	out := Preview(`<div class="box"><script>alert(1)</script><p onclick="evil()">hi</p></div>`, "")

	if strings.Contains(out, "<script") {
		t.Errorf("preview should not contain script tags: %q", out)
	}
	if strings.Contains(out, "onclick") {
		t.Errorf("preview should not contain event handlers: %q", out)
	}
	if !strings.Contains(out, `class="box"`) {
		t.Errorf("preview should keep class attributes: %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("preview should keep text content: %q", out)
	}
}

func TestPreview_KeepsAllowedMarkup(t *testing.T) {
	out := Preview(`<svg viewBox="0 0 10 10"><circle cx="5" cy="5" r="4"/></svg><canvas id="c" data-mode="draw"></canvas>`, "")

	for _, want := range []string{"<svg", "<circle", "<canvas", `data-mode="draw"`, `id="c"`} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q: %q", want, out)
		}
	}
}

func TestPreview_InlinesCSS(t *testing.T) {
	out := Preview(`<p>styled</p>`, `p { color: red; }`)

	if !strings.Contains(out, "color: red") {
		t.Errorf("preview should keep the style block: %q", out)
	}
}

func TestFullDocument_PreservesJSVerbatim(t *testing.T) {
	js := `console.log("<b>not markup</b>"); document.title = "x";`
	doc := FullDocument("Demo", "<div id=\"app\"></div>", "body { margin: 0 }", js)

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Errorf("document should start with a doctype: %q", doc[:40])
	}
	if !strings.Contains(doc, `<meta charset="utf-8">`) {
		t.Error("document should declare utf-8")
	}
	if !strings.Contains(doc, js) {
		t.Error("document should contain the raw JS verbatim")
	}
	if !strings.Contains(doc, `<script type="module">`) {
		t.Error("document should wrap JS in a module script block")
	}
	if !strings.Contains(doc, "body { margin: 0 }") {
		t.Error("document should contain the raw CSS")
	}
}

func TestFullDocument_OmitsEmptyParts(t *testing.T) {
	doc := FullDocument("Bare", "<p>hi</p>", "", "")

	if strings.Contains(doc, "<script") {
		t.Error("document without JS should have no script block")
	}
	if strings.Contains(doc, "<style") {
		t.Error("document without CSS should have no style block")
	}
}
