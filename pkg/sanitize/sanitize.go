// Package sanitize produces the two renderings of a model-generated artifact:
// a sanitized preview fragment that is safe to inject into the chat page, and
// a complete, unsanitized standalone document that must only ever be executed
// inside an isolated sandboxed frame.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var previewPolicy = newPreviewPolicy()

func newPreviewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AllowElements("img", "svg", "path", "circle", "line", "polyline", "polygon", "style", "canvas")
	p.AllowAttrs("style", "class", "id").Globally()
	p.AllowDataAttributes()
	p.AllowAttrs("viewBox", "xmlns", "width", "height", "fill", "stroke", "stroke-width",
		"d", "cx", "cy", "r", "x1", "y1", "x2", "y2", "points").
		OnElements("svg", "path", "circle", "line", "polyline", "polygon")
	return p
}

// Preview sanitizes the artifact's CSS and HTML into an inline-safe fragment.
// Script tags, event handlers, and attributes outside the allow list are
// stripped.
func Preview(html, css string) string {
	raw := html
	if css != "" {
		raw = "<style>" + css + "</style>" + html
	}
	return previewPolicy.Sanitize(raw)
}

// FullDocument assembles a complete standalone HTML document from the raw
// artifact parts. Nothing is sanitized: the output is meant to be executed,
// not displayed inline, and must only be delivered to an isolated context.
func FullDocument(title, html, css, js string) string {
	doc := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		title + "</title>\n"
	if css != "" {
		doc += "<style>\n" + css + "\n</style>\n"
	}
	doc += "</head>\n<body>\n" + html + "\n"
	if js != "" {
		doc += "<script type=\"module\">\n" + js + "\n</script>\n"
	}
	doc += "</body>\n</html>\n"
	return doc
}
