// Package docgen encodes tool-generated document content into one of the five
// supported output formats. The three text formats are byte-exact UTF-8
// passthrough; PDF and DOCX delegate to external encoders.
package docgen

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
)

// Format identifies a supported document output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
	FormatCSV  Format = "csv"
	FormatMD   Format = "md"
)

// Formats lists every supported format in declaration order.
var Formats = []Format{FormatPDF, FormatDOCX, FormatTXT, FormatCSV, FormatMD}

// ParseFormat validates a format string coming from tool arguments.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported document type %q", s)
}

// FormatFromExtension maps a file extension (with or without the leading dot)
// back to its format.
func FormatFromExtension(ext string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimPrefix(ext, ".")))
	for _, known := range Formats {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Extension returns the canonical file extension, including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for downloads of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMD:
		return "text/markdown; charset=utf-8"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Encode renders content into the requested format.
func Encode(f Format, content string) ([]byte, error) {
	switch f {
	case FormatTXT, FormatCSV, FormatMD:
		return []byte(content), nil
	case FormatPDF:
		return encodePDF(content)
	case FormatDOCX:
		return encodeDOCX(content)
	default:
		return nil, fmt.Errorf("unsupported document type %q", f)
	}
}

// encodePDF renders the content as a single left-aligned text flow.
func encodePDF(content string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.MultiCell(0, 6, content, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeDOCX emits one paragraph per blank-line-separated block. Content with
// no non-empty blocks becomes a single paragraph.
func encodeDOCX(content string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, para := range SplitParagraphs(content) {
		doc.AddParagraph().AddText(para)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode docx: %w", err)
	}
	return buf.Bytes(), nil
}

// SplitParagraphs breaks content on blank-line boundaries, dropping empty
// blocks. When every block is empty the whole content is one paragraph.
func SplitParagraphs(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	var paras []string
	for _, block := range strings.Split(normalized, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paras = append(paras, trimmed)
		}
	}
	if len(paras) == 0 {
		return []string{content}
	}
	return paras
}
