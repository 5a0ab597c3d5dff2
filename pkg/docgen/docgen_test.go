package docgen

import (
	"bytes"
	"reflect"
	"testing"
)

func TestEncode_TextFormatsAreIdentity(t *testing.T) {
	content := "col1,col2\n1,2\nünïcode,ok\n"

	for _, f := range []Format{FormatTXT, FormatCSV, FormatMD} {
		out, err := Encode(f, content)
		if err != nil {
			t.Fatalf("Encode(%s) returned error: %v", f, err)
		}
		if string(out) != content {
			t.Errorf("Encode(%s) changed content: %q", f, out)
		}
	}
}

func TestEncode_PDF(t *testing.T) {
	out, err := Encode(FormatPDF, "Hello PDF\n\nSecond paragraph.")
	if err != nil {
		t.Fatalf("Encode(pdf) returned error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("expected PDF magic header, got %q", out[:min(8, len(out))])
	}
}

func TestEncode_DOCX(t *testing.T) {
	out, err := Encode(FormatDOCX, "First paragraph.\n\nSecond paragraph.")
	if err != nil {
		t.Fatalf("Encode(docx) returned error: %v", err)
	}
	// DOCX is a zip container.
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Errorf("expected zip magic header, got %q", out[:min(4, len(out))])
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" PDF "); err != nil || f != FormatPDF {
		t.Errorf("ParseFormat(' PDF ') = %v, %v", f, err)
	}
	if _, err := ParseFormat("exe"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatFromExtension(t *testing.T) {
	if f, ok := FormatFromExtension(".csv"); !ok || f != FormatCSV {
		t.Errorf("FormatFromExtension('.csv') = %v, %v", f, ok)
	}
	if f, ok := FormatFromExtension("docx"); !ok || f != FormatDOCX {
		t.Errorf("FormatFromExtension('docx') = %v, %v", f, ok)
	}
	if _, ok := FormatFromExtension(".bin"); ok {
		t.Error("expected no format for '.bin'")
	}
}

func TestSplitParagraphs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a\n\nb\n\n\nc", []string{"a", "b", "c"}},
		{"single block\nwith two lines", []string{"single block\nwith two lines"}},
		{"a\r\n\r\nb", []string{"a", "b"}},
		{"\n\n \n\n", []string{"\n\n \n\n"}},
	}

	for _, tc := range cases {
		got := SplitParagraphs(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitParagraphs(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if ct := FormatPDF.ContentType(); ct != "application/pdf" {
		t.Errorf("pdf content type = %q", ct)
	}
	if ct := FormatCSV.ContentType(); ct != "text/csv; charset=utf-8" {
		t.Errorf("csv content type = %q", ct)
	}
}
