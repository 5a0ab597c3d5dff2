package classify

import (
	"strings"
	"testing"
)

func TestNormalizeMIME(t *testing.T) {
	tests := []struct {
		name, mime, want string
	}{
		{"photo.jpg", "", "image/jpeg"},
		{"photo.jpg", "image/jpg", "image/jpeg"},
		{"photo.png", "image/x-png", "image/png"},
		{"data.csv", "", "text/csv"},
		{"notes.md", "", "text/markdown"},
		{"doc.txt", "text/plain; charset=utf-8", "text/plain"},
		{"weird.bin", "application/octet-stream", "application/octet-stream"},
		{"still.png", "garbage", "image/png"},
		{"still.png", "broken/", "image/png"},
		{"noext", "", ""},
	}
	for _, tt := range tests {
		if got := NormalizeMIME(tt.name, tt.mime); got != tt.want {
			t.Errorf("NormalizeMIME(%q, %q) = %q, want %q", tt.name, tt.mime, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mime, name string
		want       Category
	}{
		{"image/png", "a.png", CategoryImage},
		{"", "a.jpeg", CategoryImage},
		{"text/plain", "a.txt", CategoryText},
		{"application/json", "a.json", CategoryText},
		{"", "a.csv", CategoryText},
		{"application/pdf", "a.pdf", CategoryOther},
		{"application/octet-stream", "a.bin", CategoryOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.mime, tt.name); got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.mime, tt.name, got, tt.want)
		}
	}
}

func TestTextPreviewShortPassthrough(t *testing.T) {
	if got := TextPreview("short"); got != "short" {
		t.Errorf("TextPreview = %q, want passthrough", got)
	}
}

func TestTextPreviewTruncates(t *testing.T) {
	long := strings.Repeat("x", PreviewLimit+100)
	got := TextPreview(long)
	if !strings.HasSuffix(got, "[truncated]") {
		t.Errorf("TextPreview missing truncation marker: %q", got[len(got)-30:])
	}
	if len(got) > PreviewLimit+len("\n… [truncated]") {
		t.Errorf("TextPreview too long: %d", len(got))
	}
}

func TestTextPreviewRuneBoundary(t *testing.T) {
	// Fill so the cut lands mid-rune and must back off.
	long := strings.Repeat("x", PreviewLimit-1) + "héllo wörld"
	got := TextPreview(long)
	trimmed := strings.TrimSuffix(got, "\n… [truncated]")
	for i, r := range trimmed {
		if r == '�' {
			t.Fatalf("replacement rune at %d: preview split a rune", i)
		}
	}
}
