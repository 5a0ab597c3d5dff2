package backend

import (
	"bytes"
	"context"
	"testing"

	"github.com/lumenworks/canvaschat/pkg/chat"
)

func TestParseDataURI(t *testing.T) {
	mt, data, err := parseDataURI("data:image/png;base64,iVBORw==")
	if err != nil {
		t.Fatalf("parseDataURI: %v", err)
	}
	if mt != "image/png" {
		t.Errorf("media type = %q, want image/png", mt)
	}
	if !bytes.Equal(data, []byte{0x89, 0x50, 0x4E, 0x47}) {
		t.Errorf("data = %v", data)
	}

	for _, bad := range []string{"", "http://example.com/a.png", "data:image/png;base64", "data:image/png;base64,%%%"} {
		if _, _, err := parseDataURI(bad); err == nil {
			t.Errorf("parseDataURI(%q) accepted invalid input", bad)
		}
	}
}

func TestJoinTextBlocks(t *testing.T) {
	got := joinTextBlocks([]chat.ContentBlock{
		chat.TextBlock("first"),
		chat.ImageBlock("data:image/png;base64,AA=="),
		chat.TextBlock("  "),
		chat.TextBlock("second"),
	})
	if got != "first\n\nsecond" {
		t.Errorf("joinTextBlocks = %q", got)
	}
}

func TestScriptedBackendReplay(t *testing.T) {
	b := NewScriptedBackend(
		&chat.GenerateResponse{ID: "a", Items: []chat.OutputItem{{Text: &chat.TextItem{Text: "one"}}}},
	)

	resp, err := b.Generate(context.Background(), &chat.GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.ID != "a" || resp.FirstText() != "one" {
		t.Errorf("resp = %+v", resp)
	}

	// Exhausted script falls back to the canned reply.
	resp, err = b.Generate(context.Background(), &chat.GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.FirstText() == "" {
		t.Error("exhausted backend returned empty text")
	}

	if got := len(b.Requests()); got != 2 {
		t.Errorf("Requests = %d, want 2", got)
	}
}

func TestScriptedBackendHonorsContext(t *testing.T) {
	b := NewScriptedBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Generate(ctx, &chat.GenerateRequest{}); err == nil {
		t.Error("Generate ignored cancelled context")
	}
}
