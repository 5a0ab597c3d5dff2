package chat

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/lumenworks/canvaschat/pkg/classify"
)

func TestMapConversationPlainMessages(t *testing.T) {
	m := NewContentMapper(&stubStore{}, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{
		{Role: RoleSystem, Text: "be nice"},
		{Role: RoleUser, Text: "hello"},
		{Role: RoleAssistant, Text: "hi!"},
	})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, item := range items {
		if item.Message == nil {
			t.Fatalf("items[%d] is not a message", i)
		}
		if len(item.Message.Blocks) != 1 || item.Message.Blocks[0].Kind != BlockText {
			t.Errorf("items[%d] blocks = %+v, want single text block", i, item.Message.Blocks)
		}
	}
}

func TestMapConversationImageAttachment(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	store := &stubStore{files: map[string][]byte{"abc-photo.png": png}}
	m := NewContentMapper(store, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{{
		Role: RoleUser,
		Text: "what is this?",
		Attachments: []UploadedFile{{
			OriginalName:   "photo.png",
			StoredFilename: "abc-photo.png",
			MimeType:       "image/png",
			Category:       classify.CategoryImage,
		}},
	}})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}

	blocks := items[0].Message.Blocks
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	img := blocks[1]
	if img.Kind != BlockImage {
		t.Fatalf("second block kind = %q, want image", img.Kind)
	}
	wantURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if img.ImageURL != wantURI {
		t.Errorf("ImageURL = %q, want %q", img.ImageURL, wantURI)
	}
}

func TestMapConversationTextAttachmentInlined(t *testing.T) {
	store := &stubStore{files: map[string][]byte{"abc-notes.txt": []byte("line one\nline two")}}
	m := NewContentMapper(store, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{{
		Role: RoleUser,
		Text: "summarize",
		Attachments: []UploadedFile{{
			OriginalName:   "notes.txt",
			StoredFilename: "abc-notes.txt",
			MimeType:       "text/plain",
			Category:       classify.CategoryText,
		}},
	}})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}

	block := items[0].Message.Blocks[1]
	if block.Kind != BlockText {
		t.Fatalf("block kind = %q, want text", block.Kind)
	}
	if !strings.Contains(block.Text, "notes.txt") || !strings.Contains(block.Text, "line one") {
		t.Errorf("inlined block = %q, want filename and content", block.Text)
	}
}

func TestMapConversationMissingAttachmentDegrades(t *testing.T) {
	m := NewContentMapper(&stubStore{}, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{{
		Role: RoleUser,
		Text: "look",
		Attachments: []UploadedFile{{
			OriginalName:   "gone.png",
			StoredFilename: "abc-gone.png",
			Category:       classify.CategoryImage,
		}},
	}})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}

	block := items[0].Message.Blocks[1]
	if block.Kind != BlockText {
		t.Fatalf("block kind = %q, want degraded text block", block.Kind)
	}
	if !strings.Contains(block.Text, "could not be loaded") {
		t.Errorf("degraded block = %q, want load failure notice", block.Text)
	}
}

func TestMapConversationAttachmentOrderPreserved(t *testing.T) {
	store := &stubStore{files: map[string][]byte{
		"k-a.txt": []byte("AAA"),
		"k-b.txt": []byte("BBB"),
		"k-c.txt": []byte("CCC"),
	}}
	m := NewContentMapper(store, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{{
		Role: RoleUser,
		Text: "three files",
		Attachments: []UploadedFile{
			{OriginalName: "a.txt", StoredFilename: "k-a.txt", Category: classify.CategoryText},
			{OriginalName: "b.txt", StoredFilename: "k-b.txt", Category: classify.CategoryText},
			{OriginalName: "c.txt", StoredFilename: "k-c.txt", Category: classify.CategoryText},
		},
	}})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}

	blocks := items[0].Message.Blocks
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	for i, want := range []string{"AAA", "BBB", "CCC"} {
		if !strings.Contains(blocks[i+1].Text, want) {
			t.Errorf("blocks[%d] = %q, want to contain %q", i+1, blocks[i+1].Text, want)
		}
	}
}

func TestMapConversationAssistantAttachmentsIgnored(t *testing.T) {
	m := NewContentMapper(&stubStore{}, 2)

	items, err := m.MapConversation(context.Background(), []ChatMessage{{
		Role:        RoleAssistant,
		Text:        "earlier reply",
		Attachments: []UploadedFile{{OriginalName: "x.txt", StoredFilename: "k-x.txt"}},
	}})
	if err != nil {
		t.Fatalf("MapConversation: %v", err)
	}
	if len(items[0].Message.Blocks) != 1 {
		t.Errorf("assistant message expanded attachments: %+v", items[0].Message.Blocks)
	}
}
