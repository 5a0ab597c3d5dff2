package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenworks/canvaschat/pkg/blob"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/docgen"
)

// DownloadPathPrefix is the route prefix download URLs are derived from.
const DownloadPathPrefix = "/generated/"

const fallbackDocumentName = "document"

// DocumentTool implements the create_document function: it encodes model
// content into one of the supported formats and persists it in the generated
// blob store.
type DocumentTool struct {
	store *blob.Store
}

// NewDocumentTool returns the create_document executor writing into store.
func NewDocumentTool(store *blob.Store) *DocumentTool {
	return &DocumentTool{store: store}
}

type documentArgs struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Summary  string `json:"summary"`
}

// Definition declares the tool schema exactly as exposed to the backend.
func (t *DocumentTool) Definition() chat.ToolDefinition {
	return chat.ToolDefinition{
		Name: "create_document",
		Description: "Create a downloadable document from text content. " +
			"Supported types: pdf, docx, txt, csv, md.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filename": map[string]any{
					"type":        "string",
					"description": "Desired file name, without or with extension.",
				},
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{"pdf", "docx", "txt", "csv", "md"},
					"description": "Output format.",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "The document's full text content.",
				},
				"summary": map[string]any{
					"type":        "string",
					"description": "Optional one-line summary shown next to the download.",
				},
			},
			"required": []string{"filename", "type", "content"},
		},
	}
}

// Invoke validates the arguments, encodes the content, and persists the
// result under a freshly keyed name. Failures are reported to the model, not
// the HTTP layer.
func (t *DocumentTool) Invoke(_ context.Context, inv chat.ToolInvocation) chat.ToolOutcome {
	var args documentArgs
	if err := json.Unmarshal([]byte(inv.Arguments), &args); err != nil {
		return chat.ToolOutcome{Output: failure("invalid arguments", err.Error())}
	}

	if strings.TrimSpace(args.Filename) == "" {
		return chat.ToolOutcome{Output: failure("invalid arguments", "filename is required")}
	}
	if strings.TrimSpace(args.Content) == "" {
		return chat.ToolOutcome{Output: failure("invalid arguments", "content is required and must be non-empty")}
	}
	format, err := docgen.ParseFormat(args.Type)
	if err != nil {
		return chat.ToolOutcome{Output: failure("invalid arguments", err.Error())}
	}

	filename := documentFilename(args.Filename, format)
	storedName := uuid.New().String() + "-" + filename

	data, err := docgen.Encode(format, args.Content)
	if err != nil {
		return chat.ToolOutcome{Output: failure("encoding failed", err.Error())}
	}
	if err := t.store.Put(storedName, data); err != nil {
		return chat.ToolOutcome{Output: failure("storage failed", err.Error())}
	}

	file := &chat.GeneratedFile{
		ID:             uuid.New().String(),
		Filename:       filename,
		Type:           format,
		DownloadURL:    DownloadPathPrefix + storedName,
		Summary:        strings.TrimSpace(args.Summary),
		StoredFilename: storedName,
	}

	return chat.ToolOutcome{
		Output: success(map[string]any{
			"fileId":      file.ID,
			"downloadUrl": file.DownloadURL,
			"filename":    file.Filename,
		}),
		File: file,
	}
}

// documentFilename derives the final file name: strip any existing extension,
// sanitize to filesystem-safe characters, fall back to a fixed default, and
// append the format's canonical extension.
func documentFilename(requested string, format docgen.Format) string {
	base := strings.TrimSuffix(requested, filepath.Ext(requested))
	base = blob.SafeName(base, fallbackDocumentName)
	return fmt.Sprintf("%s%s", base, format.Extension())
}
