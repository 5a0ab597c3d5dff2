package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/sanitize"
)

const maxTitleLen = 120

// ArtifactTool implements the create_artifact function: it turns raw
// HTML/CSS/JS from the model into an Artifact with a sanitized preview and an
// unsanitized standalone document.
type ArtifactTool struct{}

// NewArtifactTool returns the create_artifact executor.
func NewArtifactTool() *ArtifactTool {
	return &ArtifactTool{}
}

type artifactArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	HTML        string `json:"html"`
	CSS         string `json:"css"`
	JS          string `json:"js"`
}

// Definition declares the tool schema exactly as exposed to the backend.
func (t *ArtifactTool) Definition() chat.ToolDefinition {
	return chat.ToolDefinition{
		Name: "create_artifact",
		Description: "Create an interactive HTML artifact rendered in the chat. " +
			"Provide self-contained HTML, with optional CSS and JavaScript.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Short human-readable title for the artifact.",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Optional one-line description.",
				},
				"html": map[string]any{
					"type":        "string",
					"description": "The artifact's HTML body.",
				},
				"css": map[string]any{
					"type":        "string",
					"description": "Optional CSS applied to the artifact.",
				},
				"js": map[string]any{
					"type":        "string",
					"description": "Optional JavaScript executed in the artifact's isolated frame.",
				},
			},
			"required": []string{"title", "html"},
		},
	}
}

// Invoke parses and validates the arguments, sanitizes the preview, and
// assembles the full document. Argument problems come back as a structured
// failure payload for the model to recover from.
func (t *ArtifactTool) Invoke(_ context.Context, inv chat.ToolInvocation) chat.ToolOutcome {
	var args artifactArgs
	if err := json.Unmarshal([]byte(inv.Arguments), &args); err != nil {
		return chat.ToolOutcome{Output: failure("invalid arguments", err.Error())}
	}
	if err := args.validate(); err != nil {
		return chat.ToolOutcome{Output: failure("invalid arguments", err.Error())}
	}

	artifact := &chat.Artifact{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(args.Title),
		Description: strings.TrimSpace(args.Description),
		PreviewHTML: sanitize.Preview(args.HTML, args.CSS),
		FullHTML:    sanitize.FullDocument(args.Title, args.HTML, args.CSS, args.JS),
	}

	return chat.ToolOutcome{
		Output:   success(map[string]any{"artifactId": artifact.ID}),
		Artifact: artifact,
	}
}

func (a *artifactArgs) validate() error {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("title must be at most %d characters", maxTitleLen)
	}
	if strings.TrimSpace(a.HTML) == "" {
		return fmt.Errorf("html is required and must be non-empty")
	}
	return nil
}
