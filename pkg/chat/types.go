// Package chat holds the conversation domain model and the tool-call
// orchestrator that turns model output into artifacts and generated files.
package chat

import (
	"time"

	"github.com/lumenworks/canvaschat/pkg/classify"
	"github.com/lumenworks/canvaschat/pkg/docgen"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the three accepted values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ChatMessage is one turn of a conversation. Messages are immutable once
// appended; a conversation is an append-only ordered sequence for the
// duration of a request.
type ChatMessage struct {
	ID             string          `json:"id"`
	Role           Role            `json:"role"`
	Text           string          `json:"text"`
	CreatedAt      time.Time       `json:"createdAt"`
	Attachments    []UploadedFile  `json:"attachments,omitempty"`
	Artifacts      []Artifact      `json:"artifacts,omitempty"`
	GeneratedFiles []GeneratedFile `json:"generatedFiles,omitempty"`
}

// UploadedFile describes a file accepted by the upload endpoint. The stored
// filename is the durable key into the upload blob store; nothing here is
// mutated after creation.
type UploadedFile struct {
	ID             string            `json:"id"`
	OriginalName   string            `json:"originalName"`
	StoredFilename string            `json:"storedFilename"`
	MimeType       string            `json:"mimeType"`
	Size           int64             `json:"size"`
	PublicURL      string            `json:"publicUrl"`
	Category       classify.Category `json:"category"`
	TextPreview    string            `json:"textPreview,omitempty"`
}

// Artifact is an interactive HTML/CSS/JS bundle produced by the
// create_artifact tool. PreviewHTML has passed the sanitizer and is safe to
// render inline; FullHTML has not, and must only ever be executed inside an
// isolated sandboxed context.
type Artifact struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PreviewHTML string `json:"previewHtml"`
	FullHTML    string `json:"fullHtml"`
}

// GeneratedFile describes a document produced by the create_document tool.
// StoredFilename is the durable key; DownloadURL is derived from it.
type GeneratedFile struct {
	ID             string        `json:"id"`
	Filename       string        `json:"filename"`
	Type           docgen.Format `json:"type"`
	DownloadURL    string        `json:"downloadUrl"`
	Summary        string        `json:"summary,omitempty"`
	StoredFilename string        `json:"storedFilename"`
}

// TurnResult is what one orchestrated exchange produces: the assistant's
// reply text plus everything the tools created along the way.
type TurnResult struct {
	AssistantText  string
	Artifacts      []Artifact
	GeneratedFiles []GeneratedFile
}
