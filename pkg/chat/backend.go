package chat

import "context"

// BlockKind tags the closed set of content block variants.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
)

// ContentBlock is one piece of message content sent to the model backend.
// Exactly the field matching Kind is populated.
type ContentBlock struct {
	Kind     BlockKind
	Text     string // BlockText
	ImageURL string // BlockImage: a data URI
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockText, Text: text}
}

// ImageBlock builds an inline image content block from a data URI.
func ImageBlock(dataURI string) ContentBlock {
	return ContentBlock{Kind: BlockImage, ImageURL: dataURI}
}

// InputItem is one element of a backend request: either a conversation
// message or the output of a previously requested function call. Exactly one
// field is non-nil.
type InputItem struct {
	Message        *MessageItem
	FunctionOutput *FunctionOutputItem
}

// MessageItem carries one conversation turn as typed content blocks.
type MessageItem struct {
	Role   Role
	Blocks []ContentBlock
}

// FunctionOutputItem answers a function call from an earlier response.
type FunctionOutputItem struct {
	CallID string
	Output string
}

// OutputItem is one element of a backend response: either assistant text or a
// function call the backend wants executed. Exactly one field is non-nil.
type OutputItem struct {
	Text         *TextItem
	FunctionCall *FunctionCallItem
}

// TextItem is a textual output block.
type TextItem struct {
	Text string
}

// FunctionCallItem is a request from the model to run a declared tool.
// Arguments is the raw JSON payload as received, possibly malformed.
type FunctionCallItem struct {
	CallID    string
	Name      string
	Arguments string
}

// ToolDefinition is the schema for one tool as declared to the backend.
// Parameters is a JSON-schema object of the form
// {"type":"object","properties":{...},"required":[...]}.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// GenerateRequest is one round trip to the model backend. When
// PreviousResponseID is set, Items carries only the new function outputs and
// the backend resumes from the referenced response.
type GenerateRequest struct {
	Items              []InputItem
	Tools              []ToolDefinition
	Temperature        *float64
	PreviousResponseID string
}

// GenerateResponse is the backend's answer: an id usable for continuation and
// zero or more output items.
type GenerateResponse struct {
	ID    string
	Items []OutputItem
}

// FirstText returns the first textual output block, or "" if none exists.
func (r *GenerateResponse) FirstText() string {
	for _, item := range r.Items {
		if item.Text != nil {
			return item.Text.Text
		}
	}
	return ""
}

// ModelBackend is the opaque language-model API the orchestrator drives.
type ModelBackend interface {
	// Name identifies the provider, for logs.
	Name() string
	// Generate runs one model turn. Implementations must honor ctx.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}
