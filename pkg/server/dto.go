package server

import (
	"fmt"
	"strings"

	"github.com/lumenworks/canvaschat/pkg/chat"
)

// ChatRequest is the POST /chat body: the full conversation so far plus
// optional sampling temperature.
type ChatRequest struct {
	Messages    []IncomingMessage `json:"messages"`
	Temperature *float64          `json:"temperature,omitempty"`
}

// IncomingMessage is one conversation turn as sent by the client.
type IncomingMessage struct {
	ID          string              `json:"id,omitempty"`
	Role        string              `json:"role"`
	Text        string              `json:"text"`
	Attachments []chat.UploadedFile `json:"attachments,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the request and returns every field problem found.
func (r *ChatRequest) Validate() []FieldError {
	var errs []FieldError

	if len(r.Messages) == 0 {
		errs = append(errs, FieldError{Field: "messages", Message: "at least one message is required"})
		return errs
	}
	for i, msg := range r.Messages {
		field := fmt.Sprintf("messages[%d]", i)
		role := chat.Role(msg.Role)
		if !role.Valid() {
			errs = append(errs, FieldError{
				Field:   field + ".role",
				Message: fmt.Sprintf("role must be one of system, user, assistant; got %q", msg.Role),
			})
		}
		if strings.TrimSpace(msg.Text) == "" {
			errs = append(errs, FieldError{
				Field:   field + ".text",
				Message: "text must be non-empty",
			})
		}
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		errs = append(errs, FieldError{
			Field:   "temperature",
			Message: fmt.Sprintf("temperature must be between 0 and 2, got %g", *r.Temperature),
		})
	}
	return errs
}

// Conversation converts the validated request into domain messages.
func (r *ChatRequest) Conversation() []chat.ChatMessage {
	out := make([]chat.ChatMessage, 0, len(r.Messages))
	for _, msg := range r.Messages {
		out = append(out, chat.ChatMessage{
			ID:          msg.ID,
			Role:        chat.Role(msg.Role),
			Text:        msg.Text,
			Attachments: msg.Attachments,
		})
	}
	return out
}

// ChatResponse is the POST /chat reply: the assistant's message with anything
// the tools produced attached to it.
type ChatResponse struct {
	Message chat.ChatMessage `json:"message"`
}

// UploadResponse is the POST /upload reply.
type UploadResponse struct {
	Files []chat.UploadedFile `json:"files"`
}
