package server

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/chat"
)

// ChatHandler runs one orchestrated conversation turn per request.
type ChatHandler struct {
	orchestrator *chat.Orchestrator
	systemPrompt string
	logger       zerolog.Logger
}

// NewChatHandler builds the handler around the orchestrator.
func NewChatHandler(orchestrator *chat.Orchestrator, systemPrompt string, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator, systemPrompt: systemPrompt, logger: logger}
}

// Chat handles POST /chat: validate, prepend the system prompt, run the tool
// loop, and answer with the assistant's message.
func (h *ChatHandler) Chat(ctx context.Context, c *app.RequestContext) {
	var req ChatRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "malformed JSON body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		badRequest(c, "invalid chat request", errs...)
		return
	}

	conversation := req.Conversation()
	if h.systemPrompt != "" {
		conversation = append([]chat.ChatMessage{{
			Role: chat.RoleSystem,
			Text: h.systemPrompt,
		}}, conversation...)
	}

	result, err := h.orchestrator.Run(ctx, conversation, req.Temperature)
	if err != nil {
		h.logger.Error().Err(err).Msg("chat turn failed")
		if errors.Is(err, chat.ErrMaxToolIterations) {
			serverError(c, "max tool iterations exceeded")
			return
		}
		serverError(c, "model backend error: "+err.Error())
		return
	}

	c.JSON(consts.StatusOK, ChatResponse{Message: chat.ChatMessage{
		ID:             uuid.New().String(),
		Role:           chat.RoleAssistant,
		Text:           result.AssistantText,
		CreatedAt:      time.Now().UTC(),
		Artifacts:      result.Artifacts,
		GeneratedFiles: result.GeneratedFiles,
	}})
}
