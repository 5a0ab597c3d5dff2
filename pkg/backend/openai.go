package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/lumenworks/canvaschat/pkg/cache"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/config"
)

// OpenAIBackend adapts the OpenAI chat completions API. The completions API
// has no server-side continuation, so the adapter keeps the full message
// transcript of each response in a TTL'd LRU keyed by a generated response id;
// a continuation request replays the cached transcript plus the new tool
// outputs.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	maxTokens   int
	transcripts *cache.LRU
	logger      zerolog.Logger
}

// NewOpenAIBackend builds an adapter from configuration. BaseURL may point at
// any completions-compatible endpoint.
func NewOpenAIBackend(cfg config.BackendConfig, logger zerolog.Logger) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai backend requires an api key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		transcripts: cache.NewLRU(transcriptCapacity, transcriptTTL),
		logger:      logger.With().Str("backend", "openai").Logger(),
	}, nil
}

// Name identifies the provider.
func (b *OpenAIBackend) Name() string { return "openai" }

// Generate runs one completions round trip and records the resulting
// transcript for continuation.
func (b *OpenAIBackend) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResponse, error) {
	messages, err := b.buildMessages(req)
	if err != nil {
		return nil, err
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
	}
	if b.maxTokens > 0 {
		chatReq.MaxTokens = b.maxTokens
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}
	for _, def := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion returned no choices")
	}
	choice := resp.Choices[0].Message

	out := &chat.GenerateResponse{ID: uuid.New().String()}
	if choice.Content != "" {
		out.Items = append(out.Items, chat.OutputItem{Text: &chat.TextItem{Text: choice.Content}})
	}
	for _, call := range choice.ToolCalls {
		if call.Type != openai.ToolTypeFunction {
			continue
		}
		out.Items = append(out.Items, chat.OutputItem{FunctionCall: &chat.FunctionCallItem{
			CallID:    call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}})
	}

	// Retain the transcript including the assistant turn so a follow-up with
	// tool outputs can resume from it.
	messages = append(messages, choice)
	b.transcripts.Set(out.ID, messages)

	b.logger.Debug().
		Str("response_id", out.ID).
		Int("items", len(out.Items)).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("completion finished")
	return out, nil
}

func (b *OpenAIBackend) buildMessages(req *chat.GenerateRequest) ([]openai.ChatCompletionMessage, error) {
	var messages []openai.ChatCompletionMessage

	if req.PreviousResponseID != "" {
		cached, ok := b.transcripts.Get(req.PreviousResponseID)
		if !ok {
			return nil, fmt.Errorf("continuation %s: %w", req.PreviousResponseID, ErrUnknownContinuation)
		}
		messages = append(messages, cached.([]openai.ChatCompletionMessage)...)
	}

	for _, item := range req.Items {
		switch {
		case item.FunctionOutput != nil:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    item.FunctionOutput.Output,
				ToolCallID: item.FunctionOutput.CallID,
			})
		case item.Message != nil:
			messages = append(messages, toOpenAIMessage(item.Message))
		}
	}
	return messages, nil
}

func toOpenAIMessage(msg *chat.MessageItem) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{Role: toOpenAIRole(msg.Role)}

	if !hasImageBlock(msg.Blocks) {
		out.Content = joinTextBlocks(msg.Blocks)
		return out
	}
	for _, block := range msg.Blocks {
		switch block.Kind {
		case chat.BlockText:
			out.MultiContent = append(out.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: block.Text,
			})
		case chat.BlockImage:
			out.MultiContent = append(out.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: block.ImageURL},
			})
		}
	}
	return out
}

func toOpenAIRole(role chat.Role) string {
	switch role {
	case chat.RoleSystem:
		return openai.ChatMessageRoleSystem
	case chat.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
