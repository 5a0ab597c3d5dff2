package backend

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/cache"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/config"
)

// AnthropicBackend adapts the Anthropic Messages API. System messages are
// lifted out of the transcript into the request's system field; continuation
// replays the cached transcript plus tool result blocks.
type AnthropicBackend struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	transcripts *cache.LRU
	logger      zerolog.Logger
}

// anthropicTranscript is the cached continuation state for one response.
type anthropicTranscript struct {
	system   string
	messages []anthropic.MessageParam
}

// NewAnthropicBackend builds an adapter from configuration.
func NewAnthropicBackend(cfg config.BackendConfig, logger zerolog.Logger) (*AnthropicBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic backend requires an api key")
	}
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(cfg.BaseURL))
	}
	cl := anthropic.NewClient(opts...)
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AnthropicBackend{
		client:      &cl,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		transcripts: cache.NewLRU(transcriptCapacity, transcriptTTL),
		logger:      logger.With().Str("backend", "anthropic").Logger(),
	}, nil
}

// Name identifies the provider.
func (b *AnthropicBackend) Name() string { return "anthropic" }

// Generate runs one Messages round trip and records the resulting transcript
// for continuation.
func (b *AnthropicBackend) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResponse, error) {
	system, messages, err := b.buildMessages(req)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(b.maxTokens),
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	for _, def := range req.Tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := def.Parameters["properties"]; ok {
			schema.Properties = props
		}
		if required, ok := def.Parameters["required"].([]string); ok {
			schema.Required = required
		}
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: schema,
			},
		})
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	out := &chat.GenerateResponse{ID: uuid.New().String()}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.Items = append(out.Items, chat.OutputItem{Text: &chat.TextItem{Text: v.Text}})
		case anthropic.ToolUseBlock:
			args, merr := json.Marshal(v.Input)
			if merr != nil {
				args = []byte("{}")
			}
			out.Items = append(out.Items, chat.OutputItem{FunctionCall: &chat.FunctionCallItem{
				CallID:    v.ID,
				Name:      v.Name,
				Arguments: string(args),
			}})
		}
	}

	messages = append(messages, msg.ToParam())
	b.transcripts.Set(out.ID, &anthropicTranscript{system: system, messages: messages})

	b.logger.Debug().
		Str("response_id", out.ID).
		Int("items", len(out.Items)).
		Str("stop_reason", string(msg.StopReason)).
		Msg("message finished")
	return out, nil
}

func (b *AnthropicBackend) buildMessages(req *chat.GenerateRequest) (string, []anthropic.MessageParam, error) {
	var (
		system   string
		messages []anthropic.MessageParam
	)

	if req.PreviousResponseID != "" {
		cached, ok := b.transcripts.Get(req.PreviousResponseID)
		if !ok {
			return "", nil, fmt.Errorf("continuation %s: %w", req.PreviousResponseID, ErrUnknownContinuation)
		}
		prev := cached.(*anthropicTranscript)
		system = prev.system
		messages = append(messages, prev.messages...)
	}

	var toolResults []anthropic.ContentBlockParamUnion
	for _, item := range req.Items {
		switch {
		case item.FunctionOutput != nil:
			toolResults = append(toolResults,
				anthropic.NewToolResultBlock(item.FunctionOutput.CallID, item.FunctionOutput.Output, false))
		case item.Message != nil:
			if item.Message.Role == chat.RoleSystem {
				if system != "" {
					system += "\n\n"
				}
				system += joinTextBlocks(item.Message.Blocks)
				continue
			}
			param, err := toAnthropicMessage(item.Message)
			if err != nil {
				return "", nil, err
			}
			messages = append(messages, param)
		}
	}
	// All tool results for one assistant turn travel in a single user message.
	if len(toolResults) > 0 {
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}
	return system, messages, nil
}

func toAnthropicMessage(msg *chat.MessageItem) (anthropic.MessageParam, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, block := range msg.Blocks {
		switch block.Kind {
		case chat.BlockText:
			blocks = append(blocks, anthropic.NewTextBlock(block.Text))
		case chat.BlockImage:
			mediaType, data, err := parseDataURI(block.ImageURL)
			if err != nil {
				return anthropic.MessageParam{}, fmt.Errorf("image block: %w", err)
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, base64Encode(data)))
		}
	}
	if len(blocks) == 0 {
		blocks = append(blocks, anthropic.NewTextBlock(""))
	}
	if msg.Role == chat.RoleAssistant {
		return anthropic.NewAssistantMessage(blocks...), nil
	}
	return anthropic.NewUserMessage(blocks...), nil
}
