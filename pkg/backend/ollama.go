package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	ollama "github.com/ollama/ollama/api"
	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/cache"
	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/config"
)

// OllamaBackend adapts a local Ollama server's chat API. Tool definitions are
// not forwarded: function calling support varies widely across local models,
// so this backend answers in plain text only and the orchestrator never sees
// function calls from it.
type OllamaBackend struct {
	client      *ollama.Client
	model       string
	transcripts *cache.LRU
	logger      zerolog.Logger
}

// NewOllamaBackend builds an adapter from configuration. BaseURL defaults to
// the standard local Ollama address.
func NewOllamaBackend(cfg config.BackendConfig, logger zerolog.Logger) (*OllamaBackend, error) {
	host := cfg.BaseURL
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", host, err)
	}
	httpClient := &http.Client{Timeout: 120 * time.Second}
	return &OllamaBackend{
		client:      ollama.NewClient(u, httpClient),
		model:       cfg.Model,
		transcripts: cache.NewLRU(transcriptCapacity, transcriptTTL),
		logger:      logger.With().Str("backend", "ollama").Logger(),
	}, nil
}

// Name identifies the provider.
func (b *OllamaBackend) Name() string { return "ollama" }

// Generate runs one non-streamed chat round trip.
func (b *OllamaBackend) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResponse, error) {
	messages, err := b.buildMessages(req)
	if err != nil {
		return nil, err
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    b.model,
		Messages: messages,
		Stream:   &stream,
	}
	if req.Temperature != nil {
		chatReq.Options = map[string]any{"temperature": *req.Temperature}
	}

	var reply ollama.Message
	err = b.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		reply = resp.Message
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	out := &chat.GenerateResponse{ID: uuid.New().String()}
	if reply.Content != "" {
		out.Items = append(out.Items, chat.OutputItem{Text: &chat.TextItem{Text: reply.Content}})
	}

	messages = append(messages, ollama.Message{Role: "assistant", Content: reply.Content})
	b.transcripts.Set(out.ID, messages)

	b.logger.Debug().Str("response_id", out.ID).Msg("chat finished")
	return out, nil
}

func (b *OllamaBackend) buildMessages(req *chat.GenerateRequest) ([]ollama.Message, error) {
	var messages []ollama.Message

	if req.PreviousResponseID != "" {
		cached, ok := b.transcripts.Get(req.PreviousResponseID)
		if !ok {
			return nil, fmt.Errorf("continuation %s: %w", req.PreviousResponseID, ErrUnknownContinuation)
		}
		messages = append(messages, cached.([]ollama.Message)...)
	}

	for _, item := range req.Items {
		switch {
		case item.FunctionOutput != nil:
			// Tools are never declared to Ollama, so outputs should not occur;
			// fold them in as plain context if they somehow do.
			messages = append(messages, ollama.Message{Role: "user", Content: item.FunctionOutput.Output})
		case item.Message != nil:
			msg, err := toOllamaMessage(item.Message)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func toOllamaMessage(msg *chat.MessageItem) (ollama.Message, error) {
	out := ollama.Message{
		Role:    string(msg.Role),
		Content: joinTextBlocks(msg.Blocks),
	}
	for _, block := range msg.Blocks {
		if block.Kind != chat.BlockImage {
			continue
		}
		_, data, err := parseDataURI(block.ImageURL)
		if err != nil {
			return ollama.Message{}, fmt.Errorf("image block: %w", err)
		}
		out.Images = append(out.Images, ollama.ImageData(data))
	}
	return out, nil
}
