// Package backend provides the model-backend adapters the orchestrator can
// drive: OpenAI, Anthropic, Ollama, and a scripted backend for offline runs
// and tests. All adapters implement continuation semantics by retaining
// per-response transcripts in a bounded TTL'd LRU.
package backend

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenworks/canvaschat/pkg/chat"
	"github.com/lumenworks/canvaschat/pkg/config"
)

// ErrUnknownContinuation is returned when a request references a response id
// that has expired from the transcript cache.
var ErrUnknownContinuation = errors.New("unknown or expired continuation id")

const (
	transcriptCapacity = 256
	transcriptTTL      = 10 * time.Minute
)

// New constructs the backend selected by the configuration.
func New(cfg config.BackendConfig, logger zerolog.Logger) (chat.ModelBackend, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIBackend(cfg, logger)
	case "anthropic", "claude":
		return NewAnthropicBackend(cfg, logger)
	case "ollama":
		return NewOllamaBackend(cfg, logger)
	case "scripted":
		return NewScriptedBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend provider: %s", cfg.Provider)
	}
}

// parseDataURI splits a "data:<mime>;base64,<payload>" URI into its media
// type and decoded bytes.
func parseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mediaType, data, nil
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// joinTextBlocks flattens a block list into plain text, used for transports
// without multi-part content.
func joinTextBlocks(blocks []chat.ContentBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Kind == chat.BlockText && strings.TrimSpace(b.Text) != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func hasImageBlock(blocks []chat.ContentBlock) bool {
	for _, b := range blocks {
		if b.Kind == chat.BlockImage {
			return true
		}
	}
	return false
}
