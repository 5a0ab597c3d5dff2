package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumenworks/canvaschat/pkg/chat"
)

// ScriptedBackend replays a fixed sequence of responses, recording every
// request it receives. It backs offline demo runs and handler tests where no
// real model API is reachable.
type ScriptedBackend struct {
	mu        sync.Mutex
	responses []*chat.GenerateResponse
	requests  []*chat.GenerateRequest
	next      int
}

// NewScriptedBackend returns an empty scripted backend. Without enqueued
// responses it answers every request with a canned text reply.
func NewScriptedBackend(responses ...*chat.GenerateResponse) *ScriptedBackend {
	return &ScriptedBackend{responses: responses}
}

// Enqueue appends responses to the replay script.
func (b *ScriptedBackend) Enqueue(responses ...*chat.GenerateResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = append(b.responses, responses...)
}

// Requests returns a copy of every request received so far.
func (b *ScriptedBackend) Requests() []*chat.GenerateRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*chat.GenerateRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// Name identifies the provider.
func (b *ScriptedBackend) Name() string { return "scripted" }

// Generate records the request and returns the next scripted response.
func (b *ScriptedBackend) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)

	if b.next >= len(b.responses) {
		return &chat.GenerateResponse{
			ID: fmt.Sprintf("scripted-%d", b.next),
			Items: []chat.OutputItem{
				{Text: &chat.TextItem{Text: "This is a scripted response; no model backend is configured."}},
			},
		}, nil
	}
	resp := b.responses[b.next]
	b.next++
	return resp, nil
}
