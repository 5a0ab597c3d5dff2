package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ToolInvocation is one function call to execute locally.
type ToolInvocation struct {
	CallID    string
	Arguments string // raw JSON as received from the backend
}

// ToolOutcome is what an executor hands back: the JSON payload returned to
// the model, plus any domain object the call produced. Executors never fail
// the request; argument problems are reported inside Output.
type ToolOutcome struct {
	Output   string
	Artifact *Artifact
	File     *GeneratedFile
}

// Tool is a server-defined function the model may invoke.
type Tool interface {
	Definition() ToolDefinition
	Invoke(ctx context.Context, inv ToolInvocation) ToolOutcome
}

// Registry is an in-memory tool catalog preserving registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry constructs a registry seeded with the provided tools. Invalid
// entries are skipped silently.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, tool := range tools {
		_ = r.Register(tool)
	}
	return r
}

// Register adds a tool under a lower-cased key. Duplicate or empty names
// return an error.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	def := tool.Definition()
	key := strings.ToLower(strings.TrimSpace(def.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[key]; exists {
		return fmt.Errorf("tool %s already registered", def.Name)
	}
	r.tools[key] = tool
	r.order = append(r.order, key)
	return nil
}

// Lookup returns the tool registered under name, if present.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	return tool, ok
}

// Definitions returns the declared tool schemas in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.order))
	for _, key := range r.order {
		defs = append(defs, r.tools[key].Definition())
	}
	return defs
}
