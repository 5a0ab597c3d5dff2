package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrMaxToolIterations is returned when the backend keeps requesting tool
// calls past the configured bound.
var ErrMaxToolIterations = errors.New("max tool iterations exceeded")

const defaultMaxToolIterations = 8

// Orchestrator drives the request/response loop against the model backend,
// executing tool calls locally and feeding their outputs back until the model
// stops requesting tools.
type Orchestrator struct {
	backend       ModelBackend
	registry      *Registry
	mapper        *ContentMapper
	maxIterations int
	logger        zerolog.Logger
}

// OrchestratorOptions configure a new Orchestrator.
type OrchestratorOptions struct {
	Backend       ModelBackend
	Registry      *Registry
	Uploads       AttachmentStore
	MaxIterations int
	MaxReaders    int
	Logger        zerolog.Logger
}

// NewOrchestrator creates an Orchestrator with the provided options.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Backend == nil {
		return nil, errors.New("orchestrator requires a model backend")
	}
	if opts.Registry == nil {
		return nil, errors.New("orchestrator requires a tool registry")
	}
	if opts.Uploads == nil {
		return nil, errors.New("orchestrator requires an upload store")
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxToolIterations
	}

	return &Orchestrator{
		backend:       opts.Backend,
		registry:      opts.Registry,
		mapper:        NewContentMapper(opts.Uploads, opts.MaxReaders),
		maxIterations: maxIter,
		logger:        opts.Logger,
	}, nil
}

// Run processes one conversation turn. It translates the conversation into
// backend input, then loops: execute every dispatchable function call in the
// response sequentially, resubmit the outputs as a continuation, and stop
// when a response carries no dispatchable calls. The first textual block of
// the final response becomes the assistant's reply.
func (o *Orchestrator) Run(ctx context.Context, conversation []ChatMessage, temperature *float64) (*TurnResult, error) {
	items, err := o.mapper.MapConversation(ctx, conversation)
	if err != nil {
		return nil, err
	}

	req := &GenerateRequest{
		Items:       items,
		Tools:       o.registry.Definitions(),
		Temperature: temperature,
	}

	resp, err := o.backend.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model backend %s: %w", o.backend.Name(), err)
	}

	result := &TurnResult{}

	for iteration := 0; ; iteration++ {
		outputs := o.dispatchCalls(ctx, resp, result)
		if len(outputs) == 0 {
			break
		}
		if iteration+1 > o.maxIterations {
			return nil, fmt.Errorf("%w after %d iterations", ErrMaxToolIterations, o.maxIterations)
		}

		cont := &GenerateRequest{
			Items:              outputs,
			Tools:              o.registry.Definitions(),
			Temperature:        temperature,
			PreviousResponseID: resp.ID,
		}
		resp, err = o.backend.Generate(ctx, cont)
		if err != nil {
			return nil, fmt.Errorf("model backend %s: %w", o.backend.Name(), err)
		}
	}

	result.AssistantText = resp.FirstText()
	return result, nil
}

// dispatchCalls executes every function call in the response in order,
// accumulating produced artifacts and files into result. Calls without a call
// id are skipped; unknown tool names are answered with an error payload so
// the model can correct itself.
func (o *Orchestrator) dispatchCalls(ctx context.Context, resp *GenerateResponse, result *TurnResult) []InputItem {
	var outputs []InputItem
	for _, item := range resp.Items {
		call := item.FunctionCall
		if call == nil {
			continue
		}
		if call.CallID == "" {
			o.logger.Warn().Str("tool", call.Name).Msg("skipping tool call without call id")
			continue
		}

		output := o.executeCall(ctx, call)
		outputs = append(outputs, InputItem{FunctionOutput: &FunctionOutputItem{
			CallID: call.CallID,
			Output: output.Output,
		}})
		if output.Artifact != nil {
			result.Artifacts = append(result.Artifacts, *output.Artifact)
		}
		if output.File != nil {
			result.GeneratedFiles = append(result.GeneratedFiles, *output.File)
		}
	}
	return outputs
}

func (o *Orchestrator) executeCall(ctx context.Context, call *FunctionCallItem) ToolOutcome {
	tool, ok := o.registry.Lookup(call.Name)
	if !ok {
		o.logger.Warn().Str("tool", call.Name).Msg("model requested unknown tool")
		return ToolOutcome{Output: fmt.Sprintf(
			`{"success":false,"error":"unknown tool","errorDetail":"no tool named %q is available"}`, call.Name)}
	}

	o.logger.Debug().Str("tool", call.Name).Str("call_id", call.CallID).Msg("executing tool call")
	return tool.Invoke(ctx, ToolInvocation{CallID: call.CallID, Arguments: call.Arguments})
}
