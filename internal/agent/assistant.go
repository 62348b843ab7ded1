// Package agent contains the tool-invocation bridge: it decides whether a
// model reply is a plain answer or a tool call, executes the call, and
// renders the result back into conversational text.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"coinbot/internal/domain"
	"coinbot/internal/metrics"
	"coinbot/internal/tool"
)

const defaultTemperature = 0.1 // low temperature keeps tool usage consistent

// Assistant is the turn boundary. One model call, at most one synchronous
// market call, one reply. It appends nothing to history; the caller owns
// history mutation.
type Assistant struct {
	provider    domain.Provider
	tools       *tool.Registry
	model       string
	temperature float64
	logger      *slog.Logger
}

type Config struct {
	Provider    domain.Provider
	Tools       *tool.Registry
	Model       string
	Temperature float64
	Logger      *slog.Logger
}

func New(cfg Config) *Assistant {
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Assistant{
		provider:    cfg.Provider,
		tools:       cfg.Tools,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// HandleTurn runs one conversational turn over the given history and
// returns the assistant's reply. Tool failures of every kind become
// displayable text; only a transport failure at the model endpoint
// surfaces as an error.
func (a *Assistant) HandleTurn(ctx context.Context, history []domain.ChatMessage) (domain.ChatMessage, error) {
	metrics.TurnsTotal.Inc()

	resp, err := a.provider.Chat(ctx, domain.ChatRequest{
		Model:       a.model,
		Messages:    withSystemPrompt(history),
		Tools:       toolDefinitions(a.tools),
		Temperature: a.temperature,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("model endpoint: %w", err)
	}

	inv := a.selectInvocation(resp)
	if inv == nil {
		// Plain conversational reply: model text goes back verbatim.
		return domain.ChatMessage{Role: domain.RoleAssistant, Content: resp.Message.Content}, nil
	}
	if inv.err != nil {
		// Marker present but malformed: terminal for this turn, and no
		// network call may happen.
		a.logger.Warn("malformed tool call", "err", inv.err)
		return assistantReply(renderError(domain.AsToolError(inv.err))), nil
	}

	a.logger.Info("dispatching tool call", "function", inv.call.Function)
	result := a.tools.Execute(ctx, *inv.call)
	return assistantReply(Render(result)), nil
}

// Manifest describes the callable functions for documentation and
// registration.
func (a *Assistant) Manifest() []domain.ToolDefinition {
	return a.tools.Definitions()
}

// Healthy checks the model endpoint, used as the startup health check.
func (a *Assistant) Healthy(ctx context.Context) error {
	return a.provider.Healthy(ctx)
}

type invocation struct {
	call *domain.ToolInvocation
	err  error
}

// selectInvocation prefers the model's structured tool calls and falls
// back to the literal-marker text scan. One invocation per turn: extra
// structured calls are dropped.
func (a *Assistant) selectInvocation(resp *domain.ChatResponse) *invocation {
	if resp.HasToolCalls() {
		call := resp.ToolCalls[0]
		if len(resp.ToolCalls) > 1 {
			a.logger.Warn("model produced multiple tool calls, using the first",
				"count", len(resp.ToolCalls))
		}
		return &invocation{call: &call}
	}
	call, err := Dispatch(resp.Message.Content)
	if err != nil {
		return &invocation{err: err}
	}
	if call == nil {
		return nil
	}
	return &invocation{call: call}
}

func toolDefinitions(reg *tool.Registry) []domain.ToolDefinition {
	if reg == nil {
		return nil
	}
	return reg.Definitions()
}

func assistantReply(text string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: text}
}
