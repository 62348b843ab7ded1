package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"coinbot/internal/domain"
)

// MarkerPhrase is the literal text the model must emit to signal a tool
// call when it cannot produce structured tool calls. The system prompt is
// engineered to emit it verbatim for tool-eligible intents and never
// otherwise; that coupling is the prompt's contract, not ours.
const MarkerPhrase = "I need to use coinmarketcap_tool"

var (
	reFunction = regexp.MustCompile(`Function:\s*(\w+)`)
	// The argument object may span multiple lines.
	reArguments = regexp.MustCompile(`(?s)Arguments:\s*(\{.*\})`)
)

// Dispatch scans model output for the marker phrase and extracts a typed
// invocation. No marker means a plain conversational reply: (nil, nil),
// and the text goes back to the user verbatim. A marker followed by a
// malformed function/argument block is a format error; nothing may reach
// the network in that case.
func Dispatch(content string) (*domain.ToolInvocation, error) {
	if !strings.Contains(content, MarkerPhrase) {
		return nil, nil
	}

	fn := reFunction.FindStringSubmatch(content)
	args := reArguments.FindStringSubmatch(content)
	if fn == nil || args == nil {
		return nil, domain.NewToolError(domain.ErrFormat,
			"tool call missing function or argument block")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(args[1]), &parsed); err != nil {
		return nil, domain.NewToolError(domain.ErrFormat,
			"tool call arguments are not valid JSON: %v", err)
	}

	return &domain.ToolInvocation{
		Function:  fn[1],
		Arguments: parsed,
	}, nil
}
