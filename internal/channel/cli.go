// Package channel is the interactive terminal surface. It owns the
// conversation history and calls into the turn handler; the bridge itself
// never mutates history.
package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"coinbot/internal/domain"
)

// TurnFunc runs one conversational turn over the full history and returns
// the assistant's reply.
type TurnFunc func(ctx context.Context, history []domain.ChatMessage) (domain.ChatMessage, error)

// CLI is the interactive REPL.
type CLI struct {
	handle      TurnFunc
	manifest    []domain.ToolDefinition
	logger      *slog.Logger
	in          io.Reader
	out         io.Writer
	typingDelay time.Duration

	thinkMu   sync.Mutex
	thinking  bool
	thinkStop chan struct{}
	thinkDone chan struct{}
}

type CLIConfig struct {
	Handle      TurnFunc
	Manifest    []domain.ToolDefinition
	Logger      *slog.Logger
	In          io.Reader
	Out         io.Writer
	TypingDelay time.Duration
}

func NewCLI(cfg CLIConfig) *CLI {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CLI{
		handle:      cfg.Handle,
		manifest:    cfg.Manifest,
		logger:      cfg.Logger,
		in:          cfg.In,
		out:         cfg.Out,
		typingDelay: cfg.TypingDelay,
	}
}

// Run executes the REPL until /exit, EOF, or context cancellation. A turn
// failure prints an error and keeps the loop alive; the history only grows
// by the user message and, on success, the assistant reply.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Cryptocurrency Assistant ===")
	fmt.Fprintln(c.out, "Ask me anything about cryptocurrencies!")
	fmt.Fprintln(c.out, "Type '/tools' to see available tools, '/exit' to quit.")
	fmt.Fprintln(c.out, "================================")

	var history []domain.ChatMessage
	scanner := bufio.NewScanner(c.in)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(c.out, "\nYou: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil // EOF
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/exit", "exit", "/quit":
			c.logger.Info("user requested quit")
			return nil
		case "/tools", "tools":
			c.printTools()
			continue
		}

		history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: line})

		reply, err := c.turnWithSpinner(ctx, history)
		if err != nil {
			fmt.Fprintf(c.out, "\nAssistant: Error: %s\n", err)
			continue
		}

		history = append(history, reply)
		fmt.Fprint(c.out, "\nAssistant: ")
		c.typeOut(reply.Content)
		fmt.Fprintln(c.out)
	}
}

// turnWithSpinner runs the turn handler with the spinner going; the
// spinner is stopped on every exit path before control returns.
func (c *CLI) turnWithSpinner(ctx context.Context, history []domain.ChatMessage) (domain.ChatMessage, error) {
	c.startThinking()
	defer c.stopThinking()
	return c.handle(ctx, history)
}

func (c *CLI) printTools() {
	fmt.Fprintln(c.out, "\n=== Available Cryptocurrency Tools ===")
	for i, def := range c.manifest {
		fmt.Fprintf(c.out, "%d. %s - %s\n", i+1, def.Name, def.Description)
	}
	fmt.Fprintln(c.out, "\n=== Commands ===")
	fmt.Fprintln(c.out, "/tools - Display this list of tools")
	fmt.Fprintln(c.out, "/exit  - Exit the assistant")
}

// typeOut prints text character by character for a typing effect. A zero
// delay prints in one write.
func (c *CLI) typeOut(text string) {
	if c.typingDelay <= 0 {
		fmt.Fprint(c.out, text)
		return
	}
	for _, ch := range text {
		fmt.Fprintf(c.out, "%c", ch)
		time.Sleep(c.typingDelay)
	}
}

func (c *CLI) startThinking() {
	c.thinkMu.Lock()
	defer c.thinkMu.Unlock()
	if c.thinking {
		return
	}
	c.thinking = true
	c.thinkStop = make(chan struct{})
	c.thinkDone = make(chan struct{})
	go func(stop, done chan struct{}) {
		defer close(done)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				fmt.Fprint(c.out, "\r\033[K") // clear the spinner line
				return
			case <-ticker.C:
				fmt.Fprintf(c.out, "\rAssistant: %s ", frames[i%len(frames)])
				i++
			}
		}
	}(c.thinkStop, c.thinkDone)
}

// stopThinking signals the spinner goroutine and waits for it to finish so
// no spinner frame lands after the reply starts printing.
func (c *CLI) stopThinking() {
	c.thinkMu.Lock()
	defer c.thinkMu.Unlock()
	if !c.thinking {
		return
	}
	c.thinking = false
	close(c.thinkStop)
	<-c.thinkDone
}
