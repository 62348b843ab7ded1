package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"coinbot/internal/domain"
)

func testProviderLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestOllama(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllama(OllamaConfig{
		APIBase:      srv.URL,
		DefaultModel: "llama3.2",
		Logger:       testProviderLogger(),
	})
}

func TestChat_RequestShape(t *testing.T) {
	var got ollamaRequest
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"model":"llama3.2","message":{"role":"assistant","content":"hi there"},"done":true}`)
	})

	resp, err := o.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "be helpful"},
			{Role: domain.RoleUser, Content: "hello"},
		},
		Tools: []domain.ToolDefinition{
			{Name: "get_crypto_price", Description: "price lookup", Parameters: map[string]any{"type": "object"}},
		},
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Model != "llama3.2" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Stream {
		t.Error("requests must be non-streaming")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if len(got.Tools) != 1 || got.Tools[0].Function.Name != "get_crypto_price" {
		t.Errorf("tools = %+v", got.Tools)
	}
	if got.Options["temperature"] != 0.1 {
		t.Errorf("options = %v", got.Options)
	}
	if resp.Message.Content != "hi there" {
		t.Errorf("content = %q", resp.Message.Content)
	}
	if resp.HasToolCalls() {
		t.Error("plain reply should carry no tool calls")
	}
}

func TestChat_StructuredToolCalls(t *testing.T) {
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"llama3.2","message":{"role":"assistant","content":"",
			"tool_calls":[{"function":{"name":"get_crypto_price","arguments":{"symbol":"BTC"}}}]},"done":true}`)
	})

	resp, err := o.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "btc price"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls")
	}
	tc := resp.ToolCalls[0]
	if tc.Function != "get_crypto_price" || tc.Arguments["symbol"] != "BTC" {
		t.Errorf("tool call = %+v", tc)
	}
}

func TestChat_ErrorStatus(t *testing.T) {
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	})
	_, err := o.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestHealthy(t *testing.T) {
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"version":"0.6.0"}`)
	})
	if err := o.Healthy(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHealthy_Down(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // guaranteed-refused address
	o := NewOllama(OllamaConfig{APIBase: srv.URL, Logger: testProviderLogger()})
	if err := o.Healthy(context.Background()); err == nil {
		t.Error("expected an error for an unreachable server")
	}
}

func TestModels(t *testing.T) {
	o := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest"},{"name":"qwen2.5:7b"}]}`)
	})
	models, err := o.Models(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2:latest" {
		t.Errorf("models = %v", models)
	}
}

func TestDecodeArgs(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`{"symbol":"BTC"}`, "BTC"},
		{`"{\"symbol\":\"BTC\"}"`, "BTC"}, // object wrapped in a JSON string
	}
	for _, c := range cases {
		args := decodeArgs(json.RawMessage(c.raw))
		if args["symbol"] != c.want {
			t.Errorf("decodeArgs(%s) = %v", c.raw, args)
		}
	}
	if args := decodeArgs(nil); args == nil {
		t.Error("nil input should yield an empty map")
	}
}
