package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/legitima/aiact-agent/internal/infrastructure/resilience"
)

// Client talks to an Ollama server's /api/generate endpoint. All calls go
// through the resilience executor so transient failures are retried and a
// flapping model server trips the breaker.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.Config{})
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// Generator adapts the client to the text-generation port.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	return g.client.generate(ctx, prompt, false)
}

// GenerateJSONFromPrompt constrains decoding to JSON via Ollama's format
// option. The response is still a raw string; callers parse it themselves.
func (g *Generator) GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error) {
	return g.client.generate(ctx, prompt, true)
}

func (c *Client) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	if jsonMode {
		reqBody["format"] = "json"
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}
	err := c.executor.Execute(ctx, "ollama.generate", call, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama.generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}
