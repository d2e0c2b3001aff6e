package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIModel = "glm-4.5-air"

// APIInvoker fires the instruction at an Anthropic-compatible messages
// endpoint instead of spawning a process. The target directory is ignored;
// remote calls have no working directory.
type APIInvoker struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client  // nil means http.DefaultClient
	Bound   time.Duration // zero means DefaultTimeout
}

// NewAPIInvoker validates the endpoint configuration. Incomplete
// credentials are a startup error, not a per-invocation one.
func NewAPIInvoker(baseURL, apiKey string) (*APIInvoker, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("api invoker: base URL and auth token are required")
	}
	return &APIInvoker{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		Model:   defaultAPIModel,
	}, nil
}

func (a *APIInvoker) Timeout() time.Duration {
	if a.Bound > 0 {
		return a.Bound
	}
	return DefaultTimeout
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *APIInvoker) Invoke(ctx context.Context, instruction, _ string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout())
	defer cancel()

	body, err := json.Marshal(messagesRequest{
		Model:     a.Model,
		MaxTokens: 1024,
		Messages:  []message{{Role: "user", Content: instruction}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("timed out (>%s)", a.Timeout())
		}
		return "", fmt.Errorf("api call failed: %s", Truncate(err.Error(), 100))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("api call failed: %s", Truncate(err.Error(), 100))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("api call failed: %s: %s", parsed.Error.Type, Truncate(parsed.Error.Message, 100))
		}
		return "", fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	return "api call successful: " + Truncate(text, 100) + "...", nil
}
