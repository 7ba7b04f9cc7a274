package openrouter

// chat-completions client used to translate blog posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	DefaultURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel = "qwen/qwen2.5-7b-instruct"

	requestTimeout = 60 * time.Second
)

var ErrMissingAPIKey = errors.New("missing openrouter API key")

const systemPrompt = `You are a translation engine.
Translate ONLY the user text into %s.
Do NOT add commentary.
Do NOT explain.
Do NOT summarize.
Do NOT change formatting.
Do NOT remove or add markdown, HTML, code blocks, backticks, or spacing.
Preserve EVERYTHING exactly EXCEPT the natural language itself.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type Client struct {
	apiKey string
	model  string
	url    string
	http   *http.Client
}

func NewClient(apiKey, model, url string, httpClient *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{apiKey: apiKey, model: model, url: url, http: httpClient}
}

// Translate returns the model's answer, or "" when it produced no choice.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, targetLang)},
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call openrouter: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read openrouter response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}

	return decoded.Choices[0].Message.Content, nil
}

// LanguageName accepts "French" as well as "fr" or "pt-BR" and returns
// the English name the prompt should use.
func LanguageName(targetLang string) string {
	targetLang = strings.TrimSpace(targetLang)

	tag, err := language.Parse(targetLang)
	if err != nil {
		return targetLang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return targetLang
}
