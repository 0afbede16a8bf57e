// Package ollama is a minimal client for the local Ollama HTTP API:
// model listing plus blocking and streaming chat.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the standard local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model describes one installed model.
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Client talks to one Ollama server. Chat calls can run for minutes on
// slow models, so cancellation is the caller's context, not a client
// timeout.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client; an empty baseURL means the local default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// ListModels fetches the installed models from /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Models []Model `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Models, nil
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatChunk struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// Chat runs one non-streaming completion and returns the full reply.
// A non-empty systemPrompt is prepended as a system message.
func (c *Client) Chat(ctx context.Context, model string, messages []Message, systemPrompt string) (string, error) {
	resp, err := c.post(ctx, model, messages, systemPrompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result chatChunk
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Message.Content, nil
}

// ChatStream runs one streaming completion, invoking onChunk for every
// content fragment as it arrives, and returns the assembled reply.
// Malformed stream lines are skipped, matching the server's NDJSON
// contract of one JSON object per line.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, systemPrompt string, onChunk func(string)) (string, error) {
	resp, err := c.post(ctx, model, messages, systemPrompt, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full bytes.Buffer
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}
		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if onChunk != nil {
				onChunk(chunk.Message.Content)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("stream interrupted: %w", err)
	}
	return full.String(), nil
}

func (c *Client) post(ctx context.Context, model string, messages []Message, systemPrompt string, stream bool) (*http.Response, error) {
	chatMessages := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, Message{Role: "system", Content: systemPrompt})
	}
	chatMessages = append(chatMessages, messages...)

	body, err := json.Marshal(chatRequest{Model: model, Messages: chatMessages, Stream: stream})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return resp, nil
}
