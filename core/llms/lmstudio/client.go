// Package lmstudio is a client for a local LM Studio server exposing the
// OpenAI-compatible chat completions endpoint.
package lmstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/imant686/samantha/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultURL   = "http://localhost:1234/v1/chat/completions"
	defaultModel = "llama-3.2-3b-instruct"

	defaultTemperature = 0.7
	defaultMaxTokens   = 200
)

type Client struct {
	url   string
	model string

	httpClient *http.Client

	// transcript is the running conversation history sent with every prompt.
	transcript []llms.Message
	mu         sync.Mutex
}

type ClientOption func(*Client)

func WithURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		url:   defaultURL,
		model: defaultModel,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Transcript returns a copy of the conversation history accumulated so far.
func (c *Client) Transcript() []llms.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	transcript := make([]llms.Message, len(c.transcript))
	copy(transcript, c.transcript)
	return transcript
}

// ResetTranscript drops the accumulated conversation history.
func (c *Client) ResetTranscript() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transcript = nil
}

// Prompt sends the prompt together with the running transcript and returns
// the model's reply. The prompt and the reply are appended to the transcript.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error) {
	ctx, span := tracer.Start(ctx, "prompt lm studio")
	defer span.End()

	options := llms.PromptOptions{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, llms.Message{Role: llms.MessageRoleUser, Content: prompt})
	messages := make([]llms.Message, 0, len(c.transcript)+len(options.Messages)+1)
	if options.Instructions != "" {
		messages = append(messages, llms.Message{Role: llms.MessageRoleSystem, Content: options.Instructions})
	}
	messages = append(messages, options.Messages...)
	messages = append(messages, c.transcript...)
	c.mu.Unlock()

	reqBody := requestBody{
		Model:       c.model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		Stream:      false,
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	span.SetAttributes(attribute.String("request.model", c.model))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var responseBody responseBodyJSON
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}
	if len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	reply := strings.TrimSpace(responseBody.Choices[0].Message.Content)
	if reply == "" {
		logger.WarnContext(ctx, "empty response from model")
		return "", nil
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, llms.Message{Role: llms.MessageRoleAssistant, Content: reply})
	c.mu.Unlock()

	return reply, nil
}

type requestBody struct {
	Model       string         `json:"model"`
	Messages    []llms.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	Stream      bool           `json:"stream"`
}

type responseBodyJSON struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}
