package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "http://localhost:58851"

// Client speaks through a local speech-synthesis service: a small HTTP
// daemon that plays the audio itself and answers once playback finishes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			// Speak blocks for the duration of playback, so the timeout has
			// to cover long responses being read out.
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Speak submits text for synthesis and blocks until playback completes.
func (c *Client) Speak(ctx context.Context, text string) error {
	ctx, span := tracer.Start(ctx, "speak text")
	defer span.End()

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach speech service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&failure); err == nil && failure.Error != "" {
			return fmt.Errorf("speech service refused text: %s", failure.Error)
		}
		return fmt.Errorf("speech service returned %s", res.Status)
	}
	return nil
}

// IsSpeaking reports whether the service is mid-playback.
func (c *Client) IsSpeaking(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create status request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach speech service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("speech service returned %s", res.Status)
	}

	var status struct {
		IsSpeaking bool `json:"isSpeaking"`
	}
	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("failed to decode status response: %w", err)
	}
	return status.IsSpeaking, nil
}
