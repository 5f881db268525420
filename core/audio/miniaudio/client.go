// Package miniaudio captures microphone audio through the miniaudio
// library and hands raw PCM chunks to a listener.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/imant686/samantha/core/audio"
)

type Client struct {
	// audioContext is only kept so it can be uninitialized on Close
	audioContext *malgo.AllocatedContext
	captureClient

	sampleRate int
}

type Option func(*Client)

// WithSampleRate overrides the capture sample rate. The transcription
// endpoint accepts a limited set of rates, so stick to those.
func WithSampleRate(sampleRate int) Option {
	return func(c *Client) {
		c.sampleRate = sampleRate
	}
}

func NewClient(opts ...Option) (*Client, error) {
	client := Client{sampleRate: audio.DefaultSampleRate}
	for _, opt := range opts {
		opt(&client)
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	client.audioContext = audioCtx

	if err := client.captureClient.Init(audioCtx, client.sampleRate); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: c.sampleRate,
		Format:     audio.EncodingLinear16,
	}
}
