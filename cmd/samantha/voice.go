package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	assistant "github.com/imant686/samantha/core"
	"github.com/imant686/samantha/core/audio/miniaudio"
	"github.com/imant686/samantha/core/speechtotext"
	"github.com/imant686/samantha/core/speechtotext/deepgram"
	"github.com/imant686/samantha/core/texttospeech"
)

// runVoice is the microphone session loop. Utterances are processed one at a
// time: capture pauses while a turn is handled and while the response is
// being spoken, so the assistant never transcribes itself.
func runVoice(ctx context.Context, samantha *assistant.Assistant, speaker texttospeech.Speaker) error {
	microphone, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("failed to open microphone: %w", err)
	}
	defer microphone.Close()

	transcription := deepgram.NewTranscriptionClient()
	utterances := make(chan string, 1)
	err = transcription.Transcribe(ctx,
		speechtotext.WithEncodingInfo(microphone.EncodingInfo()),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			select {
			case utterances <- transcript:
			default:
				log.Println("Warning: dropped utterance, previous turn still processing:", transcript)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}
	defer func() {
		if err := transcription.StopStream(); err != nil {
			log.Println("Warning: failed to stop transcription stream:", err)
		}
	}()

	onAudio := func(chunk []byte) {
		if err := transcription.SendAudio(chunk); err != nil {
			log.Println("Warning: failed to send audio:", err)
		}
	}

	samantha.Greet(ctx)
	awaitQuiet(ctx, speaker)

	fmt.Println("Speak into the microphone. Say 'stop session' to stop.")
	if err := microphone.StartCapture(ctx, onAudio); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = microphone.StopCapture()
			return nil
		case utterance := <-utterances:
			utterance = strings.TrimSpace(utterance)
			if utterance == "" {
				continue
			}
			fmt.Println("Recognised:", utterance)

			if strings.Contains(strings.ToLower(utterance), "stop session") {
				fmt.Println("Session stopped by user.")
				_ = microphone.StopCapture()
				return nil
			}

			if err := microphone.StopCapture(); err != nil {
				log.Println("Warning: failed to pause capture:", err)
			}
			samantha.Respond(ctx, utterance)
			awaitQuiet(ctx, speaker)
			if err := microphone.StartCapture(ctx, onAudio); err != nil {
				return fmt.Errorf("failed to resume capture: %w", err)
			}
		}
	}
}

// awaitQuiet waits for the speech service to finish playback. Responses are
// spoken asynchronously, so first give playback a moment to start.
func awaitQuiet(ctx context.Context, speaker texttospeech.Speaker) {
	started := false
	deadline := time.Now().Add(2 * time.Second)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		speaking, err := speaker.IsSpeaking(ctx)
		if err != nil {
			log.Println("Warning: failed to query speech status:", err)
			return
		}
		if speaking {
			started = true
			continue
		}
		if started || time.Now().After(deadline) {
			return
		}
	}
}
