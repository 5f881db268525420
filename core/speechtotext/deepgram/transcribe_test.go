package deepgram

import (
	"context"
	"testing"

	"github.com/imant686/samantha/core/speechtotext"
)

func TestProcessMessageAccumulatesFinalSegments(t *testing.T) {
	client := NewTranscriptionClient(WithAPIKey("test-key"))

	var transcripts []string
	options := speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": true, "speech_final": false,
		"channel": {"alternatives": [{"transcript": "add event"}]}}`), options)
	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": true, "speech_final": true,
		"channel": {"alternatives": [{"transcript": "to my calendar"}]}}`), options)

	if len(transcripts) != 1 {
		t.Fatalf("expected one transcript, got %d", len(transcripts))
	}
	if transcripts[0] != "add event to my calendar" {
		t.Errorf("unexpected transcript %q", transcripts[0])
	}
}

func TestProcessMessageIgnoresEmptySegments(t *testing.T) {
	client := NewTranscriptionClient(WithAPIKey("test-key"))

	var transcripts []string
	options := speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": true, "speech_final": true,
		"channel": {"alternatives": [{"transcript": "   "}]}}`), options)

	if len(transcripts) != 0 {
		t.Errorf("expected no transcripts, got %v", transcripts)
	}
}

func TestProcessMessageInterimResults(t *testing.T) {
	client := NewTranscriptionClient(WithAPIKey("test-key"))

	var interim []string
	options := speechtotext.TranscriptionOptions{
		InterimTranscriptionCallback: func(transcript string) { interim = append(interim, transcript) },
		TranscriptionCallback:        func(string) {},
	}

	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": true, "speech_final": false,
		"channel": {"alternatives": [{"transcript": "what's the"}]}}`), options)
	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": false,
		"channel": {"alternatives": [{"transcript": "weather like"}]}}`), options)

	if len(interim) != 1 {
		t.Fatalf("expected one interim transcript, got %d", len(interim))
	}
	if interim[0] != "what's the weather like" {
		t.Errorf("unexpected interim transcript %q", interim[0])
	}
}

func TestProcessMessageUtteranceEndFlushesSegment(t *testing.T) {
	client := NewTranscriptionClient(WithAPIKey("test-key"))

	var transcripts []string
	var speechEnded int
	options := speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
		SpeechEndedCallback:   func() { speechEnded++ },
	}

	client.processMessage(context.Background(), []byte(`{"type": "SpeechStarted"}`), options)
	client.processMessage(context.Background(), []byte(`{"type": "Results", "is_final": true, "speech_final": false,
		"channel": {"alternatives": [{"transcript": "stop session"}]}}`), options)
	client.processMessage(context.Background(), []byte(`{"type": "UtteranceEnd"}`), options)

	if len(transcripts) != 1 || transcripts[0] != "stop session" {
		t.Fatalf("expected utterance end to flush transcript, got %v", transcripts)
	}
	if speechEnded != 1 {
		t.Errorf("expected one speech-ended callback, got %d", speechEnded)
	}

	// A second utterance end without new speech must not re-fire.
	client.processMessage(context.Background(), []byte(`{"type": "UtteranceEnd"}`), options)
	if len(transcripts) != 1 {
		t.Errorf("expected no further transcripts, got %v", transcripts)
	}
}

func TestConnectWebsocketRequiresAPIKey(t *testing.T) {
	client := NewTranscriptionClient(WithAPIKey(""))

	if _, err := client.connectWebsocket(connectionOptions{sampleRate: 16000, encoding: "linear16"}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
