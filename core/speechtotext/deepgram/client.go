package deepgram

import (
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultListenURL = "wss://api.deepgram.com/v1/listen"

// defaultLanguage matches the accent the assistant is primarily used with.
const defaultLanguage = "en-GB"

// TranscriptionClient streams microphone audio to Deepgram's live
// transcription websocket and surfaces transcripts through the callbacks
// registered on Transcribe.
type TranscriptionClient struct {
	apiKey    string
	listenURL string
	language  string

	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs             time.Time
	accumulatedTranscript string
	unendedSegment        bool
}

type ClientOption func(*TranscriptionClient)

// WithAPIKey overrides the DEEPGRAM_API_KEY environment variable.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *TranscriptionClient) { c.apiKey = apiKey }
}

func WithListenURL(listenURL string) ClientOption {
	return func(c *TranscriptionClient) { c.listenURL = listenURL }
}

func WithLanguage(language string) ClientOption {
	return func(c *TranscriptionClient) { c.language = language }
}

func NewTranscriptionClient(opts ...ClientOption) *TranscriptionClient {
	c := &TranscriptionClient{
		apiKey:    os.Getenv("DEEPGRAM_API_KEY"),
		listenURL: defaultListenURL,
		language:  defaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
