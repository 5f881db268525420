package texttospeech

import "context"

// Speaker converts text to audible speech. Speak blocks until the text has
// been spoken in full.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	IsSpeaking(ctx context.Context) (bool, error)
}
