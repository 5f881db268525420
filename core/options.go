package assistant

import (
	"context"

	"github.com/imant686/samantha/core/llms"
)

type Option func(*Assistant)

// LLM is the general-conversation collaborator used when no specialized
// handler claims an utterance.
type LLM interface {
	Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error)
}

func WithLLM(client LLM) Option {
	return func(a *Assistant) { a.llm = client }
}

// EventDialogue is the slot-filling event-creation flow. It reports
// handled=false when no session is active and the utterance does not ask to
// create an event.
type EventDialogue interface {
	ProcessUtterance(ctx context.Context, utterance string) (response string, handled bool)
}

func WithEventDialogue(d EventDialogue) Option {
	return func(a *Assistant) { a.dialogue = d }
}

// WeatherAnswerer claims weather questions via its own predicate and answers
// them.
type WeatherAnswerer interface {
	IsWeatherQuery(utterance string) bool
	Answer(ctx context.Context, utterance string) (string, error)
}

func WithWeather(w WeatherAnswerer) Option {
	return func(a *Assistant) { a.weather = w }
}

// PlacesAnswerer answers place searches and direction requests.
type PlacesAnswerer interface {
	Answer(ctx context.Context, utterance string) (string, error)
}

func WithPlaces(p PlacesAnswerer) Option {
	return func(a *Assistant) { a.places = p }
}

// Presenter delivers a response to the user, typically through a
// text-to-speech service. Presentation is fire-and-forget; failures are
// logged but never affect routing.
type Presenter interface {
	Speak(ctx context.Context, text string) error
}

func WithPresenter(p Presenter) Option {
	return func(a *Assistant) { a.presenter = p }
}

// ConversationLog records each turn for later review. Logging is best-effort.
type ConversationLog interface {
	SaveConversation(ctx context.Context, userInput, response string) error
}

func WithConversationLog(l ConversationLog) Option {
	return func(a *Assistant) { a.conversations = l }
}
