package assistant

import (
	"context"
	"log"
	"strings"
)

// Greeting is spoken once when a session starts.
const Greeting = "Hello, my name is Samantha and I am your voice assistant. Say 'stop session' to stop the session. How may I help?"

const errorResponse = "I'm sorry, I encountered an error. Please try again."

// locationKeywords route an utterance to the places handler. Matching is a
// case-insensitive substring test.
var locationKeywords = []string{
	"where", "location", "nearby", "directions", "how to get",
	"find", "restaurant", "shop", "store",
}

func isLocationQuery(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, keyword := range locationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Assistant routes each utterance to the first collaborator that claims it:
// an active (or newly started) event dialogue, then the weather handler, then
// the places handler, then the general-purpose LLM. Every turn is logged and
// every response is handed to the presenter.
type Assistant struct {
	llm           LLM
	dialogue      EventDialogue
	weather       WeatherAnswerer
	places        PlacesAnswerer
	presenter     Presenter
	conversations ConversationLog
}

func New(opts ...Option) *Assistant {
	a := &Assistant{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Greet presents the greeting and returns it.
func (a *Assistant) Greet(ctx context.Context) string {
	a.present(ctx, Greeting)
	return Greeting
}

// Respond processes one utterance and returns the response that was (or would
// have been) presented. Collaborator failures degrade to a generic error
// response instead of propagating.
func (a *Assistant) Respond(ctx context.Context, utterance string) string {
	ctx, span := tracer.Start(ctx, "respond to utterance")
	defer span.End()

	response := a.route(ctx, utterance)
	logger.InfoContext(ctx, "processed utterance", "utterance", utterance, "response", response)

	a.logTurn(ctx, utterance, response)
	a.present(ctx, response)
	return response
}

func (a *Assistant) route(ctx context.Context, utterance string) string {
	if a.dialogue != nil {
		if response, handled := a.dialogue.ProcessUtterance(ctx, utterance); handled {
			return response
		}
	}

	if a.weather != nil && a.weather.IsWeatherQuery(utterance) {
		response, err := a.weather.Answer(ctx, utterance)
		if err != nil {
			log.Println("Warning: weather handler failed:", err)
			return errorResponse
		}
		return response
	}

	if a.places != nil && isLocationQuery(utterance) {
		response, err := a.places.Answer(ctx, utterance)
		if err != nil {
			log.Println("Warning: places handler failed:", err)
			return errorResponse
		}
		return response
	}

	if a.llm == nil {
		return errorResponse
	}
	response, err := a.llm.Prompt(ctx, utterance)
	if err != nil {
		log.Println("Warning: failed to prompt LLM:", err)
		return errorResponse
	}
	return response
}

// present hands the response to the presenter without waiting for delivery.
func (a *Assistant) present(ctx context.Context, text string) {
	if a.presenter == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := a.presenter.Speak(ctx, text); err != nil {
			log.Println("Warning: failed to present response:", err)
		}
	}()
}

func (a *Assistant) logTurn(ctx context.Context, userInput, response string) {
	if a.conversations == nil {
		return
	}
	if err := a.conversations.SaveConversation(ctx, userInput, response); err != nil {
		log.Println("Warning: failed to log conversation:", err)
	}
}
