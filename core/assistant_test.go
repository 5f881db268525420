package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/imant686/samantha/core/llms"
)

type llmStub struct {
	response string
	err      error
	prompts  []string
}

func (l *llmStub) Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error) {
	l.prompts = append(l.prompts, prompt)
	return l.response, l.err
}

type dialogueStub struct {
	handled  bool
	response string
}

func (d *dialogueStub) ProcessUtterance(ctx context.Context, utterance string) (string, bool) {
	return d.response, d.handled
}

type weatherStub struct {
	claims   bool
	response string
	err      error
}

func (w *weatherStub) IsWeatherQuery(utterance string) bool { return w.claims }

func (w *weatherStub) Answer(ctx context.Context, utterance string) (string, error) {
	return w.response, w.err
}

type placesStub struct {
	response string
	err      error
	queries  []string
}

func (p *placesStub) Answer(ctx context.Context, utterance string) (string, error) {
	p.queries = append(p.queries, utterance)
	return p.response, p.err
}

type presenterStub struct {
	mu        sync.Mutex
	presented []string
	done      chan struct{}
}

func newPresenterStub() *presenterStub {
	return &presenterStub{done: make(chan struct{}, 8)}
}

func (p *presenterStub) Speak(ctx context.Context, text string) error {
	p.mu.Lock()
	p.presented = append(p.presented, text)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *presenterStub) await(t *testing.T) string {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for presentation")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presented[len(p.presented)-1]
}

type conversationLogStub struct {
	turns [][2]string
	err   error
}

func (c *conversationLogStub) SaveConversation(ctx context.Context, userInput, response string) error {
	c.turns = append(c.turns, [2]string{userInput, response})
	return c.err
}

func TestRespondPrefersActiveDialogue(t *testing.T) {
	dialogue := &dialogueStub{handled: true, response: "What is the name of the event?"}
	weather := &weatherStub{claims: true, response: "sunny"}
	assistant := New(WithEventDialogue(dialogue), WithWeather(weather))

	response := assistant.Respond(context.Background(), "add event but also what's the weather")
	if response != dialogue.response {
		t.Errorf("expected dialogue to claim the utterance, got %q", response)
	}
}

func TestRespondRoutesWeatherQueries(t *testing.T) {
	dialogue := &dialogueStub{handled: false}
	weather := &weatherStub{claims: true, response: "The weather in Edinburgh is cloudy."}
	llm := &llmStub{response: "unexpected"}
	assistant := New(WithEventDialogue(dialogue), WithWeather(weather), WithLLM(llm))

	response := assistant.Respond(context.Background(), "what's the weather like")
	if response != weather.response {
		t.Errorf("expected weather response, got %q", response)
	}
	if len(llm.prompts) != 0 {
		t.Errorf("expected LLM to stay untouched, got prompts %v", llm.prompts)
	}
}

func TestRespondRoutesLocationQueries(t *testing.T) {
	places := &placesStub{response: "I found 3 restaurants near you."}
	llm := &llmStub{response: "unexpected"}
	assistant := New(WithPlaces(places), WithLLM(llm))

	response := assistant.Respond(context.Background(), "Find a restaurant nearby")
	if response != places.response {
		t.Errorf("expected places response, got %q", response)
	}
	if len(places.queries) != 1 {
		t.Fatalf("expected one places query, got %d", len(places.queries))
	}
}

func TestRespondFallsBackToLLM(t *testing.T) {
	weather := &weatherStub{claims: false}
	llm := &llmStub{response: "The capital of France is Paris."}
	assistant := New(WithWeather(weather), WithLLM(llm))

	response := assistant.Respond(context.Background(), "what is the capital of France")
	if response != llm.response {
		t.Errorf("expected LLM response, got %q", response)
	}
}

func TestRespondDegradesOnHandlerError(t *testing.T) {
	weather := &weatherStub{claims: true, err: errors.New("api down")}
	assistant := New(WithWeather(weather))

	response := assistant.Respond(context.Background(), "what's the weather like")
	if response != errorResponse {
		t.Errorf("expected error response, got %q", response)
	}
}

func TestRespondLogsEachTurn(t *testing.T) {
	llm := &llmStub{response: "hello"}
	conversations := &conversationLogStub{}
	assistant := New(WithLLM(llm), WithConversationLog(conversations))

	assistant.Respond(context.Background(), "hi")
	if len(conversations.turns) != 1 {
		t.Fatalf("expected one logged turn, got %d", len(conversations.turns))
	}
	if turn := conversations.turns[0]; turn[0] != "hi" || turn[1] != "hello" {
		t.Errorf("unexpected logged turn: %v", turn)
	}
}

func TestRespondSurvivesLoggingFailure(t *testing.T) {
	llm := &llmStub{response: "hello"}
	conversations := &conversationLogStub{err: errors.New("table missing")}
	assistant := New(WithLLM(llm), WithConversationLog(conversations))

	if response := assistant.Respond(context.Background(), "hi"); response != "hello" {
		t.Errorf("expected logging failure to be swallowed, got %q", response)
	}
}

func TestRespondPresentsResponses(t *testing.T) {
	llm := &llmStub{response: "hello"}
	presenter := newPresenterStub()
	assistant := New(WithLLM(llm), WithPresenter(presenter))

	assistant.Respond(context.Background(), "hi")
	if got := presenter.await(t); got != "hello" {
		t.Errorf("expected response to be presented, got %q", got)
	}
}

func TestGreetPresentsGreeting(t *testing.T) {
	presenter := newPresenterStub()
	assistant := New(WithPresenter(presenter))

	if got := assistant.Greet(context.Background()); got != Greeting {
		t.Errorf("unexpected greeting %q", got)
	}
	if got := presenter.await(t); got != Greeting {
		t.Errorf("expected greeting to be presented, got %q", got)
	}
}

func TestIsLocationQuery(t *testing.T) {
	for _, utterance := range []string{
		"Where is the nearest pharmacy?",
		"give me directions to the station",
		"find a coffee shop",
	} {
		if !isLocationQuery(utterance) {
			t.Errorf("expected %q to be a location query", utterance)
		}
	}
	if isLocationQuery("tell me a joke") {
		t.Errorf("expected plain chat to not be a location query")
	}
}

func TestRespondWithoutCollaborators(t *testing.T) {
	assistant := New()

	if response := assistant.Respond(context.Background(), "hi"); response != errorResponse {
		t.Errorf("expected error response, got %q", response)
	}
}
