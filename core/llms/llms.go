// Package llms holds the types shared by LLM client implementations.
package llms

// Message is a single message in a model conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// MessageRole describes who a message is from.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// PromptOptions contains all the options for a single prompt.
type PromptOptions struct {
	Instructions string
	Messages     []Message

	Temperature float64
	MaxTokens   int
}

// PromptOption is a function that can be used to modify the prompt options.
type PromptOption func(*PromptOptions)

// WithSystemPrompt sets the system prompt. Repeating this option overwrites
// the previous system prompt.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Instructions = prompt
	}
}

// WithMessages adds prior conversation messages to the prompt. Repeating this
// option sequentially adds more messages.
func WithMessages(messages ...Message) PromptOption {
	return func(opts *PromptOptions) {
		opts.Messages = append(opts.Messages, messages...)
	}
}

// WithTemperature sets the sampling temperature for the prompt.
func WithTemperature(temperature float64) PromptOption {
	return func(opts *PromptOptions) {
		opts.Temperature = temperature
	}
}

// WithMaxTokens caps the number of tokens the model may generate.
func WithMaxTokens(maxTokens int) PromptOption {
	return func(opts *PromptOptions) {
		opts.MaxTokens = maxTokens
	}
}
