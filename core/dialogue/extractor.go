package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/imant686/samantha/core/llms"
	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

const (
	extractionTemperature = 0.1

	extractionMaxTokens = 300
	normalizeMaxTokens  = 50
	updateMaxTokens     = 200
)

// Prompter is the LLM collaborator used for free-text slot extraction.
type Prompter interface {
	Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error)
}

// draftProposal is a partial structured-event proposal extracted from free
// text. Nil fields were not present in the utterance.
type draftProposal struct {
	Name     *string `json:"name"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	Details  *string `json:"details"`
	Reminder *string `json:"reminder"`
}

// apply copies every non-empty proposed value onto the draft.
func (p draftProposal) apply(draft *Draft) {
	for field, value := range map[Field]*string{
		FieldName:     p.Name,
		FieldDate:     p.Date,
		FieldTime:     p.Time,
		FieldLocation: p.Location,
		FieldDetails:  p.Details,
		FieldReminder: p.Reminder,
	} {
		if value != nil && *value != "" {
			draft.set(field, *value)
		}
	}
}

// extractor turns free text into structured draft updates by prompting the
// configured LLM and parsing its JSON replies.
type extractor struct {
	llm Prompter
}

func (e extractor) available() bool { return e.llm != nil }

// proposalSchema is the JSON schema for draftProposal embedded into the
// extraction prompt so that the model knows the expected shape.
var proposalSchema = func() string {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema, err := reflector.Reflect(draftProposal{}).MarshalJSON()
	if err != nil {
		return ""
	}
	return string(schema)
}()

// draftProposal extracts any event fields present in the utterance. A failed
// or unparsable reply degrades to an empty proposal.
func (e extractor) draftProposal(ctx context.Context, utterance string) (draftProposal, error) {
	if !e.available() {
		return draftProposal{}, nil
	}

	ctx, span := tracer.Start(ctx, "extract event details")
	defer span.End()

	prompt := fmt.Sprintf(`Extract event details from this text: %q

If present, identify the following information:
- Event name/title
- Date (in YYYY-MM-DD format if possible)
- Time (in HH:MM format if possible)
- Location
- Details or description
- Reminder preferences

Return only the extracted information as JSON matching this schema:
%s
If information is not present, use null for that field.`, utterance, proposalSchema)

	response, err := e.llm.Prompt(ctx, prompt,
		llms.WithTemperature(extractionTemperature),
		llms.WithMaxTokens(extractionMaxTokens),
	)
	if err != nil {
		span.RecordError(err)
		return draftProposal{}, fmt.Errorf("failed to extract event details: %w", err)
	}

	var proposal draftProposal
	if err := parseModelJSON(response, &proposal); err != nil {
		logger.WarnContext(ctx, "failed to decode extraction response", "error", err)
		return draftProposal{}, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	return proposal, nil
}

// date normalizes an utterance to a YYYY-MM-DD date string.
func (e extractor) date(ctx context.Context, utterance string) (string, error) {
	if !e.available() {
		return "", errExtractorUnavailable
	}

	prompt := fmt.Sprintf(`Extract a date in YYYY-MM-DD format from: %q
Return only the date in YYYY-MM-DD format with no other text.`, utterance)

	response, err := e.llm.Prompt(ctx, prompt,
		llms.WithTemperature(extractionTemperature),
		llms.WithMaxTokens(normalizeMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("failed to normalize date: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// timeOfDay normalizes an utterance to a HH:MM:SS time string.
func (e extractor) timeOfDay(ctx context.Context, utterance string) (string, error) {
	if !e.available() {
		return "", errExtractorUnavailable
	}

	prompt := fmt.Sprintf(`Extract a time in HH:MM:SS 24-hour format from: %q
Return only the time in HH:MM:SS format with no other text.`, utterance)

	response, err := e.llm.Prompt(ctx, prompt,
		llms.WithTemperature(extractionTemperature),
		llms.WithMaxTokens(normalizeMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("failed to normalize time: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// updates maps a free-text change request plus the current draft onto
// field -> new-value pairs.
func (e extractor) updates(ctx context.Context, utterance string, draft Draft) (map[string]string, error) {
	if !e.available() {
		return nil, errExtractorUnavailable
	}

	ctx, span := tracer.Start(ctx, "extract draft updates")
	defer span.End()

	current, err := json.Marshal(map[string]string{
		"name":     draft.Name,
		"date":     draft.Date,
		"time":     draft.Time,
		"location": draft.Location,
		"details":  draft.Details,
		"reminder": draft.Reminder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize draft: %w", err)
	}

	prompt := fmt.Sprintf(`The user wants to update an event with these current details:
%s

From this update request: %q

Identify which field(s) they want to change and the new value(s).
Return a JSON with only the fields to update, like:
{"field_name": "new value"}`, current, utterance)

	response, err := e.llm.Prompt(ctx, prompt,
		llms.WithTemperature(extractionTemperature),
		llms.WithMaxTokens(updateMaxTokens),
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to extract updates: %w", err)
	}

	var updates map[string]string
	if err := parseModelJSON(response, &updates); err != nil {
		logger.WarnContext(ctx, "failed to decode update response", "error", err)
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}
	return updates, nil
}

var errExtractorUnavailable = errors.New("no extractor configured")

// parseModelJSON decodes a model reply into out, stripping fenced code-block
// markers first and repairing slightly malformed JSON before giving up.
func parseModelJSON(response string, out any) error {
	text := stripCodeFences(response)
	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return fmt.Errorf("unparsable model response: %w", err)
	}
	return json.Unmarshal([]byte(repaired), out)
}

// stripCodeFences unwraps a reply of the form ```json ... ``` or ``` ... ```.
func stripCodeFences(response string) string {
	text := strings.TrimSpace(response)
	if strings.Contains(text, "```json") {
		text = strings.SplitN(text, "```json", 2)[1]
		text = strings.SplitN(text, "```", 2)[0]
	} else if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) > 1 {
			text = parts[1]
		}
	}
	return strings.TrimSpace(text)
}
