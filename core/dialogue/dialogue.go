package dialogue

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jinzhu/copier"
)

// eventIntentPhrases is the enumerated set of phrases that start an
// event-creation session. Matching is a case-insensitive substring test;
// there is no fuzzy matching.
var eventIntentPhrases = []string{
	"add event", "create event", "schedule event", "new event",
	"add an event", "create an event", "schedule an event",
	"add to calendar", "put in calendar", "create a reminder",
	"add appointment", "schedule appointment", "new appointment",
	"add an appointment", "schedule an appointment",
	"add meeting", "schedule meeting", "new meeting",
	"add a meeting", "schedule a meeting",
	"add to my calendar", "schedule in my calendar",
}

// IsEventIntent reports whether the utterance asks to create a calendar
// event.
func IsEventIntent(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, phrase := range eventIntentPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// Dialogue owns the in-progress event record for one conversation, decides
// the next question, routes each incoming utterance to extraction, update or
// confirmation logic, and triggers the commit pipeline.
//
// Utterances must be processed sequentially; a Dialogue is not safe for
// concurrent use and each conversation needs its own instance.
type Dialogue struct {
	session   Session
	catalog   ReminderCatalog
	extractor extractor
	conflicts *ConflictChecker
	pipeline  *CommitPipeline
}

type Option func(*Dialogue)

// WithExtractor wires the LLM collaborator used for free-text slot
// extraction. Without it the dialogue degrades to explicit-input-only
// behavior.
func WithExtractor(llm Prompter) Option {
	return func(d *Dialogue) { d.extractor = extractor{llm: llm} }
}

// WithConflictChecker wires the advisory schedule-conflict check that runs
// before the confirmation summary.
func WithConflictChecker(checker *ConflictChecker) Option {
	return func(d *Dialogue) { d.conflicts = checker }
}

// WithCommitPipeline wires the pipeline invoked when the user confirms the
// summary.
func WithCommitPipeline(pipeline *CommitPipeline) Option {
	return func(d *Dialogue) { d.pipeline = pipeline }
}

func New(opts ...Option) *Dialogue {
	d := &Dialogue{
		session: NewSession(),
		catalog: NewReminderCatalog(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Active reports whether an event-creation session is in progress.
func (d *Dialogue) Active() bool { return d.session.Mode != ModeIdle }

// Session returns a point-in-time copy of the dialogue session.
func (d *Dialogue) Session() Session {
	var snapshot Session
	if err := copier.Copy(&snapshot, &d.session); err != nil {
		return d.session
	}
	return snapshot
}

// ProcessUtterance routes one utterance through the state machine. It
// reports handled=false only when no session is active and the utterance is
// not an event query.
func (d *Dialogue) ProcessUtterance(ctx context.Context, utterance string) (response string, handled bool) {
	ctx, span := tracer.Start(ctx, "process dialogue turn")
	defer span.End()

	switch d.session.Mode {
	case ModeIdle:
		if !IsEventIntent(utterance) {
			return "", false
		}
		return d.startSession(ctx, utterance), true

	case ModeAwaitingConfirmation:
		return d.handleConfirmation(ctx, utterance), true

	case ModeUpdating:
		return d.handleUpdate(ctx, utterance), true

	case ModeCollecting:
		return d.handleAnswer(ctx, utterance), true
	}

	// Unreachable unless the session is corrupted; start over.
	d.session.reset()
	return "I'm having trouble processing your request. Let's try again. What event would you like to add to your calendar?", true
}

// startSession seeds a fresh draft from whatever fields the triggering
// utterance already carries, then asks the first open question.
func (d *Dialogue) startSession(ctx context.Context, utterance string) string {
	proposal, err := d.extractor.draftProposal(ctx, utterance)
	if err != nil {
		log.Println("Warning: initial extraction failed:", err)
	}
	proposal.apply(&d.session.Draft)

	return d.nextQuestion(ctx)
}

// handleConfirmation resolves the yes/no answer at the summary step. The
// checks are substring matches and "yes" wins when both appear.
func (d *Dialogue) handleConfirmation(ctx context.Context, utterance string) string {
	lowered := strings.ToLower(utterance)

	if strings.Contains(lowered, "yes") {
		return d.finalize(ctx)
	}
	if strings.Contains(lowered, "no") {
		d.session.Mode = ModeUpdating
		return "What details would you like to change?"
	}
	return "Please say yes to confirm or no to modify the event details."
}

// handleUpdate maps a free-text change request onto the draft and returns to
// the confirmation summary. Extraction failure keeps the draft and the
// updating state untouched.
func (d *Dialogue) handleUpdate(ctx context.Context, utterance string) string {
	updates, err := d.extractor.updates(ctx, utterance, d.session.Draft)
	if err != nil {
		log.Println("Warning: error processing update:", err)
		return "I didn't understand which details you want to change. Please specify more clearly, like 'change the date to March 21st'."
	}

	for field, value := range updates {
		if isDraftField(field) {
			d.session.Draft.set(Field(field), value)
		}
	}

	d.session.Mode = ModeAwaitingConfirmation
	d.session.PendingField = ""
	return d.summary()
}

// handleAnswer applies an utterance to the pending field and moves on to the
// next question.
func (d *Dialogue) handleAnswer(ctx context.Context, utterance string) string {
	switch field := d.session.PendingField; field {
	case FieldDate:
		date, err := d.extractor.date(ctx, utterance)
		if errors.Is(err, errExtractorUnavailable) {
			// Explicit-input-only fallback: the user has to type the
			// canonical format themselves.
			date = strings.TrimSpace(utterance)
		} else if err != nil {
			log.Println("Warning: date normalization failed:", err)
			date = ""
		}
		if len(date) != 10 {
			return "I couldn't understand that date. Please provide a date like 'March 20, 2025' or '2025-03-20'."
		}
		d.session.Draft.Date = date

	case FieldTime:
		timeOfDay, err := d.extractor.timeOfDay(ctx, utterance)
		if errors.Is(err, errExtractorUnavailable) {
			timeOfDay = strings.TrimSpace(utterance)
		} else if err != nil {
			log.Println("Warning: time normalization failed:", err)
			timeOfDay = ""
		}
		if timeOfDay == "" {
			return "I couldn't understand that time. Please provide a time like '3:00 PM' or '15:00'."
		}
		d.session.Draft.Time = timeOfDay

	case FieldName, FieldLocation, FieldDetails, FieldReminder:
		d.session.Draft.set(field, utterance)

	default:
		d.session.reset()
		return "I'm having trouble processing your request. Let's try again. What event would you like to add to your calendar?"
	}

	return d.nextQuestion(ctx)
}

// nextQuestion advances to the first field that still needs an answer, or to
// the confirmation summary once all six are set.
func (d *Dialogue) nextQuestion(ctx context.Context) string {
	if field, ok := d.session.Draft.nextPending(); ok {
		d.session.Mode = ModeCollecting
		d.session.PendingField = field
		return d.questionFor(field)
	}

	d.session.Mode = ModeAwaitingConfirmation
	d.session.PendingField = ""

	// Advisory only: conflicts are reported but never block confirmation.
	if report, err := d.conflicts.Check(ctx, d.session.Draft.Date, d.session.Draft.Time, ""); err != nil {
		log.Println("Warning: conflict check failed:", err)
	} else {
		logger.InfoContext(ctx, report.String(), "session", d.session.ID)
	}

	return d.summary()
}

// finalize runs the commit pipeline and resets the session regardless of the
// outcome so the dialogue never gets stuck on an unrecoverable store.
func (d *Dialogue) finalize(ctx context.Context) string {
	if d.pipeline == nil {
		d.session.reset()
		return "I couldn't save your event because no storage is configured."
	}

	result := d.pipeline.Commit(ctx, d.session.Draft)
	d.session.reset()
	return result.Message
}
