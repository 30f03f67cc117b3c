package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/models"
)

// State names the steps of the per-turn intake state machine.
type State string

const (
	StateNew                 State = "NEW"
	StateClassifying         State = "CLASSIFYING"
	StateFormPreferenceCheck State = "FORM_PREFERENCE_CHECK"
	StateResolvingFields     State = "RESOLVING_FIELDS"
	StateExtracting          State = "EXTRACTING"
	StateEvaluating          State = "EVALUATING"
	StateSnapshotting        State = "SNAPSHOTTING"
	StateJotformTerminal     State = "JOTFORM_TERMINAL"
	StateCompleteTerminal    State = "COMPLETE_TERMINAL"
	// StateTurnDone ends a turn whose conversation stays live awaiting the
	// next inbound message.
	StateTurnDone State = "TURN_DONE"
)

// Transitions enumerates every legal edge of the state machine. The runner
// refuses any hop not listed here, so the machine's shape is testable in
// isolation from the oracle.
var Transitions = map[State][]State{
	StateNew:                 {StateClassifying, StateResolvingFields},
	StateClassifying:         {StateFormPreferenceCheck, StateResolvingFields, StateTurnDone},
	StateFormPreferenceCheck: {StateJotformTerminal, StateResolvingFields},
	StateResolvingFields:     {StateExtracting},
	StateExtracting:          {StateEvaluating},
	StateEvaluating:          {StateSnapshotting},
	StateSnapshotting:        {StateCompleteTerminal, StateTurnDone},
	StateJotformTerminal:     {},
	StateCompleteTerminal:    {},
	StateTurnDone:            {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalState reports whether the state ends the turn.
func IsTerminalState(s State) bool {
	return len(Transitions[s]) == 0
}

// Sink receives the record snapshot after every evaluated turn. Writes are
// best-effort: failures are logged and never affect the turn's reply.
type Sink interface {
	UpsertIntake(rec models.IntakeRecord) error
}

// Reply is the outcome of one orchestrated turn.
type Reply struct {
	// Messages holds the outbound messages appended this turn, in order.
	Messages []string
	Status   models.ConversationStatus
	Intent   models.Intent
	// Terminal is true when the conversation ended this turn and its
	// registry entry was deleted.
	Terminal bool
}

// Text joins the turn's outbound messages for single-message channels.
func (r Reply) Text() string {
	return strings.Join(r.Messages, "\n\n")
}

// Orchestrator drives one conversation turn at a time through the intake
// state machine. It carries no per-conversation state of its own; all
// mutable state lives in the registry's Conversation entries.
type Orchestrator struct {
	classifier *IntentClassifier
	formPref   *FormPreferenceDetector
	extractor  *FieldExtractor
	evaluator  *CompletionEvaluator
	registry   *Registry
	sink       Sink
}

// NewOrchestrator wires the intake components around a shared oracle
// client, conversation registry, and storage sink.
func NewOrchestrator(genaiClient genai.ClientInterface, registry *Registry, sink Sink) *Orchestrator {
	return &Orchestrator{
		classifier: NewIntentClassifier(genaiClient),
		formPref:   NewFormPreferenceDetector(genaiClient),
		extractor:  NewFieldExtractor(genaiClient),
		evaluator:  NewCompletionEvaluator(genaiClient),
		registry:   registry,
		sink:       sink,
	}
}

// HandleMessage processes exactly one inbound message: it loads or creates
// the conversation, walks the state machine, and returns the outbound
// messages plus the resulting status. Terminal turns delete the registry
// entry before returning.
func (o *Orchestrator) HandleMessage(ctx context.Context, contactKey string, channel models.Channel, text string) (Reply, error) {
	if contactKey == "" || strings.TrimSpace(text) == "" {
		return Reply{}, models.ErrMissingPayload
	}

	conv, release := o.registry.Begin(contactKey, channel)
	defer release()

	conv.AppendUser(text)
	before := len(conv.Messages)

	state := StateNew
	slog.Debug("Orchestrator turn started", "contactKey", contactKey, "channel", channel, "intent", conv.Intent)

	for !IsTerminalState(state) {
		next, err := o.step(ctx, state, conv)
		if err != nil {
			// Unrecoverable turn failure: the entry is deleted so a retry
			// starts a fresh conversation instead of resuming a broken one.
			slog.Error("Orchestrator turn failed", "error", err, "contactKey", contactKey, "state", state)
			o.registry.Delete(contactKey)
			return Reply{}, err
		}
		if !CanTransition(state, next) {
			o.registry.Delete(contactKey)
			return Reply{}, fmt.Errorf("illegal state transition %s -> %s", state, next)
		}
		slog.Debug("Orchestrator transition", "contactKey", contactKey, "from", state, "to", next)
		state = next
	}

	terminal := state == StateJotformTerminal || state == StateCompleteTerminal
	if terminal {
		o.registry.Delete(contactKey)
	}

	reply := Reply{
		Status:   conv.Status,
		Intent:   conv.Intent,
		Terminal: terminal,
	}
	for _, msg := range conv.Messages[before:] {
		if msg.Role == models.RoleAssistant {
			reply.Messages = append(reply.Messages, msg.Text)
		}
	}
	slog.Info("Orchestrator turn finished", "contactKey", contactKey, "state", state, "status", conv.Status, "messages", len(reply.Messages))
	return reply, nil
}

// Abandon deletes the conversation after an outbound delivery failure so
// the caller's next message starts clean.
func (o *Orchestrator) Abandon(contactKey string) {
	slog.Warn("Orchestrator abandoning conversation", "contactKey", contactKey)
	o.registry.Delete(contactKey)
}

// step executes the work of a single state and picks the next one.
func (o *Orchestrator) step(ctx context.Context, state State, conv *models.Conversation) (State, error) {
	switch state {
	case StateNew:
		if conv.Intent == models.IntentUnknown {
			return StateClassifying, nil
		}
		// Re-resolving the schema from an already-classified intent is
		// deterministic and idempotent.
		return StateResolvingFields, nil

	case StateClassifying:
		return o.classify(ctx, conv)

	case StateFormPreferenceCheck:
		return o.checkFormPreference(ctx, conv)

	case StateResolvingFields:
		conv.RequiredFields = RequiredFields(conv.Intent)
		return StateExtracting, nil

	case StateExtracting:
		o.extract(ctx, conv)
		return StateEvaluating, nil

	case StateEvaluating:
		outcome, err := o.evaluator.Evaluate(ctx, conv)
		if err != nil {
			return state, err
		}
		conv.Status = outcome.Status
		conv.AppendAssistant(outcome.Message)
		return StateSnapshotting, nil

	case StateSnapshotting:
		o.snapshot(conv)
		if conv.Status == models.StatusComplete {
			return StateCompleteTerminal, nil
		}
		return StateTurnDone, nil

	default:
		return state, fmt.Errorf("no step defined for state %s", state)
	}
}

// classify runs intent classification once per conversation. Unrecognized
// labels are not persisted: the caller gets a clarification prompt and the
// next turn retries, which keeps the write-once intent invariant intact.
func (o *Orchestrator) classify(ctx context.Context, conv *models.Conversation) (State, error) {
	intent, err := o.classifier.Classify(ctx, conv.LastUserText())
	if err != nil || !models.IsValidIntent(intent) {
		if err != nil {
			slog.Warn("Orchestrator classification errored, asking caller to clarify", "error", err, "contactKey", conv.ContactKey)
		} else {
			slog.Warn("Orchestrator classification unresolved, asking caller to clarify", "label", intent, "contactKey", conv.ContactKey)
		}
		conv.AppendAssistant(ClarificationMessage)
		return StateTurnDone, nil
	}

	conv.Intent = intent
	conv.Status = models.StatusInProgress
	if intent == models.IntentPrivatePay {
		return StateFormPreferenceCheck, nil
	}
	return StateResolvingFields, nil
}

// checkFormPreference short-circuits private-pay conversations to the
// self-service form when the caller asked for one.
func (o *Orchestrator) checkFormPreference(ctx context.Context, conv *models.Conversation) (State, error) {
	prefers, err := o.formPref.PrefersForm(ctx, conv.LastUserText())
	if err != nil {
		// Preference is an optional shortcut; on oracle failure the caller
		// stays in the conversation.
		slog.Warn("Orchestrator form preference check failed, continuing conversation", "error", err, "contactKey", conv.ContactKey)
		return StateResolvingFields, nil
	}
	if !prefers {
		return StateResolvingFields, nil
	}

	conv.Status = models.StatusJotformUsed
	conv.AppendAssistant(JotformLinkMessage)
	return StateJotformTerminal, nil
}

// extract merges oracle-extracted fields into the conversation. Both parse
// failures and transient oracle failures skip the merge for the turn; the
// conversation continues either way.
func (o *Orchestrator) extract(ctx context.Context, conv *models.Conversation) {
	extracted, err := o.extractor.Extract(ctx, conv.Intent, conv.Messages, conv.LastUserText())
	if err != nil {
		if !errors.Is(err, models.ErrExtractionUnparsable) {
			slog.Warn("Orchestrator extraction call failed, skipping merge", "error", err, "contactKey", conv.ContactKey)
		}
		return
	}
	Merge(conv.CollectedFields, extracted)
}

// snapshot writes the turn's record to the storage sink, best-effort.
func (o *Orchestrator) snapshot(conv *models.Conversation) {
	if o.sink == nil {
		return
	}
	if err := o.sink.UpsertIntake(Snapshot(conv)); err != nil {
		slog.Error("Orchestrator snapshot write failed", "error", err, "contactKey", conv.ContactKey, "intent", conv.Intent)
	}
}
