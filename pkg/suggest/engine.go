package suggest

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-writeassist-be/pkg/events"

	"github.com/google/uuid"
)

// EventSink receives suggestion lifecycle events (offered, accepted,
// rejected) for downstream consumers. Delivery is best-effort; failures are
// logged and never surface to the editor.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// Lifecycle event codes emitted by the engine.
const (
	EventSuggestionOffered  = "SUGGESTION_OFFERED"
	EventSuggestionAccepted = "SUGGESTION_ACCEPTED"
	EventSuggestionRejected = "SUGGESTION_REJECTED"
)

// Engine coordinates the edit tracker, eligibility gate, debounce scheduler,
// completion pipeline and presenter for a single connected editor. All state
// is owned by one goroutine (Run); editor events and asynchronous fetch
// resolutions are serialized onto it, which is what makes the cooperative
// Locked flag sufficient.
type Engine struct {
	cfg       Config
	host      HostEditor
	tracker   *Tracker
	scheduler *Scheduler
	pipeline  *Pipeline
	presenter *Presenter
	ledger    *Ledger
	sink      EventSink
	logger    *log.Logger

	session *Session
	shown   *ShownSuggestion
	cursor  int

	runCtx context.Context
	tasks  chan func()
	done   chan struct{}
}

// NewEngine wires an engine for one editor session. sink may be nil.
func NewEngine(
	cfg Config,
	host HostEditor,
	completions CompletionFetcher,
	citations CitationFetcher,
	sink EventSink,
	logger *log.Logger,
) *Engine {
	e := &Engine{
		cfg:       cfg,
		host:      host,
		tracker:   NewTracker(logger),
		pipeline:  NewPipeline(completions, citations, logger),
		presenter: NewPresenter(host, logger),
		ledger:    NewLedger(),
		sink:      sink,
		logger:    logger,
		session:   &Session{},
		runCtx:    context.Background(),
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
	e.scheduler = NewScheduler(cfg.QuietPeriod, func() {
		e.post(e.onTimerFired)
	})
	return e
}

// Run processes events until ctx is cancelled. It must be running for any of
// the event methods to have an effect.
func (e *Engine) Run(ctx context.Context) {
	e.runCtx = ctx
	defer close(e.done)
	defer e.scheduler.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-e.tasks:
			fn()
		}
	}
}

// post hands fn to the engine goroutine. Safe to call from any goroutine;
// becomes a no-op once the engine has stopped.
func (e *Engine) post(fn func()) {
	select {
	case e.tasks <- fn:
	case <-e.done:
	}
}

// ContentChanged reports a document mutation in the given block.
func (e *Engine) ContentChanged(blockID uuid.UUID, text string, cursorOffset int) {
	e.post(func() { e.onContentChanged(blockID, text, cursorOffset) })
}

// KeyDown reports a key press. While an overlay is shown, the accept key
// commits it and every other key rejects it.
func (e *Engine) KeyDown(key string) {
	e.post(func() { e.onKeyDown(key) })
}

// SelectionChanged reports a caret move without a content change.
func (e *Engine) SelectionChanged(blockID uuid.UUID, cursorOffset int) {
	e.post(func() { e.onSelectionChanged(blockID, cursorOffset) })
}

// Blur reports that the editor lost focus.
func (e *Engine) Blur() {
	e.post(func() { e.onBlur() })
}

// Inspect runs fn on the engine goroutine with a snapshot of the session and
// whether an overlay is shown, and waits for it. It doubles as a barrier:
// all events posted before Inspect are processed when it returns.
func (e *Engine) Inspect(fn func(session Session, overlayShown bool)) {
	handled := make(chan struct{})
	e.post(func() {
		fn(*e.session, e.shown != nil)
		close(handled)
	})
	select {
	case <-handled:
	case <-e.done:
	}
}

// Ledger exposes the reference ledger for the hosting service.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

func (e *Engine) onContentChanged(blockID uuid.UUID, text string, cursorOffset int) {
	e.cursor = cursorOffset

	// Typing over a shown suggestion is an implicit rejection.
	if e.shown != nil {
		e.resolveReject("edit")
	}

	e.tracker.Observe(e.session, blockID, text)

	in := GateInput{
		BlockID:          blockID,
		Text:             text,
		CursorAtBoundary: AtBoundary(text, cursorOffset),
		OverlayShown:     e.shown != nil,
	}
	if ok, reason := CheckEligibility(e.session, in, e.cfg); ok {
		e.scheduler.Arm()
	} else {
		e.scheduler.Cancel()
		e.logger.Printf("[GATE] Not scheduling: %s", reason)
	}
}

func (e *Engine) onKeyDown(key string) {
	if e.shown == nil {
		return
	}
	if key == e.cfg.AcceptKey {
		e.resolveAccept()
		return
	}
	e.resolveReject("key " + key)
}

func (e *Engine) onSelectionChanged(blockID uuid.UUID, cursorOffset int) {
	if e.shown != nil {
		if blockID == e.shown.Suggestion.BlockID &&
			cursorOffset == len(e.shown.PriorText)+len(e.shown.Rendered) {
			// Caret advanced to the exact end of the overlay.
			e.resolveAccept()
			return
		}
		if blockID != e.shown.Suggestion.BlockID {
			e.resolveReject("navigated away")
			return
		}
	}
	e.cursor = cursorOffset
	if blockID != e.session.ActiveBlockID {
		e.scheduler.Cancel()
	}
}

func (e *Engine) onBlur() {
	e.scheduler.Cancel()
	if e.shown != nil {
		e.resolveReject("blur")
	}
}

func (e *Engine) onTimerFired() {
	e.scheduler.Cancel()

	focused, ok := e.host.GetFocusedBlock()
	if !ok {
		return
	}

	// Re-run the gate against current state, not the state at arm time.
	in := GateInput{
		BlockID:          focused.ID,
		Text:             focused.Text,
		CursorAtBoundary: focused.CursorAtEnd || AtBoundary(focused.Text, e.cursor),
		OverlayShown:     e.shown != nil,
	}
	if ok, reason := CheckEligibility(e.session, in, e.cfg); !ok {
		e.logger.Printf("[GATE] Ineligible at fire: %s", reason)
		return
	}

	e.startAttempt(focused)
}

func (e *Engine) startAttempt(focused FocusedBlock) {
	e.session.Locked = true

	attempt := &Attempt{
		BlockID:  focused.ID,
		Baseline: focused.Text,
		Context:  strings.Join(e.host.PrecedingBlocks(focused.ID, e.cfg.ContextBlocks), "\n\n"),
	}
	e.logger.Printf("[PIPELINE] Attempt started for block %s", attempt.BlockID)

	go func() {
		res, err := e.pipeline.FetchCompletionStage(e.runCtx, attempt)
		e.post(func() { e.onCompletionFetched(attempt, res, err) })
	}()
}

func (e *Engine) onCompletionFetched(attempt *Attempt, res CompletionResult, err error) {
	if err != nil {
		// Best-effort enhancement: abort silently, never surface an error.
		e.session.Locked = false
		e.logger.Printf("[PIPELINE] Completion fetch failed: %v", err)
		return
	}
	if Stale(e.session, attempt, e.shown != nil) {
		e.session.Locked = false
		e.logger.Printf("[PIPELINE] Stale after completion stage, discarding")
		return
	}

	go func() {
		citation := e.pipeline.FetchCitationStage(e.runCtx, res.Keywords)
		e.post(func() { e.onCitationFetched(attempt, res, citation) })
	}()
}

func (e *Engine) onCitationFetched(attempt *Attempt, res CompletionResult, citation *Citation) {
	if Stale(e.session, attempt, e.shown != nil) {
		e.session.Locked = false
		e.logger.Printf("[PIPELINE] Stale after citation stage, discarding")
		return
	}
	e.session.Locked = false

	// Final gate pass immediately before rendering; the citation round trip
	// may have outlived its relevance.
	focused, ok := e.host.GetFocusedBlock()
	if !ok || focused.ID != attempt.BlockID {
		return
	}
	in := GateInput{
		BlockID:          focused.ID,
		Text:             focused.Text,
		CursorAtBoundary: focused.CursorAtEnd || AtBoundary(focused.Text, e.cursor),
		OverlayShown:     e.shown != nil,
	}
	if ok, reason := CheckEligibility(e.session, in, e.cfg); !ok {
		e.logger.Printf("[GATE] Ineligible at render: %s", reason)
		return
	}

	sug := Suggestion{
		Text:     NormalizeCompletion(res.Completion),
		Citation: citation,
		BlockID:  attempt.BlockID,
	}
	e.session.LastSuggestedText = attempt.Baseline
	e.shown = e.presenter.Show(sug, attempt.Baseline)

	e.emit(EventSuggestionOffered, map[string]interface{}{
		"block_id":     attempt.BlockID.String(),
		"has_citation": citation != nil,
	})
}

func (e *Engine) resolveAccept() {
	shown := e.shown
	final := e.presenter.Commit(shown, e.ledger)

	e.session.Locked = false
	e.session.ActiveBlockID = uuid.Nil
	e.session.HasChangedSinceLastResolution = true
	e.session.CharsTypedSinceLastResolution = 0
	e.session.LastSuggestedText = ""
	e.shown = nil
	e.cursor = len(final)

	e.emit(EventSuggestionAccepted, map[string]interface{}{
		"block_id":     shown.Suggestion.BlockID.String(),
		"has_citation": shown.Suggestion.Citation != nil,
	})
}

func (e *Engine) resolveReject(reason string) {
	shown := e.shown
	e.presenter.Teardown(shown)

	// ActiveBlockID stays on the rejected block so the minimum-gap rule
	// governs the next attempt there.
	e.session.HasChangedSinceLastResolution = false
	e.session.CharsTypedSinceLastResolution = 0
	e.session.LastSuggestedText = ""
	e.shown = nil
	e.scheduler.Cancel()

	e.logger.Printf("[ENGINE] Suggestion rejected (%s)", reason)
	e.emit(EventSuggestionRejected, map[string]interface{}{
		"block_id": shown.Suggestion.BlockID.String(),
		"reason":   reason,
	})
}

func (e *Engine) emit(eventType string, payload map[string]interface{}) {
	if e.sink == nil {
		return
	}
	ev := events.BaseEvent{Type: eventType, Data: payload, OccurredAt: time.Now()}
	if err := e.sink.Publish(e.runCtx, ev); err != nil {
		e.logger.Printf("[ENGINE] Event publish failed: %v", err)
	}
}
