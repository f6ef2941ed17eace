package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-writeassist-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompletions struct {
	mu     sync.Mutex
	result CompletionResult
	err    error
	delay  time.Duration
	calls  int
}

func (s *scriptedCompletions) FetchCompletion(ctx context.Context, text string) (CompletionResult, error) {
	s.mu.Lock()
	s.calls++
	result, err, delay := s.result, s.err, s.delay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return CompletionResult{}, ctx.Err()
		}
	}
	return result, err
}

func (s *scriptedCompletions) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type scriptedCitations struct {
	mu       sync.Mutex
	citation *Citation
	err      error
}

func (s *scriptedCitations) FetchCitation(ctx context.Context, keywords []string) (*Citation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.citation, s.err
}

type recordingSink struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingSink) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, event.EventType())
	return nil
}

func (r *recordingSink) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.types))
	copy(out, r.types)
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.QuietPeriod = 30 * time.Millisecond
	return cfg
}

type engineFixture struct {
	engine      *Engine
	host        *fakeHost
	completions *scriptedCompletions
	citations   *scriptedCitations
	cancel      context.CancelFunc
}

func newEngineFixture(t *testing.T, cfg Config, blockTexts ...string) *engineFixture {
	t.Helper()
	host := newFakeHost(blockTexts...)
	completions := &scriptedCompletions{
		result: CompletionResult{
			Completion: "converting light energy into chemical energy",
			Keywords:   []string{"photosynthesis", "energy"},
		},
	}
	citations := &scriptedCitations{}

	engine := NewEngine(cfg, host, completions, citations, nil, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go engine.Run(ctx)
	t.Cleanup(cancel)

	return &engineFixture{
		engine:      engine,
		host:        host,
		completions: completions,
		citations:   citations,
		cancel:      cancel,
	}
}

// typeInto simulates keystrokes one rune at a time, keeping the host's shadow
// state in step with the events delivered to the engine.
func (f *engineFixture) typeInto(blockID uuid.UUID, text string) {
	base := f.host.text(blockID)
	for _, r := range text {
		base += string(r)
		f.host.mu.Lock()
		f.host.focused = blockID
		f.host.cursor = len(base)
		f.host.mu.Unlock()
		f.host.setText(blockID, base)
		f.engine.KeyDown(string(r))
		f.engine.ContentChanged(blockID, base, len(base))
	}
}

// waitOverlay blocks until an overlay is shown or the deadline passes.
func (f *engineFixture) waitOverlay(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		shown := false
		f.engine.Inspect(func(s Session, overlayShown bool) { shown = overlayShown })
		if shown {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("overlay never appeared")
}

// settle waits until no fetch is in flight and no overlay is pending.
func (f *engineFixture) settle(t *testing.T, extra time.Duration) {
	t.Helper()
	time.Sleep(extra)
	f.engine.Inspect(func(Session, bool) {})
}

func TestEngineAcceptFlow(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Photosynthesis is the process plants use to convert sunlight.")
	blockID := f.host.blocks[0].id
	f.citations.citation = &Citation{
		Title:   "Molecular Mechanisms of Photosynthesis",
		Authors: []string{"Robert Blankenship"},
		Year:    2014,
	}

	f.typeInto(blockID, " It works by.")
	f.waitOverlay(t)

	prior := f.host.text(blockID)
	f.engine.KeyDown(cfg.AcceptKey)
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown, "overlay must be gone after accept")
		assert.False(t, s.Locked)
		assert.Equal(t, uuid.Nil, s.ActiveBlockID, "accept clears the active block")
		assert.True(t, s.HasChangedSinceLastResolution, "accept counts as a change")
		assert.Zero(t, s.CharsTypedSinceLastResolution)
		assert.Empty(t, s.LastSuggestedText)
	})

	want := prior + " converting light energy into chemical energy (Blankenship, 2014)."
	assert.Equal(t, want, f.host.text(blockID))
	require.Len(t, f.host.ledgerUpserts, 1)
	assert.Equal(t, "Molecular Mechanisms of Photosynthesis", f.host.ledgerUpserts[0].Title)
	require.Len(t, f.host.cursorMoves, 1)
	assert.Equal(t, blockID, f.host.cursorMoves[0])
	assert.Equal(t, 1, f.engine.Ledger().Len())
}

func TestEngineRejectByTyping(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "The ocean covers most of the planet's surface today.")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, " And yet.")
	f.waitOverlay(t)
	textAtOffer := f.host.text(blockID)

	f.typeInto(blockID, "A")
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown, "typing rejects the overlay")
		assert.Equal(t, blockID, s.ActiveBlockID, "reject keeps the block active")
		assert.Empty(t, s.LastSuggestedText)
	})

	// The document was never mutated by the suggestion.
	assert.Equal(t, textAtOffer+"A", f.host.text(blockID))
	assert.Empty(t, f.host.ledgerUpserts)
}

func TestEngineRejectOnBlur(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Glaciers retreat when summers warm beyond recovery.")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, " Evidence shows.")
	f.waitOverlay(t)

	f.engine.Blur()
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown)
	})
	assert.Equal(t, 0, f.host.overlayCount())
}

func TestEngineAcceptByCaretAdvance(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Neural networks approximate functions by composing layers.")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, " In practice.")
	f.waitOverlay(t)

	// The caret landing exactly at the end of the rendered overlay accepts.
	prior := f.host.text(blockID)
	rendered := " converting light energy into chemical energy."

	f.engine.SelectionChanged(blockID, len(prior)+len(rendered))
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown, "caret at overlay end commits")
	})
	assert.Contains(t, f.host.text(blockID), "converting light energy")
}

func TestEngineRejectByNavigatingAway(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg,
		"A first paragraph with plenty of words in it.",
		"A second paragraph the user is actually editing now.",
	)
	first, second := f.host.blocks[0].id, f.host.blocks[1].id

	f.typeInto(second, " More here.")
	f.waitOverlay(t)

	f.engine.SelectionChanged(first, 0)
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown, "navigating to another block rejects")
	})
	assert.Equal(t, 0, f.host.overlayCount())
	assert.NotContains(t, f.host.text(second), "converting light energy")
}

func TestEngineStalenessDiscardsResult(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Some block content the user keeps editing rapidly.")
	blockID := f.host.blocks[0].id
	f.completions.delay = 100 * time.Millisecond

	f.typeInto(blockID, " First burst.")

	// Let the timer fire and the fetch start, then keep typing while the
	// completion is still in flight.
	time.Sleep(cfg.QuietPeriod + 20*time.Millisecond)
	f.typeInto(blockID, " more")

	f.settle(t, 300*time.Millisecond)
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, s.Locked, "lock must be released when a result is discarded")
	})
	// The stale completion never rendered, though a later attempt may be
	// armed; no overlay text corresponds to the first baseline.
	assert.NotContains(t, f.host.text(blockID), "converting light energy")
}

func TestEngineCitationDegrade(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Sleep deprivation impairs memory consolidation quickly.")
	blockID := f.host.blocks[0].id
	f.citations.err = errors.New("citation service down")

	f.typeInto(blockID, " Studies show.")
	f.waitOverlay(t)

	prior := f.host.text(blockID)
	f.engine.KeyDown(cfg.AcceptKey)
	f.engine.Inspect(func(Session, bool) {})

	// Accepted without any citation label and without a ledger entry.
	want := prior + " converting light energy into chemical energy."
	assert.Equal(t, want, f.host.text(blockID))
	assert.Empty(t, f.host.ledgerUpserts)
	assert.Equal(t, 0, f.engine.Ledger().Len())
}

func TestEngineCompletionFailureIsSilent(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Anything at all that is long enough to qualify.")
	blockID := f.host.blocks[0].id
	f.completions.err = errors.New("upstream 500")

	f.typeInto(blockID, " Then this.")
	f.settle(t, cfg.QuietPeriod+100*time.Millisecond)

	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown, "no overlay on fetch failure")
		assert.False(t, s.Locked, "lock released on fetch failure")
	})
	assert.Equal(t, 0, f.host.overlayCount())
}

func TestEngineNoReofferAfterReject(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Content the engine already judged once before this.")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, " Once only.")
	f.waitOverlay(t)
	first := f.completions.callCount()

	// Escape-style reject: any non-accept key.
	f.engine.KeyDown("Escape")
	f.engine.Inspect(func(s Session, overlayShown bool) {
		assert.False(t, overlayShown)
	})

	// Nothing typed since the rejection, so no new attempt may start.
	f.settle(t, cfg.QuietPeriod+100*time.Millisecond)
	assert.Equal(t, first, f.completions.callCount(), "no re-fetch without new typing")
}

func TestEngineMinimumGapAfterReject(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "Plenty of prose already sitting inside this block.")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, " Extra words.")
	f.waitOverlay(t)
	f.engine.KeyDown("Escape")
	f.engine.Inspect(func(Session, bool) {})
	calls := f.completions.callCount()

	// Two characters is below the minimum gap of three.
	f.typeInto(blockID, "a.")
	f.settle(t, cfg.QuietPeriod+100*time.Millisecond)
	assert.Equal(t, calls, f.completions.callCount())

	// A third character crosses the threshold.
	f.typeInto(blockID, ".")
	f.waitOverlay(t)
}

func TestEngineEmitsLifecycleEvents(t *testing.T) {
	cfg := testConfig()
	host := newFakeHost("Volcanic soil is unusually fertile for agriculture.")
	blockID := host.blocks[0].id
	sink := &recordingSink{}

	completions := &scriptedCompletions{
		result: CompletionResult{Completion: "because of mineral weathering", Keywords: []string{"soil"}},
	}
	engine := NewEngine(cfg, host, completions, &scriptedCitations{}, sink, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	f := &engineFixture{engine: engine, host: host, completions: completions}
	f.typeInto(blockID, " This is why.")
	f.waitOverlay(t)
	engine.KeyDown(cfg.AcceptKey)
	engine.Inspect(func(Session, bool) {})

	got := sink.eventTypes()
	require.Len(t, got, 2)
	assert.Equal(t, EventSuggestionOffered, got[0])
	assert.Equal(t, EventSuggestionAccepted, got[1])
}

func TestEngineShortBlockNeverTriggers(t *testing.T) {
	cfg := testConfig()
	f := newEngineFixture(t, cfg, "")
	blockID := f.host.blocks[0].id

	f.typeInto(blockID, "Hi.")
	f.settle(t, cfg.QuietPeriod+100*time.Millisecond)

	assert.Equal(t, 0, f.completions.callCount())
	assert.Equal(t, 0, f.host.overlayCount())
}
