package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubCompletions struct {
	result   CompletionResult
	err      error
	lastText string
}

func (s *stubCompletions) FetchCompletion(ctx context.Context, text string) (CompletionResult, error) {
	s.lastText = text
	return s.result, s.err
}

type stubCitations struct {
	citation *Citation
	err      error
	keywords []string
}

func (s *stubCitations) FetchCitation(ctx context.Context, keywords []string) (*Citation, error) {
	s.keywords = keywords
	return s.citation, s.err
}

func TestFetchCompletionStagePrompt(t *testing.T) {
	completions := &stubCompletions{
		result: CompletionResult{Completion: "text", Keywords: []string{"k"}},
	}
	p := NewPipeline(completions, &stubCitations{}, testLogger())

	attempt := &Attempt{
		BlockID:  uuid.New(),
		Baseline: "Current block.",
		Context:  "First block.\n\nSecond block.",
	}
	if _, err := p.FetchCompletionStage(context.Background(), attempt); err != nil {
		t.Fatal(err)
	}

	want := "First block.\n\nSecond block.\n\nCurrent block."
	if completions.lastText != want {
		t.Errorf("prompt = %q, want %q", completions.lastText, want)
	}
}

func TestFetchCompletionStageNoContext(t *testing.T) {
	completions := &stubCompletions{
		result: CompletionResult{Completion: "text", Keywords: []string{"k"}},
	}
	p := NewPipeline(completions, &stubCitations{}, testLogger())

	attempt := &Attempt{BlockID: uuid.New(), Baseline: "Only block."}
	if _, err := p.FetchCompletionStage(context.Background(), attempt); err != nil {
		t.Fatal(err)
	}
	if completions.lastText != "Only block." {
		t.Errorf("prompt = %q", completions.lastText)
	}
}

func TestFetchCompletionStageContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		result CompletionResult
	}{
		{"empty completion", CompletionResult{Completion: "   ", Keywords: []string{"k"}}},
		{"no keywords", CompletionResult{Completion: "text", Keywords: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(&stubCompletions{result: tt.result}, &stubCitations{}, testLogger())
			_, err := p.FetchCompletionStage(context.Background(), &Attempt{Baseline: "x"})
			if err == nil {
				t.Error("expected a contract violation error")
			}
		})
	}
}

func TestFetchCitationStageDegradesOnError(t *testing.T) {
	p := NewPipeline(&stubCompletions{}, &stubCitations{err: errors.New("boom")}, testLogger())

	if got := p.FetchCitationStage(context.Background(), []string{"k"}); got != nil {
		t.Errorf("citation = %v, want nil on lookup error", got)
	}
}

func TestFetchCitationStageNoContent(t *testing.T) {
	p := NewPipeline(&stubCompletions{}, &stubCitations{}, testLogger())

	if got := p.FetchCitationStage(context.Background(), []string{"k"}); got != nil {
		t.Errorf("citation = %v, want nil", got)
	}
}

func TestStale(t *testing.T) {
	blockID := uuid.New()
	attempt := &Attempt{BlockID: blockID, Baseline: "baseline text."}

	tests := []struct {
		name         string
		session      Session
		overlayShown bool
		want         bool
	}{
		{
			name:    "fresh",
			session: Session{ActiveBlockID: blockID, BaselineText: "baseline text."},
			want:    false,
		},
		{
			name:         "overlay appeared meanwhile",
			session:      Session{ActiveBlockID: blockID, BaselineText: "baseline text."},
			overlayShown: true,
			want:         true,
		},
		{
			name:    "focus moved to another block",
			session: Session{ActiveBlockID: uuid.New(), BaselineText: "baseline text."},
			want:    true,
		},
		{
			name:    "text drifted during the round trip",
			session: Session{ActiveBlockID: blockID, BaselineText: "baseline text. more"},
			want:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stale(&tt.session, attempt, tt.overlayShown); got != tt.want {
				t.Errorf("Stale() = %v, want %v", got, tt.want)
			}
		})
	}
}
