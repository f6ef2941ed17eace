package suggest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// CompletionResult is what the completion service returns for a context.
type CompletionResult struct {
	Completion string
	Keywords   []string
}

// CompletionFetcher is the consumed contract for text completion. A response
// missing either field is a contract violation and must be returned as an
// error by implementations or it will be rejected here.
type CompletionFetcher interface {
	FetchCompletion(ctx context.Context, context string) (CompletionResult, error)
}

// CitationFetcher is the consumed contract for citation lookup.
// (nil, nil) means no citation is available for the keywords.
type CitationFetcher interface {
	FetchCitation(ctx context.Context, keywords []string) (*Citation, error)
}

// Attempt captures the editor state a pipeline run was started from. Both
// fetch stages are validated against it on resumption.
type Attempt struct {
	BlockID  uuid.UUID
	Baseline string
	Context  string
}

// Pipeline performs the two-stage fetch. It holds no session state itself;
// the engine owns the lock and runs the staleness checks between stages.
type Pipeline struct {
	completions CompletionFetcher
	citations   CitationFetcher
	logger      *log.Logger
}

// NewPipeline creates a completion pipeline over the two fetchers.
func NewPipeline(completions CompletionFetcher, citations CitationFetcher, logger *log.Logger) *Pipeline {
	return &Pipeline{completions: completions, citations: citations, logger: logger}
}

// FetchCompletionStage runs the first fetch for the attempt. The prompt is
// the preceding context and the block text joined by a blank line. An empty
// completion or empty keyword list from the service is a contract violation.
func (p *Pipeline) FetchCompletionStage(ctx context.Context, attempt *Attempt) (CompletionResult, error) {
	prompt := attempt.Baseline
	if attempt.Context != "" {
		prompt = attempt.Context + "\n\n" + attempt.Baseline
	}

	res, err := p.completions.FetchCompletion(ctx, prompt)
	if err != nil {
		return CompletionResult{}, err
	}
	if strings.TrimSpace(res.Completion) == "" {
		return CompletionResult{}, fmt.Errorf("completion service returned no text")
	}
	if len(res.Keywords) == 0 {
		return CompletionResult{}, fmt.Errorf("completion service returned no keywords")
	}
	return res, nil
}

// FetchCitationStage runs the second fetch. All failure modes degrade to a
// citation-less suggestion: the completion is still valid and valuable, so a
// lookup error is logged and swallowed rather than aborting the attempt.
func (p *Pipeline) FetchCitationStage(ctx context.Context, keywords []string) *Citation {
	citation, err := p.citations.FetchCitation(ctx, keywords)
	if err != nil {
		p.logger.Printf("[PIPELINE] Citation lookup failed, degrading: %v", err)
		return nil
	}
	return citation
}

// Stale reports whether the attempt's result no longer corresponds to
// current state and must be discarded. An attempt is stale when the focused
// block changed, when a suggestion is already shown, or when the block's
// text drifted from the baseline captured at attempt start. The last clause
// is the stricter of the two staleness readings for same-block edits during
// the round trip: a continuation of text the user has already extended or
// rewritten is never rendered.
func Stale(session *Session, attempt *Attempt, overlayShown bool) bool {
	if overlayShown {
		return true
	}
	if session.ActiveBlockID != attempt.BlockID {
		return true
	}
	if session.BaselineText != attempt.Baseline {
		return true
	}
	return false
}
