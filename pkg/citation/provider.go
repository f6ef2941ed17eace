package citation

import (
	"context"

	"ai-writeassist-be/pkg/suggest"
)

// Provider defines the contract for citation lookup backends.
// A (nil, nil) return means no citation is available for the keywords; it is
// not an error and the caller proceeds without one.
type Provider interface {
	Lookup(ctx context.Context, keywords []string) (*suggest.Citation, error)
}
