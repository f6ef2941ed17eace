package citation

import (
	"context"
	"errors"
	"testing"

	"ai-writeassist-be/pkg/suggest"
)

type countingProvider struct {
	citation *suggest.Citation
	err      error
	calls    int
}

func (p *countingProvider) Lookup(ctx context.Context, keywords []string) (*suggest.Citation, error) {
	p.calls++
	return p.citation, p.err
}

func TestCachedProviderMemoizesHits(t *testing.T) {
	inner := &countingProvider{citation: &suggest.Citation{Title: "T", Year: 2020}}
	p := NewCachedProvider(inner)

	for i := 0; i < 3; i++ {
		c, err := p.Lookup(context.Background(), []string{"Photosynthesis", "Energy"})
		if err != nil {
			t.Fatal(err)
		}
		if c.Title != "T" {
			t.Fatalf("Title = %q", c.Title)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestCachedProviderKeyIsCaseInsensitive(t *testing.T) {
	inner := &countingProvider{citation: &suggest.Citation{Title: "T"}}
	p := NewCachedProvider(inner)

	p.Lookup(context.Background(), []string{"Solar"})
	p.Lookup(context.Background(), []string{"solar"})

	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestCachedProviderMemoizesMisses(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner)

	for i := 0; i < 2; i++ {
		c, err := p.Lookup(context.Background(), []string{"obscure"})
		if err != nil || c != nil {
			t.Fatalf("Lookup = (%v, %v), want (nil, nil)", c, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (misses are cached)", inner.calls)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("down")}
	p := NewCachedProvider(inner)

	p.Lookup(context.Background(), []string{"k"})
	p.Lookup(context.Background(), []string{"k"})

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (errors retried)", inner.calls)
	}
}
