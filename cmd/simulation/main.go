package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-writeassist-be/pkg/suggest"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Scripted end-to-end run of the suggestion engine against an in-memory
// editor, with canned completion and citation services. Useful for eyeballing
// the gate, debounce and accept/reject flows without a browser.

type simBlock struct {
	id   uuid.UUID
	text string
}

type simHost struct {
	mu       sync.Mutex
	blocks   []simBlock
	focused  uuid.UUID
	cursor   int
	overlays map[suggest.OverlayHandle]string
	seq      int
}

func newSimHost(texts ...string) *simHost {
	h := &simHost{overlays: make(map[suggest.OverlayHandle]string)}
	for _, t := range texts {
		h.blocks = append(h.blocks, simBlock{id: uuid.New(), text: t})
	}
	return h
}

func (h *simHost) GetFocusedBlock() (suggest.FocusedBlock, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.blocks {
		if b.id == h.focused {
			return suggest.FocusedBlock{ID: b.id, Text: b.text, CursorAtEnd: h.cursor >= len(b.text)}, true
		}
	}
	return suggest.FocusedBlock{}, false
}

func (h *simHost) PrecedingBlocks(blockID uuid.UUID, n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, b := range h.blocks {
		if b.id == blockID {
			start := i - n
			if start < 0 {
				start = 0
			}
			var texts []string
			for _, p := range h.blocks[start:i] {
				texts = append(texts, p.text)
			}
			return texts
		}
	}
	return nil
}

func (h *simHost) ReplaceBlockContent(blockID uuid.UUID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.blocks {
		if h.blocks[i].id == blockID {
			h.blocks[i].text = text
		}
	}
	color.Green("  [editor] block committed: %q", text)
}

func (h *simHost) InsertOverlay(blockID uuid.UUID, rendered string) suggest.OverlayHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	handle := suggest.OverlayHandle(fmt.Sprintf("ov-%d", h.seq))
	h.overlays[handle] = rendered
	color.Cyan("  [editor] overlay shown: %q", rendered)
	return handle
}

func (h *simHost) RemoveOverlay(handle suggest.OverlayHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.overlays, handle)
	color.Yellow("  [editor] overlay removed")
}

func (h *simHost) UpsertReferenceLedgerEntry(citation suggest.Citation) {
	color.Magenta("  [editor] ledger upsert: %s (%d)", citation.Title, citation.Year)
}

func (h *simHost) MoveCursorToEnd(blockID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.blocks {
		if b.id == blockID {
			h.cursor = len(b.text)
		}
	}
}

// typeText simulates keystrokes into a block, one rune at a time.
func typeText(engine *suggest.Engine, host *simHost, blockID uuid.UUID, text string) {
	host.mu.Lock()
	var base string
	for i := range host.blocks {
		if host.blocks[i].id == blockID {
			base = host.blocks[i].text
		}
	}
	host.mu.Unlock()

	for _, r := range text {
		base += string(r)
		host.mu.Lock()
		for i := range host.blocks {
			if host.blocks[i].id == blockID {
				host.blocks[i].text = base
			}
		}
		host.focused = blockID
		host.cursor = len(base)
		host.mu.Unlock()
		engine.KeyDown(string(r))
		engine.ContentChanged(blockID, base, len(base))
	}
}

type cannedCompletions struct {
	completion string
	keywords   []string
}

func (c cannedCompletions) FetchCompletion(ctx context.Context, text string) (suggest.CompletionResult, error) {
	time.Sleep(50 * time.Millisecond) // pretend network
	return suggest.CompletionResult{Completion: c.completion, Keywords: c.keywords}, nil
}

type cannedCitations struct {
	citation *suggest.Citation
}

func (c cannedCitations) FetchCitation(ctx context.Context, keywords []string) (*suggest.Citation, error) {
	time.Sleep(30 * time.Millisecond)
	return c.citation, nil
}

func main() {
	cfg := suggest.DefaultConfig()
	cfg.QuietPeriod = 300 * time.Millisecond

	logger := log.New(log.Writer(), "[sim] ", log.LstdFlags)

	run := func(name string, citation *suggest.Citation, resolve func(e *suggest.Engine, h *simHost, blockID uuid.UUID)) {
		color.New(color.Bold).Printf("\n=== %s ===\n", name)

		host := newSimHost("Photosynthesis is the process plants use to make food.")
		blockID := host.blocks[0].id

		engine := suggest.NewEngine(cfg, host,
			cannedCompletions{
				completion: "converting light energy into chemical energy",
				keywords:   []string{"photosynthesis", "light energy", "chemical energy"},
			},
			cannedCitations{citation: citation},
			nil, logger,
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go engine.Run(ctx)

		typeText(engine, host, blockID, " It works by.")
		time.Sleep(cfg.QuietPeriod + 300*time.Millisecond)

		resolve(engine, host, blockID)
		engine.Inspect(func(s suggest.Session, overlayShown bool) {
			fmt.Printf("  session: locked=%v overlay=%v\n", s.Locked, overlayShown)
		})
	}

	smith := &suggest.Citation{
		Title:   "Molecular Mechanisms of Photosynthesis",
		Authors: []string{"Robert E. Blankenship"},
		Year:    2014,
		DOI:     "10.1002/9780470758472",
	}

	run("accept via Tab", smith, func(e *suggest.Engine, h *simHost, blockID uuid.UUID) {
		e.KeyDown(cfg.AcceptKey)
		e.Inspect(func(suggest.Session, bool) {})
	})

	run("reject by typing", smith, func(e *suggest.Engine, h *simHost, blockID uuid.UUID) {
		typeText(e, h, blockID, " Anyway")
	})

	run("accept without citation", nil, func(e *suggest.Engine, h *simHost, blockID uuid.UUID) {
		e.KeyDown(cfg.AcceptKey)
		e.Inspect(func(suggest.Session, bool) {})
	})

	color.New(color.Bold).Println("\nDone.")
}
