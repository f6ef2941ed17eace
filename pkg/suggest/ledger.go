package suggest

import "sort"

// Ledger is the in-memory reference list accumulated as citation-bearing
// suggestions are accepted. Entries are unique by (title, year) and kept
// sorted by first author's surname.
type Ledger struct {
	entries []Citation
}

// NewLedger creates an empty ledger. Existing entries (e.g. loaded from the
// document) can be replayed through Upsert.
func NewLedger() *Ledger {
	return &Ledger{entries: make([]Citation, 0)}
}

// Upsert adds the citation unless an entry with the same (title, year)
// already exists. Returns true when the citation was inserted.
func (l *Ledger) Upsert(c Citation) bool {
	for _, existing := range l.entries {
		if existing.Title == c.Title && existing.Year == c.Year {
			return false
		}
	}
	l.entries = append(l.entries, c)
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].FirstAuthorSurname() < l.entries[j].FirstAuthorSurname()
	})
	return true
}

// Entries returns the ledger contents in display order.
func (l *Ledger) Entries() []Citation {
	out := make([]Citation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of distinct citations recorded.
func (l *Ledger) Len() int {
	return len(l.entries)
}
