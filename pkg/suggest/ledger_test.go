package suggest

import "testing"

func TestLedgerUpsertDedup(t *testing.T) {
	l := NewLedger()

	c := Citation{Title: "On Growth and Form", Authors: []string{"D'Arcy Thompson"}, Year: 1917}

	if !l.Upsert(c) {
		t.Fatal("first upsert should insert")
	}
	if l.Upsert(c) {
		t.Error("same (title, year) should not insert twice")
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}

	// Same title, different year is a distinct entry (editions).
	later := c
	later.Year = 1942
	if !l.Upsert(later) {
		t.Error("different year should insert")
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

func TestLedgerOrderedBySurname(t *testing.T) {
	l := NewLedger()

	l.Upsert(Citation{Title: "C", Authors: []string{"Maria Zhang"}, Year: 2020})
	l.Upsert(Citation{Title: "A", Authors: []string{"John Abbott"}, Year: 2019})
	l.Upsert(Citation{Title: "B", Authors: []string{"Erin Miller", "Paul Quinn"}, Year: 2021})

	entries := l.Entries()
	got := []string{entries[0].Title, entries[1].Title, entries[2].Title}
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLedgerEntriesIsACopy(t *testing.T) {
	l := NewLedger()
	l.Upsert(Citation{Title: "X", Year: 2000})

	entries := l.Entries()
	entries[0].Title = "mutated"

	if l.Entries()[0].Title != "X" {
		t.Error("Entries must return a copy")
	}
}
