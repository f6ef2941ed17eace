package citation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const crossrefFixture = `{
	"message": {
		"items": [
			{
				"title": ["Molecular Mechanisms of Photosynthesis"],
				"author": [
					{"given": "Robert", "family": "Blankenship"},
					{"given": "Jane", "family": "Doe"}
				],
				"DOI": "10.1002/9780470758472",
				"URL": "https://doi.org/10.1002/9780470758472",
				"published": {"date-parts": [[2014, 2, 1]]}
			}
		]
	}
}`

func TestCrossrefLookup(t *testing.T) {
	var gotQuery, gotRows string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotRows = r.URL.Query().Get("rows")
		w.Write([]byte(crossrefFixture))
	}))
	defer srv.Close()

	p := NewCrossrefProvider()
	p.Endpoint = srv.URL

	c, err := p.Lookup(context.Background(), []string{"photosynthesis", "light energy"})
	if err != nil {
		t.Fatal(err)
	}
	if c == nil {
		t.Fatal("expected a citation")
	}

	if gotQuery != "photosynthesis light energy" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotRows != "1" {
		t.Errorf("rows = %q, want 1", gotRows)
	}
	if c.Title != "Molecular Mechanisms of Photosynthesis" {
		t.Errorf("Title = %q", c.Title)
	}
	if len(c.Authors) != 2 || c.Authors[0] != "Robert Blankenship" {
		t.Errorf("Authors = %v", c.Authors)
	}
	if c.Year != 2014 {
		t.Errorf("Year = %d", c.Year)
	}
	if c.DOI != "10.1002/9780470758472" {
		t.Errorf("DOI = %q", c.DOI)
	}
}

func TestCrossrefNoContent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "204 response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name: "404 response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "empty item list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message": {"items": []}}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewCrossrefProvider()
			p.Endpoint = srv.URL

			c, err := p.Lookup(context.Background(), []string{"anything"})
			if err != nil {
				t.Fatalf("no-content cases must not error: %v", err)
			}
			if c != nil {
				t.Errorf("citation = %+v, want nil", c)
			}
		})
	}
}

func TestCrossrefServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewCrossrefProvider()
	p.Endpoint = srv.URL

	if _, err := p.Lookup(context.Background(), []string{"k"}); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestCrossrefEmptyKeywords(t *testing.T) {
	p := NewCrossrefProvider()
	c, err := p.Lookup(context.Background(), nil)
	if err != nil || c != nil {
		t.Errorf("Lookup(nil) = (%v, %v), want (nil, nil)", c, err)
	}
}
