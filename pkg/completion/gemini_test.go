package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProviderComplete(t *testing.T) {
	var gotKey string
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		gotPrompt = req.Contents[0].Parts[0].Text

		resp := geminiResponse{
			Candidates: []*geminiCandidate{
				{Content: &geminiContent{
					Parts: []*geminiParts{{Text: `{"completion": "into chemical energy", "keywords": ["photosynthesis"]}`}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewGeminiProvider("test-key")
	p.Endpoint = srv.URL

	res, err := p.Complete(context.Background(), "Photosynthesis converts light")
	if err != nil {
		t.Fatal(err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if !strings.HasSuffix(gotPrompt, "Photosynthesis converts light") {
		t.Errorf("prompt does not end with the user text: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "keywords") {
		t.Error("prompt missing the JSON contract instructions")
	}
	if res.Completion != "into chemical energy" {
		t.Errorf("Completion = %q", res.Completion)
	}
	if len(res.Keywords) != 1 || res.Keywords[0] != "photosynthesis" {
		t.Errorf("Keywords = %v", res.Keywords)
	}
}

func TestGeminiProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGeminiProvider("k")
	p.Endpoint = srv.URL

	if _, err := p.Complete(context.Background(), "text"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGeminiProviderEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{})
	}))
	defer srv.Close()

	p := NewGeminiProvider("k")
	p.Endpoint = srv.URL

	if _, err := p.Complete(context.Background(), "text"); err == nil {
		t.Fatal("expected error on empty candidate list")
	}
}
