package completion

import (
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantCompletion string
		wantKeywords   int
		wantErr        bool
	}{
		{
			name:           "plain json",
			raw:            `{"completion": "and so it grows", "keywords": ["growth"]}`,
			wantCompletion: "and so it grows",
			wantKeywords:   1,
		},
		{
			name:           "json fenced block",
			raw:            "```json\n{\"completion\": \"text\", \"keywords\": [\"a\", \"b\"]}\n```",
			wantCompletion: "text",
			wantKeywords:   2,
		},
		{
			name:           "bare fenced block",
			raw:            "```\n{\"completion\": \"text\", \"keywords\": [\"a\"]}\n```",
			wantCompletion: "text",
			wantKeywords:   1,
		},
		{
			name:           "surrounding whitespace",
			raw:            "  \n{\"completion\": \"x\", \"keywords\": [\"k\"]}\n  ",
			wantCompletion: "x",
			wantKeywords:   1,
		},
		{
			name:    "not json",
			raw:     "Sure! Here's a continuation: and so on",
			wantErr: true,
		},
		{
			name:    "missing completion",
			raw:     `{"keywords": ["a"]}`,
			wantErr: true,
		},
		{
			name:    "missing keywords",
			raw:     `{"completion": "text"}`,
			wantErr: true,
		},
		{
			name:    "empty keywords",
			raw:     `{"completion": "text", "keywords": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseResult(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseResult(%q) expected error, got %+v", tt.raw, res)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResult(%q) error: %v", tt.raw, err)
			}
			if res.Completion != tt.wantCompletion {
				t.Errorf("Completion = %q, want %q", res.Completion, tt.wantCompletion)
			}
			if len(res.Keywords) != tt.wantKeywords {
				t.Errorf("Keywords = %v, want %d entries", res.Keywords, tt.wantKeywords)
			}
		})
	}
}
