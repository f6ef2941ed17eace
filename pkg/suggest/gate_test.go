package suggest

import (
	"testing"

	"github.com/google/uuid"
)

func TestCheckEligibility(t *testing.T) {
	cfg := DefaultConfig()
	blockID := uuid.New()

	eligible := func() (*Session, GateInput) {
		s := &Session{
			ActiveBlockID:                 blockID,
			BaselineText:                  "A long enough block of text.",
			HasChangedSinceLastResolution: true,
			CharsTypedSinceLastResolution: 5,
		}
		in := GateInput{
			BlockID:          blockID,
			Text:             "A long enough block of text.",
			CursorAtBoundary: true,
		}
		return s, in
	}

	tests := []struct {
		name   string
		mutate func(s *Session, in *GateInput)
		want   bool
	}{
		{
			name:   "all rules pass",
			mutate: func(s *Session, in *GateInput) {},
			want:   true,
		},
		{
			name:   "overlay already shown",
			mutate: func(s *Session, in *GateInput) { in.OverlayShown = true },
			want:   false,
		},
		{
			name:   "fetch in flight",
			mutate: func(s *Session, in *GateInput) { s.Locked = true },
			want:   false,
		},
		{
			name:   "cursor mid-sentence",
			mutate: func(s *Session, in *GateInput) { in.CursorAtBoundary = false },
			want:   false,
		},
		{
			name: "block too short",
			mutate: func(s *Session, in *GateInput) {
				in.Text = "short."
			},
			want: false,
		},
		{
			name: "whitespace padding does not count toward length",
			mutate: func(s *Session, in *GateInput) {
				in.Text = "   short.                     "
			},
			want: false,
		},
		{
			name: "no change since last resolution",
			mutate: func(s *Session, in *GateInput) {
				s.HasChangedSinceLastResolution = false
			},
			want: false,
		},
		{
			name: "changed flag only binds the active block",
			mutate: func(s *Session, in *GateInput) {
				s.HasChangedSinceLastResolution = false
				other := uuid.New()
				in.BlockID = other
			},
			want: true,
		},
		{
			name: "below minimum new characters",
			mutate: func(s *Session, in *GateInput) {
				s.CharsTypedSinceLastResolution = cfg.MinCharsBetween - 1
			},
			want: false,
		},
		{
			name: "identical content already offered",
			mutate: func(s *Session, in *GateInput) {
				s.LastSuggestedText = in.Text
			},
			want: false,
		},
		{
			name: "previously offered for different content",
			mutate: func(s *Session, in *GateInput) {
				s.LastSuggestedText = "something else entirely."
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in := eligible()
			tt.mutate(s, &in)

			got, reason := CheckEligibility(s, in, cfg)
			if got != tt.want {
				t.Errorf("CheckEligibility() = %v (reason %q), want %v", got, reason, tt.want)
			}
			if !got && reason == "" {
				t.Error("denied without a reason")
			}
		})
	}
}

func TestCheckEligibilityRuleOrder(t *testing.T) {
	// The overlay rule outranks everything else; a locked session behind a
	// shown overlay must report the overlay.
	s := &Session{Locked: true}
	in := GateInput{OverlayShown: true}

	ok, reason := CheckEligibility(s, in, DefaultConfig())
	if ok {
		t.Fatal("expected denial")
	}
	if reason != denyOverlayShown {
		t.Errorf("reason = %q, want %q", reason, denyOverlayShown)
	}
}

func TestAtBoundary(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   bool
	}{
		{"end of text", "hello world", 11, true},
		{"end of empty text", "", 0, true},
		{"after period", "First. Second", 6, true},
		{"after period and space", "First. Second", 7, true},
		{"after exclamation", "Wait! more", 5, true},
		{"after question mark", "Why? because", 4, true},
		{"after newline", "line one\nline two", 9, true},
		{"mid word", "hello world", 3, false},
		{"between words", "hello world", 6, false},
		{"start of text", "hello", 0, false},
		{"negative offset", "hello", -1, false},
		{"offset past end", "hello", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtBoundary(tt.text, tt.offset); got != tt.want {
				t.Errorf("AtBoundary(%q, %d) = %v, want %v", tt.text, tt.offset, got, tt.want)
			}
		})
	}
}
