package usecase

import (
	"regexp"
	"testing"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

func TestCannedMatcher_DefaultTable(t *testing.T) {
	m := NewDefaultCannedMatcher()

	tests := []struct {
		text   string
		wantID string
	}{
		{"can you help me get started", "predefined_help_response"},
		{"  Hello  ", "predefined_greeting_response"},
		{"thx a lot", "predefined_thanks_response"},
		{"who are you?", "predefined_about_response"},
		{"what models do you have", "predefined_models_response"},
		// help is declared before greeting
		{"hi, I need help", "predefined_help_response"},
		{"explain goroutines", ""},
		{"helpful", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := m.Match(tt.text)
			if tt.wantID == "" {
				if ok {
					t.Errorf("expected no match, got %s", got.ResponseID)
				}
				return
			}
			if !ok {
				t.Fatalf("expected %s, got no match", tt.wantID)
			}
			if got.ResponseID != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, got.ResponseID)
			}
		})
	}
}

func TestCannedMatcher_FirstDeclaredWins(t *testing.T) {
	m, err := NewCannedMatcher([]domain.CannedResponse{
		{Pattern: regexp.MustCompile(`(?i)\bfoo\b`), Answer: "first", ResponseID: "r1"},
		{Pattern: regexp.MustCompile(`(?i)\bfoo bar\b`), Answer: "second", ResponseID: "r2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := m.Match("foo bar")
	if !ok || got.ResponseID != "r1" {
		t.Errorf("expected r1, got %+v", got)
	}
}

func TestCannedMatcher_Add(t *testing.T) {
	m, _ := NewCannedMatcher(nil)

	if err := m.Add(domain.CannedResponse{Answer: "no pattern"}); err == nil {
		t.Error("expected error for missing pattern")
	}
	if err := m.Add(domain.CannedResponse{Pattern: regexp.MustCompile("x")}); err == nil {
		t.Error("expected error for missing answer")
	}
	if err := m.Add(domain.CannedResponse{Pattern: regexp.MustCompile(`(?i)\bping\b`), Answer: "pong", ResponseID: "ping"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Len())
	}

	got, ok := m.Match("PING")
	if !ok || got.Answer != "pong" {
		t.Fatalf("expected pong, got %+v", got)
	}
	// Returned entries are copies
	got.Answer = "changed"
	if again, _ := m.Match("ping"); again.Answer != "pong" {
		t.Error("matcher entry was mutated through the returned copy")
	}
}
