package data

import (
	"testing"
	"time"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

func TestPreferenceStore_GetSet(t *testing.T) {
	s := NewPreferenceStore("")
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if got := s.Get("U1"); got != domain.ModelClaude {
		t.Errorf("expected default claude, got %s", got)
	}

	s.Set("U1", domain.ModelGemini)
	if got := s.Get("U1"); got != domain.ModelGemini {
		t.Errorf("expected gemini, got %s", got)
	}
	if got := s.Get("U2"); got != domain.ModelClaude {
		t.Errorf("unknown user should get claude, got %s", got)
	}

	pref, ok := s.prefs["U1"]
	if !ok {
		t.Fatal("expected stored preference")
	}
	if !pref.LastActiveAt.Equal(fixed) || pref.UserID != "U1" {
		t.Errorf("unexpected preference %+v", pref)
	}

	s.Set("U1", domain.ModelChatGPT)
	if got := s.Get("U1"); got != domain.ModelChatGPT {
		t.Errorf("expected chatgpt after overwrite, got %s", got)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestPreferenceStore_CustomDefault(t *testing.T) {
	s := NewPreferenceStore(domain.ModelChatGPT)
	if got := s.Get("U1"); got != domain.ModelChatGPT {
		t.Errorf("expected chatgpt default, got %s", got)
	}
}
