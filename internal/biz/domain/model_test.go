package domain

import "testing"

func TestParseModel(t *testing.T) {
	tests := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"claude", ModelClaude, false},
		{"ChatGPT", ModelChatGPT, false},
		{" GEMINI ", ModelGemini, false},
		{"llama", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModelLabel(t *testing.T) {
	if got := ModelChatGPT.Label(); got != "CHATGPT" {
		t.Errorf("expected CHATGPT, got %s", got)
	}
}

func TestUsageLatencyMillis(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int64
	}{
		{0.1234, 123},
		{1.5, 1500},
		{0, 0},
	}
	for _, tt := range tests {
		u := Usage{LatencySeconds: tt.seconds}
		if got := u.LatencyMillis(); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.seconds, tt.want, got)
		}
	}
}
