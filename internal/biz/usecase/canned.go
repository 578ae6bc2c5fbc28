package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// CannedMatcher checks a message against an ordered table of canned answers.
// The first pattern that matches wins.
type CannedMatcher struct {
	mu      sync.RWMutex
	entries []domain.CannedResponse
}

// NewCannedMatcher creates a matcher over entries, kept in the given order
func NewCannedMatcher(entries []domain.CannedResponse) (*CannedMatcher, error) {
	m := &CannedMatcher{}
	for _, e := range entries {
		if err := m.Add(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewDefaultCannedMatcher creates a matcher over the built-in table
func NewDefaultCannedMatcher() *CannedMatcher {
	m, err := NewCannedMatcher(DefaultCannedResponses())
	if err != nil {
		panic(err)
	}
	return m
}

// Add appends an entry after the existing ones
func (m *CannedMatcher) Add(entry domain.CannedResponse) error {
	if entry.Pattern == nil || entry.Answer == "" {
		return fmt.Errorf("invalid canned response %q: pattern and answer are required", entry.ResponseID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Match returns a copy of the first entry whose pattern matches text
func (m *CannedMatcher) Match(text string) (*domain.CannedResponse, bool) {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return nil, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Pattern.MatchString(normalized) {
			found := e
			return &found, true
		}
	}
	return nil, false
}

// Len returns the number of entries
func (m *CannedMatcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// DefaultCannedResponses returns the built-in table. Order matters.
func DefaultCannedResponses() []domain.CannedResponse {
	return []domain.CannedResponse{
		{
			Pattern: regexp.MustCompile(`(?i)\b(help|assistance|guide|tutorial|how to|what can you do)\b`),
			Answer: "I can help you with a variety of tasks! Here are some things you can do:\n\n" +
				"• Ask me questions using `/claude`, `/chatgpt`, or `/gemini` commands\n" +
				"• Just mention me with your question in any channel\n" +
				"• Send me a direct message with your query\n" +
				"• Type `use claude`, `use chatgpt`, or `use gemini` to set your preferred AI model\n" +
				"• Use `/help` to see available commands\n\n" +
				"Is there anything specific you'd like help with?",
			ResponseID: "predefined_help_response",
		},
		{
			Pattern:    regexp.MustCompile(`(?i)\b(hello|hi|hey|howdy|greetings|good morning|good afternoon|good evening)\b`),
			Answer:     "Hello there! How can I assist you today?",
			ResponseID: "predefined_greeting_response",
		},
		{
			Pattern:    regexp.MustCompile(`(?i)\b(thanks|thank you|thx|appreciate it|grateful)\b`),
			Answer:     "You're welcome! I'm happy to help. Is there anything else you need?",
			ResponseID: "predefined_thanks_response",
		},
		{
			Pattern: regexp.MustCompile(`(?i)\b(who are you|what are you|about you|about yourself|tell me about you)\b`),
			Answer: "I'm a Slack bot designed to help you access AI models like Claude, ChatGPT, and Gemini directly from Slack! " +
				"I can answer questions, provide information, and assist with various tasks. " +
				"You can interact with me by mentioning me in a channel, sending me a direct message, " +
				"or using slash commands like `/claude`, `/chatgpt`, or `/gemini`.",
			ResponseID: "predefined_about_response",
		},
		{
			Pattern: regexp.MustCompile(`(?i)\b(which model|what models|available models|ai models|switch model)\b`),
			Answer: "I support multiple AI models:\n\n" +
				"• *Claude* - Anthropic's conversational AI\n" +
				"• *ChatGPT* - OpenAI's language model\n" +
				"• *Gemini* - Google's multimodal AI\n\n" +
				"You can select your preferred model by typing `use claude`, `use chatgpt`, or `use gemini`. " +
				"Alternatively, you can use the dedicated slash commands: `/claude`, `/chatgpt`, or `/gemini` followed by your question.",
			ResponseID: "predefined_models_response",
		},
	}
}
