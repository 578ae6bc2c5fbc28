package domain

import (
	"fmt"
	"strings"
)

// Model is the AI model a query is routed to on the gateway side
type Model string

const (
	ModelClaude  Model = "claude"
	ModelChatGPT Model = "chatgpt"
	ModelGemini  Model = "gemini"
)

// DefaultModel is used when a user has not picked one
const DefaultModel = ModelClaude

// AvailableModels lists the models the gateway accepts, in display order
var AvailableModels = []Model{ModelClaude, ModelChatGPT, ModelGemini}

// ParseModel parses a model name, case-insensitively
func ParseModel(name string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AvailableModels {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q", name)
}

// Label returns the upper-case name shown to users
func (m Model) Label() string {
	return strings.ToUpper(string(m))
}

func (m Model) String() string {
	return string(m)
}
