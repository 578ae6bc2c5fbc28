package conf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/usecase"
)

// CannedResponsesFile is the YAML layout of a canned answer table
type CannedResponsesFile struct {
	Responses []CannedResponseEntry `yaml:"responses"`
}

// CannedResponseEntry is one table row. Entries are matched in file order.
type CannedResponseEntry struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
	Answer  string `yaml:"answer"`
	// CaseSensitive disables the implicit (?i) flag
	CaseSensitive bool `yaml:"case_sensitive,omitempty"`
}

// LoadCannedResponses loads the canned answer table from YAML. With an empty
// configPath a few conventional locations are tried; when none exists the
// built-in table is returned.
func LoadCannedResponses(configPath string) ([]domain.CannedResponse, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/canned_responses.yaml",
			"/etc/slack-dify-bridge/canned_responses.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "canned_responses.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			data = b
			loadedPath = p
			break
		}
		if configPath != "" {
			return nil, fmt.Errorf("read canned responses: %w", err)
		}
	}

	if data == nil {
		slog.Info("no canned_responses.yaml found, using defaults", "component", "config")
		return usecase.DefaultCannedResponses(), nil
	}

	slog.Info("loading canned responses", "component", "config", "path", loadedPath)
	return ParseCannedResponses(data)
}

// ParseCannedResponses parses and compiles a YAML canned answer table
func ParseCannedResponses(data []byte) ([]domain.CannedResponse, error) {
	var file CannedResponsesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse canned responses: %w", err)
	}
	if len(file.Responses) == 0 {
		return nil, fmt.Errorf("parse canned responses: no responses defined")
	}

	out := make([]domain.CannedResponse, 0, len(file.Responses))
	seen := make(map[string]bool)
	for i, e := range file.Responses {
		if strings.TrimSpace(e.Pattern) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("canned response #%d: pattern and answer are required", i+1)
		}
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("predefined_response_%d", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("canned response #%d: duplicate id %q", i+1, id)
		}
		seen[id] = true

		expr := e.Pattern
		if !e.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("canned response %q: %w", id, err)
		}
		out = append(out, domain.CannedResponse{
			Pattern:    re,
			Answer:     e.Answer,
			ResponseID: id,
		})
	}
	return out, nil
}
