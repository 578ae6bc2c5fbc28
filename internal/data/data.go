package data

import (
	"log/slog"
	"time"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
)

// Repositories contains all repositories
type Repositories struct {
	Chat       repo.ChatRepo
	Gateway    repo.GatewayRepo
	Dedup      *DedupGuard
	Preference *PreferenceStore
}

// Options configures the in-memory stores
type Options struct {
	DedupCapacity     int
	DedupTrimInterval time.Duration
	DefaultModel      domain.Model
	Logger            *slog.Logger
}

// NewRepositories creates all repositories
func NewRepositories(slackAPI SlackAPI, difyClient DifyClient, opts Options) *Repositories {
	return &Repositories{
		Chat:       NewSlackRepo(slackAPI),
		Gateway:    NewDifyRepo(difyClient),
		Dedup:      NewDedupGuard(opts.DedupCapacity, opts.DedupTrimInterval, opts.Logger),
		Preference: NewPreferenceStore(opts.DefaultModel),
	}
}
