package repo

import "github.com/devricklin/slack-dify-bridge/internal/biz/domain"

// PreferenceRepo stores the model each user last selected
type PreferenceRepo interface {
	// Get returns the stored model, or the default model when unset
	Get(userID string) domain.Model

	Set(userID string, model domain.Model)
}
