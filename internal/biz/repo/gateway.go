package repo

import (
	"context"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// ChatRequest is a query forwarded to the AI gateway
type ChatRequest struct {
	Query     string
	UserID    string
	Model     domain.Model // empty lets the gateway pick
	Streaming bool
}

// GatewayRepo is the AI gateway interaction interface
type GatewayRepo interface {
	// SendMessage forwards a query. Transport and decode failures are returned.
	SendMessage(ctx context.Context, req *ChatRequest) (*domain.GatewayReply, error)

	// SubmitFeedback records a rating. It never fails; the outcome is in the result.
	SubmitFeedback(ctx context.Context, messageID string, rating domain.Rating, userID string) domain.FeedbackResult
}
