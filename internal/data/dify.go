package data

import (
	"context"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
	"github.com/devricklin/slack-dify-bridge/internal/infra/dify"
)

// DifyClient is the part of the Dify client the gateway repository uses
type DifyClient interface {
	SendChatMessage(ctx context.Context, query, user, model string, stream bool, files []dify.File) (*dify.MessageResponse, error)
	SubmitFeedback(ctx context.Context, messageID string, rating int, user string) dify.FeedbackResult
}

// difyRepo implements the gateway repository on top of Dify
type difyRepo struct {
	client DifyClient
}

// NewDifyRepo creates a new Dify gateway repository
func NewDifyRepo(client DifyClient) repo.GatewayRepo {
	return &difyRepo{client: client}
}

// SendMessage forwards a query to the chat endpoint
func (r *difyRepo) SendMessage(ctx context.Context, req *repo.ChatRequest) (*domain.GatewayReply, error) {
	resp, err := r.client.SendChatMessage(ctx, req.Query, req.UserID, string(req.Model), req.Streaming, nil)
	if err != nil {
		return nil, err
	}
	return ToGatewayReply(resp), nil
}

// SubmitFeedback forwards a rating
func (r *difyRepo) SubmitFeedback(ctx context.Context, messageID string, rating domain.Rating, userID string) domain.FeedbackResult {
	res := r.client.SubmitFeedback(ctx, messageID, int(rating), userID)
	return domain.FeedbackResult{
		Success: res.Success,
		Error:   res.Error,
	}
}

// ToGatewayReply converts a Dify answer. A missing answer becomes the
// "no response" placeholder; an empty one is kept as is.
func ToGatewayReply(resp *dify.MessageResponse) *domain.GatewayReply {
	reply := &domain.GatewayReply{
		AnswerText: domain.NoResponseText,
		MessageID:  resp.MessageID,
	}
	if resp.Answer != nil {
		reply.AnswerText = *resp.Answer
	}
	if resp.Metadata != nil && resp.Metadata.Usage != nil {
		u := resp.Metadata.Usage
		reply.Usage = &domain.Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
			LatencySeconds:   u.Latency,
		}
	}
	return reply
}
