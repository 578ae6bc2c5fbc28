package usecase

import (
	"context"
	"fmt"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
)

// CannedModel is the model label shown on canned answers
const CannedModel = domain.ModelClaude

// AnswerUsecase produces formatted answers, from the canned table or the gateway
type AnswerUsecase struct {
	gatewayRepo repo.GatewayRepo
	matcher     *CannedMatcher
}

// NewAnswerUsecase creates a new answer usecase. matcher may be nil to
// disable canned answers.
func NewAnswerUsecase(gatewayRepo repo.GatewayRepo, matcher *CannedMatcher) *AnswerUsecase {
	return &AnswerUsecase{
		gatewayRepo: gatewayRepo,
		matcher:     matcher,
	}
}

// AskRequest represents a question to answer
type AskRequest struct {
	Query  string
	UserID string
	Model  domain.Model
}

// AskResult represents a produced answer
type AskResult struct {
	Reply     domain.FormattedReply
	Model     domain.Model // model label the reply was rendered with
	MessageID string
	Canned    bool
}

// Ask sends a query to the gateway. Failures are returned to the caller.
func (uc *AnswerUsecase) Ask(ctx context.Context, req *AskRequest) (*AskResult, error) {
	reply, err := uc.gatewayRepo.SendMessage(ctx, &repo.ChatRequest{
		Query:  req.Query,
		UserID: req.UserID,
		Model:  req.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", req.Model, err)
	}

	return &AskResult{
		Reply:     FormatReply(reply, req.Model),
		Model:     req.Model,
		MessageID: reply.MessageID,
	}, nil
}

// Canned returns the formatted canned answer for text, if any
func (uc *AnswerUsecase) Canned(text string) (*AskResult, bool) {
	if uc.matcher == nil {
		return nil, false
	}
	canned, ok := uc.matcher.Match(text)
	if !ok {
		return nil, false
	}
	reply := canned.ToReply()
	return &AskResult{
		Reply:     FormatReply(reply, CannedModel),
		Model:     CannedModel,
		MessageID: reply.MessageID,
		Canned:    true,
	}, true
}

// Feedback forwards a rating. Failures are reported in the result only.
func (uc *AnswerUsecase) Feedback(ctx context.Context, messageID string, rating domain.Rating, userID string) domain.FeedbackResult {
	return uc.gatewayRepo.SubmitFeedback(ctx, messageID, rating, userID)
}
