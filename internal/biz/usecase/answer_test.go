package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
)

type mockGatewayRepo struct {
	reply *domain.GatewayReply
	err   error
	calls []*repo.ChatRequest
}

func (m *mockGatewayRepo) SendMessage(ctx context.Context, req *repo.ChatRequest) (*domain.GatewayReply, error) {
	m.calls = append(m.calls, req)
	return m.reply, m.err
}

func (m *mockGatewayRepo) SubmitFeedback(ctx context.Context, messageID string, rating domain.Rating, userID string) domain.FeedbackResult {
	return domain.FeedbackResult{Success: messageID != ""}
}

func TestAnswerUsecase_Ask(t *testing.T) {
	gw := &mockGatewayRepo{reply: &domain.GatewayReply{AnswerText: "42", MessageID: "m1"}}
	uc := NewAnswerUsecase(gw, NewDefaultCannedMatcher())

	res, err := uc.Ask(context.Background(), &AskRequest{Query: "meaning of life", UserID: "U1", Model: domain.ModelChatGPT})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Canned || res.MessageID != "m1" || res.Model != domain.ModelChatGPT || res.Reply.Text != "42" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(gw.calls) != 1 || gw.calls[0].Model != domain.ModelChatGPT || gw.calls[0].UserID != "U1" {
		t.Errorf("unexpected gateway calls %+v", gw.calls)
	}
}

func TestAnswerUsecase_Canned(t *testing.T) {
	gw := &mockGatewayRepo{}
	uc := NewAnswerUsecase(gw, NewDefaultCannedMatcher())

	res, ok := uc.Canned("hello")
	if !ok {
		t.Fatal("expected canned match")
	}
	if !res.Canned || res.Model != CannedModel || res.MessageID != "predefined_greeting_response" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Reply.Blocks[0].Text != "*Model:* CLAUDE" {
		t.Errorf("expected claude label, got %q", res.Reply.Blocks[0].Text)
	}
	if len(gw.calls) != 0 {
		t.Error("canned answer must not call the gateway")
	}

	// Ask always goes to the gateway
	gw.reply = &domain.GatewayReply{AnswerText: "hi"}
	if _, err := uc.Ask(context.Background(), &AskRequest{Query: "hello", Model: domain.ModelGemini}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.calls) != 1 {
		t.Errorf("expected one gateway call, got %d", len(gw.calls))
	}
}

func TestAnswerUsecase_AskError(t *testing.T) {
	cause := errors.New("timeout")
	uc := NewAnswerUsecase(&mockGatewayRepo{err: cause}, nil)

	_, err := uc.Ask(context.Background(), &AskRequest{Query: "q", Model: domain.ModelClaude})
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestAnswerUsecase_NilMatcher(t *testing.T) {
	uc := NewAnswerUsecase(&mockGatewayRepo{}, nil)
	if _, ok := uc.Canned("hello"); ok {
		t.Error("nil matcher should never match")
	}
}
