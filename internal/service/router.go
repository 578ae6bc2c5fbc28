package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
	"github.com/devricklin/slack-dify-bridge/internal/biz/usecase"
)

// Router picks the single handler that answers an inbound event
type Router struct {
	chatRepo repo.ChatRepo
	answerUC *usecase.AnswerUsecase
	dedup    repo.DedupRepo
	prefs    repo.PreferenceRepo
	log      *slog.Logger

	// Model for mentions, which carry no per-user preference
	defaultModel domain.Model

	// Checked in order before the generic DM path; the first match answers.
	messageRules []messageRule
}

// messageRule answers a message whose text matches pattern
type messageRule struct {
	name    string
	pattern *regexp.Regexp
	reply   func(msg domain.DirectMessage, match []string) domain.Reply
}

// NewRouter creates a new router
func NewRouter(
	chatRepo repo.ChatRepo,
	answerUC *usecase.AnswerUsecase,
	dedup repo.DedupRepo,
	prefs repo.PreferenceRepo,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		chatRepo: chatRepo,
		answerUC: answerUC,
		dedup:    dedup,
		prefs:    prefs,
		log:      logger.With("component", "router"),

		defaultModel: domain.DefaultModel,
	}
	r.messageRules = []messageRule{
		{
			name:    "greeting",
			pattern: regexp.MustCompile(`(?i)\bhello\b|\bhi\b|\bhey\b`),
			reply: func(msg domain.DirectMessage, _ []string) domain.Reply {
				return sectionReply(
					fmt.Sprintf("Hello <@%s>!", msg.UserID),
					fmt.Sprintf("Hello there, <@%s>! 👋", msg.UserID),
				)
			},
		},
		{
			name:    "thanks",
			pattern: regexp.MustCompile(`(?i)thanks|thank you`),
			reply: func(msg domain.DirectMessage, _ []string) domain.Reply {
				return sectionReply(
					fmt.Sprintf("You're welcome, <@%s>!", msg.UserID),
					fmt.Sprintf("You're welcome, <@%s>! 😊", msg.UserID),
				)
			},
		},
		{
			name:    "use_model",
			pattern: regexp.MustCompile(`(?i)^use (claude|chatgpt|gemini)$`),
			reply:   r.selectModel,
		},
	}
	return r
}

// SetDefaultModel sets the model used to answer mentions
func (r *Router) SetDefaultModel(model domain.Model) {
	if model != "" {
		r.defaultModel = model
	}
}

// Dispatch handles one inbound event. ack runs first, before any I/O.
func (r *Router) Dispatch(ctx context.Context, event domain.Event, ack func()) {
	if ack != nil {
		ack()
	}
	if event == nil {
		return
	}

	start := time.Now()
	l := r.log.With("request_id", uuid.NewString(), "kind", event.Kind())

	switch ev := event.(type) {
	case domain.InteractiveAction:
		r.handleAction(ctx, l, ev)
	case domain.SlashCommand:
		r.handleCommand(ctx, l, ev)
	case domain.Mention:
		r.handleMention(ctx, l, ev)
	case domain.DirectMessage:
		r.handleMessage(ctx, l, ev)
	case domain.TeamJoin:
		r.handleTeamJoin(ctx, l, ev)
	default:
		l.Warn("unsupported event", "type", fmt.Sprintf("%T", event))
		return
	}

	l.Info("request processed", "duration_ms", time.Since(start).Milliseconds())
}

// ========== Interactive actions ==========

func (r *Router) handleAction(ctx context.Context, l *slog.Logger, ev domain.InteractiveAction) {
	l = l.With("action_id", ev.ActionID, "user", ev.UserID)

	var reply domain.Reply
	switch ev.ActionID {
	case domain.ActionButtonClick:
		reply = ephemeral(fmt.Sprintf("You clicked the button with value: %s", ev.Value))
	case domain.ActionSelectMenu:
		reply = ephemeral(fmt.Sprintf("You selected: %s", ev.Value))
	case domain.ActionFeedbackPositive:
		reply = r.submitFeedback(ctx, l, ev, domain.RatingPositive, feedbackPositiveText)
	case domain.ActionFeedbackNegative:
		reply = r.submitFeedback(ctx, l, ev, domain.RatingNegative, feedbackNegativeText)
	default:
		l.Debug("no handler for action")
		return
	}

	r.respond(ctx, l, ev.ChannelID, ev.ResponseURL, reply)
}

func (r *Router) submitFeedback(ctx context.Context, l *slog.Logger, ev domain.InteractiveAction, rating domain.Rating, thanks string) domain.Reply {
	result := r.answerUC.Feedback(ctx, ev.Value, rating, ev.UserID)
	if !result.Success {
		l.Warn("feedback submission failed", "message_id", ev.Value, "error", result.Error)
		return ephemeral(feedbackFailedText)
	}
	return ephemeral(thanks)
}

// ========== Slash commands ==========

func (r *Router) handleCommand(ctx context.Context, l *slog.Logger, cmd domain.SlashCommand) {
	l = l.With("command", cmd.Name, "user", cmd.UserID)

	switch cmd.Name {
	case "/hello":
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, greetingReply(cmd.UserID))
	case "/help":
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, helpReply())
	case "/operation_status":
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, ephemeral(operationStatusText))
	case "/claude", "/chatgpt", "/gemini":
		model, _ := domain.ParseModel(strings.TrimPrefix(cmd.Name, "/"))
		r.handleModelCommand(ctx, l, cmd, model)
	default:
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, unknownCommandReply(cmd.Name))
	}
}

func (r *Router) handleModelCommand(ctx context.Context, l *slog.Logger, cmd domain.SlashCommand, model domain.Model) {
	query := strings.TrimSpace(cmd.Text)
	if query == "" {
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, missingQuestionReply(model))
		return
	}

	res, err := r.answerUC.Ask(ctx, &usecase.AskRequest{
		Query:  query,
		UserID: cmd.UserID,
		Model:  model,
	})
	if err != nil {
		l.Error("gateway call failed", "model", model, "error", err)
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, gatewayErrorReply(model))
		return
	}

	if err := r.chatRepo.Respond(ctx, cmd.ChannelID, cmd.ResponseURL, domain.Reply{FormattedReply: res.Reply, Ephemeral: true}); err != nil {
		l.Error("failed to respond", "error", err)
		r.respond(ctx, l, cmd.ChannelID, cmd.ResponseURL, gatewayErrorReply(model))
	}
}

// ========== Mentions ==========

func (r *Router) handleMention(ctx context.Context, l *slog.Logger, ev domain.Mention) {
	l = l.With("message_id", ev.MessageID, "user", ev.UserID, "channel", ev.ChannelID)

	if !r.dedup.TryMark(ev.MessageID) {
		l.Debug("duplicate mention ignored")
		return
	}

	reply, err := r.answerMention(ctx, l, ev)
	if err == nil {
		reply.ThreadID = ev.ThreadID
		err = r.chatRepo.Say(ctx, ev.ChannelID, reply)
	}
	if err != nil {
		l.Error("mention failed", "error", err)
		apology := domain.PlainReply(mentionErrorText)
		apology.ThreadID = ev.ThreadID
		r.say(ctx, l, ev.ChannelID, apology)
	}
}

func (r *Router) answerMention(ctx context.Context, l *slog.Logger, ev domain.Mention) (domain.Reply, error) {
	botID, err := r.chatRepo.BotUserID(ctx)
	if err != nil {
		return domain.Reply{}, err
	}
	text := strings.TrimSpace(strings.Replace(ev.Text, "<@"+botID+">", "", 1))
	if text == "" {
		return mentionGreetingReply(ev.UserID), nil
	}

	if res, ok := r.answerUC.Canned(text); ok {
		l.Info("using canned response", "response_id", res.MessageID)
		return domain.Reply{FormattedReply: res.Reply}, nil
	}

	res, err := r.answerUC.Ask(ctx, &usecase.AskRequest{
		Query:  text,
		UserID: ev.UserID,
		Model:  r.defaultModel,
	})
	if err != nil {
		return domain.Reply{}, err
	}
	return domain.Reply{FormattedReply: res.Reply}, nil
}

// ========== Messages ==========

func (r *Router) handleMessage(ctx context.Context, l *slog.Logger, msg domain.DirectMessage) {
	if msg.IsBot {
		return
	}
	l = l.With("message_id", msg.MessageID, "user", msg.UserID, "channel", msg.ChannelID)

	text := strings.TrimSpace(msg.Text)
	if r.isChannelMention(ctx, l, msg) {
		l.Debug("bot mentioned outside a DM, left to the mention handler")
		return
	}

	for _, rule := range r.messageRules {
		match := rule.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if !r.dedup.TryMark(msg.MessageID) {
			l.Debug("duplicate message ignored", "rule", rule.name)
			return
		}
		reply := rule.reply(msg, match)
		reply.ThreadID = msg.ThreadID
		r.say(ctx, l.With("rule", rule.name), msg.ChannelID, reply)
		return
	}

	if text == "" || r.dedup.HasHandled(msg.MessageID) {
		return
	}

	isDM, err := r.chatRepo.IsDirectMessage(ctx, msg.ChannelID)
	if err != nil {
		l.Warn("channel lookup failed, treating as non-DM", "error", err)
		return
	}
	if !isDM {
		return
	}
	if !r.dedup.TryMark(msg.MessageID) {
		l.Debug("duplicate message ignored")
		return
	}

	if res, ok := r.answerUC.Canned(text); ok {
		l.Info("using canned response", "response_id", res.MessageID)
		r.say(ctx, l, msg.ChannelID, domain.Reply{FormattedReply: res.Reply, ThreadID: msg.ThreadID})
		return
	}

	thinking := thinkingReply()
	thinking.ThreadID = msg.ThreadID
	r.say(ctx, l, msg.ChannelID, thinking)

	model := r.prefs.Get(msg.UserID)
	res, err := r.answerUC.Ask(ctx, &usecase.AskRequest{
		Query:  text,
		UserID: msg.UserID,
		Model:  model,
	})
	if err != nil {
		l.Error("gateway call failed", "model", model, "error", err)
		failure := domain.PlainReply(gatewayErrorReply(model).Text)
		failure.ThreadID = msg.ThreadID
		r.say(ctx, l, msg.ChannelID, failure)
		return
	}
	r.say(ctx, l, msg.ChannelID, domain.Reply{FormattedReply: res.Reply, ThreadID: msg.ThreadID})
}

// isChannelMention reports whether msg mentions the bot in a channel that is
// not a DM. Slack also delivers those as app_mention events.
func (r *Router) isChannelMention(ctx context.Context, l *slog.Logger, msg domain.DirectMessage) bool {
	if !strings.Contains(msg.Text, "<@") {
		return false
	}
	botID, err := r.chatRepo.BotUserID(ctx)
	if err != nil {
		l.Warn("bot id lookup failed", "error", err)
		return false
	}
	if !strings.Contains(msg.Text, "<@"+botID+">") {
		return false
	}
	isDM, err := r.chatRepo.IsDirectMessage(ctx, msg.ChannelID)
	if err != nil {
		l.Warn("channel lookup failed, treating as non-DM", "error", err)
		return true
	}
	return !isDM
}

func (r *Router) selectModel(msg domain.DirectMessage, match []string) domain.Reply {
	model, err := domain.ParseModel(match[1])
	if err != nil {
		model = domain.DefaultModel
	}
	r.prefs.Set(msg.UserID, model)
	r.log.Info("model preference updated", "user", msg.UserID, "model", model)

	return sectionReply(
		fmt.Sprintf("I'll use %s for your future questions.", model.Label()),
		fmt.Sprintf("I'll use *%s* for your future questions. You can change this anytime by typing `use claude`, `use chatgpt`, or `use gemini`.", model.Label()),
	)
}

// ========== Team join ==========

func (r *Router) handleTeamJoin(ctx context.Context, l *slog.Logger, ev domain.TeamJoin) {
	if ev.UserID == "" {
		return
	}
	if err := r.chatRepo.SendDM(ctx, ev.UserID, welcomeReply(ev.UserID)); err != nil {
		l.Error("failed to send welcome message", "user", ev.UserID, "error", err)
	}
}

// ========== Helpers ==========

func (r *Router) say(ctx context.Context, l *slog.Logger, channelID string, reply domain.Reply) {
	if err := r.chatRepo.Say(ctx, channelID, reply); err != nil {
		l.Error("failed to send reply", "error", err)
	}
}

func (r *Router) respond(ctx context.Context, l *slog.Logger, channelID, responseURL string, reply domain.Reply) {
	if responseURL == "" {
		l.Warn("no response URL, reply dropped")
		return
	}
	if err := r.chatRepo.Respond(ctx, channelID, responseURL, reply); err != nil {
		l.Error("failed to respond", "error", err)
	}
}
