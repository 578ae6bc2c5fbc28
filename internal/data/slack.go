package data

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/repo"
)

// SlackAPI is the part of the Slack Web API the chat repository uses.
// *slack.Client satisfies it.
type SlackAPI interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// slackRepo implements the chat repository on top of Slack
type slackRepo struct {
	api SlackAPI

	botIDMu sync.Mutex
	botID   string
}

// NewSlackRepo creates a new Slack chat repository
func NewSlackRepo(api SlackAPI) repo.ChatRepo {
	return &slackRepo{api: api}
}

// BotUserID resolves the bot's user id via auth.test. Failures are not cached.
func (r *slackRepo) BotUserID(ctx context.Context) (string, error) {
	r.botIDMu.Lock()
	defer r.botIDMu.Unlock()
	if r.botID != "" {
		return r.botID, nil
	}
	resp, err := r.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth test: %w", err)
	}
	r.botID = resp.UserID
	return r.botID, nil
}

// IsDirectMessage reports whether channelID is an IM channel
func (r *slackRepo) IsDirectMessage(ctx context.Context, channelID string) (bool, error) {
	ch, err := r.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return false, fmt.Errorf("conversation info %s: %w", channelID, err)
	}
	return ch.IsIM, nil
}

// Say posts a reply into a channel
func (r *slackRepo) Say(ctx context.Context, channelID string, reply domain.Reply) error {
	opts := messageOptions(reply.FormattedReply)
	if reply.ThreadID != "" {
		opts = append(opts, slack.MsgOptionTS(reply.ThreadID))
	}
	if _, _, err := r.api.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("post message to %s: %w", channelID, err)
	}
	return nil
}

// Respond answers through a response URL without replacing the original message
func (r *slackRepo) Respond(ctx context.Context, channelID, responseURL string, reply domain.Reply) error {
	responseType := slack.ResponseTypeInChannel
	if reply.Ephemeral {
		responseType = slack.ResponseTypeEphemeral
	}
	opts := append(messageOptions(reply.FormattedReply), slack.MsgOptionResponseURL(responseURL, responseType))
	if _, _, err := r.api.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("respond: %w", err)
	}
	return nil
}

// SendDM posts to the user's DM channel. Slack opens it when the channel is a user id.
func (r *slackRepo) SendDM(ctx context.Context, userID string, reply domain.Reply) error {
	if _, _, err := r.api.PostMessageContext(ctx, userID, messageOptions(reply.FormattedReply)...); err != nil {
		return fmt.Errorf("send DM to %s: %w", userID, err)
	}
	return nil
}

func messageOptions(reply domain.FormattedReply) []slack.MsgOption {
	opts := []slack.MsgOption{slack.MsgOptionText(reply.Text, false)}
	if len(reply.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(ToSlackBlocks(reply.Blocks)...))
	}
	return opts
}

// ToSlackBlocks renders domain blocks as Block Kit blocks
func ToSlackBlocks(blocks []domain.Block) []slack.Block {
	out := make([]slack.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case domain.BlockText:
			text := b.Text
			if text == "" {
				// Slack rejects empty section text
				text = domain.NoResponseText
			}
			out = append(out, slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
				nil, nil,
			))
		case domain.BlockDivider:
			out = append(out, slack.NewDividerBlock())
		case domain.BlockActions:
			elements := make([]slack.BlockElement, 0, len(b.Buttons))
			for _, btn := range b.Buttons {
				el := slack.NewButtonBlockElement(
					btn.ActionID,
					btn.Value,
					slack.NewTextBlockObject(slack.PlainTextType, btn.Text, true, false),
				)
				if btn.Style != domain.ButtonDefault {
					el = el.WithStyle(slack.Style(btn.Style))
				}
				elements = append(elements, el)
			}
			out = append(out, slack.NewActionBlock("", elements...))
		}
	}
	return out
}
