package repo

import (
	"context"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// ChatRepo is the outbound side of the chat platform
type ChatRepo interface {
	// BotUserID returns the bot's own user id (cached after the first lookup)
	BotUserID(ctx context.Context) (string, error)

	// IsDirectMessage reports whether the channel is a 1:1 DM with the bot
	IsDirectMessage(ctx context.Context, channelID string) (bool, error)

	// Say posts a reply into a channel, threaded when reply.ThreadID is set
	Say(ctx context.Context, channelID string, reply domain.Reply) error

	// Respond answers a command or action through its response URL.
	// reply.Ephemeral picks between ephemeral and in-channel visibility.
	Respond(ctx context.Context, channelID, responseURL string, reply domain.Reply) error

	// SendDM opens (or reuses) a DM with the user and posts into it
	SendDM(ctx context.Context, userID string, reply domain.Reply) error
}
