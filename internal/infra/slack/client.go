// Package slack wraps the slack-go Web API and Socket Mode clients.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Config holds the Slack credentials
type Config struct {
	BotToken string // xoxb-...
	AppToken string // xapp-..., required for Socket Mode
	Debug    bool
}

// Client is the Slack client: Web API for outbound calls, Socket Mode for
// inbound events.
type Client struct {
	api    *slack.Client
	socket *socketmode.Client
	log    *slog.Logger
}

// NewClient creates a new Slack client
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if cfg.AppToken == "" {
		return nil, fmt.Errorf("app token is required for Socket Mode")
	}
	if !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return nil, fmt.Errorf("app token must start with xapp-")
	}
	if logger == nil {
		logger = slog.Default()
	}

	api := slack.New(
		cfg.BotToken,
		slack.OptionDebug(cfg.Debug),
		slack.OptionAppLevelToken(cfg.AppToken),
	)
	socket := socketmode.New(
		api,
		socketmode.OptionDebug(cfg.Debug),
	)

	return &Client{
		api:    api,
		socket: socket,
		log:    logger.With("component", "slack"),
	}, nil
}

// API returns the Web API client
func (c *Client) API() *slack.Client {
	return c.api
}

// Events returns the Socket Mode event stream
func (c *Client) Events() <-chan socketmode.Event {
	return c.socket.Events
}

// Ack acknowledges an envelope. Socket Mode requires this within 3 seconds.
func (c *Client) Ack(req *socketmode.Request) {
	if req == nil {
		return
	}
	c.socket.Ack(*req)
}

// Run connects to Socket Mode and blocks until ctx is canceled
func (c *Client) Run(ctx context.Context) error {
	c.log.Info("starting socket mode")
	return c.socket.RunContext(ctx)
}
