package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

var errSocketClosed = errors.New("socket mode connection closed")

// SocketClient is the inbound Slack transport
type SocketClient interface {
	Events() <-chan socketmode.Event
	Ack(req *socketmode.Request)
	Run(ctx context.Context) error
}

// Dispatcher handles translated events
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.Event, ack func())
}

// Trimmer is a background maintenance loop tied to the server lifetime
type Trimmer interface {
	Start(ctx context.Context)
	Stop()
}

// SlackServer pumps Socket Mode events into the router
type SlackServer struct {
	client  SocketClient
	router  Dispatcher
	trimmer Trimmer
	log     *slog.Logger

	inflight sync.WaitGroup
}

// NewSlackServer creates a new Slack server. trimmer may be nil.
func NewSlackServer(client SocketClient, router Dispatcher, trimmer Trimmer, logger *slog.Logger) *SlackServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackServer{
		client:  client,
		router:  router,
		trimmer: trimmer,
		log:     logger.With("component", "server"),
	}
}

// Start runs the server until ctx is canceled or the connection fails.
// In-flight handlers finish before it returns.
func (s *SlackServer) Start(ctx context.Context) error {
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)

	if s.trimmer != nil {
		s.trimmer.Start(ctx)
		defer s.trimmer.Stop()
	}

	g.Go(func() error {
		err := s.client.Run(ctx)
		if err == nil {
			err = errSocketClosed
		}
		return err
	})
	g.Go(func() error {
		s.pump(ctx)
		return nil
	})

	err := g.Wait()
	s.inflight.Wait()

	if parent.Err() != nil {
		s.log.Info("server stopped")
		return nil
	}
	return err
}

func (s *SlackServer) pump(ctx context.Context) {
	events := s.client.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			s.handle(ctx, evt)
		}
	}
}

func (s *SlackServer) handle(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		s.log.Info("connecting to Slack")
	case socketmode.EventTypeConnected:
		s.log.Info("connected to Slack")
	case socketmode.EventTypeConnectionError:
		s.log.Warn("connection error", "data", evt.Data)
	case socketmode.EventTypeDisconnect:
		s.log.Warn("disconnected from Slack")
	}

	events := Translate(evt)
	if len(events) == 0 {
		if evt.Request != nil {
			s.client.Ack(evt.Request)
		}
		return
	}

	// One envelope may carry several block actions; it is acked once.
	var once sync.Once
	ack := func() {
		once.Do(func() { s.client.Ack(evt.Request) })
	}

	for _, ev := range events {
		s.inflight.Add(1)
		go func(ev domain.Event) {
			defer s.inflight.Done()
			s.router.Dispatch(ctx, ev, ack)
		}(ev)
	}
}
