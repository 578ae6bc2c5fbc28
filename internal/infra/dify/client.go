package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted Dify API
const DefaultBaseURL = "https://api.dify.ai"

// Client is the Dify API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a self-hosted Dify
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a new Dify client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "dify")
	return c
}

// SendChatMessage sends a query to the chat endpoint. model may be empty.
func (c *Client) SendChatMessage(ctx context.Context, query, user, model string, stream bool, files []File) (*MessageResponse, error) {
	mode := ResponseModeBlocking
	if stream {
		mode = ResponseModeStreaming
	}
	req := &ChatRequest{
		Inputs:       modelInputs(model),
		Query:        query,
		ResponseMode: mode,
		User:         user,
		Files:        files,
	}

	c.log.Debug("sending chat message",
		"user", user, "model", modelOrDefault(model), "query_len", len(query),
		"response_mode", mode, "has_files", len(files) > 0)

	var resp MessageResponse
	if err := c.do(ctx, "chat-messages", http.MethodPost, "/v1/chat-messages", nil, req, &resp); err != nil {
		c.log.Error("chat message failed", "user", user, "error", err)
		return nil, err
	}
	c.logAnswer("chat-messages", &resp)
	return &resp, nil
}

// SendCompletionMessage sends a query to the completion endpoint
func (c *Client) SendCompletionMessage(ctx context.Context, query, user, model string, files []File) (*MessageResponse, error) {
	req := &CompletionRequest{
		Inputs: modelInputs(model),
		Query:  query,
		User:   user,
		Files:  files,
	}

	c.log.Debug("sending completion message",
		"user", user, "model", modelOrDefault(model), "query_len", len(query))

	var resp MessageResponse
	if err := c.do(ctx, "completion-messages", http.MethodPost, "/v1/completion-messages", nil, req, &resp); err != nil {
		c.log.Error("completion message failed", "user", user, "error", err)
		return nil, err
	}
	c.logAnswer("completion-messages", &resp)
	return &resp, nil
}

// GetConversations lists the conversations of a user
func (c *Client) GetConversations(ctx context.Context, user string) (*ConversationList, error) {
	q := url.Values{}
	q.Set("user", user)

	var list ConversationList
	if err := c.do(ctx, "conversations", http.MethodGet, "/v1/conversations", q, nil, &list); err != nil {
		c.log.Error("get conversations failed", "user", user, "error", err)
		return nil, err
	}
	c.log.Debug("retrieved conversations", "user", user, "count", len(list.Data))
	return &list, nil
}

// GetConversationMessages lists the messages of a conversation
func (c *Client) GetConversationMessages(ctx context.Context, conversationID, user string) (*MessageList, error) {
	q := url.Values{}
	q.Set("conversation_id", conversationID)
	q.Set("user", user)

	var list MessageList
	if err := c.do(ctx, "messages", http.MethodGet, "/v1/messages", q, nil, &list); err != nil {
		c.log.Error("get conversation messages failed", "conversation_id", conversationID, "user", user, "error", err)
		return nil, err
	}
	c.log.Debug("retrieved messages", "conversation_id", conversationID, "count", len(list.Data))
	return &list, nil
}

// SubmitFeedback rates a message (1 like, 0 dislike). Feedback is best effort:
// failures are logged and reported in the result, never returned as errors.
func (c *Client) SubmitFeedback(ctx context.Context, messageID string, rating int, user string) FeedbackResult {
	req := &FeedbackRequest{
		MessageID: messageID,
		Rating:    rating,
		User:      user,
	}

	c.log.Debug("submitting feedback", "message_id", messageID, "rating", rating, "user", user)

	status, data, err := c.send(ctx, "message-feedbacks", http.MethodPost, "/v1/message-feedbacks", nil, req)
	if err != nil {
		c.log.Error("feedback failed", "message_id", messageID, "error", err)
		return FeedbackResult{Success: false, Error: err.Error()}
	}
	if status < 200 || status > 299 {
		c.log.Error("feedback API error", "message_id", messageID, "status", status, "body", truncate(string(data), 200))
		return FeedbackResult{Success: false, Error: fmt.Sprintf("API error: %d", status)}
	}

	var out struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		c.log.Error("feedback response not JSON", "message_id", messageID, "error", err)
		return FeedbackResult{Success: false, Error: fmt.Sprintf("%v: %v", ErrNonJSON, err)}
	}

	c.log.Debug("feedback submitted", "message_id", messageID)
	return FeedbackResult{Success: true, Result: out.Result}
}

// do performs a request and decodes the JSON body into out. A non-2xx
// status with a JSON body is not an error: the decoded envelope carries
// the gateway's own error fields.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	status, data, err := c.send(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		c.log.Warn("non-2xx response", "op", op, "status", status, "body", truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayError{Op: op, StatusCode: status, Err: fmt.Errorf("%w: %v", ErrNonJSON, err)}
	}
	return nil
}

// send performs a request and returns the status and raw body
func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body any) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &GatewayError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, &GatewayError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("response received",
		"op", op, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds(),
		"content_type", resp.Header.Get("Content-Type"), "bytes", len(data))

	return resp.StatusCode, data, nil
}

func (c *Client) logAnswer(op string, resp *MessageResponse) {
	if resp.Answer != nil {
		c.log.Debug("answer received", "op", op, "message_id", resp.MessageID, "answer_len", len(*resp.Answer))
	} else {
		c.log.Warn("response has no answer field", "op", op, "code", resp.Code, "message", resp.Message)
	}
}

func modelInputs(model string) map[string]any {
	inputs := map[string]any{}
	if model != "" {
		inputs["model"] = model
	}
	return inputs
}

func modelOrDefault(model string) string {
	if model == "" {
		return "default"
	}
	return model
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
