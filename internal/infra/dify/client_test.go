package dify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestSendChatMessage(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat-messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message_id":"m1","answer":"42","metadata":{"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5,"latency":0.5}}}`))
	})

	resp, err := c.SendChatMessage(context.Background(), "what?", "U1", "gemini", false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Query != "what?" || got.User != "U1" || got.ResponseMode != ResponseModeBlocking {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Inputs["model"] != "gemini" {
		t.Errorf("expected model input, got %v", got.Inputs)
	}
	if resp.MessageID != "m1" || resp.Answer == nil || *resp.Answer != "42" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Metadata == nil || resp.Metadata.Usage == nil || resp.Metadata.Usage.TotalTokens != 5 {
		t.Errorf("usage not decoded: %+v", resp.Metadata)
	}
}

func TestSendChatMessage_StreamingFlagAndEmptyModel(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"message_id":"m1","answer":""}`))
	})

	if _, err := c.SendChatMessage(context.Background(), "q", "U1", "", true, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw["response_mode"] != ResponseModeStreaming {
		t.Errorf("expected streaming mode, got %v", raw["response_mode"])
	}
	inputs, _ := raw["inputs"].(map[string]any)
	if _, ok := inputs["model"]; ok {
		t.Errorf("model should be omitted, got %v", inputs)
	}
}

func TestSendChatMessage_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"invalid_param","message":"bad query","status":400}`))
	})

	resp, err := c.SendChatMessage(context.Background(), "q", "U1", "claude", false, nil)
	if err != nil {
		t.Fatalf("JSON error body should decode, got %v", err)
	}
	if resp.Answer != nil || resp.Code != "invalid_param" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestSendChatMessage_NonJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.SendChatMessage(context.Background(), "q", "U1", "claude", false, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %T", err)
	}
	if gwErr.StatusCode != http.StatusBadGateway || gwErr.Op != "chat-messages" {
		t.Errorf("unexpected error %+v", gwErr)
	}
	if !errors.Is(err, ErrNonJSON) {
		t.Error("expected ErrNonJSON")
	}
}

func TestSendChatMessage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient("k", WithBaseURL(srv.URL))

	_, err := c.SendChatMessage(context.Background(), "q", "U1", "claude", false, nil)
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.StatusCode != 0 {
		t.Errorf("expected transport GatewayError, got %v", err)
	}
}

func TestSendCompletionMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completion-messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req CompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "summarize" || req.Inputs["model"] != "chatgpt" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`{"message_id":"c1","answer":"done"}`))
	})

	resp, err := c.SendCompletionMessage(context.Background(), "summarize", "U1", "chatgpt", nil)
	if err != nil || *resp.Answer != "done" {
		t.Fatalf("unexpected result %+v %v", resp, err)
	}
}

func TestGetConversationsAndMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/conversations":
			if r.URL.Query().Get("user") != "U1" {
				t.Errorf("missing user param: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"limit":20,"has_more":false,"data":[{"id":"conv1","name":"First","created_at":1700000000}]}`))
		case "/v1/messages":
			if r.URL.Query().Get("conversation_id") != "conv1" {
				t.Errorf("missing conversation_id param: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"limit":20,"has_more":false,"data":[{"id":"m1","conversation_id":"conv1","query":"q","answer":"a","feedback":{"rating":"like"}}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	convs, err := c.GetConversations(ctx, "U1")
	if err != nil || len(convs.Data) != 1 || convs.Data[0].ID != "conv1" {
		t.Fatalf("unexpected conversations %+v %v", convs, err)
	}

	msgs, err := c.GetConversationMessages(ctx, "conv1", "U1")
	if err != nil || len(msgs.Data) != 1 {
		t.Fatalf("unexpected messages %+v %v", msgs, err)
	}
	if msgs.Data[0].Feedback == nil || msgs.Data[0].Feedback.Rating != "like" {
		t.Errorf("feedback not decoded: %+v", msgs.Data[0])
	}
}

func TestSubmitFeedback(t *testing.T) {
	var got FeedbackRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/message-feedbacks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"result":"success"}`))
	})

	res := c.SubmitFeedback(context.Background(), "m1", 1, "U1")
	if !res.Success || res.Result != "success" {
		t.Errorf("unexpected result %+v", res)
	}
	if got.MessageID != "m1" || got.Rating != 1 || got.User != "U1" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestSubmitFeedback_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"oops"}`, "API error: 500"},
		{"non JSON", http.StatusOK, "ok", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			res := c.SubmitFeedback(context.Background(), "m1", 0, "U1")
			if res.Success {
				t.Error("expected failure")
			}
			if res.Error == "" {
				t.Error("expected error text")
			}
			if tt.wantErr != "" && res.Error != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, res.Error)
			}
		})
	}
}

func TestSubmitFeedback_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient("k", WithBaseURL(srv.URL))

	res := c.SubmitFeedback(context.Background(), "m1", 1, "U1")
	if res.Success || res.Error == "" {
		t.Errorf("expected failure with error text, got %+v", res)
	}
}
