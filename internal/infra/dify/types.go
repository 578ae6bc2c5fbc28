package dify

// File is an attachment sent alongside a query
type File struct {
	Type           string `json:"type"`            // image
	TransferMethod string `json:"transfer_method"` // remote_url, local_file
	URL            string `json:"url,omitempty"`
	UploadFileID   string `json:"upload_file_id,omitempty"`
}

// ChatRequest is the body of POST /v1/chat-messages
type ChatRequest struct {
	Inputs         map[string]any `json:"inputs"`
	Query          string         `json:"query"`
	ResponseMode   string         `json:"response_mode"`
	User           string         `json:"user"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Files          []File         `json:"files,omitempty"`
}

// CompletionRequest is the body of POST /v1/completion-messages
type CompletionRequest struct {
	Inputs map[string]any `json:"inputs"`
	Query  string         `json:"query"`
	User   string         `json:"user"`
	Files  []File         `json:"files,omitempty"`
}

// Response modes
const (
	ResponseModeBlocking  = "blocking"
	ResponseModeStreaming = "streaming"
)

// Usage is the token accounting of an answer
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Latency          float64 `json:"latency"` // seconds
}

// Metadata is attached to chat and completion answers
type Metadata struct {
	Usage *Usage `json:"usage,omitempty"`
}

// MessageResponse is the blocking answer of the chat and completion endpoints.
// Error bodies share the same envelope with Code/Message/Status set.
type MessageResponse struct {
	Event          string    `json:"event,omitempty"`
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Mode           string    `json:"mode,omitempty"`
	Answer         *string   `json:"answer,omitempty"`
	Metadata       *Metadata `json:"metadata,omitempty"`
	CreatedAt      int64     `json:"created_at,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Conversation is one entry of GET /v1/conversations
type Conversation struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Inputs       map[string]any `json:"inputs,omitempty"`
	Status       string         `json:"status,omitempty"`
	Introduction string         `json:"introduction,omitempty"`
	CreatedAt    int64          `json:"created_at"`
	UpdatedAt    int64          `json:"updated_at,omitempty"`
}

// ConversationList is the body of GET /v1/conversations
type ConversationList struct {
	Limit   int            `json:"limit"`
	HasMore bool           `json:"has_more"`
	Data    []Conversation `json:"data"`
}

// Feedback is the rating attached to a history message
type Feedback struct {
	Rating string `json:"rating"` // like, dislike
}

// HistoryMessage is one entry of GET /v1/messages
type HistoryMessage struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Inputs         map[string]any `json:"inputs,omitempty"`
	Query          string         `json:"query"`
	Answer         string         `json:"answer"`
	Feedback       *Feedback      `json:"feedback,omitempty"`
	CreatedAt      int64          `json:"created_at"`
}

// MessageList is the body of GET /v1/messages
type MessageList struct {
	Limit   int              `json:"limit"`
	HasMore bool             `json:"has_more"`
	Data    []HistoryMessage `json:"data"`
}

// FeedbackRequest is the body of POST /v1/message-feedbacks
type FeedbackRequest struct {
	MessageID string `json:"message_id"`
	Rating    int    `json:"rating"`
	User      string `json:"user"`
}

// FeedbackResult reports the outcome of a feedback submission
type FeedbackResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}
