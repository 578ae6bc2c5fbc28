package domain

import "math"

// NoResponseText is shown when the gateway returned no answer
const NoResponseText = "No response from Dify"

// Usage is the token accounting the gateway attaches to an answer
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencySeconds   float64
}

// LatencyMillis returns the latency rounded to the nearest millisecond
func (u *Usage) LatencyMillis() int64 {
	return int64(math.Round(u.LatencySeconds * 1000))
}

// GatewayReply is an answer, either from the gateway or a canned response
type GatewayReply struct {
	AnswerText string
	MessageID  string
	Usage      *Usage // nil when the gateway sent no usage metadata
}

// Rating is the feedback value sent back to the gateway
type Rating int

const (
	RatingNegative Rating = 0
	RatingPositive Rating = 1
)

// FeedbackResult reports the outcome of a feedback submission
type FeedbackResult struct {
	Success bool
	Error   string
}

// BlockKind identifies a UI block variant
type BlockKind string

const (
	BlockText    BlockKind = "text"
	BlockDivider BlockKind = "divider"
	BlockActions BlockKind = "actions"
)

// ButtonStyle is the visual style of a button
type ButtonStyle string

const (
	ButtonDefault ButtonStyle = ""
	ButtonPrimary ButtonStyle = "primary"
	ButtonDanger  ButtonStyle = "danger"
)

// Button is an interactive element inside an action row
type Button struct {
	Text     string
	ActionID string
	Value    string
	Style    ButtonStyle
}

// Block is one renderable unit of a reply. Text is set for BlockText,
// Buttons for BlockActions.
type Block struct {
	Kind    BlockKind
	Text    string
	Buttons []Button
}

// TextSection creates a markdown text block
func TextSection(text string) Block {
	return Block{Kind: BlockText, Text: text}
}

// Divider creates a divider block
func Divider() Block {
	return Block{Kind: BlockDivider}
}

// ActionRow creates a row of buttons
func ActionRow(buttons ...Button) Block {
	return Block{Kind: BlockActions, Buttons: buttons}
}

// FormattedReply is the payload sent back to the chat platform
type FormattedReply struct {
	Text   string
	Blocks []Block
}

// Reply is a FormattedReply plus delivery options
type Reply struct {
	FormattedReply
	Ephemeral bool   // only visible to the requesting user
	ThreadID  string // reply inside this thread when set
}

// PlainReply creates a text-only reply without blocks
func PlainReply(text string) Reply {
	return Reply{FormattedReply: FormattedReply{Text: text}}
}
