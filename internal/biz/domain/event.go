package domain

// EventKind identifies the variant of an inbound event
type EventKind string

const (
	EventKindCommand  EventKind = "command"
	EventKindMention  EventKind = "mention"
	EventKindMessage  EventKind = "message"
	EventKindAction   EventKind = "action"
	EventKindTeamJoin EventKind = "team_join"
)

// Event is an inbound unit of work delivered by the chat platform
type Event interface {
	Kind() EventKind
}

// SlashCommand is a "/name text" invocation
type SlashCommand struct {
	Name        string // includes the leading slash, e.g. "/claude"
	Text        string
	UserID      string
	ChannelID   string
	ResponseURL string
}

// Mention is an app_mention event
type Mention struct {
	MessageID string // platform timestamp, used as dedup key
	Text      string
	UserID    string
	ChannelID string
	ThreadID  string
}

// DirectMessage is a generic message event. Whether the channel really is a
// DM is only known after a platform lookup.
type DirectMessage struct {
	MessageID string
	Text      string
	UserID    string
	ChannelID string
	ThreadID  string
	IsBot     bool // bot_id set or any message subtype
}

// InteractiveAction is a block action (button, select menu)
type InteractiveAction struct {
	ActionID    string
	Value       string
	UserID      string
	ChannelID   string
	ResponseURL string
}

// TeamJoin is fired when a new user joins the workspace
type TeamJoin struct {
	UserID string
}

func (SlashCommand) Kind() EventKind      { return EventKindCommand }
func (Mention) Kind() EventKind           { return EventKindMention }
func (DirectMessage) Kind() EventKind     { return EventKindMessage }
func (InteractiveAction) Kind() EventKind { return EventKindAction }
func (TeamJoin) Kind() EventKind          { return EventKindTeamJoin }

// Action ids bound to interactive elements
const (
	ActionButtonClick      = "button_click"
	ActionSelectMenu       = "select_menu"
	ActionFeedbackPositive = "dify_feedback_positive"
	ActionFeedbackNegative = "dify_feedback_negative"
)
