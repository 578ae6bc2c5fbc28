package server

import (
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// Translate converts a Socket Mode event into zero or more domain events.
// Connection lifecycle events and unsupported payloads yield none.
func Translate(evt socketmode.Event) []domain.Event {
	switch evt.Type {
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || apiEvent.Type != slackevents.CallbackEvent {
			return nil
		}
		if ev := translateCallback(apiEvent.InnerEvent.Data); ev != nil {
			return []domain.Event{ev}
		}
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return nil
		}
		return []domain.Event{domain.SlashCommand{
			Name:        cmd.Command,
			Text:        cmd.Text,
			UserID:      cmd.UserID,
			ChannelID:   cmd.ChannelID,
			ResponseURL: cmd.ResponseURL,
		}}
	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok || cb.Type != slack.InteractionTypeBlockActions {
			return nil
		}
		return translateActions(cb)
	}
	return nil
}

func translateCallback(data interface{}) domain.Event {
	switch ev := data.(type) {
	case *slackevents.AppMentionEvent:
		return domain.Mention{
			MessageID: ev.TimeStamp,
			Text:      ev.Text,
			UserID:    ev.User,
			ChannelID: ev.Channel,
			ThreadID:  ev.ThreadTimeStamp,
		}
	case *slackevents.MessageEvent:
		return domain.DirectMessage{
			MessageID: ev.TimeStamp,
			Text:      ev.Text,
			UserID:    ev.User,
			ChannelID: ev.Channel,
			ThreadID:  ev.ThreadTimeStamp,
			IsBot:     ev.BotID != "" || ev.SubType != "",
		}
	case *slackevents.TeamJoinEvent:
		if ev.User == nil {
			return nil
		}
		return domain.TeamJoin{UserID: ev.User.ID}
	}
	return nil
}

func translateActions(cb slack.InteractionCallback) []domain.Event {
	var events []domain.Event
	for _, action := range cb.ActionCallback.BlockActions {
		if action == nil {
			continue
		}
		value := action.Value
		if action.SelectedOption.Text != nil {
			value = action.SelectedOption.Text.Text
		} else if action.SelectedOption.Value != "" {
			value = action.SelectedOption.Value
		}
		events = append(events, domain.InteractiveAction{
			ActionID:    action.ActionID,
			Value:       value,
			UserID:      cb.User.ID,
			ChannelID:   cb.Channel.ID,
			ResponseURL: cb.ResponseURL,
		})
	}
	return events
}
