package service

import (
	"fmt"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// User-visible copy. Error paths never include the underlying error.
const (
	helpText = "• `/hello` - Greet the bot\n" +
		"• `/help` - Show this help message\n" +
		"• `/claude` - Ask a question to Claude AI\n" +
		"• `/chatgpt` - Ask a question to ChatGPT\n" +
		"• `/gemini` - Ask a question to Gemini"

	mentionErrorText     = "I'm sorry, I encountered an error processing your request."
	thinkingText         = "_Thinking..._"
	operationStatusText  = "Wooah! It works!"
	feedbackPositiveText = "Thank you for your positive feedback!"
	feedbackNegativeText = "Thank you for your feedback. We'll work to improve our responses."
	feedbackFailedText   = "Thank you for your feedback! (Note: There was an issue recording it, but your input is still valuable)"
	welcomeChecklistText = "• Browse channels and join ones relevant to your work\n• Introduce yourself in #introductions\n• Set up your profile with a photo and details"
)

// sectionReply creates a reply whose fallback text differs from its single section
func sectionReply(text, section string) domain.Reply {
	return domain.Reply{FormattedReply: domain.FormattedReply{
		Text:   text,
		Blocks: []domain.Block{domain.TextSection(section)},
	}}
}

func ephemeral(text string) domain.Reply {
	r := domain.PlainReply(text)
	r.Ephemeral = true
	return r
}

func greetingReply(userID string) domain.Reply {
	r := sectionReply(
		fmt.Sprintf("Hello <@%s>!", userID),
		fmt.Sprintf("Hello <@%s>! How can I help you today?", userID),
	)
	r.Ephemeral = true
	return r
}

func mentionGreetingReply(userID string) domain.Reply {
	text := fmt.Sprintf("Hello <@%s>! How can I help you today?", userID)
	return sectionReply(text, text)
}

func helpReply() domain.Reply {
	return domain.Reply{FormattedReply: domain.FormattedReply{
		Text: "Available commands:",
		Blocks: []domain.Block{
			domain.TextSection("*Available Commands:*"),
			domain.TextSection(helpText),
		},
	}, Ephemeral: true}
}

func missingQuestionReply(model domain.Model) domain.Reply {
	return ephemeral(fmt.Sprintf("Please provide a question or prompt to send to %s", model.Label()))
}

func gatewayErrorReply(model domain.Model) domain.Reply {
	return ephemeral(fmt.Sprintf("Error communicating with %s", model.Label()))
}

func unknownCommandReply(name string) domain.Reply {
	return ephemeral(fmt.Sprintf("Unknown command: %s", name))
}

func thinkingReply() domain.Reply {
	return sectionReply(thinkingText, thinkingText)
}

func welcomeReply(userID string) domain.Reply {
	return domain.Reply{FormattedReply: domain.FormattedReply{
		Text: fmt.Sprintf("Welcome to the team, <@%s>! 👋", userID),
		Blocks: []domain.Block{
			domain.TextSection(fmt.Sprintf("Welcome to the team, <@%s>! 👋\n\nWe're glad you're here! Here are a few things to help you get started:", userID)),
			domain.TextSection(welcomeChecklistText),
		},
	}}
}
