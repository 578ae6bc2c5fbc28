package usecase

import (
	"fmt"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// FormatReply renders a gateway answer as chat blocks with feedback buttons.
// model may be empty, in which case the model header is omitted.
func FormatReply(reply *domain.GatewayReply, model domain.Model) domain.FormattedReply {
	if reply == nil {
		reply = &domain.GatewayReply{AnswerText: domain.NoResponseText}
	}
	text := reply.AnswerText

	var blocks []domain.Block
	if model != "" {
		blocks = append(blocks,
			domain.TextSection("*Model:* "+model.Label()),
			domain.Divider(),
		)
	}

	blocks = append(blocks, domain.TextSection(text))

	if u := reply.Usage; u != nil {
		blocks = append(blocks,
			domain.Divider(),
			domain.TextSection(fmt.Sprintf("*Usage:* %d tokens (%d prompt + %d completion)",
				u.TotalTokens, u.PromptTokens, u.CompletionTokens)),
			domain.TextSection(fmt.Sprintf("*Latency:* %dms", u.LatencyMillis())),
		)
	}

	blocks = append(blocks,
		domain.Divider(),
		domain.ActionRow(
			domain.Button{
				Text:     "👍 Helpful",
				ActionID: domain.ActionFeedbackPositive,
				Value:    reply.MessageID,
				Style:    domain.ButtonPrimary,
			},
			domain.Button{
				Text:     "👎 Not Helpful",
				ActionID: domain.ActionFeedbackNegative,
				Value:    reply.MessageID,
				Style:    domain.ButtonDanger,
			},
		),
	)

	return domain.FormattedReply{Text: text, Blocks: blocks}
}
