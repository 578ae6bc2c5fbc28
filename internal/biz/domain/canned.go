package domain

import "regexp"

// CannedResponse is a locally authored answer that bypasses the gateway
type CannedResponse struct {
	Pattern    *regexp.Regexp
	Answer     string
	ResponseID string
}

// ToReply converts the canned answer into a gateway-shaped reply
func (c *CannedResponse) ToReply() *GatewayReply {
	return &GatewayReply{
		AnswerText: c.Answer,
		MessageID:  c.ResponseID,
	}
}
