package dify

import (
	"errors"
	"fmt"
)

// ErrNonJSON is wrapped by GatewayError when a body could not be decoded
var ErrNonJSON = errors.New("response is not valid JSON")

// GatewayError is returned when a call to Dify fails in transport or decoding
type GatewayError struct {
	Op         string // e.g. "chat-messages"
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dify %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("dify %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
