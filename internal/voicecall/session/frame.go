package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidControlFrame = errors.New("invalid control frame")

// SessionKey names the session identifier in control frames and stream parameters.
const SessionKey = "user"

// ControlFrame is the first text message on a transcription socket. Vonage merges
// the connect endpoint's headers into it alongside its own fields.
type ControlFrame struct {
	User        string `json:"user"`
	Event       string `json:"event,omitempty"`
	ContentType string `json:"content-type,omitempty"`
}

// ParseControlFrame decodes a text frame carrying the session identifier.
func ParseControlFrame(msg []byte) (ControlFrame, error) {
	var frame ControlFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		return ControlFrame{}, fmt.Errorf("%w: %v", ErrInvalidControlFrame, err)
	}
	return frame, nil
}
