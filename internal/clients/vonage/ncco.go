package vonage

import "github.com/nexmo-community/dial-ynab/internal/voicecall/session"

// Action is a single NCCO instruction.
type Action interface {
	isAction()
}

// TalkAction speaks text (or SSML) into the call.
type TalkAction struct {
	Action   string `json:"action"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// ConnectAction connects the call to one endpoint.
type ConnectAction struct {
	Action   string     `json:"action"`
	Endpoint []Endpoint `json:"endpoint"`
}

// Endpoint is a websocket endpoint that receives the caller's audio.
type Endpoint struct {
	Type        string            `json:"type"`
	URI         string            `json:"uri"`
	ContentType string            `json:"content-type"`
	Headers     map[string]string `json:"headers,omitempty"`
}

func (TalkAction) isAction()    {}
func (ConnectAction) isAction() {}

// WebSocketContentType is 16-bit linear PCM at 8 kHz, what the recognizer expects.
const WebSocketContentType = "audio/l16;rate=8000"

// SessionHeader carries the call leg UUID to the websocket as its first text frame.
const SessionHeader = session.SessionKey

// AnswerNCCO prompts for a category and streams the caller's answer to wsURI,
// tagging the socket with the call leg UUID.
func AnswerNCCO(prompt, wsURI, callLegID string) []Action {
	return []Action{
		TalkAction{Action: "talk", Text: prompt},
		ConnectAction{
			Action: "connect",
			Endpoint: []Endpoint{{
				Type:        "websocket",
				URI:         wsURI,
				ContentType: WebSocketContentType,
				Headers:     map[string]string{SessionHeader: callLegID},
			}},
		},
	}
}
