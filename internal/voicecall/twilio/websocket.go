// Package twilio reads Twilio Media Streams sockets into a transcription session.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voice/audio"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
)

const (
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventStop      = "stop"
	EventMark      = "mark"
)

type MediaEvent struct {
	Event          string        `json:"event"`
	SequenceNumber string        `json:"sequenceNumber,omitempty"`
	StreamSid      string        `json:"streamSid,omitempty"`
	Start          *StartPayload `json:"start,omitempty"`
	Media          *MediaPayload `json:"media,omitempty"`
	Stop           *StopPayload  `json:"stop,omitempty"`
}

type StartPayload struct {
	StreamSid        string            `json:"streamSid"`
	AccountSid       string            `json:"accountSid"`
	CallSid          string            `json:"callSid"`
	Tracks           []string          `json:"tracks"`
	CustomParameters map[string]string `json:"customParameters"`
	MediaFormat      struct {
		Encoding   string `json:"encoding"`
		SampleRate int    `json:"sampleRate"`
		Channels   int    `json:"channels"`
	} `json:"mediaFormat"`
}

type MediaPayload struct {
	Track     string `json:"track"`
	Chunk     string `json:"chunk"`
	Timestamp string `json:"timestamp"`
	Payload   string `json:"payload"`
}

type StopPayload struct {
	AccountSid string `json:"accountSid"`
	CallSid    string `json:"callSid"`
}

// Sink receives the call identity and decoded audio of one media stream.
type Sink interface {
	Bind(sessionID string) error
	WriteAudio(chunk []byte) error
}

// WebSocketHandler reads one Twilio media stream.
type WebSocketHandler struct {
	conn      *websocket.Conn
	logger    *observability.Logger
	streamSid string
	callSid   string
}

func NewWebSocketHandler(conn *websocket.Conn, logger *observability.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		conn:   conn,
		logger: logger,
	}
}

// Run forwards the stream into sink until Twilio sends stop or the socket closes.
// The start event binds the call. Its session custom parameter takes precedence over
// the call SID. Audio arriving after the sink has closed is read and discarded so the
// call stays up while the answer is spoken.
func (h *WebSocketHandler) Run(ctx context.Context, sink Sink) error {
	for {
		_, msg, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Info(ctx, "Twilio media stream closed")
				return nil
			}
			return fmt.Errorf("failed to read twilio media stream: %w", err)
		}

		var event MediaEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			h.logger.Error(ctx, "Failed to parse Twilio event", err)
			continue
		}

		switch event.Event {
		case EventConnected:
			h.logger.Debug(ctx, "Twilio media stream connected")

		case EventStart:
			if event.Start == nil {
				continue
			}
			h.streamSid = event.Start.StreamSid
			h.callSid = event.Start.CallSid
			ctx = observability.WithFields(ctx,
				observability.Field{Key: "stream_sid", Value: h.streamSid},
				observability.Field{Key: "call_sid", Value: h.callSid},
			)

			sessionID := event.Start.CustomParameters[session.SessionKey]
			if sessionID == "" {
				sessionID = h.callSid
			}
			if err := sink.Bind(sessionID); err != nil {
				h.logger.Error(ctx, "Failed to bind Twilio media stream", err)
				continue
			}
			h.logger.Info(ctx, "Twilio media stream started")

		case EventMedia:
			if event.Media == nil {
				continue
			}
			mulaw, err := audio.Base64ToBytes(event.Media.Payload)
			if err != nil {
				h.logger.Error(ctx, "Failed to decode audio", err)
				continue
			}
			if err := sink.WriteAudio(audio.ConvertMuLawToPCM16(mulaw)); err != nil {
				if errors.Is(err, session.ErrSessionClosed) {
					continue
				}
				h.logger.Error(ctx, "Failed to forward audio", err)
			}

		case EventStop:
			h.logger.Info(ctx, "Twilio media stream stopped")
			return nil

		default:
			h.logger.Debug(ctx, fmt.Sprintf("Unhandled Twilio event: %s", event.Event))
		}
	}
}

func (h *WebSocketHandler) StreamSID() string {
	return h.streamSid
}

func (h *WebSocketHandler) CallSID() string {
	return h.callSid
}
