package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nexmo-community/dial-ynab/internal/voice/audio"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/twilio"
)

// pacer waits between frames. A nil pacer sends as fast as the socket allows.
type pacer func(ctx context.Context) error

func tickEvery(d time.Duration) pacer {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}
}

func (p pacer) wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p(ctx)
}

// streamVonage plays the frames the way a Vonage websocket endpoint does: a JSON
// control frame carrying the call id, then binary L16 audio.
func streamVonage(ctx context.Context, conn *websocket.Conn, callID string, chunks [][]byte, pace pacer) error {
	control, err := json.Marshal(session.ControlFrame{
		User:        callID,
		Event:       "websocket:connected",
		ContentType: "audio/l16;rate=8000",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal control frame: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, control); err != nil {
		return fmt.Errorf("failed to send control frame: %w", err)
	}

	for _, chunk := range chunks {
		if err := pace.wait(ctx); err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			return fmt.Errorf("failed to send audio: %w", err)
		}
	}
	return nil
}

// streamTwilio plays the frames as a Twilio media stream: start, base64 mu-law
// media events, stop.
func streamTwilio(ctx context.Context, conn *websocket.Conn, callID string, chunks [][]byte, pace pacer) error {
	streamSID := "MZ" + uuid.NewString()

	start := twilio.MediaEvent{
		Event:     twilio.EventStart,
		StreamSid: streamSID,
		Start: &twilio.StartPayload{
			StreamSid:        streamSID,
			CallSid:          callID,
			Tracks:           []string{"inbound"},
			CustomParameters: map[string]string{session.SessionKey: callID},
		},
	}
	start.Start.MediaFormat.Encoding = "audio/x-mulaw"
	start.Start.MediaFormat.SampleRate = audio.SampleRate
	start.Start.MediaFormat.Channels = 1
	if err := conn.WriteJSON(start); err != nil {
		return fmt.Errorf("failed to send start event: %w", err)
	}

	for i, chunk := range chunks {
		if err := pace.wait(ctx); err != nil {
			return err
		}
		media := twilio.MediaEvent{
			Event:          twilio.EventMedia,
			SequenceNumber: fmt.Sprint(i + 2),
			StreamSid:      streamSID,
			Media: &twilio.MediaPayload{
				Track:     "inbound",
				Chunk:     fmt.Sprint(i + 1),
				Timestamp: fmt.Sprint(i * 20),
				Payload:   audio.BytesToBase64(audio.ConvertPCM16ToMuLaw(chunk)),
			},
		}
		if err := conn.WriteJSON(media); err != nil {
			return fmt.Errorf("failed to send media event: %w", err)
		}
	}

	stop := twilio.MediaEvent{
		Event:     twilio.EventStop,
		StreamSid: streamSID,
		Stop:      &twilio.StopPayload{CallSid: callID},
	}
	if err := conn.WriteJSON(stop); err != nil {
		return fmt.Errorf("failed to send stop event: %w", err)
	}
	return nil
}
