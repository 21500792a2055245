package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/twilio"
)

// HandleTranscription serves the Vonage websocket: text frames carry the call leg
// id, binary frames carry 16-bit PCM audio. The recognition stream is released on
// every exit path.
func (h *Handler) HandleTranscription(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	sess, err := session.Open(ctx, h.recognizer, h.transcripts, h.logger)
	if err != nil {
		closeWithError(conn, "speech recognition unavailable")
		return
	}
	defer sess.Close()

	ctx = observability.WithFields(ctx, observability.Field{Key: "connection_id", Value: sess.ConnectionID()})
	h.logger.Info(ctx, "Transcription socket connected")

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Error(ctx, "Transcription socket read failed", err)
			} else {
				h.logger.Info(ctx, "Transcription socket closed")
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			frame, err := session.ParseControlFrame(msg)
			if err != nil {
				h.logger.Error(ctx, "Ignoring control frame", err)
				continue
			}
			if err := sess.Bind(frame.User); err != nil {
				h.logger.InfoWithError(ctx, "Control frame did not bind the session", err)
			}

		case websocket.BinaryMessage:
			if err := sess.WriteAudio(msg); err != nil {
				// Keep reading so the call stays connected while the answer is spoken.
				if errors.Is(err, session.ErrSessionClosed) {
					continue
				}
				h.logger.Error(ctx, "Failed to forward audio", err)
			}
		}
	}
}

// HandleTwilioMediaStream serves a Twilio Media Streams socket.
func (h *Handler) HandleTwilioMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	sess, err := session.Open(ctx, h.recognizer, h.transcripts, h.logger)
	if err != nil {
		closeWithError(conn, "speech recognition unavailable")
		return
	}
	defer sess.Close()

	ctx = observability.WithFields(ctx, observability.Field{Key: "connection_id", Value: sess.ConnectionID()})
	h.logger.Info(ctx, "Twilio media stream connected")

	if err := twilio.NewWebSocketHandler(conn, h.logger).Run(ctx, sess); err != nil {
		h.logger.Error(ctx, "Twilio media stream ended with an error", err)
	}
}

func closeWithError(conn *websocket.Conn, reason string) {
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, reason))
}
