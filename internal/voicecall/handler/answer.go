package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexmo-community/dial-ynab/internal/apierrors"
	"github.com/nexmo-community/dial-ynab/internal/clients/twilio"
	"github.com/nexmo-community/dial-ynab/internal/clients/vonage"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
)

type AnswerRequest struct {
	UUID             string `form:"uuid" binding:"required"`
	ConversationUUID string `form:"conversation_uuid"`
	From             string `form:"from"`
	To               string `form:"to"`
}

// CallEvent is a Vonage call status callback.
type CallEvent struct {
	UUID             string `json:"uuid"`
	ConversationUUID string `json:"conversation_uuid"`
	Status           string `json:"status"`
	Direction        string `json:"direction"`
	Timestamp        string `json:"timestamp"`
}

type TwilioAnswerRequest struct {
	CallSid string `form:"CallSid" binding:"required"`
	From    string `form:"From"`
	To      string `form:"To"`
}

// HandleAnswer returns the NCCO that prompts the caller and streams their answer
// to the transcription socket, tagged with the call leg UUID.
func (h *Handler) HandleAnswer(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnswerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_leg_id", Value: req.UUID},
		observability.Field{Key: "conversation_uuid", Value: req.ConversationUUID},
	)

	wsURL := h.webSocketBaseURL(c) + TranscriptionPath
	h.logger.Info(ctx, fmt.Sprintf("Answering call, streaming audio to %s", wsURL))

	c.JSON(http.StatusOK, vonage.AnswerNCCO(voicecall.AnswerPrompt, wsURL, req.UUID))
}

// HandleEvent acknowledges a call status callback.
func (h *Handler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var event CallEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.InfoWithError(ctx, "Ignoring unreadable call event", err)
		c.Status(http.StatusNoContent)
		return
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_leg_id", Value: event.UUID},
		observability.Field{Key: "call_status", Value: event.Status},
	)
	h.logger.Info(ctx, "Call event received")
	c.Status(http.StatusNoContent)
}

// HandleAnswerTwilio returns TwiML that prompts the caller and forks their audio
// to the Twilio media stream socket.
func (h *Handler) HandleAnswerTwilio(c *gin.Context) {
	ctx := c.Request.Context()

	var req TwilioAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_leg_id", Value: req.CallSid})

	streamURL := h.webSocketBaseURL(c) + TwilioTranscriptionPath
	doc, err := twilio.AnswerTwiML(voicecall.AnswerPrompt, streamURL, req.CallSid)
	if err != nil {
		h.logger.Error(ctx, "Failed to build answer TwiML", err)
		apierrors.RespondWithError(c, err)
		return
	}

	h.logger.Info(ctx, fmt.Sprintf("Answering call, streaming audio to %s", streamURL))
	c.Data(http.StatusOK, "text/xml", []byte(doc))
}

// webSocketBaseURL prefers the configured public URL, otherwise it mirrors the
// webhook request's host and scheme.
func (h *Handler) webSocketBaseURL(c *gin.Context) string {
	if h.publicWSBaseURL != "" {
		return h.publicWSBaseURL
	}

	scheme := "ws"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "wss"
	}
	return scheme + "://" + c.Request.Host
}
