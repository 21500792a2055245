package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/processor"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
)

const (
	TranscriptionPath       = "/transcription"
	TwilioTranscriptionPath = "/transcription/twilio"
)

type Handler struct {
	voiceProcessor  *processor.VoiceCallProcessor
	recognizer      session.Recognizer
	transcripts     session.TranscriptHandler
	publicWSBaseURL string
	logger          *observability.Logger
}

// New creates the voice call handlers. publicWSBaseURL may be empty, in which case
// socket URLs are derived from the incoming webhook request.
func New(
	voiceProcessor *processor.VoiceCallProcessor,
	recognizer session.Recognizer,
	transcripts session.TranscriptHandler,
	publicWSBaseURL string,
	logger *observability.Logger,
) Handler {
	return Handler{
		voiceProcessor:  voiceProcessor,
		recognizer:      recognizer,
		transcripts:     transcripts,
		publicWSBaseURL: publicWSBaseURL,
		logger:          logger,
	}
}

// upgrader is a shared WebSocket upgrader. Sockets are opened by the telephony
// platform, not browsers, so there is no Origin to check.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
