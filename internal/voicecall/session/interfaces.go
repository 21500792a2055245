package session

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=session

import (
	"context"
)

// Observer receives the events of one recognition stream. Calls arrive from the
// recognizer's receive goroutine, in stream order.
type Observer interface {
	// OnTranscript is called with the text of each final result.
	OnTranscript(transcript string)

	// OnError is called once if the stream fails. No transcripts follow it.
	OnError(err error)

	// OnClose is called when the stream ends without an error.
	OnClose()
}

// Stream is an open streaming recognition request.
type Stream interface {
	// Send forwards one audio chunk. Chunks must be sent in capture order.
	Send(audio []byte) error

	// Close ends the request and releases it. Safe to call more than once and
	// from inside an Observer callback.
	Close() error
}

// Recognizer opens streaming recognition requests.
type Recognizer interface {
	Open(ctx context.Context, observer Observer) (Stream, error)
}

// TranscriptHandler acts on a final transcript for a bound call leg.
type TranscriptHandler interface {
	HandleTranscript(ctx context.Context, callLegID, transcript string) error
}
