// Package session correlates a transcription socket with the call leg that opened
// it, so final transcripts can be answered into the right call.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nexmo-community/dial-ynab/internal/observability"
)

var (
	ErrUnboundSession = errors.New("transcript received before the session was bound")
	ErrSessionClosed  = errors.New("session closed")
	ErrEmptySessionID = errors.New("empty session id")
)

// State is the lifecycle position of a Session.
type State int

const (
	StateUnbound State = iota
	StateBound
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session owns one recognition stream for the lifetime of one socket.
// Transitions: Unbound -> Bound -> Closed, or Unbound -> Closed.
type Session struct {
	connectionID string
	handler      TranscriptHandler
	logger       *observability.Logger

	mu        sync.Mutex
	state     State
	sessionID string
	// stream is nil until the recognizer's Open returns, which can be after
	// the recognizer has already reported an error.
	stream   Stream
	closeErr error

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Open starts a recognition stream for a new socket. The session must be closed
// on every exit path of the socket.
func Open(ctx context.Context, recognizer Recognizer, handler TranscriptHandler, logger *observability.Logger) (*Session, error) {
	connectionID := uuid.NewString()
	sessCtx, cancel := context.WithCancel(observability.WithFields(ctx,
		observability.Field{Key: "connection_id", Value: connectionID},
	))

	s := &Session{
		connectionID: connectionID,
		handler:      handler,
		logger:       logger,
		state:        StateUnbound,
		ctx:          sessCtx,
		cancel:       cancel,
	}

	stream, err := recognizer.Open(sessCtx, (*observer)(s))
	if err != nil {
		cancel()
		logger.Error(sessCtx, "Failed to open recognition stream", err)
		return nil, fmt.Errorf("failed to open recognition stream: %w", err)
	}

	s.mu.Lock()
	s.stream = stream
	closed := s.state == StateClosed
	s.mu.Unlock()

	if closed {
		// The recognizer failed before Open returned; Close found no stream to release.
		s.releaseStream(stream)
		return s, nil
	}

	logger.Info(sessCtx, "Transcription session opened")
	return s, nil
}

// ConnectionID identifies the socket in logs.
func (s *Session) ConnectionID() string {
	return s.connectionID
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the bound session identifier, empty while unbound.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// CallLegID is the call leg answers are spoken into. The telephony platform issues
// the session id as the call leg id.
func (s *Session) CallLegID() string {
	return s.SessionID()
}

// Bind records the session id carried by a control frame. A later control frame
// replaces the earlier binding.
func (s *Session) Bind(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrEmptySessionID
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	previous := s.sessionID
	s.sessionID = sessionID
	s.state = StateBound
	s.mu.Unlock()

	ctx := s.logContext()
	if previous != "" && previous != sessionID {
		s.logger.Warn(ctx, fmt.Sprintf("Session rebound from %s", previous))
	} else {
		s.logger.Info(ctx, "Session bound")
	}
	return nil
}

// WriteAudio forwards a chunk, unmodified, to the recognition stream.
func (s *Session) WriteAudio(chunk []byte) error {
	s.mu.Lock()
	state, stream := s.state, s.stream
	s.mu.Unlock()

	if state == StateClosed {
		return ErrSessionClosed
	}
	if err := stream.Send(chunk); err != nil {
		return fmt.Errorf("failed to forward audio: %w", err)
	}
	return nil
}

// Close releases the recognition stream. It is idempotent and safe to call from
// recognizer callbacks, including ones that run before Open has returned.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		stream := s.stream
		s.mu.Unlock()

		if stream != nil {
			s.releaseStream(stream)
		}
		s.cancel()
		s.logger.Info(s.logContext(), "Transcription session closed")
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}

func (s *Session) releaseStream(stream Stream) {
	err := stream.Close()

	s.mu.Lock()
	s.closeErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(s.logContext(), "Failed to close recognition stream", err)
	}
}

func (s *Session) logContext() context.Context {
	s.mu.Lock()
	sessionID := s.sessionID
	s.mu.Unlock()

	// s.ctx is cancelled on close but still carries the log fields.
	ctx := context.WithoutCancel(s.ctx)
	if sessionID != "" {
		ctx = observability.WithFields(ctx, observability.Field{Key: "session_id", Value: sessionID})
	}
	return ctx
}

// observer receives the recognizer's callbacks on behalf of a Session.
type observer Session

func (o *observer) OnTranscript(transcript string) {
	s := (*Session)(o)

	s.mu.Lock()
	state, callLegID := s.state, s.sessionID
	s.mu.Unlock()

	ctx := observability.WithFields(s.logContext(), observability.Field{Key: "transcript", Value: transcript})

	switch state {
	case StateUnbound:
		s.logger.InfoWithError(ctx, "Dropping transcript", ErrUnboundSession)
		return
	case StateClosed:
		s.logger.InfoWithError(ctx, "Dropping transcript", ErrSessionClosed)
		return
	}

	s.logger.Info(ctx, "Final transcript received")

	// Handing off waits on the lookup queue; stop waiting once the socket is gone.
	handoffCtx := observability.WithFields(s.ctx,
		observability.Field{Key: "session_id", Value: callLegID},
		observability.Field{Key: "transcript", Value: transcript},
	)
	if err := s.handler.HandleTranscript(handoffCtx, callLegID, transcript); err != nil {
		s.logger.Error(ctx, "Failed to hand off transcript", err)
	}
}

func (o *observer) OnError(err error) {
	s := (*Session)(o)
	s.logger.Error(s.logContext(), "Recognition stream failed", err)
	_ = s.Close()
}

func (o *observer) OnClose() {
	s := (*Session)(o)
	s.logger.Info(s.logContext(), "Recognition stream ended")
	_ = s.Close()
}
