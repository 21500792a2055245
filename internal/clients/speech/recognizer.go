// Package speech streams call audio to Google Cloud Speech-to-Text and reports
// final transcripts back to a session.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nexmo-community/dial-ynab/internal/config"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
)

// SampleRateHertz matches the 16-bit linear PCM both telephony sockets deliver.
const SampleRateHertz = 8000

var (
	ErrRecognition  = errors.New("speech recognition failed")
	ErrStreamClosed = errors.New("recognition stream closed")
)

type openFunc func(ctx context.Context) (speechpb.Speech_StreamingRecognizeClient, error)

// Recognizer opens one StreamingRecognize call per session.
type Recognizer struct {
	client       *speech.Client
	open         openFunc
	languageCode string
	logger       *observability.Logger
}

// NewRecognizer dials the Speech API. An empty credentials file falls back to
// application default credentials.
func NewRecognizer(ctx context.Context, cfg config.SpeechConfig, logger *observability.Logger) (*Recognizer, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	return &Recognizer{
		client: client,
		open: func(ctx context.Context) (speechpb.Speech_StreamingRecognizeClient, error) {
			return client.StreamingRecognize(ctx)
		},
		languageCode: cfg.LanguageCode,
		logger:       logger,
	}, nil
}

// Close releases the underlying gRPC connection.
func (r *Recognizer) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Open starts a recognition stream and sends its configuration. Results are
// delivered to observer from a background goroutine until the stream ends.
func (r *Recognizer) Open(ctx context.Context, observer session.Observer) (session.Stream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	client, err := r.open(streamCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	if err := client.Send(configRequest(r.languageCode)); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: failed to send streaming config: %v", ErrRecognition, err)
	}

	s := &stream{
		client: client,
		ctx:    streamCtx,
		cancel: cancel,
		logger: r.logger,
	}
	go s.receive(observer)

	return s, nil
}

func configRequest(languageCode string) *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: SampleRateHertz,
					LanguageCode:    languageCode,
				},
				InterimResults: false,
			},
		},
	}
}

func audioRequest(chunk []byte) *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: chunk,
		},
	}
}

// finalTranscripts returns the top alternative of every final result.
func finalTranscripts(resp *speechpb.StreamingRecognizeResponse) []string {
	var out []string
	for _, result := range resp.GetResults() {
		if !result.GetIsFinal() || len(result.GetAlternatives()) == 0 {
			continue
		}
		transcript := strings.TrimSpace(result.GetAlternatives()[0].GetTranscript())
		if transcript != "" {
			out = append(out, transcript)
		}
	}
	return out
}

type stream struct {
	client speechpb.Speech_StreamingRecognizeClient
	ctx    context.Context
	cancel context.CancelFunc
	logger *observability.Logger

	sendMu sync.Mutex
	closed bool
}

func (s *stream) Send(chunk []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if err := s.client.Send(audioRequest(chunk)); err != nil {
		return fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	return nil
}

// Close half-closes the stream and cancels the call without waiting for
// outstanding results.
func (s *stream) Close() error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.client.CloseSend()
	s.cancel()
	if err != nil {
		return fmt.Errorf("failed to close recognition stream: %w", err)
	}
	return nil
}

func (s *stream) isClosed() bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.closed
}

func (s *stream) receive(observer session.Observer) {
	for {
		resp, err := s.client.Recv()
		if errors.Is(err, io.EOF) {
			observer.OnClose()
			return
		}
		if err != nil {
			if s.isClosed() || s.ctx.Err() != nil || status.Code(err) == codes.Canceled {
				observer.OnClose()
				return
			}
			observer.OnError(fmt.Errorf("%w: %v", ErrRecognition, err))
			return
		}

		if rpcErr := resp.GetError(); rpcErr != nil && rpcErr.GetCode() != int32(codes.OK) {
			observer.OnError(fmt.Errorf("%w: %s (code %d)", ErrRecognition, rpcErr.GetMessage(), rpcErr.GetCode()))
			return
		}

		for _, transcript := range finalTranscripts(resp) {
			observer.OnTranscript(transcript)
		}
	}
}
