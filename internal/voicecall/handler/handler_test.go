package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexmo-community/dial-ynab/internal/balances"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voice/audio"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/processor"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
)

type fakeStream struct {
	mu     sync.Mutex
	chunks [][]byte
	closed int
}

func (f *fakeStream) Send(chunk []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeStream) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

func (f *fakeStream) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeRecognizer struct {
	mu        sync.Mutex
	streams   []*fakeStream
	observers []session.Observer
	err       error
}

func (f *fakeRecognizer) Open(_ context.Context, observer session.Observer) (session.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	stream := &fakeStream{}
	f.streams = append(f.streams, stream)
	f.observers = append(f.observers, observer)
	return stream, nil
}

// latest waits for the server to open a recognition stream.
func (f *fakeRecognizer) latest(t *testing.T) (*fakeStream, session.Observer) {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.streams) > 0
	}, 2*time.Second, 5*time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streams[len(f.streams)-1], f.observers[len(f.observers)-1]
}

type fakeSource struct {
	records []balances.Record
	err     error
}

func (f *fakeSource) FetchBalances(context.Context) ([]balances.Record, error) {
	return f.records, f.err
}

func (f *fakeSource) Name() string { return "fake" }

type spoken struct {
	callLegID string
	speech    voicecall.Speech
}

type fakeCalls struct {
	mu     sync.Mutex
	spoken []spoken
}

func (f *fakeCalls) Speak(_ context.Context, callLegID string, speech voicecall.Speech) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, spoken{callLegID: callLegID, speech: speech})
	return nil
}

func (f *fakeCalls) all() []spoken {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]spoken, len(f.spoken))
	copy(out, f.spoken)
	return out
}

// transcriptFunc answers transcripts inline instead of through the worker pool.
type transcriptFunc func(ctx context.Context, callLegID, transcript string) error

func (f transcriptFunc) HandleTranscript(ctx context.Context, callLegID, transcript string) error {
	return f(ctx, callLegID, transcript)
}

type testEnv struct {
	router     *gin.Engine
	recognizer *fakeRecognizer
	source     *fakeSource
	calls      *fakeCalls
}

func budget() []balances.Record {
	return []balances.Record{
		{Name: "Rent", Balance: decimal.RequireFromString("650")},
		{Name: "Groceries", Balance: decimal.RequireFromString("123.45")},
	}
}

func newTestEnv(publicWSBaseURL string) *testEnv {
	gin.SetMode(gin.TestMode)
	logger := observability.NewLoggerWithZap(zap.NewNop())

	env := &testEnv{
		router:     gin.New(),
		recognizer: &fakeRecognizer{},
		source:     &fakeSource{records: budget()},
		calls:      &fakeCalls{},
	}

	proc := processor.NewVoiceCallProcessor(env.source, env.calls, logger)
	h := New(proc, env.recognizer, transcriptFunc(proc.AnswerBalanceQuery), publicWSBaseURL, logger)

	env.router.GET("/webhooks/answer", h.HandleAnswer)
	env.router.POST("/webhooks/events", h.HandleEvent)
	env.router.POST("/webhooks/answer/twilio", h.HandleAnswerTwilio)
	env.router.GET(TranscriptionPath, h.HandleTranscription)
	env.router.GET(TwilioTranscriptionPath, h.HandleTwilioMediaStream)
	env.router.GET("/api/balances", h.HandleListBalances)
	env.router.GET("/api/balances/resolve", h.HandleResolveCategory)
	return env
}

func (e *testEnv) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHandleAnswer(t *testing.T) {
	tests := []struct {
		name       string
		publicURL  string
		target     string
		headers    map[string]string
		wantStatus int
		wantURI    string
	}{
		{
			name:       "derives socket url from request host",
			target:     "/webhooks/answer?uuid=abc123&conversation_uuid=CON-1",
			wantStatus: http.StatusOK,
			wantURI:    "ws://example.com/transcription",
		},
		{
			name:       "tls terminated by proxy",
			target:     "/webhooks/answer?uuid=abc123",
			headers:    map[string]string{"X-Forwarded-Proto": "https"},
			wantStatus: http.StatusOK,
			wantURI:    "wss://example.com/transcription",
		},
		{
			name:       "configured public url wins",
			publicURL:  "wss://bridge.example.org",
			target:     "/webhooks/answer?uuid=abc123",
			wantStatus: http.StatusOK,
			wantURI:    "wss://bridge.example.org/transcription",
		},
		{
			name:       "missing uuid",
			target:     "/webhooks/answer",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(tt.publicURL)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := env.serve(req)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "MISSING_CALL_ID")
				return
			}

			assert.JSONEq(t, `[
				{"action":"talk","text":"`+voicecall.AnswerPrompt+`"},
				{"action":"connect","endpoint":[{
					"type":"websocket",
					"uri":"`+tt.wantURI+`",
					"content-type":"audio/l16;rate=8000",
					"headers":{"user":"abc123"}
				}]}
			]`, w.Body.String())
		})
	}
}

func TestHandleEvent(t *testing.T) {
	env := newTestEnv("")

	for _, body := range []string{
		`{"uuid":"abc123","status":"answered","direction":"inbound"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := env.serve(req)
		assert.Equal(t, http.StatusNoContent, w.Code, body)
	}
}

func TestHandleAnswerTwilio(t *testing.T) {
	env := newTestEnv("")

	form := url.Values{"CallSid": {"CA123"}, "From": {"+447700900000"}}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/answer/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := env.serve(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<Say")
	assert.Contains(t, w.Body.String(), "ws://example.com/transcription/twilio")
	assert.Contains(t, w.Body.String(), "CA123")

	req = httptest.NewRequest(http.MethodPost, "/webhooks/answer/twilio", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = env.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_CALL_ID")
}

func TestHandleTranscription_BindsThenAnswers(t *testing.T) {
	env := newTestEnv("")
	conn := env.dial(t, TranscriptionPath)
	stream, observer := env.recognizer.latest(t)

	// audio and transcripts before the control frame
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x00}))
	require.Eventually(t, func() bool { return stream.received() == 1 }, 2*time.Second, 5*time.Millisecond)
	observer.OnTranscript("groceries")
	assert.Empty(t, env.calls.all())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"websocket:connected","content-type":"audio/l16;rate=8000","user":"abc123"}`)))
	// a second chunk proves the control frame has been handled
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x02, 0x00}))
	require.Eventually(t, func() bool { return stream.received() == 2 }, 2*time.Second, 5*time.Millisecond)

	observer.OnTranscript("groceries")

	calls := env.calls.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "abc123", calls[0].callLegID)
	assert.Equal(t, voicecall.BalanceSpeech(budget()[1]), calls[0].speech)
}

func TestHandleTranscription_IgnoresBadControlFrames(t *testing.T) {
	env := newTestEnv("")
	conn := env.dial(t, TranscriptionPath)
	stream, observer := env.recognizer.latest(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"websocket:connected"}`)))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x00, 0x00}))
	require.Eventually(t, func() bool { return stream.received() == 1 }, 2*time.Second, 5*time.Millisecond)

	observer.OnTranscript("rent")
	assert.Empty(t, env.calls.all())
}

func TestHandleTranscription_CloseWithoutAudio(t *testing.T) {
	env := newTestEnv("")
	conn := env.dial(t, TranscriptionPath)
	stream, _ := env.recognizer.latest(t)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	require.Eventually(t, func() bool { return stream.closeCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, stream.received())
}

func TestHandleTranscription_StaysOpenAfterRecognizerEnds(t *testing.T) {
	env := newTestEnv("")
	conn := env.dial(t, TranscriptionPath)
	stream, observer := env.recognizer.latest(t)

	observer.OnError(errors.New("stream duration exceeded"))
	require.Equal(t, 1, stream.closeCount())

	// audio after the session closed is read and dropped, the socket stays up
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x00, 0x00}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"user":"abc123"}`)))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x00, 0x00}))
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Zero(t, stream.received())
	assert.Equal(t, 1, stream.closeCount())
}

func TestHandleTranscription_RecognizerUnavailable(t *testing.T) {
	env := newTestEnv("")
	env.recognizer.err = errors.New("no credentials")
	conn := env.dial(t, TranscriptionPath)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr), "got %v", err)
}

func TestHandleTwilioMediaStream(t *testing.T) {
	env := newTestEnv("")
	conn := env.dial(t, TwilioTranscriptionPath)
	stream, observer := env.recognizer.latest(t)

	payload := audio.BytesToBase64([]byte{0xFF, 0xFF})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"start","start":{"streamSid":"MZ1","callSid":"CA9","customParameters":{"user":"CA9"}}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"media","media":{"payload":"`+payload+`"}}`)))
	require.Eventually(t, func() bool { return stream.received() == 1 }, 2*time.Second, 5*time.Millisecond)

	observer.OnTranscript("rent")
	calls := env.calls.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "CA9", calls[0].callLegID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"stop"}`)))
	require.Eventually(t, func() bool { return stream.closeCount() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestHandleListBalances(t *testing.T) {
	env := newTestEnv("")

	w := env.serve(httptest.NewRequest(http.MethodGet, "/api/balances", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":[{"name":"Rent","balance":"650"},{"name":"Groceries","balance":"123.45"}]}`, w.Body.String())

	env.source.err = balances.ErrProviderUnavailable
	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/balances", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleResolveCategory(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		records    []balances.Record
		wantStatus int
		wantName   string
	}{
		{name: "fuzzy match", target: "/api/balances/resolve?q=grocries", records: budget(), wantStatus: http.StatusOK, wantName: "Groceries"},
		{name: "missing query", target: "/api/balances/resolve", records: budget(), wantStatus: http.StatusBadRequest},
		{name: "empty budget", target: "/api/balances/resolve?q=rent", records: []balances.Record{}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv("")
			env.source.records = tt.records

			w := env.serve(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantName != "" {
				assert.Contains(t, w.Body.String(), `"name":"`+tt.wantName+`"`)
				assert.Contains(t, w.Body.String(), `"distance":1`)
			}
		})
	}
}
