// Command callsim plays a WAV file into a running server's transcription socket,
// standing in for the telephony platform during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/nexmo-community/dial-ynab/internal/observability"
)

func main() {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			log.Printf("Warning: env.local file not found: %v", err)
		}
	}

	defaultURL := os.Getenv("CALLSIM_URL")
	if defaultURL == "" {
		defaultURL = "ws://localhost:8080/transcription"
	}

	var (
		url      = flag.String("url", defaultURL, "transcription socket URL")
		file     = flag.String("file", "", "WAV file to play (required)")
		callID   = flag.String("call", uuid.NewString(), "call leg id sent in the control frame")
		asTwilio = flag.Bool("twilio", false, "speak the Twilio media stream protocol instead of Vonage")
		realtime = flag.Bool("realtime", true, "pace frames at 20ms")
		linger   = flag.Duration("linger", 5*time.Second, "how long to keep the socket open after the audio")
	)
	flag.Parse()

	logger := observability.NewLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_leg_id", Value: *callID},
		observability.Field{Key: "url", Value: *url},
	)

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(ctx, *url, *file, *callID, *asTwilio, *realtime, *linger, logger); err != nil {
		logger.Fatal(ctx, "call simulation failed", err)
	}
	logger.Info(ctx, "Call simulation finished")
}

func run(ctx context.Context, url, file, callID string, asTwilio, realtime bool, linger time.Duration, logger *observability.Logger) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	pcm, err := loadPCM(f)
	if err != nil {
		return err
	}
	chunks := frames(pcm, frameBytes)
	logger.Info(ctx, fmt.Sprintf("Loaded %d frames", len(chunks)))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", url, err)
	}
	defer conn.Close()

	var pace pacer
	if realtime {
		pace = tickEvery(20 * time.Millisecond)
	}

	stream := streamVonage
	if asTwilio {
		stream = streamTwilio
	}
	if err := stream(ctx, conn, callID, chunks, pace); err != nil {
		return err
	}

	// Leave room for the final transcript before hanging up.
	select {
	case <-ctx.Done():
	case <-time.After(linger):
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		logger.Warn(ctx, fmt.Sprintf("Failed to send close frame: %v", err))
	}
	return nil
}
