package bootstrap

import (
	"context"
	"fmt"

	"github.com/nexmo-community/dial-ynab/internal/clients/monzo"
	"github.com/nexmo-community/dial-ynab/internal/clients/speech"
	"github.com/nexmo-community/dial-ynab/internal/clients/twilio"
	"github.com/nexmo-community/dial-ynab/internal/clients/vonage"
	"github.com/nexmo-community/dial-ynab/internal/clients/ynab"
	"github.com/nexmo-community/dial-ynab/internal/config"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	voiceCallHandler "github.com/nexmo-community/dial-ynab/internal/voicecall/handler"
	voiceCallProcessor "github.com/nexmo-community/dial-ynab/internal/voicecall/processor"
	"github.com/nexmo-community/dial-ynab/internal/workers"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Logger *observability.Logger

	// Handlers
	VoiceCallHandler voiceCallHandler.Handler

	// Background workers
	LookupPool workers.WorkerPool

	// Clients (for cleanup)
	Recognizer *speech.Recognizer
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize clients
	balanceSource, err := newBalanceSource(cfg.Balances, logger)
	if err != nil {
		return nil, err
	}

	callController, err := newCallController(cfg.Telephony, logger)
	if err != nil {
		return nil, err
	}

	deps.Recognizer, err = speech.NewRecognizer(ctx, cfg.Speech, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech recognizer: %w", err)
	}

	// Initialize voice call processor and the lookup worker pool it runs on
	voiceCallProc := voiceCallProcessor.NewVoiceCallProcessor(balanceSource, callController, logger)
	deps.LookupPool = workers.NewWorkerPool(workers.WorkerPoolConfig{
		NumWorkers: cfg.Lookup.Workers,
		QueueSize:  cfg.Lookup.QueueSize,
		JobTimeout: cfg.Lookup.Timeout,
	}, voiceCallProc, logger)
	dispatcher := workers.NewDispatcher(deps.LookupPool, logger)

	deps.VoiceCallHandler = voiceCallHandler.New(
		voiceCallProc,
		deps.Recognizer,
		dispatcher,
		cfg.Server.PublicWebSocketBaseURL,
		logger,
	)

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "telephony_provider", Value: cfg.Telephony.Provider},
		observability.Field{Key: "balance_provider", Value: balanceSource.Name()},
	)
	logger.Info(ctx, "Dependencies initialized")

	return deps, nil
}

func newBalanceSource(cfg config.BalancesConfig, logger *observability.Logger) (voiceCallProcessor.BalanceSource, error) {
	switch cfg.Provider {
	case config.BalanceYNAB:
		return ynab.NewClient(cfg.YNABAccessToken, cfg.YNABBudgetID, logger), nil
	case config.BalanceMonzo:
		return monzo.NewClient(cfg.MonzoAccessToken, cfg.MonzoAccountID, logger), nil
	default:
		return nil, fmt.Errorf("balance provider %q: %w", cfg.Provider, config.ErrUnknownProvider)
	}
}

func newCallController(cfg config.TelephonyConfig, logger *observability.Logger) (voiceCallProcessor.CallController, error) {
	switch cfg.Provider {
	case config.TelephonyVonage:
		client, err := vonage.NewClient(cfg.VonageApplicationID, cfg.VonagePrivateKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create vonage client: %w", err)
		}
		return client, nil
	case config.TelephonyTwilio:
		return twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, logger), nil
	default:
		return nil, fmt.Errorf("telephony provider %q: %w", cfg.Provider, config.ErrUnknownProvider)
	}
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.Recognizer != nil {
		if err := d.Recognizer.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close speech client", err)
		}
	}
}
