package processor

import (
	"github.com/nexmo-community/dial-ynab/internal/observability"
)

type VoiceCallProcessor struct {
	balances BalanceSource
	calls    CallController
	logger   *observability.Logger
}

func NewVoiceCallProcessor(balances BalanceSource, calls CallController, logger *observability.Logger) *VoiceCallProcessor {
	return &VoiceCallProcessor{
		balances: balances,
		calls:    calls,
		logger:   logger,
	}
}
