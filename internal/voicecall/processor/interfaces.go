package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"context"

	"github.com/nexmo-community/dial-ynab/internal/balances"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
)

// BalanceSource defines the budgeting provider operations required by VoiceCallProcessor
type BalanceSource interface {
	FetchBalances(ctx context.Context) ([]balances.Record, error)
	Name() string
}

// CallController defines the call-control operations required by VoiceCallProcessor
type CallController interface {
	Speak(ctx context.Context, callLegID string, speech voicecall.Speech) error
}
