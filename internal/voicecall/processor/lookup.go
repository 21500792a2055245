package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexmo-community/dial-ynab/internal/balances"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
	"github.com/nexmo-community/dial-ynab/internal/workers"
)

// Resolution is the category a transcript resolved to.
type Resolution struct {
	Query    string          `json:"query"`
	Record   balances.Record `json:"record"`
	Index    int             `json:"index"`
	Distance int             `json:"distance"`
}

func (v *VoiceCallProcessor) Name() string {
	return "balance_lookup"
}

// Process answers a queued lookup job.
func (v *VoiceCallProcessor) Process(ctx context.Context, job workers.LookupJob) error {
	return v.AnswerBalanceQuery(ctx, job.CallLegID, job.Transcript)
}

// AnswerBalanceQuery fetches balances, resolves the spoken category and speaks its
// balance into callLegID. Provider failures are apologised for rather than retried.
func (v *VoiceCallProcessor) AnswerBalanceQuery(ctx context.Context, callLegID, transcript string) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_leg_id", Value: callLegID},
		observability.Field{Key: "balance_provider", Value: v.balances.Name()},
	)

	records, err := v.balances.FetchBalances(ctx)
	if err != nil {
		v.logger.Error(ctx, "Failed to fetch balances", err)
		if speakErr := v.speak(ctx, callLegID, voicecall.BalancesUnavailableSpeech); speakErr != nil {
			return errors.Join(err, speakErr)
		}
		return err
	}

	record, index, err := balances.Resolve(transcript, records)
	if errors.Is(err, balances.ErrEmptyCategoryList) {
		v.logger.Warn(ctx, "Budget has no categories")
		return v.speak(ctx, callLegID, voicecall.NoCategoriesSpeech)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve category: %w", err)
	}

	v.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "category", Value: record.Name},
		observability.Field{Key: "category_index", Value: index},
	), "Resolved category")

	return v.speak(ctx, callLegID, voicecall.BalanceSpeech(record))
}

func (v *VoiceCallProcessor) speak(ctx context.Context, callLegID string, speech voicecall.Speech) error {
	err := v.calls.Speak(ctx, callLegID, speech)
	if errors.Is(err, voicecall.ErrCallNotActive) {
		v.logger.Warn(ctx, "Call ended before the answer could be spoken")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to speak into call: %w", err)
	}
	return nil
}

// ListBalances returns the provider's current records.
func (v *VoiceCallProcessor) ListBalances(ctx context.Context) ([]balances.Record, error) {
	records, err := v.balances.FetchBalances(ctx)
	if err != nil {
		v.logger.Error(ctx, "Failed to fetch balances", err)
		return nil, err
	}
	return records, nil
}

// ResolveCategory resolves query against the provider's current records without
// speaking into any call.
func (v *VoiceCallProcessor) ResolveCategory(ctx context.Context, query string) (Resolution, error) {
	records, err := v.ListBalances(ctx)
	if err != nil {
		return Resolution{}, err
	}

	record, index, err := balances.Resolve(query, records)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Query:    query,
		Record:   record,
		Index:    index,
		Distance: balances.Distance(query, record.Name),
	}, nil
}
