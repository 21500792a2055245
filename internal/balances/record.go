// Package balances holds the category balance records fetched from a budgeting
// provider and resolves a spoken category name against them.
package balances

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

var (
	ErrProviderUnavailable = errors.New("budgeting provider unavailable")
	ErrProviderAuth        = errors.New("budgeting provider rejected credentials")
	ErrEmptyCategoryList   = errors.New("no categories to match against")
)

// Minor-unit scales of the supported providers.
const (
	YNABMilliunitScale int64 = 1000
	MonzoPenceScale    int64 = 100
)

// Record is a single budget category and its available balance in major units.
type Record struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// Source fetches a fresh list of records on every call.
type Source interface {
	FetchBalances(ctx context.Context) ([]Record, error)
	Name() string
}

// FromMinorUnits converts an amount in minor units to major units exactly.
func FromMinorUnits(amount, scale int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(scale))
}

// StatusError classifies a non-2xx provider response.
func StatusError(statusCode int) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", statusCode, ErrProviderAuth)
	default:
		return fmt.Errorf("status %d: %w", statusCode, ErrProviderUnavailable)
	}
}
