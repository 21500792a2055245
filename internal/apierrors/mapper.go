package apierrors

import (
	"errors"

	"github.com/nexmo-community/dial-ynab/internal/balances"
)

// MapError converts domain errors to APIErrors.
//
// If the error is already an APIError, it returns it as-is.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Balance provider errors
	case errors.Is(err, balances.ErrEmptyCategoryList):
		return NotFound(CodeNoCategories, "The budget has no categories")

	case errors.Is(err, balances.ErrProviderAuth):
		return BadGateway(CodeBalanceProviderAuth, "The balance provider rejected our credentials", err)

	case errors.Is(err, balances.ErrProviderUnavailable):
		return ServiceUnavailable(CodeBalanceProviderError,
			"Balance provider is temporarily unavailable. Please try again later.", err)

	default:
		return InternalError(err)
	}
}
