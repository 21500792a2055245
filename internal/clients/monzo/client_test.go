package monzo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexmo-community/dial-ynab/internal/balances"
	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBalances(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		wantQuery string
	}{
		{name: "without account", wantQuery: ""},
		{name: "with account", accountID: "acc_00009", wantQuery: "current_account_id=acc_00009"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/pots", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				assert.Equal(t, "Bearer monzo-token", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(`{"pots":[{"id":"pot_1","name":"Holiday","balance":250,"currency":"GBP"},{"id":"pot_2","name":"Rainy Day","balance":100000}]}`))
			}))
			defer server.Close()

			client := NewClient("monzo-token", tt.accountID, observability.NewLogger())
			client.baseURL = server.URL

			records, err := client.FetchBalances(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "Holiday", records[0].Name)
			assert.True(t, decimal.RequireFromString("2.5").Equal(records[0].Balance))
			assert.Equal(t, "Rainy Day", records[1].Name)
			assert.True(t, decimal.NewFromInt(1000).Equal(records[1].Balance))
		})
	}
}

func TestFetchBalances_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("expired", "", observability.NewLogger())
	client.baseURL = server.URL

	_, err := client.FetchBalances(context.Background())
	assert.True(t, errors.Is(err, balances.ErrProviderAuth), "got %v", err)
}
