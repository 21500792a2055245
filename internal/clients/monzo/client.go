package monzo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nexmo-community/dial-ynab/internal/balances"
	"github.com/nexmo-community/dial-ynab/internal/observability"
)

const defaultBaseURL = "https://api.monzo.com"

// PotsResponse represents the response from the Monzo pots endpoint
type PotsResponse struct {
	Pots []Pot `json:"pots"`
}

// Pot is a Monzo savings pot, balance is in pence
type Pot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
	Deleted  bool   `json:"deleted"`
}

// Client fetches pot balances, each pot standing in for a budget category
type Client struct {
	accessToken string
	accountID   string
	baseURL     string
	httpClient  *http.Client
	logger      *observability.Logger
}

// NewClient creates a new Monzo client. accountID may be empty.
func NewClient(accessToken, accountID string, logger *observability.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		accountID:   accountID,
		baseURL:     defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Name() string {
	return "monzo"
}

func (c *Client) FetchBalances(ctx context.Context) ([]balances.Record, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "balance_provider", Value: c.Name()})

	endpoint := c.baseURL + "/pots"
	if c.accountID != "" {
		endpoint += "?" + url.Values{"current_account_id": {c.accountID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error(ctx, "failed to create monzo request", err)
		return nil, fmt.Errorf("failed to create monzo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call monzo API", err)
		return nil, fmt.Errorf("failed to call monzo: %v: %w", err, balances.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := balances.StatusError(resp.StatusCode)
		c.logger.Error(ctx, "monzo returned an error status", err)
		return nil, fmt.Errorf("monzo pots: %w", err)
	}

	var body PotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error(ctx, "failed to parse monzo response", err)
		return nil, fmt.Errorf("failed to parse monzo response: %v: %w", err, balances.ErrProviderUnavailable)
	}

	records := make([]balances.Record, 0, len(body.Pots))
	for _, pot := range body.Pots {
		records = append(records, balances.Record{
			Name:    pot.Name,
			Balance: balances.FromMinorUnits(pot.Balance, balances.MonzoPenceScale),
		})
	}
	return records, nil
}
