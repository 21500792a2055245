package ynab

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

const defaultBaseURL = "https://api.ynab.com/v1"

// CategoriesResponse represents the response from the YNAB categories endpoint
type CategoriesResponse struct {
	Data struct {
		CategoryGroups  []CategoryGroup `json:"category_groups"`
		ServerKnowledge int64           `json:"server_knowledge"`
	} `json:"data"`
}

// CategoryGroup is a named group of categories in a budget
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Deleted    bool       `json:"deleted"`
	Categories []Category `json:"categories"`
}

// Category is a single YNAB category, amounts are in milliunits
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Budgeted int64  `json:"budgeted"`
	Activity int64  `json:"activity"`
	Hidden   bool   `json:"hidden"`
	Deleted  bool   `json:"deleted"`
}

// Client fetches category balances for a single budget
type Client struct {
	accessToken string
	budgetID    string
	baseURL     string
	httpClient  *http.Client
	logger      *observability.Logger
}

// NewClient creates a new YNAB client
func NewClient(accessToken, budgetID string, logger *observability.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		budgetID:    budgetID,
		baseURL:     defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Name() string {
	return "ynab"
}

// FetchBalances returns every category across all category groups, in budget order.
func (c *Client) FetchBalances(ctx context.Context) ([]balances.Record, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "balance_provider", Value: c.Name()},
		observability.Field{Key: "budget_id", Value: c.budgetID},
	)

	endpoint := fmt.Sprintf("%s/budgets/%s/categories", c.baseURL, url.PathEscape(c.budgetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error(ctx, "failed to create ynab request", err)
		return nil, fmt.Errorf("failed to create ynab request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call ynab API", err)
		return nil, fmt.Errorf("failed to call ynab: %v: %w", err, balances.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := balances.StatusError(resp.StatusCode)
		c.logger.Error(ctx, "ynab returned an error status", err)
		return nil, fmt.Errorf("ynab categories: %w", err)
	}

	var body CategoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error(ctx, "failed to parse ynab response", err)
		return nil, fmt.Errorf("failed to parse ynab response: %v: %w", err, balances.ErrProviderUnavailable)
	}

	return flatten(body.Data.CategoryGroups), nil
}

func flatten(groups []CategoryGroup) []balances.Record {
	var records []balances.Record
	for _, group := range groups {
		for _, category := range group.Categories {
			records = append(records, balances.Record{
				Name:    category.Name,
				Balance: balances.FromMinorUnits(category.Balance, balances.YNABMilliunitScale),
			})
		}
	}
	return records
}
