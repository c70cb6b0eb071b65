package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/studydeck/coursecart/internal/config"
)

// MarketplaceClient talks to the marketplace REST backend. It implements
// both PointsLedger and CoursePurchaser. Fetched balances are cached
// briefly so guard evaluation before checkout does not hit the wire on
// every attempt.
type MarketplaceClient struct {
	httpClient *http.Client
	baseURL    string
	token      string

	mu             sync.Mutex
	cachedBalance  int64
	balanceFetched time.Time
}

func NewMarketplaceClient(cfg *config.Config) *MarketplaceClient {
	return &MarketplaceClient{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		baseURL:    cfg.APIBaseURL,
		token:      cfg.APIToken,
	}
}

func (c *MarketplaceClient) Balance(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if time.Since(c.balanceFetched) < config.BalanceCacheTTL {
		balance := c.cachedBalance
		c.mu.Unlock()
		return balance, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/points/balance", nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch balance: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}

	c.mu.Lock()
	c.cachedBalance = result.Balance
	c.balanceFetched = time.Now()
	c.mu.Unlock()

	return result.Balance, nil
}

func (c *MarketplaceClient) HasEnough(ctx context.Context, cost int64) (bool, error) {
	balance, err := c.Balance(ctx)
	if err != nil {
		return false, err
	}
	return balance >= cost, nil
}

func (c *MarketplaceClient) PurchaseCoursesWithPoints(ctx context.Context, courseIDs []string, pointsCost int64, description string) (bool, error) {
	payload := map[string]any{
		"course_ids":  courseIDs,
		"points_cost": pointsCost,
		"description": description,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/points/purchases", bytes.NewReader(payloadJSON))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("unmarshal response: %w", err)
	}

	if result.Success {
		// The ledger balance changed server-side; drop the cached value.
		c.mu.Lock()
		c.balanceFetched = time.Time{}
		c.mu.Unlock()
	}

	return result.Success, nil
}

func (c *MarketplaceClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
