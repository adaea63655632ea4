package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/cart-state-service/internal/domain"
)

// StockCheckClient queries the remote stock service. The client timeout bounds
// the call so a hung service cannot stall the command loop; a timeout is just
// another failure for the restore path to swallow.
type StockCheckClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewStockCheckClient(baseURL string, timeout time.Duration) *StockCheckClient {
	return &StockCheckClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *StockCheckClient) CheckStocks(ctx context.Context, reqs []domain.StockRequest) ([]domain.StockCorrection, error) {
	body, err := json.Marshal(struct {
		Items []domain.StockRequest `json:"items"`
	}{Items: reqs})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/stocks/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock check: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Results []domain.StockCorrection `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("stock check: decode response: %w", err)
	}
	return out.Results, nil
}

var _ domain.StockChecker = (*StockCheckClient)(nil)
