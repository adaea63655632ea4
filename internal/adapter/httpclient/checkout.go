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

// CheckoutInfoClient pushes the current item list to the checkout-info
// aggregator after every transition.
type CheckoutInfoClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewCheckoutInfoClient(baseURL string) *CheckoutInfoClient {
	return &CheckoutInfoClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

func (c *CheckoutInfoClient) Update(ctx context.Context, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	body, err := json.Marshal(struct {
		Items []domain.CartLineItem `json:"items"`
	}{Items: items})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/v1/checkout-info/cart", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("checkout info: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ domain.CheckoutInfo = (*CheckoutInfoClient)(nil)
