package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/cart-state-service/internal/domain"
)

// PromoCodeClient cancels any applied promo code when the cart is cleared.
type PromoCodeClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewPromoCodeClient(baseURL string) *PromoCodeClient {
	return &PromoCodeClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

func (c *PromoCodeClient) Cancel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/promocode/cancel", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("promo cancel: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ domain.PromoCode = (*PromoCodeClient)(nil)
