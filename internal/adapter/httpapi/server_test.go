package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/cart-state-service/internal/adapter/cache"
	"github.com/example/cart-state-service/internal/domain"
	"github.com/example/cart-state-service/internal/usecase"
)

func newTestServer() *Server {
	machine := usecase.NewCartStateMachine("test-area", usecase.Ports{Repo: cache.NewMemoryCartStore()}, nil)
	return NewServer(machine)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) snapshotDTO {
	t.Helper()
	var dto snapshotDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return dto
}

func TestGetEmptyCart(t *testing.T) {
	s := newTestServer()
	w := do(t, s, http.MethodGet, "/api/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/cart = %d, want %d", w.Code, http.StatusOK)
	}
	dto := decodeSnapshot(t, w)
	if len(dto.Items) != 0 {
		t.Errorf("items = %v, want empty", dto.Items)
	}
	if dto.CloseCartScreenHint {
		t.Error("fresh cart must not carry the close hint")
	}
}

func TestAddThenGet(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/cart/items",
		`{"product":{"product_id":"p1","in_stock_count":5},"source":"banner"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	dto := decodeSnapshot(t, w)
	if len(dto.Items) != 1 || dto.Items[0].Count != 1 {
		t.Fatalf("snapshot after add = %+v", dto.Items)
	}

	w = do(t, s, http.MethodGet, "/api/cart", "")
	dto = decodeSnapshot(t, w)
	if len(dto.Items) != 1 || dto.Items[0].Source != "banner" {
		t.Errorf("GET after add = %+v", dto.Items)
	}
}

func TestDecreaseEndpoint(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/api/cart/items", `{"product":{"product_id":"p1","in_stock_count":5}}`)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "decrease existing",
			path:     "/api/cart/items/p1/decrease",
			body:     `{"product":{"product_id":"p1","in_stock_count":5}}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "path and body mismatch",
			path:     "/api/cart/items/p2/decrease",
			body:     `{"product":{"product_id":"p1","in_stock_count":5}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "decrease absent product",
			path:     "/api/cart/items/ghost/decrease",
			body:     `{"product":{"product_id":"ghost","in_stock_count":5}}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "invalid json",
			path:     "/api/cart/items/p1/decrease",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestClearEndpoint(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/api/cart/items", `{"product":{"product_id":"p1","in_stock_count":5}}`)

	w := do(t, s, http.MethodPost, "/api/cart/clear", `{"close_cart_screen_hint":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("clear = %d: %s", w.Code, w.Body.String())
	}
	dto := decodeSnapshot(t, w)
	if len(dto.Items) != 0 {
		t.Errorf("items after clear = %+v", dto.Items)
	}
	if !dto.CloseCartScreenHint {
		t.Error("clear must propagate the caller's hint")
	}
}

func TestAdjustEndpoint(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/api/cart/items", `{"product":{"product_id":"p1","in_stock_count":10}}`)

	w := do(t, s, http.MethodPost, "/api/cart/adjust",
		`{"missing_items":[{"product_id":"p1","available_quantity":4},{"product_id":"ghost","available_quantity":2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("adjust = %d: %s", w.Code, w.Body.String())
	}
	dto := decodeSnapshot(t, w)
	if len(dto.Items) != 1 || dto.Items[0].Count != 4 {
		t.Errorf("snapshot after adjust = %+v", dto.Items)
	}
}

func TestRestoreEndpoint(t *testing.T) {
	store := cache.NewMemoryCartStore()
	machine := usecase.NewCartStateMachine("test-area", usecase.Ports{Repo: store}, nil)
	s := NewServer(machine)

	// empty snapshot: restore is a no-op
	w := do(t, s, http.MethodPost, "/api/cart/restore", "")
	if w.Code != http.StatusOK {
		t.Fatalf("restore = %d: %s", w.Code, w.Body.String())
	}

	seed := []domain.CartLineItem{{
		ProductID: "p1",
		Product:   domain.Product{ProductID: "p1", InStockCount: 10},
		Count:     2,
	}}
	if err := store.Save(context.Background(), "test-area", seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	w = do(t, s, http.MethodPost, "/api/cart/restore", "")
	dto := decodeSnapshot(t, w)
	if len(dto.Items) != 1 || dto.Items[0].Count != 2 {
		t.Errorf("snapshot after restore = %+v", dto.Items)
	}
}
