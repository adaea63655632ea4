package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCartRepo stores one cart snapshot per delivery area as a jsonb
// array, preserving line-item insertion order.
type PostgresCartRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresCartRepo(pool *pgxpool.Pool) *PostgresCartRepo {
	return &PostgresCartRepo{Pool: pool}
}

func (r *PostgresCartRepo) Save(ctx context.Context, areaKey string, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO carts(area_key, payload) VALUES($1, $2)
        ON CONFLICT (area_key) DO UPDATE SET payload = EXCLUDED.payload`, areaKey, payload)
	return err
}

func (r *PostgresCartRepo) Load(ctx context.Context, areaKey string) ([]domain.CartLineItem, error) {
	var payload []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM carts WHERE area_key = $1`, areaKey).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

var _ domain.CartRepository = (*PostgresCartRepo)(nil)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS carts (
  area_key text PRIMARY KEY,
  payload jsonb NOT NULL
);`)
	return err
}
