package main

import (
	"context"
	"testing"
	"time"

	"github.com/example/cart-state-service/internal/adapter/cache"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CART_TEST_KEY", "value")
	if got := getEnv("CART_TEST_KEY", "def"); got != "value" {
		t.Errorf("getEnv() = %q, want %q", got, "value")
	}
	if got := getEnv("CART_TEST_MISSING", "def"); got != "def" {
		t.Errorf("getEnv() = %q, want default", got)
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 5 * time.Second},
		{"valid", "250ms", 250 * time.Millisecond},
		{"garbage falls back", "not-a-duration", 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CART_TEST_TIMEOUT", tt.value)
			if got := getDuration("CART_TEST_TIMEOUT", 5*time.Second); got != tt.want {
				t.Errorf("getDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildRepositoryDefaultsToMemory(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_URL", "")

	repo, closeRepo, err := buildRepository(context.Background())
	if err != nil {
		t.Fatalf("buildRepository() error = %v", err)
	}
	defer closeRepo()

	if _, ok := repo.(*cache.MemoryCartStore); !ok {
		t.Errorf("buildRepository() = %T, want *cache.MemoryCartStore", repo)
	}
}
