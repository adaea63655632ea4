package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/cart-state-service/internal/adapter/cache"
	"github.com/example/cart-state-service/internal/adapter/httpapi"
	"github.com/example/cart-state-service/internal/adapter/httpclient"
	"github.com/example/cart-state-service/internal/adapter/kafka"
	"github.com/example/cart-state-service/internal/adapter/natsstan"
	"github.com/example/cart-state-service/internal/adapter/repo"
	"github.com/example/cart-state-service/internal/domain"
	"github.com/example/cart-state-service/internal/usecase"
	"github.com/example/cart-state-service/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cartRepo, closeRepo, err := buildRepository(ctx)
	if err != nil {
		log.Fatalf("repository: %v", err)
	}
	defer closeRepo()

	ports := usecase.Ports{Repo: cartRepo}

	if u := os.Getenv("STOCKCHECK_URL"); u != "" {
		timeout := getDuration("STOCKCHECK_TIMEOUT", 5*time.Second)
		ports.Stocks = httpclient.NewStockCheckClient(u, timeout)
	}
	if u := os.Getenv("CHECKOUT_URL"); u != "" {
		ports.Checkout = httpclient.NewCheckoutInfoClient(u)
	}
	if u := os.Getenv("PROMO_URL"); u != "" {
		ports.Promo = httpclient.NewPromoCodeClient(u)
	}

	clusterID := getEnv("STAN_CLUSTER_ID", "cart-cluster")
	natsURL := getEnv("NATS_URL", "nats://localhost:4223")

	if os.Getenv("ANALYTICS_DISABLED") == "" {
		pub, err := natsstan.NewEventPublisher(clusterID,
			getEnv("STAN_PUB_ID", fmt.Sprintf("cart-analytics-%d", time.Now().UnixNano())),
			natsURL, getEnv("STAN_EVENTS_SUBJECT", "cart-events"))
		if err != nil {
			log.Printf("analytics publisher unavailable: %v", err)
		} else {
			defer pub.Close()
			ports.Analytics = pub
		}
	}

	marketing := kafka.NewMarketingPublisher(os.Getenv("KAFKA_BROKERS"), getEnv("KAFKA_TOPIC", "cart-marketing"))
	if marketing.Enabled() {
		defer marketing.Close()
		ports.Marketing = marketing
	}

	machine := usecase.NewCartStateMachine(getEnv("AREA_KEY", "default-area"), ports, metrics.NewCartMetrics("server"))

	// Rebuild the cart from the persisted snapshot before taking commands.
	if _, err := machine.Dispatch(ctx, domain.RestoreFromCache{}); err != nil {
		log.Printf("startup restore: %v", err)
	}

	watcher := &usecase.LocationWatcher{Machine: machine}
	locSub := &natsstan.LocationSubscriber{
		ClusterID: clusterID,
		ClientID:  os.Getenv("STAN_CLIENT_ID"),
		URL:       natsURL,
		Subject:   getEnv("STAN_LOCATION_SUBJECT", "location-events"),
		Durable:   getEnv("STAN_DURABLE", "cart-location-durable"),
	}
	if stop, err := watcher.Watch(ctx, locSub); err != nil {
		log.Printf("location subscribe: %v", err)
	} else {
		defer stop()
	}

	api := httpapi.NewServer(machine)
	api.Router.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: ":" + getEnv("PORT", "8080"), Handler: api.Router}
	go func() {
		log.Printf("http listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}

// buildRepository picks the snapshot store: Redis when REDIS_ADDR is set,
// Postgres when DATABASE_URL is set, otherwise in-memory.
func buildRepository(ctx context.Context) (domain.CartRepository, func(), error) {
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		store := cache.NewRedisCartStore(redisAddr)
		if err := store.Initialize(ctx); err != nil {
			return nil, nil, err
		}
		log.Printf("using redis cart store at %s", redisAddr)
		return store, func() { _ = store.Close() }, nil
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Printf("using postgres cart store")
		return repo.NewPostgresCartRepo(pool), pool.Close, nil
	}
	log.Printf("no REDIS_ADDR or DATABASE_URL set, using in-memory cart store")
	return cache.NewMemoryCartStore(), func() {}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, def)
		return def
	}
	return d
}
