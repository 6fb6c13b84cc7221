package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	cartredis "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/redis"
)

// Drops baskets that have not been touched within the retention window.
// Runs once by default; set CART_PURGE_INTERVAL_MINUTES to keep it running
// on that cadence next to the API.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		log.Fatal("REDIS_ADDR not set; cannot purge carts")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	client, err := cartredis.Connect(connectCtx, addr)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer client.Close()

	repo := cartredis.NewRepository(client)
	ttl := cartTTLFromEnv()
	purgeOnce(repo, logger, ttl)

	interval := purgeIntervalFromEnv()
	if interval <= 0 {
		return
	}
	logger.Info("cart purger running on an interval", slog.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("cart purger stopping")
			return
		case <-ticker.C:
			purgeOnce(repo, logger, ttl)
		}
	}
}

func purgeOnce(repo *cartredis.Repository, logger *slog.Logger, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cutoff := time.Now().UTC().Add(-ttl)
	purged, err := repo.PurgeStale(ctx, cutoff)
	if err != nil {
		logger.Error("cart purge failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("cart purge completed", slog.Int("purged", purged))
}

func cartTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CART_TTL_HOURS"))
	if raw == "" {
		return 72 * time.Hour
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// purgeIntervalFromEnv returns zero when the purger should run once and exit.
func purgeIntervalFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CART_PURGE_INTERVAL_MINUTES"))
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
