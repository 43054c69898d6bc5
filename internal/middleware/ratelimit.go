package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Consecutive Redis failures after which the limiter stops calling Redis
// until the breaker half-opens again.
const rateLimitBreakerTrips = 3

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
	BreakerTimeout    time.Duration // How long Redis is skipped after repeated failures
}

// RateLimitMiddleware implements a fixed-window limiter backed by Redis.
// Requests are keyed by authenticated user when present, otherwise by client IP.
// Redis failures let the request through, and repeated failures open a circuit
// breaker so an unavailable Redis is not hit on every request.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	breakerTimeout := config.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:        config.KeyPrefix,
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= rateLimitBreakerTrips
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Rate limit store circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s", config.KeyPrefix, rateLimitClientID(r))
			ctx := r.Context()

			count, err := breaker.Execute(func() (int64, error) {
				return incrementWindow(ctx, redisClient, key, config.Window)
			})
			if err != nil {
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					logger.Debug("Rate limit store circuit open, skipping limit", zap.String("key", key))
				} else {
					logger.Error("Failed to increment rate limit counter",
						zap.Error(err),
						zap.String("key", key),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))

			if count > int64(config.RequestsPerWindow) {
				ttl, err := redisClient.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = config.Window
				}

				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))

				RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			remaining := config.RequestsPerWindow - int(count)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// incrementWindow bumps the counter for key, opening the window on the first hit
func incrementWindow(ctx context.Context, redisClient *redis.Client, key string, window time.Duration) (int64, error) {
	count, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}

	return count, nil
}

func rateLimitClientID(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok && userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
