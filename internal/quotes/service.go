package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const (
	cacheKey = "focusboard:quote_of_the_day"
	cacheTTL = time.Hour
)

// ErrUnavailable signals that the provider is down or the breaker is open.
var ErrUnavailable = errors.New("quote service unavailable")

// Fetcher is the provider interface the service wraps.
type Fetcher interface {
	Fetch(ctx context.Context) (*Quote, error)
}

// Service serves quotes through a circuit breaker, consulting the cache
// first when one is configured.
type Service struct {
	fetcher Fetcher
	breaker *gobreaker.CircuitBreaker[*Quote]
	cache   *redis.Client
	logger  *slog.Logger
}

// NewService wires the fetcher behind a breaker. cache may be nil.
func NewService(fetcher Fetcher, cache *redis.Client, logger *slog.Logger) *Service {
	settings := gobreaker.Settings{
		Name:        "quote-provider",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Service{
		fetcher: fetcher,
		breaker: gobreaker.NewCircuitBreaker[*Quote](settings),
		cache:   cache,
		logger:  logger,
	}
}

// Get returns a quote, preferring the cache. Provider failures and an open
// breaker both surface as ErrUnavailable.
func (s *Service) Get(ctx context.Context) (*Quote, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	quote, err := s.breaker.Execute(func() (*Quote, error) {
		return s.fetcher.Fetch(ctx)
	})
	if err != nil {
		s.logger.Warn("quote fetch failed", "error", err.Error())
		return nil, ErrUnavailable
	}

	s.toCache(ctx, quote)
	return quote, nil
}

func (s *Service) fromCache(ctx context.Context) *Quote {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("quote cache read failed", "error", err.Error())
		}
		return nil
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil
	}
	return &q
}

func (s *Service) toCache(ctx context.Context, q *Quote) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("quote cache write failed", "error", err.Error())
	}
}
