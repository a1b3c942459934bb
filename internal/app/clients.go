package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/pathprep/pathprep-backend/internal/clients/groq"
	"github.com/pathprep/pathprep-backend/internal/clients/redis"
	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/pkg/resilience"
)

type Clients struct {
	Cache redis.Cache
	Model groq.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without REDIS_ADDR the services run cache-less.
	var cache redis.Cache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	}

	breaker := resilience.NewBreaker(resilience.BreakerConfig{})
	model, err := groq.NewClient(log, breaker)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return Clients{}, fmt.Errorf("init groq client: %w", err)
	}

	return Clients{
		Cache: cache,
		Model: model,
	}, nil
}
