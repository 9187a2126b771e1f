package redis

import (
	// Go Internal Packages
	"context"
	"fmt"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeadLetterStore keeps the raw payloads of notifications that failed with
// internal errors, keyed as "ipn:{external id}", so they can be replayed
// once the underlying fault is fixed. Writes are best-effort: a store
// failure is logged, never propagated into the gateway reply.
type DeadLetterStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewDeadLetterStore(client *redis.Client, logger *zap.Logger) *DeadLetterStore {
	return &DeadLetterStore{client: client, logger: logger}
}

// Store saves one failed notification payload. A nil receiver is a no-op so
// the engine can run without Redis in tests and local setups.
func (s *DeadLetterStore) Store(ctx context.Context, externalID string, payload []byte) {
	if s == nil {
		return
	}
	if externalID == "" {
		externalID = "unknown"
	}

	key := fmt.Sprintf("ipn:%s", externalID)
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		s.logger.Error("failed to store dead letter", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Info("stored dead letter", zap.String("key", key))
}
