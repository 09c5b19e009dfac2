package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"commerce-console/internal/model"

	"github.com/redis/go-redis/v9"
)

const resumeKeyPrefix = "checkout:resume:"

// ContinuationRepository holds the card hand-off tokens minted at order
// submission. Tokens expire on their own; there is no provider-side void for
// an abandoned intent, so expiry is the only cleanup.
type ContinuationRepository interface {
	Put(ctx context.Context, cont *model.Continuation, ttl time.Duration) error

	// Get returns nil without error when the token is unknown or expired.
	Get(ctx context.Context, token string) (*model.Continuation, error)
}

type continuationRepoImpl struct {
	client *redis.Client
}

func NewContinuationRepository(client *redis.Client) ContinuationRepository {
	return &continuationRepoImpl{client: client}
}

func (r *continuationRepoImpl) Put(ctx context.Context, cont *model.Continuation, ttl time.Duration) error {
	raw, err := json.Marshal(cont)
	if err != nil {
		return fmt.Errorf("encode continuation: %w", err)
	}
	return r.client.Set(ctx, resumeKeyPrefix+cont.Token, raw, ttl).Err()
}

func (r *continuationRepoImpl) Get(ctx context.Context, token string) (*model.Continuation, error) {
	val, err := r.client.Get(ctx, resumeKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read continuation: %w", err)
	}

	var cont model.Continuation
	if err := json.Unmarshal([]byte(val), &cont); err != nil {
		return nil, fmt.Errorf("decode continuation: %w", err)
	}
	return &cont, nil
}
