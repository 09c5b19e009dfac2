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

const (
	attemptKeyPrefix = "payment:attempt:"
	attemptTTL       = 1 * time.Hour

	// Placeholder stored between claiming an attempt and recording its intent.
	attemptPendingMarker = "pending"
)

// ErrAttemptInFlight means another initialization of the same attempt claimed
// the latch but has not recorded its intent yet. The caller should re-ask.
var ErrAttemptInFlight = errors.New("payment attempt already initializing")

// AttemptRepository is the one-shot latch for payment-intent creation: for a
// given (order, attempt) pair the intent-create call fires at most once, no
// matter how many times view initialization runs.
type AttemptRepository interface {
	// Claim takes the latch. claimed=true means this caller must create the
	// intent; otherwise the previously created intent is returned.
	Claim(ctx context.Context, orderID, attemptID string) (claimed bool, intent *model.PaymentIntent, err error)

	// StoreIntent records the created intent so duplicate initializations
	// receive it instead of creating another.
	StoreIntent(ctx context.Context, orderID, attemptID string, intent *model.PaymentIntent) error

	// Release frees the latch after a failed intent-create, so a deliberate
	// user retry of the same attempt is possible.
	Release(ctx context.Context, orderID, attemptID string) error
}

type attemptRepoImpl struct {
	client *redis.Client
}

func NewAttemptRepository(client *redis.Client) AttemptRepository {
	return &attemptRepoImpl{client: client}
}

func attemptKey(orderID, attemptID string) string {
	return attemptKeyPrefix + orderID + ":" + attemptID
}

func (r *attemptRepoImpl) Claim(ctx context.Context, orderID, attemptID string) (bool, *model.PaymentIntent, error) {
	key := attemptKey(orderID, attemptID)

	ok, err := r.client.SetNX(ctx, key, attemptPendingMarker, attemptTTL).Result()
	if err != nil {
		return false, nil, fmt.Errorf("claim attempt latch: %w", err)
	}
	if ok {
		return true, nil, nil
	}

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil, ErrAttemptInFlight
	}
	if err != nil {
		return false, nil, fmt.Errorf("read attempt latch: %w", err)
	}
	if val == attemptPendingMarker {
		return false, nil, ErrAttemptInFlight
	}

	var intent model.PaymentIntent
	if err := json.Unmarshal([]byte(val), &intent); err != nil {
		return false, nil, fmt.Errorf("decode stored intent: %w", err)
	}
	return false, &intent, nil
}

func (r *attemptRepoImpl) StoreIntent(ctx context.Context, orderID, attemptID string, intent *model.PaymentIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return r.client.Set(ctx, attemptKey(orderID, attemptID), raw, attemptTTL).Err()
}

func (r *attemptRepoImpl) Release(ctx context.Context, orderID, attemptID string) error {
	return r.client.Del(ctx, attemptKey(orderID, attemptID)).Err()
}
