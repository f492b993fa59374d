package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"francoggm/pagseguro-transparente/internal/models"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	paymentsKey         = "payments"
	lockKeyPrefix       = "payment:lock:"
	statusChannelPrefix = "payment:status:"

	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 2 * time.Second
	lockPollDelay   = 25 * time.Millisecond
)

// ErrOrderLocked is returned when another worker kept the order lock for longer
// than the wait allowed.
var ErrOrderLocked = errors.New("payment record is locked by another worker")

var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Decide inspects the current record and proposes a delta for it.
type Decide func(stored models.StoredPayment) (models.PaymentDelta, error)

// StorageService keeps one payment record per order in a Redis hash. Updates are
// serialized per order with a lock owned by this instance.
type StorageService struct {
	cache      *redis.Client
	instanceID string
	lockTTL    time.Duration
	lockWait   time.Duration
	now        func() time.Time
	publish    func(ctx context.Context, change models.StatusChange) error
}

func NewStorageService(cache *redis.Client) *StorageService {
	s := &StorageService{
		cache:      cache,
		instanceID: uuid.New().String(),
		lockTTL:    defaultLockTTL,
		lockWait:   defaultLockWait,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.publish = s.publishStatus
	return s
}

// GetPayment returns the stored record. An order with no record yields an empty
// one carrying only the order number.
func (s *StorageService) GetPayment(ctx context.Context, orderNumber int) (models.StoredPayment, bool, error) {
	data, err := s.cache.HGet(ctx, paymentsKey, strconv.Itoa(orderNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.StoredPayment{OrderNumber: orderNumber}, false, nil
	}
	if err != nil {
		return models.StoredPayment{}, false, fmt.Errorf("get payment %d: %w", orderNumber, err)
	}

	var payment models.StoredPayment
	if err := sonic.ConfigFastest.Unmarshal(data, &payment); err != nil {
		return models.StoredPayment{}, false, fmt.Errorf("decode payment %d: %w", orderNumber, err)
	}
	return payment, true, nil
}

func (s *StorageService) SavePayment(ctx context.Context, payment models.StoredPayment) error {
	payload, err := sonic.ConfigFastest.Marshal(payment)
	if err != nil {
		return fmt.Errorf("encode payment %d: %w", payment.OrderNumber, err)
	}

	return s.cache.HSet(ctx, paymentsKey, strconv.Itoa(payment.OrderNumber), payload).Err()
}

// Update runs decide against the current record while holding the order lock and
// stores the resulting delta. A status change is published on the order channel
// before the record is saved, so a failed publish leaves the record unchanged and
// the change is announced again when the update is retried.
func (s *StorageService) Update(ctx context.Context, orderNumber int, decide Decide) (models.StoredPayment, error) {
	var updated models.StoredPayment

	err := s.withOrderLock(ctx, orderNumber, func(ctx context.Context) error {
		stored, _, err := s.GetPayment(ctx, orderNumber)
		if err != nil {
			return err
		}

		delta, err := decide(stored)
		if err != nil {
			return err
		}
		if delta.IsEmpty() {
			updated = stored
			return nil
		}

		next := delta.Apply(stored)
		next.UpdatedAt = s.now()

		if next.Status != stored.Status {
			err := s.publish(ctx, models.StatusChange{
				OrderNumber:   orderNumber,
				TransactionID: next.TransactionID,
				From:          stored.Status,
				To:            next.Status,
				ChangedAt:     next.UpdatedAt,
			})
			if err != nil {
				updated = stored
				return err
			}
		}

		if err := s.SavePayment(ctx, next); err != nil {
			updated = stored
			return err
		}
		updated = next
		return nil
	})

	return updated, err
}

// ApplyDelta stores a delta that needs no inspection of the current record.
func (s *StorageService) ApplyDelta(ctx context.Context, orderNumber int, delta models.PaymentDelta) (models.StoredPayment, error) {
	return s.Update(ctx, orderNumber, func(models.StoredPayment) (models.PaymentDelta, error) {
		return delta, nil
	})
}

// SubscribeStatus listens to status changes of one order.
func (s *StorageService) SubscribeStatus(ctx context.Context, orderNumber int) *redis.PubSub {
	return s.cache.Subscribe(ctx, StatusChannel(orderNumber))
}

func StatusChannel(orderNumber int) string {
	return statusChannelPrefix + strconv.Itoa(orderNumber)
}

func (s *StorageService) publishStatus(ctx context.Context, change models.StatusChange) error {
	payload, err := sonic.ConfigFastest.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}
	if err := s.cache.Publish(ctx, StatusChannel(change.OrderNumber), payload).Err(); err != nil {
		return fmt.Errorf("publish status change: %w", err)
	}
	return nil
}

func (s *StorageService) withOrderLock(ctx context.Context, orderNumber int, fn func(context.Context) error) error {
	key := lockKeyPrefix + strconv.Itoa(orderNumber)
	deadline := time.Now().Add(s.lockWait)

	for {
		acquired, err := s.cache.SetNX(ctx, key, s.instanceID, s.lockTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire lock for order %d: %w", orderNumber, err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("order %d: %w", orderNumber, ErrOrderLocked)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockPollDelay):
		}
	}

	defer releaseLock.Run(context.WithoutCancel(ctx), s.cache, []string{key}, s.instanceID)

	return fn(ctx)
}
