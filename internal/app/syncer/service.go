package syncer

import (
	"context"
	"errors"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/app/payment"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	leaderLockKey = "transactions_sync_leader_lock"
	lastSyncKey   = "transactions_sync_last_run"

	// SearchDateLayout is the date format of the gateway transaction search.
	SearchDateLayout = "2006-01-02T15:04"
)

type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, query gateway.SearchQuery) (payment.SyncReport, error)
}

// SyncService periodically pulls the statuses of recently changed transactions.
// Only the instance holding the leader lock runs the search; the others skip.
type SyncService struct {
	syncer     TransactionSyncer
	cache      *redis.Client
	instanceID string
	interval   time.Duration
	window     time.Duration
	lockTTL    time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

func NewSyncService(syncer TransactionSyncer, cache *redis.Client, interval, window time.Duration, logger *zap.Logger) *SyncService {
	return &SyncService{
		syncer:     syncer,
		cache:      cache,
		instanceID: uuid.New().String(),
		interval:   interval,
		window:     window,
		lockTTL:    3 * interval,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "transactions_sync")),
	}
}

func (s *SyncService) BackgroundRoutine(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce syncs when this instance is the leader and reports whether it did.
func (s *SyncService) runOnce(ctx context.Context) bool {
	isLeader, err := s.tryAcquireLeader(ctx)
	if err != nil {
		s.logger.Warn("error acquiring leader lock", zap.String("instance_id", s.instanceID), zap.Error(err))
		return false
	}
	if !isLeader {
		return false
	}

	now := s.now().UTC()
	query := gateway.SearchQuery{
		InitialDate: s.windowStart(ctx, now).Format(SearchDateLayout),
		FinalDate:   now.Format(SearchDateLayout),
	}

	report, err := s.syncer.SyncTransactions(ctx, query)
	if err != nil {
		s.logger.Error("transactions sync failed", zap.String("initial_date", query.InitialDate), zap.Error(err))
	} else {
		if err := s.cache.Set(ctx, lastSyncKey, now.Format(time.RFC3339), 0).Err(); err != nil {
			s.logger.Warn("error saving last sync time", zap.Error(err))
		}
		s.logger.Info("transactions sync finished",
			zap.Int("pages", report.Pages),
			zap.Int("updated", report.Updated))
	}

	if err := s.cache.Expire(ctx, leaderLockKey, s.lockTTL).Err(); err != nil {
		s.logger.Warn("error renewing leader lock", zap.Error(err))
	}
	return true
}

func (s *SyncService) tryAcquireLeader(ctx context.Context) (bool, error) {
	acquired, err := s.cache.SetNX(ctx, leaderLockKey, s.instanceID, s.lockTTL).Result()
	if err != nil {
		return false, err
	}
	if acquired {
		return true, nil
	}

	currentLeader, err := s.cache.Get(ctx, leaderLockKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return currentLeader == s.instanceID, nil
}

// windowStart resumes from the last successful run, never looking back further
// than the configured window.
func (s *SyncService) windowStart(ctx context.Context, now time.Time) time.Time {
	earliest := now.Add(-s.window)

	last, err := s.cache.Get(ctx, lastSyncKey).Result()
	if err != nil {
		return earliest
	}
	lastRun, err := time.Parse(time.RFC3339, last)
	if err != nil || lastRun.Before(earliest) {
		return earliest
	}
	return lastRun
}
