package workers

import (
	"context"
	"math"
	"math/rand"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/app/workers/processors"

	"go.uber.org/zap"
)

type worker struct {
	id              int
	eventsCh        chan *envelope
	retry           RetryPolicy
	eventsProcessor processors.Processor
	logger          *zap.Logger
}

func newWorker(id int, eventsCh chan *envelope, retry RetryPolicy, eventsProcessor processors.Processor, logger *zap.Logger) *worker {
	return &worker{
		id:              id,
		eventsCh:        eventsCh,
		retry:           retry,
		eventsProcessor: eventsProcessor,
		logger:          logger.With(zap.Int("worker_id", id)),
	}
}

func (w *worker) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-w.eventsCh:
			if !ok {
				return
			}
			w.process(ctx, env)
		}
	}
}

func (w *worker) process(ctx context.Context, env *envelope) {
	err := w.eventsProcessor.ProcessEvent(ctx, env.event)
	if err == nil {
		return
	}

	if !gateway.IsRetryable(err) {
		w.logger.Error("event failed", zap.Int("attempt", env.attempt), zap.Error(err))
		return
	}
	if env.attempt >= w.retry.MaxAttempts {
		w.logger.Error("event failed, giving up", zap.Int("attempt", env.attempt), zap.Error(err))
		return
	}

	delay := w.backoff(env.attempt)
	w.logger.Warn("event failed, retrying",
		zap.Int("attempt", env.attempt),
		zap.Duration("delay", delay),
		zap.Error(err))

	next := &envelope{event: env.event, attempt: env.attempt + 1}
	time.AfterFunc(delay, func() {
		select {
		case w.eventsCh <- next:
		case <-ctx.Done():
		}
	})
}

func (w *worker) backoff(attempt int) time.Duration {
	backoff := time.Duration(math.Pow(2, float64(attempt))) * w.retry.BaseDelay
	if w.retry.MaxJitter <= 0 {
		return backoff
	}
	return backoff + time.Duration(rand.Int63n(int64(w.retry.MaxJitter)))
}
