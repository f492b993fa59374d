package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"francoggm/pagseguro-transparente/internal/app/workers/processors"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("events queue is full")

// RetryPolicy bounds how often a failed event goes back to the queue.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
}

func DefaultRetryPolicy(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   100 * time.Millisecond,
		MaxJitter:   100 * time.Millisecond,
	}
}

// envelope carries an event through the queue together with its attempt count.
type envelope struct {
	event   any
	attempt int
}

type Orchestrator struct {
	workers  []*worker
	eventsCh chan *envelope
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewOrchestrator(workersCount, bufferSize int, retry RetryPolicy, eventsProcessor processors.Processor, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		eventsCh: make(chan *envelope, bufferSize),
		logger:   logger,
	}

	for id := range workersCount {
		o.workers = append(o.workers, newWorker(id, o.eventsCh, retry, eventsProcessor, logger))
	}
	return o
}

func (o *Orchestrator) StartWorkers(ctx context.Context) {
	o.logger.Info("starting workers", zap.Int("count", len(o.workers)))

	for _, worker := range o.workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			worker.start(ctx)
		}()
	}
}

// Enqueue hands an event to the workers without blocking.
func (o *Orchestrator) Enqueue(event any) error {
	select {
	case o.eventsCh <- &envelope{event: event, attempt: 1}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Wait blocks until every worker has returned after its context was cancelled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
