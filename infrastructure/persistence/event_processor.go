package persistence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coffee-chat/domain/audit"

	"github.com/sirupsen/logrus"
)

// EventProcessor implements audit.EventProcessor with a bounded channel
// and worker pool
type EventProcessor struct {
	repository   audit.InteractionRepository
	eventChannel chan interface{}
	workers      int
	bufferSize   int

	// State management
	isRunning int32
	stopOnce  sync.Once
	wg        sync.WaitGroup
	cancel    context.CancelFunc

	// Metrics
	processedCount int64
	errorCount     int64
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(repository audit.InteractionRepository, workers, bufferSize int) *EventProcessor {
	if workers <= 0 {
		workers = 3
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	return &EventProcessor{
		repository:   repository,
		eventChannel: make(chan interface{}, bufferSize),
		workers:      workers,
		bufferSize:   bufferSize,
	}
}

// Start begins processing events with the configured number of workers
func (p *EventProcessor) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.isRunning, 0, 1) {
		return fmt.Errorf("event processor is already running")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	logrus.WithFields(logrus.Fields{
		"workers":     p.workers,
		"buffer_size": p.bufferSize,
	}).Info("Starting audit event processor")

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(workerCtx, i)
	}

	return nil
}

// Stop gracefully shuts down the event processor
func (p *EventProcessor) Stop() error {
	var stopErr error

	p.stopOnce.Do(func() {
		if !atomic.CompareAndSwapInt32(&p.isRunning, 1, 0) {
			return
		}

		logrus.Info("Stopping audit event processor...")

		close(p.eventChannel)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			logrus.WithFields(logrus.Fields{
				"processed": atomic.LoadInt64(&p.processedCount),
				"errors":    atomic.LoadInt64(&p.errorCount),
			}).Info("Audit event processor stopped")
		case <-time.After(30 * time.Second):
			stopErr = fmt.Errorf("timeout waiting for event processor workers to finish")
			if p.cancel != nil {
				p.cancel()
			}
		}
	})

	return stopErr
}

// ProcessEvent sends an event for asynchronous processing. A full buffer
// drops the event rather than blocking the caller.
func (p *EventProcessor) ProcessEvent(event interface{}) error {
	if atomic.LoadInt32(&p.isRunning) == 0 {
		return fmt.Errorf("event processor is not running")
	}

	select {
	case p.eventChannel <- event:
		return nil
	default:
		atomic.AddInt64(&p.errorCount, 1)
		logrus.WithField("buffer_size", p.bufferSize).Warn("Audit event buffer full, dropping event")
		return fmt.Errorf("event buffer full, event dropped")
	}
}

// Health returns the current health status of the processor
func (p *EventProcessor) Health() audit.ProcessorHealth {
	return audit.ProcessorHealth{
		IsRunning:      atomic.LoadInt32(&p.isRunning) == 1,
		QueueSize:      len(p.eventChannel),
		ProcessedCount: atomic.LoadInt64(&p.processedCount),
		ErrorCount:     atomic.LoadInt64(&p.errorCount),
	}
}

func (p *EventProcessor) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	logrus.WithField("worker_id", id).Debug("Audit event worker started")

	for {
		select {
		case event, ok := <-p.eventChannel:
			if !ok {
				logrus.WithField("worker_id", id).Debug("Audit event worker stopping, channel closed")
				return
			}
			p.handleEvent(ctx, event)
		case <-ctx.Done():
			logrus.WithField("worker_id", id).Debug("Audit event worker stopping, context cancelled")
			return
		}
	}
}

func (p *EventProcessor) handleEvent(ctx context.Context, event interface{}) {
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch e := event.(type) {
	case audit.RecordInteractionEvent:
		record := e.Interaction
		if err := p.repository.Create(writeCtx, &record); err != nil {
			atomic.AddInt64(&p.errorCount, 1)
			logrus.WithError(err).WithField("status", record.Status).Error("Failed to persist interaction record")
			return
		}
		atomic.AddInt64(&p.processedCount, 1)
	default:
		atomic.AddInt64(&p.errorCount, 1)
		logrus.WithField("event_type", fmt.Sprintf("%T", event)).Warn("Unknown audit event type")
	}
}
