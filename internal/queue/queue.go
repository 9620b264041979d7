package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"propertylens/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Handler consumes one batch of analysis records.
type Handler func([]*models.AnalysisRecord) error

// AnalysisQueue is an in-memory queue of analysis batches awaiting persistence
type AnalysisQueue struct {
	items    chan []*models.AnalysisRecord
	done     chan struct{}
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	workers  sync.WaitGroup
	logger   *logrus.Logger
	handlers []Handler
}

// NewAnalysisQueue creates a new queue with the specified buffer size
func NewAnalysisQueue(bufferSize int, logger *logrus.Logger) *AnalysisQueue {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &AnalysisQueue{
		items:    make(chan []*models.AnalysisRecord, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]Handler, 0),
	}
}

// Push adds a batch to the queue without blocking
func (q *AnalysisQueue) Push(records []*models.AnalysisRecord) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- records:
		q.logger.WithField("batch_size", len(records)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *AnalysisQueue) Subscribe(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches worker goroutines that deliver batches to the handlers.
// Each batch is delivered by exactly one worker. Calling Start again is a no-op.
func (q *AnalysisQueue) Start(workers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go q.process()
	}
}

// process handles the queue processing loop
func (q *AnalysisQueue) process() {
	defer q.workers.Done()
	for {
		select {
		case <-q.done:
			q.drain()
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// drain delivers whatever was queued before Close.
func (q *AnalysisQueue) drain() {
	for {
		select {
		case batch := <-q.items:
			q.processBatch(batch)
		default:
			return
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *AnalysisQueue) processBatch(batch []*models.AnalysisRecord) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops accepting batches, flushes the queued ones and waits for the
// workers to finish.
func (q *AnalysisQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.workers.Wait()
	return nil
}

// Len returns the current number of batches in the queue
func (q *AnalysisQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *AnalysisQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
