package processor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"propertylens/config"
	"propertylens/internal/database"
	"propertylens/internal/models"
	"propertylens/internal/queue"
)

// Transactor is the part of *gorm.DB the processor needs.
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor accumulates queued analyses and writes them in batches
type BatchProcessor struct {
	db        Transactor
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.AnalysisQueue
	mu        sync.Mutex
	pending   []*models.AnalysisRecord
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.AnalysisQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the queue and begins the periodic flush
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.accept)
	p.queue.Start(p.config.BatchProcessing.ProcessorCount)

	if wait := p.config.BatchProcessing.MaxBatchWaitTime; wait > 0 {
		p.waitGroup.Add(1)
		go p.flushLoop(wait)
	}
}

// Stop closes the queue, writes everything still pending and shuts down
func (p *BatchProcessor) Stop() {
	p.queue.Close()
	p.cancel()
	p.waitGroup.Wait()

	if err := p.Flush(); err != nil {
		p.logger.WithError(err).Error("Failed to flush pending analyses on shutdown")
	}
}

// accept buffers a queued batch and writes once the buffer is full
func (p *BatchProcessor) accept(batch []*models.AnalysisRecord) error {
	p.mu.Lock()
	p.pending = append(p.pending, batch...)
	if len(p.pending) < p.maxBatchSize() {
		p.mu.Unlock()
		return nil
	}
	full := p.pending
	p.pending = nil
	p.mu.Unlock()

	return p.processBatch(full)
}

// Flush writes whatever is buffered, regardless of size
func (p *BatchProcessor) Flush() error {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return p.processBatch(batch)
}

// Pending returns the number of buffered analyses
func (p *BatchProcessor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *BatchProcessor) flushLoop(wait time.Duration) {
	defer p.waitGroup.Done()

	ticker := time.NewTicker(wait)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			if err := p.Flush(); err != nil {
				p.logger.WithError(err).Error("Periodic flush failed")
			}
		}
	}
}

func (p *BatchProcessor) maxBatchSize() int {
	if p.config.BatchProcessing.MaxBatchSize <= 0 {
		return 1
	}
	return p.config.BatchProcessing.MaxBatchSize
}

// processBatch writes a single batch with transaction and retry logic
func (p *BatchProcessor) processBatch(batch []*models.AnalysisRecord) error {
	maxRetries := p.config.BatchProcessing.MaxRetries
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, maxRetries)
			select {
			case <-time.After(p.config.BatchProcessing.RetryDelay):
			case <-p.ctx.Done():
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertAnalyses(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert analyses batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d analyses", len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", maxRetries+1, err)
}
