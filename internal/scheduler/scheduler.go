package scheduler

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pruner deletes stored analyses created before cutoff and reports how many went.
type Pruner interface {
	DeleteAnalysesBefore(cutoff time.Time) (int64, error)
}

// Scheduler periodically removes analyses older than the retention age
type Scheduler struct {
	store     Pruner
	logger    *logrus.Logger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	jobMutex  sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler. A non-positive retention disables pruning.
func NewScheduler(store Pruner, retention, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &Scheduler{
		store:     store,
		logger:    logger,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Enabled reports whether a retention age is configured
func (s *Scheduler) Enabled() bool {
	return s.retention > 0
}

// Start runs one pruning pass immediately and then one every interval
func (s *Scheduler) Start() {
	if !s.Enabled() {
		s.logger.Info("Retention disabled, analyses are kept forever")
		return
	}

	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.logger.Info("Running startup retention job")
	s.runJob()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runJob()
		}
	}
}

func (s *Scheduler) runJob() {
	if _, err := s.RunRetention(); err != nil {
		s.logger.WithError(err).Error("Retention job failed")
	}
}

// RunRetention deletes analyses older than the retention age
func (s *Scheduler) RunRetention() (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	cutoff := s.now().Add(-s.retention)
	deleted, err := s.store.DeleteAnalysesBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	}).Info("Retention job completed")
	return deleted, nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}
