package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/config"
	"english-bridge-mailer/internal/metrics"
	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
	"english-bridge-mailer/internal/transport"
)

// Scheduler polls the email queue on a fixed interval and delivers due
// jobs through the transport. One cycle runs to completion before the
// next is scheduled, and jobs within a cycle are sent one at a time, so
// outbound rate is bounded and error attribution stays simple.
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SchedulerConfig
	store     repository.Store
	transport transport.Transport
	metrics   *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	cycleMu   sync.Mutex
	isRunning bool
	mu        sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg *config.SchedulerConfig, store repository.Store, tr transport.Transport, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		config:    cfg,
		store:     store,
		transport: tr,
		metrics:   m,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers the polling job and runs one cycle immediately so that
// jobs enqueued while the process was down are not delayed a full
// interval after restart.
func (s *Scheduler) Start() error {
	s.mu.Lock()

	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		s.cron = cron.New(cron.WithSeconds())
	}

	schedule := fmt.Sprintf("@every %dm", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.processQueue)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true
	s.mu.Unlock()

	logrus.Infof("Scheduler started with interval: %d minutes, batch size: %d",
		s.config.IntervalMinutes, s.config.BatchSize)

	// Catch up on anything already due.
	s.processQueue()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	// Cancel context to stop any running operations
	s.cancel()

	// Stop the cron scheduler
	ctx := s.cron.Stop()

	// Wait for all jobs to complete
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// processQueue is one polling cycle: claim a batch of due jobs and send
// them sequentially. Any unexpected panic is caught here so the process
// survives and the next tick retries.
func (s *Scheduler) processQueue() {
	// Cycles never overlap. A tick or manual run arriving while a cycle
	// is still sending is skipped; its jobs stay pending until the next
	// tick instead of being claimed twice.
	if !s.cycleMu.TryLock() {
		logrus.Warn("Previous queue cycle still running, skipping")
		return
	}
	defer s.cycleMu.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Queue cycle panicked: %v", r)
		}
	}()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Debug("Scheduler not running, skipping queue cycle")
		return
	}
	// Snapshot the context: a restart swaps s.ctx and must not race a
	// cycle that outlived a timed-out Stop.
	ctx := s.ctx
	s.mu.RUnlock()

	startTime := time.Now()
	s.metrics.CycleCount.Inc()

	jobs, err := s.store.ClaimDue(ctx, startTime, s.config.BatchSize)
	if err != nil {
		// Storage outage: log and wait for the next tick.
		logrus.Errorf("Failed to claim due jobs: %v", err)
		return
	}

	s.metrics.PendingJobs.Set(float64(len(jobs)))

	// The common case: nothing due, cycle ends immediately.
	if len(jobs) == 0 {
		return
	}

	var sent, failed int
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			logrus.Info("Queue cycle interrupted by shutdown")
			return
		default:
		}

		if s.processJob(ctx, job) {
			sent++
		} else {
			failed++
		}
	}

	duration := time.Since(startTime)
	s.metrics.CycleDuration.Observe(duration.Seconds())
	logrus.Infof("Queue cycle completed: %d sent, %d failed in %v", sent, failed, duration)
}

// processJob delivers one job and records its terminal state. A failure
// here never aborts the batch; each job's outcome is independent.
func (s *Scheduler) processJob(ctx context.Context, job model.EmailJob) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Job %d panicked during processing: %v", job.ID, r)
			ok = false
		}
	}()

	err := s.transport.Send(ctx, job.To, job.Subject, job.HTML)
	if err != nil {
		if err == transport.ErrNotConfigured {
			logrus.Warnf("Job %d not delivered: mail transport unconfigured", job.ID)
		} else {
			logrus.Errorf("Failed to send job %d to %s: %v", job.ID, job.To, err)
		}

		if markErr := s.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			logrus.Errorf("Failed to mark job %d failed: %v", job.ID, markErr)
		}
		s.metrics.SendFailures.Inc()
		return false
	}

	if markErr := s.store.MarkSent(ctx, job.ID, time.Now()); markErr != nil {
		logrus.Errorf("Failed to mark job %d sent: %v", job.ID, markErr)
	}
	s.metrics.SendSuccesses.Inc()

	logrus.Infof("Sent job %d to %s via %s", job.ID, job.To, s.transport.Name())
	return true
}

// RunOnce runs one queue cycle immediately (for manual triggering)
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running queue cycle once")
	s.processQueue()
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Prev
}

// Wait waits for in-flight cycles to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
