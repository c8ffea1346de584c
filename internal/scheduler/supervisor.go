package scheduler

import (
	"context"
	"sync"
	"time"

	"rentpro_backend/internal/logger"
	"rentpro_backend/internal/models"
)

// JobStats - агрегированные счетчики по статусам для /email/stats.
type JobStats struct {
	Pending       int64 `json:"pending"`
	InFlight      int64 `json:"in_flight"`
	RetryEligible int64 `json:"retry_eligible"`
	Sent          int64 `json:"sent"`
	Failed        int64 `json:"failed"`
}

// Supervisor владеет жизненным циклом планировщика: stopped -> running -> stopped.
//
// Один активный Supervisor на процесс. Внутри тика scan и dispatch идут
// строго последовательно, чтобы только что созданные jobs ушли в том же
// тике. Ручные действия (scan now, retry) выполняются вне таймера и
// сериализуются с тиком через tickMu и claim-механизм на уровне строк.
type Supervisor struct {
	engine     *Engine
	dispatcher *Dispatcher
	jobs       JobStore
	policy     *Policy

	interval  time.Duration
	batchSize int
	now       func() time.Time

	mu      sync.Mutex // guards running/cancel
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	tickMu sync.Mutex // serializes ticks and manual scans
}

func NewSupervisor(engine *Engine, dispatcher *Dispatcher, jobs JobStore, policy *Policy, interval time.Duration, batchSize int) *Supervisor {
	return &Supervisor{
		engine:     engine,
		dispatcher: dispatcher,
		jobs:       jobs,
		policy:     policy,
		interval:   interval,
		batchSize:  batchSize,
		now:        time.Now,
	}
}

// Start запускает периодические тики. Повторный Start - no-op.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.run(ctx)

	logger.Info("notification scheduler started", "tick_interval", s.interval.String())
}

// Stop отменяет будущие тики и дожидается завершения текущего.
// Отправку в полете он не прерывает. Повторный Stop - no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	logger.Info("notification scheduler stopped")
}

// Running сообщает текущее состояние lifecycle.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Supervisor) run(ctx context.Context) {
	defer s.wg.Done()

	// Первый тик сразу при старте: с суточным интервалом ждать первый
	// проход целые сутки после рестарта нельзя.
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick - один цикл scan-then-dispatch.
func (s *Supervisor) tick(ctx context.Context) (ScanResult, DispatchResult) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	scanResult, err := s.engine.Scan(s.now())
	logger.WorkerLog("notification_scheduler", "scan", err)
	if err == nil {
		logger.Info("scan tick completed",
			"created", scanResult.Created,
			"skipped", scanResult.Skipped,
			"errored", scanResult.Errored,
		)
	}

	dispatchResult, err := s.dispatcher.DispatchPending(ctx, s.batchSize)
	logger.WorkerLog("notification_scheduler", "dispatch", err)
	if err == nil {
		logger.Info("dispatch tick completed",
			"sent", dispatchResult.Sent,
			"failed", dispatchResult.Failed,
			"skipped", dispatchResult.Skipped,
		)
	}

	return scanResult, dispatchResult
}

// TriggerScanNow выполняет внеплановый тик (scan + dispatch) и
// возвращает его результат. Работает и при остановленном таймере.
func (s *Supervisor) TriggerScanNow(ctx context.Context) (ScanResult, DispatchResult) {
	return s.tick(ctx)
}

// RetryJob - операторский retry для failed job'а. Возвращает состояние
// job'а после попытки.
func (s *Supervisor) RetryJob(jobID string) (*models.NotificationJob, error) {
	return s.dispatcher.RetryJob(jobID)
}

// GetJobStats возвращает счетчики jobs по статусам.
func (s *Supervisor) GetJobStats() (JobStats, error) {
	counts, err := s.jobs.CountByStatus()
	if err != nil {
		return JobStats{}, err
	}

	return JobStats{
		Pending:       counts[models.EmailJobStatusPending],
		InFlight:      counts[models.EmailJobStatusInFlight],
		RetryEligible: counts[models.EmailJobStatusRetryEligible],
		Sent:          counts[models.EmailJobStatusSent],
		Failed:        counts[models.EmailJobStatusFailed],
	}, nil
}

// GetRecentJobs возвращает последние обработанные jobs
// (по last_attempt_at, новые первыми).
func (s *Supervisor) GetRecentJobs(limit int) ([]models.NotificationJob, error) {
	return s.jobs.FindRecent(limit)
}

// GetNotificationDefaults возвращает текущие дефолтные пороги.
func (s *Supervisor) GetNotificationDefaults() []int {
	return s.policy.Defaults()
}

// SetNotificationDefaults заменяет дефолтные пороги целиком.
// Невалидный набор отклоняется, прежний остается в силе; уже созданные
// jobs не пересчитываются.
func (s *Supervisor) SetNotificationDefaults(thresholds []int) error {
	return s.policy.SetDefaults(thresholds)
}
