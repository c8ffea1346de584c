package scheduler

import (
	"context"
	"fmt"
	"time"

	"rentpro_backend/internal/email"
	"rentpro_backend/internal/logger"
	"rentpro_backend/internal/models"
)

// DispatchResult - итог одного прохода диспетчера.
type DispatchResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"` // lost claim races
}

// Dispatcher забирает pending/retry_eligible jobs и отправляет письма.
//
// Каждый job сначала переводится в in_flight атомарным compare-and-set;
// проигранный CAS - это не ошибка, а признак того, что job уже забрал
// другой актор (параллельный тик или ручной retry).
type Dispatcher struct {
	jobs        JobStore
	mailer      email.Mailer
	maxRetries  int
	sendTimeout time.Duration
	now         func() time.Time
}

func NewDispatcher(jobs JobStore, mailer email.Mailer, maxRetries int, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		jobs:        jobs,
		mailer:      mailer,
		maxRetries:  maxRetries,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// DispatchPending обрабатывает до batchLimit jobs, старые сроки первыми.
func (d *Dispatcher) DispatchPending(ctx context.Context, batchLimit int) (DispatchResult, error) {
	var result DispatchResult

	jobs, err := d.jobs.FindDispatchable(batchLimit)
	if err != nil {
		return result, err
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		outcome := d.dispatchOne(&jobs[i])
		switch outcome {
		case outcomeSent:
			result.Sent++
		case outcomeFailed:
			result.Failed++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	return result, nil
}

// RetryJob - явный операторский retry для failed job'а. Счетчик попыток
// сохраняется, так что потолок ретраев остается видимым в статистике.
// Отправка выполняется сразу, вне тика, через тот же claim-механизм.
// Возвращает состояние job'а после попытки, чтобы оператор сразу видел
// её исход.
func (d *Dispatcher) RetryJob(jobID string) (*models.NotificationJob, error) {
	if err := d.jobs.ResetForRetry(jobID); err != nil {
		return nil, err
	}

	job, err := d.jobs.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	// Если тик успел забрать job первым - не страшно, письмо уйдет там.
	d.dispatchOne(job)

	return d.jobs.FindByID(jobID)
}

type dispatchOutcome int

const (
	outcomeSent dispatchOutcome = iota
	outcomeFailed
	outcomeSkipped
)

func (d *Dispatcher) dispatchOne(job *models.NotificationJob) dispatchOutcome {
	claimed, err := d.jobs.Claim(job.ID, job.Status)
	if err != nil {
		logger.Error("dispatch: claim failed",
			"job_id", job.ID, "error", err.Error())
		return outcomeSkipped
	}
	if !claimed {
		// Проигранный CAS: job уже у другого актора.
		return outcomeSkipped
	}

	now := d.now()
	attempts := job.AttemptCount + 1

	subject, body, err := email.RenderExpiryWarning(job, now)
	if err == nil {
		err = d.sendWithTimeout(job.RecipientEmail, subject, body)
	}

	if err == nil {
		if markErr := d.jobs.MarkSent(job.ID, now, attempts); markErr != nil {
			logger.Error("dispatch: failed to mark job sent",
				"job_id", job.ID, "error", markErr.Error())
			return outcomeFailed
		}
		return outcomeSent
	}

	logger.Warn("dispatch: send attempt failed",
		"job_id", job.ID,
		"attempt", attempts,
		"error", err.Error(),
	)

	// Транспорт не классифицирует постоянные ошибки отдельно: любая
	// неудача расходует одну попытку.
	if attempts < d.maxRetries {
		if markErr := d.jobs.MarkRetryEligible(job.ID, now, attempts, err.Error()); markErr != nil {
			logger.Error("dispatch: failed to mark job retry_eligible",
				"job_id", job.ID, "error", markErr.Error())
		}
	} else {
		if markErr := d.jobs.MarkFailed(job.ID, now, attempts, err.Error()); markErr != nil {
			logger.Error("dispatch: failed to mark job failed",
				"job_id", job.ID, "error", markErr.Error())
		}
	}
	return outcomeFailed
}

// sendWithTimeout ограничивает отправку таймаутом; таймаут считается
// транспортной ошибкой и расходует попытку.
//
// Таймер нарочно не привязан к контексту тика: остановка планировщика
// не прерывает отправку в полете. Иначе письмо, которое транспорт уже
// доставил, было бы записано как неудача и ушло бы повторно.
func (d *Dispatcher) sendWithTimeout(to, subject, body string) error {
	done := make(chan error, 1)
	go func() {
		done <- d.mailer.Send(to, subject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(d.sendTimeout):
		return fmt.Errorf("send timed out after %s", d.sendTimeout)
	}
}
