package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJob(t *testing.T, store *memJobStore, docID string, threshold int) string {
	t.Helper()

	doc := testDocument(docID, models.DocumentTypeInsurance, date(2026, 10, 1), nil)
	created, err := store.CreateIfAbsent(buildJob(&doc, threshold))
	require.NoError(t, err)
	require.True(t, created)
	return store.idFor(docID, threshold)
}

func TestDispatcher_DispatchPending_Sends(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	mailer := &fakeMailer{}
	d := NewDispatcher(store, mailer, 3, time.Second)
	d.now = func() time.Time { return date(2026, 9, 24) }

	result, err := d.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Sent: 1}, result)

	job := store.get(jobID)
	assert.Equal(t, models.EmailJobStatusSent, job.Status)
	assert.Equal(t, 1, job.AttemptCount)
	require.NotNil(t, job.LastAttemptAt)
	assert.Nil(t, job.LastError)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ivan@rentpro.test", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Insurance Policy")
	assert.Contains(t, mailer.sent[0].Subject, "JCB-04")
	assert.Contains(t, mailer.sent[0].Body, "DOC-doc-1")
}

func TestDispatcher_FailureGoesThroughRetryEligibleToFailed(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	// Все отправки проваливаются
	mailer := &fakeMailer{failures: 100}
	d := NewDispatcher(store, mailer, 3, time.Second)

	// Попытки 1 и 2: остается ретраибельным
	for attempt := 1; attempt <= 2; attempt++ {
		result, err := d.DispatchPending(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, DispatchResult{Failed: 1}, result)

		job := store.get(jobID)
		assert.Equal(t, models.EmailJobStatusRetryEligible, job.Status)
		assert.Equal(t, attempt, job.AttemptCount)
		require.NotNil(t, job.LastError)
		assert.Contains(t, *job.LastError, "smtp unavailable")
	}

	// Попытка 3 исчерпывает лимит - терминальный failed
	result, err := d.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Failed: 1}, result)
	assert.Equal(t, models.EmailJobStatusFailed, store.get(jobID).Status)

	// failed не попадает в автоматическую выборку
	result, err = d.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{}, result)
	assert.Equal(t, 3, store.get(jobID).AttemptCount)
}

func TestDispatcher_RetryJob_GivesOneMoreAttempt(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	// Первые три попытки проваливаются, дальше транспорт оживает
	mailer := &fakeMailer{failures: 3}
	d := NewDispatcher(store, mailer, 3, time.Second)

	for i := 0; i < 3; i++ {
		_, err := d.DispatchPending(context.Background(), 50)
		require.NoError(t, err)
	}
	require.Equal(t, models.EmailJobStatusFailed, store.get(jobID).Status)

	// Ручной retry отправляет сразу; счетчик попыток продолжает расти
	job, err := d.RetryJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.EmailJobStatusSent, job.Status)
	assert.Equal(t, 4, job.AttemptCount)
	assert.Equal(t, 1, mailer.sentCount())
}

func TestDispatcher_RetryJob_FailedRetryFailsAgain(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	mailer := &fakeMailer{failures: 100}
	d := NewDispatcher(store, mailer, 3, time.Second)

	for i := 0; i < 3; i++ {
		_, err := d.DispatchPending(context.Background(), 50)
		require.NoError(t, err)
	}

	// Ретрай дает ровно одну попытку; она тоже проваливается и job
	// возвращается в failed (попытки уже за потолком). Исход попытки
	// виден прямо в возвращенном job'е.
	job, err := d.RetryJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.EmailJobStatusFailed, job.Status)
	assert.Equal(t, 4, job.AttemptCount)
}

func TestDispatcher_RetryJob_Errors(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	d := NewDispatcher(store, &fakeMailer{}, 3, time.Second)

	// Неизвестный job
	_, err := d.RetryJob("nope")
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)

	// Pending job ретраить нельзя
	_, err = d.RetryJob(jobID)
	assert.ErrorIs(t, err, repositories.ErrJobNotFailed)
}

func TestDispatcher_ConcurrentClaim_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	mailer := &fakeMailer{}
	d := NewDispatcher(store, mailer, 3, time.Second)

	// Два актора берут один и тот же pending снапшот
	snapshot, err := store.FindByID(jobID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	outcomes := make([]dispatchOutcome, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobCopy := *snapshot
			outcomes[i] = d.dispatchOne(&jobCopy)
		}(i)
	}
	wg.Wait()

	sent, skipped := 0, 0
	for _, o := range outcomes {
		switch o {
		case outcomeSent:
			sent++
		case outcomeSkipped:
			skipped++
		}
	}
	assert.Equal(t, 1, sent, "exactly one claim must win")
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, mailer.sentCount(), "email must go out exactly once")
	assert.Equal(t, 1, store.get(jobID).AttemptCount)
}

func TestDispatcher_SendTimeoutCountsAsFailure(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	block := make(chan struct{})
	defer close(block)
	mailer := &fakeMailer{block: block}

	d := NewDispatcher(store, mailer, 3, 20*time.Millisecond)

	result, err := d.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Failed: 1}, result)

	job := store.get(jobID)
	assert.Equal(t, models.EmailJobStatusRetryEligible, job.Status)
	require.NotNil(t, job.LastError)
	assert.True(t, strings.Contains(*job.LastError, "timed out"))
}

func TestDispatcher_CancelDoesNotInterruptInFlightSend(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	jobID := seedJob(t, store, "doc-1", 7)

	block := make(chan struct{})
	mailer := &fakeMailer{block: block}
	d := NewDispatcher(store, mailer, 3, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan DispatchResult, 1)
	go func() {
		result, _ := d.DispatchPending(ctx, 50)
		done <- result
	}()

	// Ждем, пока диспетчер заберет job и повиснет в отправке
	require.Eventually(t, func() bool {
		return store.get(jobID).Status == models.EmailJobStatusInFlight
	}, time.Second, 2*time.Millisecond)

	// Отмена контекста тика (остановка планировщика) не должна
	// прерывать отправку в полете: транспорт, возможно, уже доставил
	// письмо, и запись неудачи привела бы к повторной отправке.
	cancel()
	close(block)

	result := <-done
	assert.Equal(t, DispatchResult{Sent: 1}, result)
	assert.Equal(t, models.EmailJobStatusSent, store.get(jobID).Status)
	assert.Equal(t, 1, store.get(jobID).AttemptCount)
	assert.Equal(t, 1, mailer.sentCount())

	// Следующий проход не находит работы - дубля нет
	result, err := d.DispatchPending(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{}, result)
	assert.Equal(t, 1, mailer.sentCount())
}

func TestDispatcher_ContextCancelStopsBatch(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	seedJob(t, store, "doc-1", 7)
	seedJob(t, store, "doc-2", 7)

	d := NewDispatcher(store, &fakeMailer{}, 3, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.DispatchPending(ctx, 50)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, DispatchResult{}, result)
}

func TestDispatcher_BatchLimitRespected(t *testing.T) {
	t.Parallel()

	store := newMemJobStore()
	seedJob(t, store, "doc-1", 30)
	seedJob(t, store, "doc-2", 30)
	seedJob(t, store, "doc-3", 30)

	mailer := &fakeMailer{}
	d := NewDispatcher(store, mailer, 3, time.Second)

	result, err := d.DispatchPending(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Sent: 2}, result)
	assert.Equal(t, 2, mailer.sentCount())
}
