package scheduler

import (
	"time"

	"rentpro_backend/internal/logger"
	"rentpro_backend/internal/models"
)

// DocumentSource - то, что сканер читает из реестра документов.
// Реализуется repositories.DocumentRepository.
type DocumentSource interface {
	ListActiveForNotification() ([]models.MachineDocument, error)
}

// JobStore - durable хранилище notification jobs.
// Реализуется repositories.NotificationJobRepository.
type JobStore interface {
	CreateIfAbsent(job *models.NotificationJob) (bool, error)
	FindByID(id string) (*models.NotificationJob, error)
	FindDispatchable(limit int) ([]models.NotificationJob, error)
	Claim(id string, fromStatus models.EmailJobStatus) (bool, error)
	MarkSent(id string, at time.Time, attemptCount int) error
	MarkRetryEligible(id string, at time.Time, attemptCount int, lastError string) error
	MarkFailed(id string, at time.Time, attemptCount int, lastError string) error
	ResetForRetry(id string) error
	CountByStatus() (map[models.EmailJobStatus]int64, error)
	FindRecent(limit int) ([]models.NotificationJob, error)
}

// ScanResult - итог одного прохода сканера.
type ScanResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"` // documents skipped due to persistence errors
}

// Engine обходит активные документы и создает pending jobs для
// наступивших порогов.
//
// Идемпотентность держится на insert-if-absent по (document, threshold):
// сколько бы тиков ни увидели порог как наступивший, job будет ровно один.
type Engine struct {
	docs   DocumentSource
	jobs   JobStore
	policy *Policy
}

func NewEngine(docs DocumentSource, jobs JobStore, policy *Policy) *Engine {
	return &Engine{docs: docs, jobs: jobs, policy: policy}
}

// Scan выполняет один проход. Ошибка персистенции на одном документе
// не прерывает проход по остальным.
func (e *Engine) Scan(now time.Time) (ScanResult, error) {
	var result ScanResult

	docs, err := e.docs.ListActiveForNotification()
	if err != nil {
		return result, err
	}

	for i := range docs {
		doc := &docs[i]

		due := e.policy.DueThresholds(doc, now)
		if len(due) == 0 {
			continue
		}

		docFailed := false
		for _, threshold := range due {
			job := buildJob(doc, threshold)

			created, err := e.jobs.CreateIfAbsent(job)
			if err != nil {
				logger.Error("scan: failed to upsert notification job",
					"document_id", doc.ID,
					"threshold_days", threshold,
					"error", err.Error(),
				)
				docFailed = true
				continue
			}

			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}

		if docFailed {
			result.Errored++
		}
	}

	return result, nil
}

// buildJob собирает pending job со снапшотом получателя и документа.
func buildJob(doc *models.MachineDocument, threshold int) *models.NotificationJob {
	job := &models.NotificationJob{
		DocumentID:     doc.ID,
		ThresholdDays:  threshold,
		Status:         models.EmailJobStatusPending,
		ScheduledFor:   DateOnly(doc.ExpiresAt).AddDate(0, 0, -threshold),
		DocumentType:   doc.Type,
		DocumentNumber: doc.Number,
		ExpiresAt:      DateOnly(doc.ExpiresAt),
	}

	// Снапшот получателя фиксируется в момент создания: последующее
	// редактирование машины не перенаправит уже созданный job.
	if doc.Machine != nil {
		job.RecipientEmail = doc.Machine.ContactEmail
		job.RecipientName = doc.Machine.ContactName
		job.MachineLabel = doc.Machine.Label
	}

	return job
}
