package repositories

import (
	"errors"
	"time"

	"rentpro_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrJobNotFound  = errors.New("notification job not found")
	ErrJobNotFailed = errors.New("notification job is not in failed state")
)

// NotificationJobRepository - хранилище job'ов (Job Store).
//
// Claim-переходы выполняются как conditional UPDATE по (id, status):
// ноль затронутых строк означает, что другой актор уже перевел job,
// и вызывающая сторона должна просто пропустить его.
type NotificationJobRepository interface {
	// CreateIfAbsent inserts a pending job unless a row for the same
	// (document_id, threshold_days) pair already exists in any state.
	// Returns true when a new row was inserted.
	CreateIfAbsent(job *models.NotificationJob) (bool, error)

	FindByID(id string) (*models.NotificationJob, error)

	// FindDispatchable returns pending/retry_eligible jobs ordered by
	// scheduled_for ascending, capped at limit.
	FindDispatchable(limit int) ([]models.NotificationJob, error)

	// Claim atomically moves a job from fromStatus to in_flight.
	// Returns false (no error) when the compare-and-set loses the race.
	Claim(id string, fromStatus models.EmailJobStatus) (bool, error)

	MarkSent(id string, at time.Time, attemptCount int) error
	MarkRetryEligible(id string, at time.Time, attemptCount int, lastError string) error
	MarkFailed(id string, at time.Time, attemptCount int, lastError string) error

	// ResetForRetry moves a failed job back to retry_eligible keeping its
	// attempt count, so the retry ceiling stays visible in stats.
	ResetForRetry(id string) error

	CountByStatus() (map[models.EmailJobStatus]int64, error)
	FindRecent(limit int) ([]models.NotificationJob, error)
}

type NotificationJobRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationJobRepository(db *gorm.DB) NotificationJobRepository {
	return &NotificationJobRepositoryImpl{db: db}
}

func (r *NotificationJobRepositoryImpl) CreateIfAbsent(job *models.NotificationJob) (bool, error) {
	// ON CONFLICT DO NOTHING на уникальном индексе (document_id, threshold_days).
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}, {Name: "threshold_days"}},
		DoNothing: true,
	}).Create(job)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationJobRepositoryImpl) FindByID(id string) (*models.NotificationJob, error) {
	var job models.NotificationJob
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *NotificationJobRepositoryImpl) FindDispatchable(limit int) ([]models.NotificationJob, error) {
	var jobs []models.NotificationJob
	err := r.db.
		Where("status IN ?", []models.EmailJobStatus{
			models.EmailJobStatusPending,
			models.EmailJobStatusRetryEligible,
		}).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *NotificationJobRepositoryImpl) Claim(id string, fromStatus models.EmailJobStatus) (bool, error) {
	result := r.db.Model(&models.NotificationJob{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", models.EmailJobStatusInFlight)

	if result.Error != nil {
		return false, result.Error
	}
	// 0 строк - job уже забрал другой актор. Это не ошибка.
	return result.RowsAffected > 0, nil
}

func (r *NotificationJobRepositoryImpl) MarkSent(id string, at time.Time, attemptCount int) error {
	return r.updateFromInFlight(id, map[string]interface{}{
		"status":          models.EmailJobStatusSent,
		"last_attempt_at": at,
		"attempt_count":   attemptCount,
		"last_error":      nil,
	})
}

func (r *NotificationJobRepositoryImpl) MarkRetryEligible(id string, at time.Time, attemptCount int, lastError string) error {
	return r.updateFromInFlight(id, map[string]interface{}{
		"status":          models.EmailJobStatusRetryEligible,
		"last_attempt_at": at,
		"attempt_count":   attemptCount,
		"last_error":      lastError,
	})
}

func (r *NotificationJobRepositoryImpl) MarkFailed(id string, at time.Time, attemptCount int, lastError string) error {
	return r.updateFromInFlight(id, map[string]interface{}{
		"status":          models.EmailJobStatusFailed,
		"last_attempt_at": at,
		"attempt_count":   attemptCount,
		"last_error":      lastError,
	})
}

// updateFromInFlight завершает claim: переход разрешен только из in_flight.
func (r *NotificationJobRepositoryImpl) updateFromInFlight(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.NotificationJob{}).
		Where("id = ? AND status = ?", id, models.EmailJobStatusInFlight).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *NotificationJobRepositoryImpl) ResetForRetry(id string) error {
	result := r.db.Model(&models.NotificationJob{}).
		Where("id = ? AND status = ?", id, models.EmailJobStatusFailed).
		Update("status", models.EmailJobStatusRetryEligible)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Либо job не существует, либо он не в failed.
		var count int64
		if err := r.db.Model(&models.NotificationJob{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrJobNotFound
		}
		return ErrJobNotFailed
	}
	return nil
}

func (r *NotificationJobRepositoryImpl) CountByStatus() (map[models.EmailJobStatus]int64, error) {
	type row struct {
		Status models.EmailJobStatus
		Count  int64
	}

	var rows []row
	err := r.db.Model(&models.NotificationJob{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.EmailJobStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *NotificationJobRepositoryImpl) FindRecent(limit int) ([]models.NotificationJob, error) {
	var jobs []models.NotificationJob
	err := r.db.
		Where("last_attempt_at IS NOT NULL").
		Order("last_attempt_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
