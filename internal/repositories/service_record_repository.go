package repositories

import (
	"errors"

	"rentpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrServiceRecordNotFound = errors.New("service record not found")
)

type ServiceRecordRepository interface {
	Create(record *models.ServiceRecord) error
	FindByID(id string) (*models.ServiceRecord, error)
	FindByMachine(machineID string, limit, offset int) ([]models.ServiceRecord, int64, error)
	Update(record *models.ServiceRecord) error
	Delete(id string) error
}

type ServiceRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewServiceRecordRepository(db *gorm.DB) ServiceRecordRepository {
	return &ServiceRecordRepositoryImpl{db: db}
}

func (r *ServiceRecordRepositoryImpl) Create(record *models.ServiceRecord) error {
	return r.db.Create(record).Error
}

func (r *ServiceRecordRepositoryImpl) FindByID(id string) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *ServiceRecordRepositoryImpl) FindByMachine(machineID string, limit, offset int) ([]models.ServiceRecord, int64, error) {
	var records []models.ServiceRecord
	query := r.db.Model(&models.ServiceRecord{}).Where("machine_id = ?", machineID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("performed_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error

	return records, total, err
}

func (r *ServiceRecordRepositoryImpl) Update(record *models.ServiceRecord) error {
	result := r.db.Model(&models.ServiceRecord{}).
		Where("id = ?", record.ID).
		Select("PerformedAt", "Description", "Vendor", "Cost", "HoursMeter", "NextDueAt").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceRecordNotFound
	}
	return nil
}

func (r *ServiceRecordRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.ServiceRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceRecordNotFound
	}
	return nil
}
