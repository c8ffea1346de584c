package repositories

import (
	"errors"

	"rentpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrQuotationNotFound = errors.New("quotation not found")
)

// Критерии поиска КП
type QuotationCriteria struct {
	CustomerID string `form:"customer_id"`
	MachineID  string `form:"machine_id"`
	Status     string `form:"status"`
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
}

type QuotationRepository interface {
	Create(quotation *models.Quotation) error
	FindByID(id string) (*models.Quotation, error)
	Find(criteria QuotationCriteria) ([]models.Quotation, int64, error)
	Update(quotation *models.Quotation) error
	UpdateStatus(id string, status models.QuotationStatus) error
	Delete(id string) error
}

type QuotationRepositoryImpl struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &QuotationRepositoryImpl{db: db}
}

func (r *QuotationRepositoryImpl) Create(quotation *models.Quotation) error {
	return r.db.Create(quotation).Error
}

func (r *QuotationRepositoryImpl) FindByID(id string) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.Preload("Customer").Preload("Machine").First(&quotation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepositoryImpl) Find(criteria QuotationCriteria) ([]models.Quotation, int64, error) {
	var quotations []models.Quotation
	query := r.db.Model(&models.Quotation{})

	if criteria.CustomerID != "" {
		query = query.Where("customer_id = ?", criteria.CustomerID)
	}

	if criteria.MachineID != "" {
		query = query.Where("machine_id = ?", criteria.MachineID)
	}

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Customer").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&quotations).Error

	return quotations, total, err
}

func (r *QuotationRepositoryImpl) Update(quotation *models.Quotation) error {
	result := r.db.Model(&models.Quotation{}).
		Where("id = ?", quotation.ID).
		Select("MachineID", "LineItems", "Subtotal", "TaxRate", "TaxAmount",
			"Total", "ValidUntil", "Notes").
		Updates(quotation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuotationNotFound
	}
	return nil
}

func (r *QuotationRepositoryImpl) UpdateStatus(id string, status models.QuotationStatus) error {
	result := r.db.Model(&models.Quotation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuotationNotFound
	}
	return nil
}

func (r *QuotationRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Quotation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuotationNotFound
	}
	return nil
}
