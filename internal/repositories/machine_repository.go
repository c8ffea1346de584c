package repositories

import (
	"errors"

	"rentpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMachineNotFound      = errors.New("machine not found")
	ErrMachineLabelConflict = errors.New("machine label already in use")
)

// Критерии поиска машин
type MachineCriteria struct {
	Query      string `form:"q"`
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
}

type MachineRepository interface {
	Create(machine *models.Machine) error
	FindByID(id string) (*models.Machine, error)
	Find(criteria MachineCriteria) ([]models.Machine, int64, error)
	Update(machine *models.Machine) error
	SetActive(id string, active bool) error
	Delete(id string) error
}

type MachineRepositoryImpl struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) MachineRepository {
	return &MachineRepositoryImpl{db: db}
}

func (r *MachineRepositoryImpl) Create(machine *models.Machine) error {
	err := r.db.Create(machine).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrMachineLabelConflict
	}
	return err
}

func (r *MachineRepositoryImpl) FindByID(id string) (*models.Machine, error) {
	var machine models.Machine
	err := r.db.Preload("Documents").First(&machine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}
	return &machine, nil
}

func (r *MachineRepositoryImpl) Find(criteria MachineCriteria) ([]models.Machine, int64, error) {
	var machines []models.Machine
	query := r.db.Model(&models.Machine{})

	if criteria.Query != "" {
		like := "%" + criteria.Query + "%"
		query = query.Where("label ILIKE ? OR serial_number ILIKE ? OR model_name ILIKE ?", like, like, like)
	}

	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}

	if criteria.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("label ASC").
		Limit(limit).Offset(offset).
		Find(&machines).Error

	return machines, total, err
}

func (r *MachineRepositoryImpl) Update(machine *models.Machine) error {
	result := r.db.Model(&models.Machine{}).
		Where("id = ?", machine.ID).
		Select("Label", "SerialNumber", "Category", "Manufacturer", "ModelName",
			"YearOfMake", "ContactName", "ContactEmail", "Active").
		Updates(machine)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMachineNotFound
	}
	return nil
}

// SetActive деактивация машины подавляет будущие сканы её документов,
// но не трогает уже созданные jobs.
func (r *MachineRepositoryImpl) SetActive(id string, active bool) error {
	result := r.db.Model(&models.Machine{}).
		Where("id = ?", id).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMachineNotFound
	}
	return nil
}

func (r *MachineRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Machine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMachineNotFound
	}
	return nil
}
