package repositories

import (
	"encoding/json"
	"errors"

	"rentpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = errors.New("machine document not found")
)

// DocumentRepository - реестр комплаенс-документов машин.
type DocumentRepository interface {
	Create(doc *models.MachineDocument) error
	FindByID(id string) (*models.MachineDocument, error)
	FindByMachine(machineID string) ([]models.MachineDocument, error)
	Update(doc *models.MachineDocument) error
	Delete(id string) error

	// ListActiveForNotification returns documents with notifications enabled
	// whose owning machine is active and not soft-deleted; preloads Machine
	// for the recipient snapshot.
	ListActiveForNotification() ([]models.MachineDocument, error)
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(doc *models.MachineDocument) error {
	if err := validateOffsets(doc.NotifyOffsets); err != nil {
		return err
	}
	return r.db.Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(id string) (*models.MachineDocument, error) {
	var doc models.MachineDocument
	err := r.db.Preload("Machine").First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByMachine(machineID string) ([]models.MachineDocument, error) {
	var docs []models.MachineDocument
	err := r.db.
		Where("machine_id = ?", machineID).
		Order("expires_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) Update(doc *models.MachineDocument) error {
	if err := validateOffsets(doc.NotifyOffsets); err != nil {
		return err
	}
	result := r.db.Model(&models.MachineDocument{}).
		Where("id = ?", doc.ID).
		Select("Type", "Number", "Issuer", "IssuedAt", "ExpiresAt", "NotifyEnabled", "NotifyOffsets").
		Updates(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) Delete(id string) error {
	// Удаление документа не трогает уже созданные notification jobs (аудит).
	result := r.db.Delete(&models.MachineDocument{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) ListActiveForNotification() ([]models.MachineDocument, error) {
	var docs []models.MachineDocument
	err := r.db.
		Preload("Machine").
		Joins("JOIN machines ON machines.id = machine_documents.machine_id").
		Where("machine_documents.notify_enabled = ?", true).
		Where("machines.active = ?", true).
		Where("machines.deleted_at IS NULL").
		Find(&docs).Error
	return docs, err
}

// validateOffsets проверяет JSONB-массив порогов: только неотрицательные целые.
func validateOffsets(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var offsets []int
	if err := json.Unmarshal(raw, &offsets); err != nil {
		return errors.New("notify_offsets must be a JSON array of integers")
	}
	for _, d := range offsets {
		if d < 0 {
			return errors.New("notify_offsets must be non-negative")
		}
	}
	return nil
}
