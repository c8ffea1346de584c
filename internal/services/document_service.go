package services

import (
	"encoding/json"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/scheduler"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type DocumentService interface {
	Create(machineID string, req *dto.CreateDocumentRequest) (*models.MachineDocument, error)
	Get(id string) (*models.MachineDocument, error)
	ListByMachine(machineID string) ([]models.MachineDocument, error)
	Update(id string, req *dto.UpdateDocumentRequest) (*models.MachineDocument, error)
	Delete(id string) error
}

type DocumentServiceImpl struct {
	docs     repositories.DocumentRepository
	machines repositories.MachineRepository
}

func NewDocumentService(docs repositories.DocumentRepository, machines repositories.MachineRepository) DocumentService {
	return &DocumentServiceImpl{docs: docs, machines: machines}
}

func (s *DocumentServiceImpl) Create(machineID string, req *dto.CreateDocumentRequest) (*models.MachineDocument, error) {
	if _, err := s.machines.FindByID(machineID); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	doc := &models.MachineDocument{
		MachineID: machineID,
		Type:      models.DocumentType(req.Type),
		Number:    req.Number,
		Issuer:    req.Issuer,
		IssuedAt:  req.IssuedAt,
		// Expiry - календарная дата
		ExpiresAt:     scheduler.DateOnly(req.ExpiresAt),
		NotifyEnabled: true,
	}
	if req.NotifyEnabled != nil {
		doc.NotifyEnabled = *req.NotifyEnabled
	}

	offsets, err := marshalOffsets(req.NotifyOffsets)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	doc.NotifyOffsets = offsets

	if err := s.docs.Create(doc); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return doc, nil
}

func (s *DocumentServiceImpl) Get(id string) (*models.MachineDocument, error) {
	doc, err := s.docs.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return doc, nil
}

func (s *DocumentServiceImpl) ListByMachine(machineID string) ([]models.MachineDocument, error) {
	if _, err := s.machines.FindByID(machineID); err != nil {
		if apperrors.Is(err, repositories.ErrMachineNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	docs, err := s.docs.FindByMachine(machineID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

func (s *DocumentServiceImpl) Update(id string, req *dto.UpdateDocumentRequest) (*models.MachineDocument, error) {
	doc := &models.MachineDocument{
		Type:      models.DocumentType(req.Type),
		Number:    req.Number,
		Issuer:    req.Issuer,
		IssuedAt:  req.IssuedAt,
		ExpiresAt: scheduler.DateOnly(req.ExpiresAt),
	}
	doc.ID = id

	doc.NotifyEnabled = true
	if req.NotifyEnabled != nil {
		doc.NotifyEnabled = *req.NotifyEnabled
	}

	offsets, err := marshalOffsets(req.NotifyOffsets)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	doc.NotifyOffsets = offsets

	// Правка документа не трогает уже созданные jobs: их снапшоты
	// зафиксированы при создании.
	if err := s.docs.Update(doc); err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *DocumentServiceImpl) Delete(id string) error {
	if err := s.docs.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func marshalOffsets(offsets []int) (datatypes.JSON, error) {
	if len(offsets) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(offsets)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
