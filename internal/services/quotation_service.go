package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuotationService interface {
	Create(req *dto.CreateQuotationRequest) (*models.Quotation, error)
	Get(id string) (*models.Quotation, error)
	List(criteria repositories.QuotationCriteria) (*dto.QuotationListResponse, error)
	Update(id string, req *dto.UpdateQuotationRequest) (*models.Quotation, error)
	UpdateStatus(id string, req *dto.UpdateQuotationStatusRequest) (*models.Quotation, error)
	Delete(id string) error
}

type QuotationServiceImpl struct {
	repo      repositories.QuotationRepository
	customers repositories.CustomerRepository
}

func NewQuotationService(repo repositories.QuotationRepository, customers repositories.CustomerRepository) QuotationService {
	return &QuotationServiceImpl{repo: repo, customers: customers}
}

// Допустимые переходы статусов КП
var quotationTransitions = map[models.QuotationStatus][]models.QuotationStatus{
	models.QuotationStatusDraft:    {models.QuotationStatusSent},
	models.QuotationStatusSent:     {models.QuotationStatusAccepted, models.QuotationStatusRejected},
	models.QuotationStatusAccepted: {},
	models.QuotationStatusRejected: {models.QuotationStatusSent},
}

func (s *QuotationServiceImpl) Create(req *dto.CreateQuotationRequest) (*models.Quotation, error) {
	if _, err := s.customers.FindByID(req.CustomerID); err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	lineItems, subtotal := computeLineItems(req.LineItems)

	raw, err := json.Marshal(lineItems)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	taxAmount := round2(subtotal * req.TaxRate / 100)

	quotation := &models.Quotation{
		Number:     generateQuotationNumber(),
		CustomerID: req.CustomerID,
		MachineID:  req.MachineID,
		Status:     models.QuotationStatusDraft,
		LineItems:  datatypes.JSON(raw),
		Subtotal:   subtotal,
		TaxRate:    req.TaxRate,
		TaxAmount:  taxAmount,
		Total:      round2(subtotal + taxAmount),
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
	}

	if err := s.repo.Create(quotation); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return quotation, nil
}

func (s *QuotationServiceImpl) Get(id string) (*models.Quotation, error) {
	quotation, err := s.repo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuotationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return quotation, nil
}

func (s *QuotationServiceImpl) List(criteria repositories.QuotationCriteria) (*dto.QuotationListResponse, error) {
	quotations, total, err := s.repo.Find(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.QuotationListResponse{Quotations: quotations, Total: total}, nil
}

func (s *QuotationServiceImpl) Update(id string, req *dto.UpdateQuotationRequest) (*models.Quotation, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// Редактировать можно только черновик
	if existing.Status != models.QuotationStatusDraft {
		return nil, apperrors.ErrInvalidStatus("quotation",
			fmt.Sprintf("Cannot edit quotation in status '%s'", existing.Status))
	}

	lineItems, subtotal := computeLineItems(req.LineItems)

	raw, err := json.Marshal(lineItems)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	taxAmount := round2(subtotal * req.TaxRate / 100)

	quotation := &models.Quotation{
		MachineID:  req.MachineID,
		LineItems:  datatypes.JSON(raw),
		Subtotal:   subtotal,
		TaxRate:    req.TaxRate,
		TaxAmount:  taxAmount,
		Total:      round2(subtotal + taxAmount),
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
	}
	quotation.ID = id

	if err := s.repo.Update(quotation); err != nil {
		if apperrors.Is(err, repositories.ErrQuotationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *QuotationServiceImpl) UpdateStatus(id string, req *dto.UpdateQuotationStatusRequest) (*models.Quotation, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	target := models.QuotationStatus(req.Status)
	if !transitionAllowed(existing.Status, target) {
		return nil, apperrors.ErrInvalidStatus("quotation",
			fmt.Sprintf("Cannot move quotation from '%s' to '%s'", existing.Status, target))
	}

	if err := s.repo.UpdateStatus(id, target); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *QuotationServiceImpl) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrQuotationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func transitionAllowed(from, to models.QuotationStatus) bool {
	for _, allowed := range quotationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// computeLineItems пересчитывает суммы строк на сервере; клиентский
// amount игнорируется.
func computeLineItems(items []dto.QuotationLineItem) ([]dto.QuotationLineItem, float64) {
	var subtotal float64
	out := make([]dto.QuotationLineItem, len(items))
	for i, item := range items {
		item.Amount = round2(item.Quantity * item.Rate)
		subtotal += item.Amount
		out[i] = item
	}
	return out, round2(subtotal)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateQuotationNumber выдает номер вида Q-2026-a1b2c3d4
func generateQuotationNumber() string {
	return fmt.Sprintf("Q-%d-%s", time.Now().Year(), uuid.New().String()[:8])
}
