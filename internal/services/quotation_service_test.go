package services

import (
	"fmt"
	"testing"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQuotationRepo struct {
	seq   int
	items map[string]*models.Quotation
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{items: make(map[string]*models.Quotation)}
}

func (r *memQuotationRepo) Create(q *models.Quotation) error {
	r.seq++
	if q.ID == "" {
		q.ID = fmt.Sprintf("quotation-%d", r.seq)
	}
	stored := *q
	r.items[q.ID] = &stored
	return nil
}

func (r *memQuotationRepo) FindByID(id string) (*models.Quotation, error) {
	q, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrQuotationNotFound
	}
	out := *q
	return &out, nil
}

func (r *memQuotationRepo) Find(criteria repositories.QuotationCriteria) ([]models.Quotation, int64, error) {
	var out []models.Quotation
	for _, q := range r.items {
		if criteria.Status != "" && string(q.Status) != criteria.Status {
			continue
		}
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

func (r *memQuotationRepo) Update(q *models.Quotation) error {
	existing, ok := r.items[q.ID]
	if !ok {
		return repositories.ErrQuotationNotFound
	}
	updated := *q
	updated.Number = existing.Number
	updated.CustomerID = existing.CustomerID
	updated.Status = existing.Status
	r.items[q.ID] = &updated
	return nil
}

func (r *memQuotationRepo) UpdateStatus(id string, status models.QuotationStatus) error {
	q, ok := r.items[id]
	if !ok {
		return repositories.ErrQuotationNotFound
	}
	q.Status = status
	return nil
}

func (r *memQuotationRepo) Delete(id string) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrQuotationNotFound
	}
	delete(r.items, id)
	return nil
}

type memCustomerRepo struct {
	ids map[string]bool
}

func (r *memCustomerRepo) Create(c *models.Customer) error { return nil }
func (r *memCustomerRepo) FindByID(id string) (*models.Customer, error) {
	if !r.ids[id] {
		return nil, repositories.ErrCustomerNotFound
	}
	c := &models.Customer{}
	c.ID = id
	return c, nil
}
func (r *memCustomerRepo) Find(criteria repositories.CustomerCriteria) ([]models.Customer, int64, error) {
	return nil, 0, nil
}
func (r *memCustomerRepo) Update(c *models.Customer) error { return nil }
func (r *memCustomerRepo) Delete(id string) error          { return nil }

const testCustomerID = "7d4f7e7e-6a34-4c7a-9a70-2f9f9be3ab01"

func newTestQuotationService() (QuotationService, *memQuotationRepo) {
	repo := newMemQuotationRepo()
	customers := &memCustomerRepo{ids: map[string]bool{testCustomerID: true}}
	return NewQuotationService(repo, customers), repo
}

func TestQuotationService_Create_ComputesTotals(t *testing.T) {
	t.Parallel()

	svc, _ := newTestQuotationService()

	quotation, err := svc.Create(&dto.CreateQuotationRequest{
		CustomerID: testCustomerID,
		LineItems: []dto.QuotationLineItem{
			{Description: "Crane rental, 5 days", Quantity: 5, Rate: 1200},
			// Клиентский amount игнорируется и пересчитывается на сервере
			{Description: "Operator", Quantity: 5, Rate: 150.50, Amount: 9999},
		},
		TaxRate: 18,
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuotationStatusDraft, quotation.Status)
	assert.Contains(t, quotation.Number, "Q-")
	assert.Equal(t, 6752.50, quotation.Subtotal)
	assert.Equal(t, 1215.45, quotation.TaxAmount)
	assert.Equal(t, 7967.95, quotation.Total)
}

func TestQuotationService_Create_UnknownCustomer(t *testing.T) {
	t.Parallel()

	svc, _ := newTestQuotationService()

	_, err := svc.Create(&dto.CreateQuotationRequest{
		CustomerID: "94b0b0a0-0000-4000-8000-000000000000",
		LineItems:  []dto.QuotationLineItem{{Description: "x", Quantity: 1, Rate: 1}},
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestQuotationService_StatusTransitions(t *testing.T) {
	t.Parallel()

	svc, _ := newTestQuotationService()

	quotation, err := svc.Create(&dto.CreateQuotationRequest{
		CustomerID: testCustomerID,
		LineItems:  []dto.QuotationLineItem{{Description: "x", Quantity: 1, Rate: 100}},
	})
	require.NoError(t, err)

	// draft -> accepted запрещен, сначала sent
	_, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "accepted"})
	assert.Error(t, err)

	quotation, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusSent, quotation.Status)

	// rejected -> sent разрешен (повторная отправка после правок)
	quotation, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "rejected"})
	require.NoError(t, err)
	quotation, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "sent"})
	require.NoError(t, err)

	// accepted - терминальный статус
	quotation, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "accepted"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "rejected"})
	assert.Error(t, err)
}

func TestQuotationService_Update_OnlyDraftEditable(t *testing.T) {
	t.Parallel()

	svc, _ := newTestQuotationService()

	quotation, err := svc.Create(&dto.CreateQuotationRequest{
		CustomerID: testCustomerID,
		LineItems:  []dto.QuotationLineItem{{Description: "x", Quantity: 1, Rate: 100}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(quotation.ID, &dto.UpdateQuotationStatusRequest{Status: "sent"})
	require.NoError(t, err)

	_, err = svc.Update(quotation.ID, &dto.UpdateQuotationRequest{
		LineItems: []dto.QuotationLineItem{{Description: "y", Quantity: 2, Rate: 50}},
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}
