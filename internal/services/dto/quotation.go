package dto

import (
	"time"

	"rentpro_backend/internal/models"
)

type QuotationLineItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"qty" validate:"required,gt=0"`
	Rate        float64 `json:"rate" validate:"required,gte=0"`
	Amount      float64 `json:"amount"`
}

type CreateQuotationRequest struct {
	CustomerID string              `json:"customer_id" validate:"required,uuid"`
	MachineID  string              `json:"machine_id" validate:"omitempty,uuid"`
	LineItems  []QuotationLineItem `json:"line_items" validate:"required,min=1,dive"`
	TaxRate    float64             `json:"tax_rate" validate:"gte=0,max=100"`
	ValidUntil *time.Time          `json:"valid_until"`
	Notes      string              `json:"notes"`
}

type UpdateQuotationRequest struct {
	MachineID  string              `json:"machine_id" validate:"omitempty,uuid"`
	LineItems  []QuotationLineItem `json:"line_items" validate:"required,min=1,dive"`
	TaxRate    float64             `json:"tax_rate" validate:"gte=0,max=100"`
	ValidUntil *time.Time          `json:"valid_until"`
	Notes      string              `json:"notes"`
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,is-quotation-status"`
}

type QuotationListResponse struct {
	Quotations []models.Quotation `json:"quotations"`
	Total      int64              `json:"total"`
}
