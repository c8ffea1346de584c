package dto

import (
	"time"

	"rentpro_backend/internal/models"
)

type CreateServiceRecordRequest struct {
	PerformedAt time.Time  `json:"performed_at" validate:"required"`
	Description string     `json:"description" validate:"required,min=3"`
	Vendor      string     `json:"vendor"`
	Cost        float64    `json:"cost" validate:"gte=0"`
	HoursMeter  int        `json:"hours_meter" validate:"gte=0"`
	NextDueAt   *time.Time `json:"next_due_at"`
}

type UpdateServiceRecordRequest struct {
	PerformedAt time.Time  `json:"performed_at" validate:"required"`
	Description string     `json:"description" validate:"required,min=3"`
	Vendor      string     `json:"vendor"`
	Cost        float64    `json:"cost" validate:"gte=0"`
	HoursMeter  int        `json:"hours_meter" validate:"gte=0"`
	NextDueAt   *time.Time `json:"next_due_at"`
}

type ServiceRecordListResponse struct {
	Records []models.ServiceRecord `json:"records"`
	Total   int64                  `json:"total"`
}
