package dto

import (
	"time"

	"rentpro_backend/internal/models"
)

type CreateMachineRequest struct {
	Label        string `json:"label" validate:"required,min=2"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category" validate:"required"`
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"model_name"`
	YearOfMake   int    `json:"year_of_make" validate:"omitempty,gte=1950"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type UpdateMachineRequest struct {
	Label        string `json:"label" validate:"required,min=2"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category" validate:"required"`
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"model_name"`
	YearOfMake   int    `json:"year_of_make" validate:"omitempty,gte=1950"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Active       *bool  `json:"active"`
}

type SetMachineActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type MachineListResponse struct {
	Machines []models.Machine `json:"machines"`
	Total    int64            `json:"total"`
}

type CreateDocumentRequest struct {
	Type          string     `json:"type" validate:"required,is-document-type"`
	Number        string     `json:"number" validate:"required"`
	Issuer        string     `json:"issuer"`
	IssuedAt      *time.Time `json:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at" validate:"required"`
	NotifyEnabled *bool      `json:"notify_enabled"`
	NotifyOffsets []int      `json:"notify_offsets" validate:"omitempty,dive,gte=0"`
}

type UpdateDocumentRequest struct {
	Type          string     `json:"type" validate:"required,is-document-type"`
	Number        string     `json:"number" validate:"required"`
	Issuer        string     `json:"issuer"`
	IssuedAt      *time.Time `json:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at" validate:"required"`
	NotifyEnabled *bool      `json:"notify_enabled"`
	NotifyOffsets []int      `json:"notify_offsets" validate:"omitempty,dive,gte=0"`
}
