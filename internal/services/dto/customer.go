package dto

import "rentpro_backend/internal/models"

type CreateCustomerRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	GSTNumber     string `json:"gst_number"`
}

type UpdateCustomerRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	GSTNumber     string `json:"gst_number"`
	Active        *bool  `json:"active"`
}

type CustomerListResponse struct {
	Customers []models.Customer `json:"customers"`
	Total     int64             `json:"total"`
}
