package models

import (
	"time"

	"gorm.io/datatypes"
)

type Quotation struct {
	BaseModelWithDeleted
	Number     string          `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	MachineID  string          `gorm:"type:uuid;index" json:"machine_id"`
	Status     QuotationStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	LineItems  datatypes.JSON  `gorm:"type:jsonb" json:"line_items"` // [{"description","qty","rate","amount"}]
	Subtotal   float64         `json:"subtotal"`
	TaxRate    float64         `json:"tax_rate"`
	TaxAmount  float64         `json:"tax_amount"`
	Total      float64         `json:"total"`
	ValidUntil *time.Time      `json:"valid_until"`
	Notes      string          `json:"notes"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Machine  *Machine  `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
}
