package models

import (
	"time"

	"gorm.io/datatypes"
)

// MachineDocument - компл. документ машины (регистрация, страховка и т.д.)
//
// ExpiresAt is a calendar date; the time component is normalized to midnight UTC
// on write. NotifyOffsets holds per-document day-offset overrides as a JSON array
// of non-negative ints; when empty the system-wide defaults apply.
type MachineDocument struct {
	BaseModel
	MachineID string       `gorm:"type:uuid;not null;index" json:"machine_id"`
	Type      DocumentType `gorm:"type:varchar(30);not null" json:"type"`
	Number    string       `gorm:"not null" json:"number"`
	Issuer    string       `json:"issuer"`
	IssuedAt  *time.Time   `json:"issued_at"`
	ExpiresAt time.Time    `gorm:"not null;index" json:"expires_at"`

	NotifyEnabled bool           `gorm:"default:true" json:"notify_enabled"`
	NotifyOffsets datatypes.JSON `gorm:"type:jsonb" json:"notify_offsets"` // e.g. [30,7,1]

	Machine *Machine `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
}
