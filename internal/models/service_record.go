package models

import "time"

type ServiceRecord struct {
	BaseModel
	MachineID   string     `gorm:"type:uuid;not null;index" json:"machine_id"`
	PerformedAt time.Time  `gorm:"not null" json:"performed_at"`
	Description string     `gorm:"not null" json:"description"`
	Vendor      string     `json:"vendor"`
	Cost        float64    `json:"cost"`
	HoursMeter  int        `json:"hours_meter"`
	NextDueAt   *time.Time `json:"next_due_at"`

	Machine *Machine `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
}
