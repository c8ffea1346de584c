package models

// Machine - единица арендного парка (кран, экскаватор и т.д.)
type Machine struct {
	BaseModelWithDeleted
	Label        string `gorm:"not null;uniqueIndex" json:"label"` // fleet code, e.g. "JCB-04"
	SerialNumber string `gorm:"index" json:"serial_number"`
	Category     string `gorm:"index" json:"category"`
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"model_name"`
	YearOfMake   int    `json:"year_of_make"`

	// Responsible contact receives compliance expiry warnings for this machine.
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`

	Active bool `gorm:"default:true;index" json:"active"`

	Documents []MachineDocument `gorm:"foreignKey:MachineID" json:"documents,omitempty"`
}
