package models

type Customer struct {
	BaseModelWithDeleted
	Name          string `gorm:"not null;index" json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `gorm:"index" json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	GSTNumber     string `json:"gst_number"`
	Active        bool   `gorm:"default:true" json:"active"`
}
