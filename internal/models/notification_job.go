package models

import "time"

// NotificationJob - одно email-предупреждение для пары (документ, порог).
//
// The composite unique index on (document_id, threshold_days) is what makes
// scan-time job creation idempotent: a threshold fires at most one job ever,
// no matter how many scan ticks observe it as due. Rows are never deleted
// automatically; terminal jobs stay for audit.
//
// Recipient and document fields are snapshots captured at creation time, so a
// later edit or deletion of the machine/document cannot redirect or orphan an
// in-flight job.
type NotificationJob struct {
	BaseModel
	DocumentID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_job_document_threshold" json:"document_id"`
	ThresholdDays int            `gorm:"not null;uniqueIndex:idx_job_document_threshold" json:"threshold_days"`
	Status        EmailJobStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ScheduledFor  time.Time      `gorm:"not null;index" json:"scheduled_for"` // expiry date minus threshold

	AttemptCount  int        `gorm:"default:0" json:"attempt_count"`
	LastAttemptAt *time.Time `gorm:"index" json:"last_attempt_at"`
	LastError     *string    `json:"last_error"`

	// Snapshots taken by the scan engine at insert time.
	RecipientEmail string       `gorm:"not null" json:"recipient_email"`
	RecipientName  string       `json:"recipient_name"`
	DocumentType   DocumentType `gorm:"type:varchar(30)" json:"document_type"`
	DocumentNumber string       `json:"document_number"`
	MachineLabel   string       `json:"machine_label"`
	ExpiresAt      time.Time    `json:"expires_at"`
}
