package models

type UserRole string
type DocumentType string
type QuotationStatus string
type EmailJobStatus string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"

	DocumentTypeRegistration DocumentType = "registration"
	DocumentTypeInsurance    DocumentType = "insurance"
	DocumentTypeFitness      DocumentType = "fitness"
	DocumentTypePollution    DocumentType = "pollution_certificate"
	DocumentTypeOther        DocumentType = "other"

	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"

	// Job lifecycle: pending -> in_flight -> sent | retry_eligible | failed.
	// Terminal states are sent and failed; failed can only leave via manual retry.
	EmailJobStatusPending       EmailJobStatus = "pending"
	EmailJobStatusInFlight      EmailJobStatus = "in_flight"
	EmailJobStatusRetryEligible EmailJobStatus = "retry_eligible"
	EmailJobStatusSent          EmailJobStatus = "sent"
	EmailJobStatusFailed        EmailJobStatus = "failed"
)

// IsTerminal reports whether a job in this status is done for good
// (short of an operator-triggered retry).
func (s EmailJobStatus) IsTerminal() bool {
	return s == EmailJobStatusSent || s == EmailJobStatusFailed
}

// ValidDocumentType проверяет допустимость типа документа
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeRegistration, DocumentTypeInsurance, DocumentTypeFitness,
		DocumentTypePollution, DocumentTypeOther:
		return true
	}
	return false
}
