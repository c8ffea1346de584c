package validator

import (
	"log"

	"rentpro_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - критическая ошибка запуска.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)

	// 'is-document-type': тип документа машины валиден
	mustRegister("is-document-type", validateDocumentType)

	// 'is-quotation-status': статус коммерческого предложения валиден
	mustRegister("is-quotation-status", validateQuotationStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleAdmin, models.UserRoleStaff:
		return true
	}
	return false
}

func validateDocumentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidDocumentType(models.DocumentType(value))
}

func validateQuotationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.QuotationStatus(value) {
	case models.QuotationStatusDraft, models.QuotationStatusSent,
		models.QuotationStatusAccepted, models.QuotationStatusRejected:
		return true
	}
	return false
}
