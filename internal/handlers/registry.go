package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	CustomerHandler  *CustomerHandler
	MachineHandler   *MachineHandler
	DocumentHandler  *DocumentHandler
	QuotationHandler *QuotationHandler
	EmailHandler     *EmailHandler
}
