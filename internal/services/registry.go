package services

import (
	"rentpro_backend/internal/scheduler"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService          AuthService
	CustomerService      CustomerService
	MachineService       MachineService
	DocumentService      DocumentService
	QuotationService     QuotationService
	ServiceRecordService ServiceRecordService

	// Scheduler - процесс-скоуп объект с явным lifecycle (init при старте,
	// shutdown hook при остановке); передается по ссылке, не глобально.
	Scheduler *scheduler.Supervisor
}
