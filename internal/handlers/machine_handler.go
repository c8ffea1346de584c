package handlers

import (
	"net/http"

	"rentpro_backend/internal/middleware"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/services"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type MachineHandler struct {
	*BaseHandler
	machineService services.MachineService
	recordService  services.ServiceRecordService
}

func NewMachineHandler(base *BaseHandler, machineService services.MachineService, recordService services.ServiceRecordService) *MachineHandler {
	return &MachineHandler{
		BaseHandler:    base,
		machineService: machineService,
		recordService:  recordService,
	}
}

func (h *MachineHandler) RegisterRoutes(r *gin.RouterGroup) {
	machines := r.Group("/machines")
	machines.Use(middleware.AuthMiddleware())
	{
		machines.POST("", h.CreateMachine)
		machines.GET("", h.ListMachines)
		machines.GET("/:machineId", h.GetMachine)
		machines.PUT("/:machineId", h.UpdateMachine)
		machines.PATCH("/:machineId/active", h.SetMachineActive)
		machines.DELETE("/:machineId", h.DeleteMachine)

		// Сервисная история машины
		machines.POST("/:machineId/service-records", h.CreateServiceRecord)
		machines.GET("/:machineId/service-records", h.ListServiceRecords)
	}
}

func (h *MachineHandler) CreateMachine(c *gin.Context) {
	var req dto.CreateMachineRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	machine, err := h.machineService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, machine)
}

func (h *MachineHandler) ListMachines(c *gin.Context) {
	var criteria repositories.MachineCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	response, err := h.machineService.List(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MachineHandler) GetMachine(c *gin.Context) {
	machine, err := h.machineService.Get(c.Param("machineId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, machine)
}

func (h *MachineHandler) UpdateMachine(c *gin.Context) {
	var req dto.UpdateMachineRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	machine, err := h.machineService.Update(c.Param("machineId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, machine)
}

// SetMachineActive выводит машину из парка или возвращает обратно.
func (h *MachineHandler) SetMachineActive(c *gin.Context) {
	var req dto.SetMachineActiveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	machine, err := h.machineService.SetActive(c.Param("machineId"), *req.Active)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, machine)
}

func (h *MachineHandler) DeleteMachine(c *gin.Context) {
	if err := h.machineService.Delete(c.Param("machineId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Machine deleted"})
}

func (h *MachineHandler) CreateServiceRecord(c *gin.Context) {
	var req dto.CreateServiceRecordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	record, err := h.recordService.Create(c.Param("machineId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *MachineHandler) ListServiceRecords(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	response, err := h.recordService.ListByMachine(c.Param("machineId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
