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

type QuotationHandler struct {
	*BaseHandler
	quotationService services.QuotationService
}

func NewQuotationHandler(base *BaseHandler, quotationService services.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		BaseHandler:      base,
		quotationService: quotationService,
	}
}

func (h *QuotationHandler) RegisterRoutes(r *gin.RouterGroup) {
	quotations := r.Group("/quotations")
	quotations.Use(middleware.AuthMiddleware())
	{
		quotations.POST("", h.CreateQuotation)
		quotations.GET("", h.ListQuotations)
		quotations.GET("/:quotationId", h.GetQuotation)
		quotations.PUT("/:quotationId", h.UpdateQuotation)
		quotations.PATCH("/:quotationId/status", h.UpdateQuotationStatus)
		quotations.DELETE("/:quotationId", h.DeleteQuotation)
	}
}

func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quotation)
}

func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	var criteria repositories.QuotationCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	response, err := h.quotationService.List(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	quotation, err := h.quotationService.Get(c.Param("quotationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotation)
}

func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	var req dto.UpdateQuotationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Update(c.Param("quotationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotation)
}

// UpdateQuotationStatus применяет переход статуса (draft -> sent -> accepted/rejected)
func (h *QuotationHandler) UpdateQuotationStatus(c *gin.Context) {
	var req dto.UpdateQuotationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.UpdateStatus(c.Param("quotationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotation)
}

func (h *QuotationHandler) DeleteQuotation(c *gin.Context) {
	if err := h.quotationService.Delete(c.Param("quotationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
}
