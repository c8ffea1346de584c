package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rentpro_backend/internal/middleware"
	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
	"rentpro_backend/internal/scheduler"
	"rentpro_backend/internal/services/dto"
	"rentpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// EmailHandler - операторская панель планировщика уведомлений.
// Все операции только для администратора.
type EmailHandler struct {
	*BaseHandler
	supervisor *scheduler.Supervisor
}

func NewEmailHandler(base *BaseHandler, supervisor *scheduler.Supervisor) *EmailHandler {
	return &EmailHandler{
		BaseHandler: base,
		supervisor:  supervisor,
	}
}

func (h *EmailHandler) RegisterRoutes(r *gin.RouterGroup) {
	email := r.Group("/email")
	email.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		email.GET("/stats", h.GetStats)
		email.GET("/jobs", h.GetRecentJobs)
		email.POST("/jobs/:jobId/retry", h.RetryJob)
		email.POST("/scan", h.TriggerScan)
		email.POST("/scheduler/start", h.StartScheduler)
		email.POST("/scheduler/stop", h.StopScheduler)
		email.GET("/settings", h.GetSettings)
		email.PUT("/settings", h.UpdateSettings)
	}
}

func (h *EmailHandler) GetStats(c *gin.Context) {
	stats, err := h.supervisor.GetJobStats()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"running": h.supervisor.Running(),
		"jobs":    stats,
	})
}

func (h *EmailHandler) GetRecentJobs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			apperrors.HandleError(c, apperrors.NewBadRequestError("limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	jobs, err := h.supervisor.GetRecentJobs(limit)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, dto.RecentJobsResponse{Jobs: jobs})
}

// RetryJob дает failed job'у ровно одну дополнительную попытку отправки.
// В ответе - job после попытки, поэтому исход (sent или снова failed)
// виден сразу, без отдельного запроса статистики.
func (h *EmailHandler) RetryJob(c *gin.Context) {
	job, err := h.supervisor.RetryJob(c.Param("jobId"))
	switch {
	case errors.Is(err, repositories.ErrJobNotFound):
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	case errors.Is(err, repositories.ErrJobNotFailed):
		apperrors.HandleError(c, apperrors.ErrInvalidOperation("notification", "Only failed jobs can be retried"))
		return
	case err != nil:
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// TriggerScan запускает внеплановый проход scan + dispatch.
func (h *EmailHandler) TriggerScan(c *gin.Context) {
	scanRes, dispatchRes := h.supervisor.TriggerScanNow(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"scan":     scanRes,
		"dispatch": dispatchRes,
	})
}

func (h *EmailHandler) StartScheduler(c *gin.Context) {
	h.supervisor.Start()
	c.JSON(http.StatusOK, dto.SchedulerStateResponse{Running: h.supervisor.Running()})
}

func (h *EmailHandler) StopScheduler(c *gin.Context) {
	h.supervisor.Stop()
	c.JSON(http.StatusOK, dto.SchedulerStateResponse{Running: h.supervisor.Running()})
}

func (h *EmailHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NotificationDefaultsResponse{
		Thresholds: h.supervisor.GetNotificationDefaults(),
	})
}

func (h *EmailHandler) UpdateSettings(c *gin.Context) {
	var req dto.NotificationDefaultsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.supervisor.SetNotificationDefaults(req.Thresholds); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NotificationDefaultsResponse{
		Thresholds: h.supervisor.GetNotificationDefaults(),
	})
}
