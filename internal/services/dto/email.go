package dto

import "rentpro_backend/internal/models"

type NotificationDefaultsRequest struct {
	Thresholds []int `json:"thresholds" validate:"required,min=1,dive,gte=0"`
}

type NotificationDefaultsResponse struct {
	Thresholds []int `json:"thresholds"`
}

type RecentJobsResponse struct {
	Jobs []models.NotificationJob `json:"jobs"`
}

type SchedulerStateResponse struct {
	Running bool `json:"running"`
}
