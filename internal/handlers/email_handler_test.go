package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/scheduler"
	"rentpro_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJobStore - пустое хранилище; достаточно для settings/stats роутов.
type stubJobStore struct{}

func (stubJobStore) CreateIfAbsent(job *models.NotificationJob) (bool, error) { return false, nil }
func (stubJobStore) FindByID(id string) (*models.NotificationJob, error)      { return nil, nil }
func (stubJobStore) FindDispatchable(limit int) ([]models.NotificationJob, error) {
	return nil, nil
}
func (stubJobStore) Claim(id string, fromStatus models.EmailJobStatus) (bool, error) {
	return false, nil
}
func (stubJobStore) MarkSent(id string, at time.Time, attemptCount int) error { return nil }
func (stubJobStore) MarkRetryEligible(id string, at time.Time, attemptCount int, lastError string) error {
	return nil
}
func (stubJobStore) MarkFailed(id string, at time.Time, attemptCount int, lastError string) error {
	return nil
}
func (stubJobStore) ResetForRetry(id string) error { return nil }
func (stubJobStore) CountByStatus() (map[models.EmailJobStatus]int64, error) {
	return map[models.EmailJobStatus]int64{models.EmailJobStatusSent: 2}, nil
}
func (stubJobStore) FindRecent(limit int) ([]models.NotificationJob, error) { return nil, nil }

type stubDocSource struct{}

func (stubDocSource) ListActiveForNotification() ([]models.MachineDocument, error) {
	return nil, nil
}

type noopMailer struct{}

func (noopMailer) Send(to, subject, htmlBody string) error { return nil }

// newTestEmailRouter поднимает email-роуты без auth middleware.
func newTestEmailRouter(t *testing.T) (*gin.Engine, *scheduler.Supervisor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy, err := scheduler.NewPolicy([]int{30, 7, 1})
	require.NoError(t, err)

	store := stubJobStore{}
	engine := scheduler.NewEngine(stubDocSource{}, store, policy)
	dispatcher := scheduler.NewDispatcher(store, noopMailer{}, 3, time.Second)
	supervisor := scheduler.NewSupervisor(engine, dispatcher, store, policy, time.Hour, 50)

	h := NewEmailHandler(NewBaseHandler(validator.New()), supervisor)

	router := gin.New()
	api := router.Group("/api/v1")
	email := api.Group("/email")
	{
		email.GET("/stats", h.GetStats)
		email.GET("/settings", h.GetSettings)
		email.PUT("/settings", h.UpdateSettings)
		email.POST("/scheduler/start", h.StartScheduler)
		email.POST("/scheduler/stop", h.StopScheduler)
	}
	return router, supervisor
}

func TestEmailHandler_Settings(t *testing.T) {
	router, _ := newTestEmailRouter(t)

	// Текущие дефолты
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/email/settings", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"thresholds":[30,7,1]}`, w.Body.String())

	// Полная замена
	body, _ := json.Marshal(map[string]any{"thresholds": []int{60, 14}})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/email/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"thresholds":[60,14]}`, w.Body.String())
}

func TestEmailHandler_Settings_RejectsInvalid(t *testing.T) {
	router, supervisor := newTestEmailRouter(t)

	cases := []string{
		`{"thresholds":[]}`,
		`{"thresholds":[30,-1]}`,
		`{}`,
	}
	for _, payload := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/email/settings", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %s must be rejected", payload)
	}

	// Прежние дефолты не тронуты
	assert.Equal(t, []int{30, 7, 1}, supervisor.GetNotificationDefaults())
}

func TestEmailHandler_StatsAndLifecycle(t *testing.T) {
	router, supervisor := newTestEmailRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/email/stats", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sent":2`)
	assert.Contains(t, w.Body.String(), `"running":false`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/email/scheduler/start", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"running":true}`, w.Body.String())
	assert.True(t, supervisor.Running())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/email/scheduler/stop", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"running":false}`, w.Body.String())
}
