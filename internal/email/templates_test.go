package email

import (
	"testing"
	"time"

	"rentpro_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExpiryWarning_Upcoming(t *testing.T) {
	t.Parallel()

	job := &models.NotificationJob{
		RecipientName:  "Ivan Petrov",
		RecipientEmail: "ivan@rentpro.test",
		DocumentType:   models.DocumentTypeInsurance,
		DocumentNumber: "INS-1042",
		MachineLabel:   "JCB-04",
		ExpiresAt:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2026, 9, 24, 0, 0, 0, 0, time.UTC)
	subject, body, err := RenderExpiryWarning(job, now)
	require.NoError(t, err)

	assert.Equal(t, "[RentPro] Insurance Policy for JCB-04 expires on 01 Oct 2026", subject)
	assert.Contains(t, body, "Hello Ivan Petrov")
	assert.Contains(t, body, "INS-1042")
	assert.Contains(t, body, "7 day(s) from now")
}

func TestRenderExpiryWarning_Expired(t *testing.T) {
	t.Parallel()

	job := &models.NotificationJob{
		DocumentType:   models.DocumentTypeRegistration,
		DocumentNumber: "REG-7",
		MachineLabel:   "CAT-11",
		ExpiresAt:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	subject, body, err := RenderExpiryWarning(job, now)
	require.NoError(t, err)

	assert.Equal(t, "[RentPro] Registration Certificate expired for CAT-11", subject)
	// Пустое имя получателя заменяется нейтральным обращением
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "expired on")
}
