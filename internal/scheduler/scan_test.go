package scheduler

import (
	"errors"
	"testing"
	"time"

	"rentpro_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, docs []models.MachineDocument, thresholds []int) (*Engine, *memJobStore, *memDocSource) {
	t.Helper()

	policy, err := NewPolicy(thresholds)
	require.NoError(t, err)

	source := &memDocSource{docs: docs}
	store := newMemJobStore()
	return NewEngine(source, store, policy), store, source
}

func TestEngine_Scan_CreatesJobsWithSnapshots(t *testing.T) {
	t.Parallel()

	expiry := date(2026, 10, 1)
	doc := testDocument("doc-1", models.DocumentTypeInsurance, expiry, nil)
	engine, store, _ := newTestEngine(t, []models.MachineDocument{doc}, []int{30, 7, 1})

	result, err := engine.Scan(date(2026, 9, 24))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 2}, result)

	job := store.get(store.idFor("doc-1", 30))
	assert.Equal(t, models.EmailJobStatusPending, job.Status)
	assert.Equal(t, date(2026, 9, 1), job.ScheduledFor)
	assert.Equal(t, "ivan@rentpro.test", job.RecipientEmail)
	assert.Equal(t, "Ivan Petrov", job.RecipientName)
	assert.Equal(t, "JCB-04", job.MachineLabel)
	assert.Equal(t, models.DocumentTypeInsurance, job.DocumentType)
	assert.Equal(t, "DOC-doc-1", job.DocumentNumber)
	assert.Equal(t, expiry, job.ExpiresAt)
	assert.Zero(t, job.AttemptCount)

	job = store.get(store.idFor("doc-1", 7))
	assert.Equal(t, date(2026, 9, 24), job.ScheduledFor)
}

func TestEngine_Scan_IdempotentAcrossTicks(t *testing.T) {
	t.Parallel()

	doc := testDocument("doc-1", models.DocumentTypeRegistration, date(2026, 10, 1), nil)
	engine, _, _ := newTestEngine(t, []models.MachineDocument{doc}, []int{30})

	result, err := engine.Scan(date(2026, 9, 5))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 1}, result)

	// Повторные проходы видят тот же наступивший порог, но job уже есть
	for i := 0; i < 3; i++ {
		result, err = engine.Scan(date(2026, 9, 6+i))
		require.NoError(t, err)
		assert.Equal(t, ScanResult{Skipped: 1}, result)
	}
}

func TestEngine_Scan_ExpiredDocumentFiresAllThresholds(t *testing.T) {
	t.Parallel()

	// Документ добавлен уже просроченным
	doc := testDocument("doc-1", models.DocumentTypeFitness, date(2026, 5, 1), nil)
	engine, store, _ := newTestEngine(t, []models.MachineDocument{doc}, []int{30, 7, 1})

	result, err := engine.Scan(date(2026, 6, 15))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 3}, result)

	for _, threshold := range []int{30, 7, 1} {
		assert.NotEmpty(t, store.idFor("doc-1", threshold))
	}
}

func TestEngine_Scan_PersistenceErrorDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	docs := []models.MachineDocument{
		testDocument("doc-1", models.DocumentTypeInsurance, date(2026, 10, 1), nil),
		testDocument("doc-2", models.DocumentTypeInsurance, date(2026, 10, 1), nil),
	}
	engine, store, _ := newTestEngine(t, docs, []int{30})
	store.failKeys[jobKey("doc-1", 30)] = errors.New("connection reset")

	result, err := engine.Scan(date(2026, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 1, Errored: 1}, result)
	assert.NotEmpty(t, store.idFor("doc-2", 30))
}

func TestEngine_Scan_SourceErrorAbortsPass(t *testing.T) {
	t.Parallel()

	engine, _, source := newTestEngine(t, nil, []int{30})
	source.err = errors.New("db down")

	_, err := engine.Scan(time.Now())
	assert.Error(t, err)
}

func TestEngine_Scan_DefaultsChangeAffectsFutureScansOnly(t *testing.T) {
	t.Parallel()

	policy, err := NewPolicy([]int{7})
	require.NoError(t, err)

	doc := testDocument("doc-1", models.DocumentTypeInsurance, date(2026, 10, 1), nil)
	source := &memDocSource{docs: []models.MachineDocument{doc}}
	store := newMemJobStore()
	engine := NewEngine(source, store, policy)

	result, err := engine.Scan(date(2026, 9, 25))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 1}, result)

	// Расширяем дефолты: старый job не пересчитывается, новый порог
	// добирается следующим проходом
	require.NoError(t, policy.SetDefaults([]int{14, 7}))

	result, err = engine.Scan(date(2026, 9, 25))
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Created: 1, Skipped: 1}, result)
	assert.NotEmpty(t, store.idFor("doc-1", 14))
}
