package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"rentpro_backend/internal/models"
	"rentpro_backend/internal/repositories"
)

// memJobStore - in-memory JobStore с той же семантикой,
// что и NotificationJobRepository: уникальность по (document, threshold),
// CAS на Claim, переходы только из in_flight.
type memJobStore struct {
	mu    sync.Mutex
	seq   int
	jobs  map[string]*models.NotificationJob
	byKey map[string]string

	// failKeys ломает CreateIfAbsent для конкретной пары (docID, threshold).
	failKeys map[string]error
}

func newMemJobStore() *memJobStore {
	return &memJobStore{
		jobs:     make(map[string]*models.NotificationJob),
		byKey:    make(map[string]string),
		failKeys: make(map[string]error),
	}
}

func jobKey(documentID string, threshold int) string {
	return fmt.Sprintf("%s/%d", documentID, threshold)
}

func (s *memJobStore) CreateIfAbsent(job *models.NotificationJob) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := jobKey(job.DocumentID, job.ThresholdDays)
	if err, ok := s.failKeys[key]; ok {
		return false, err
	}
	if _, exists := s.byKey[key]; exists {
		return false, nil
	}

	s.seq++
	stored := *job
	stored.ID = fmt.Sprintf("job-%d", s.seq)
	s.jobs[stored.ID] = &stored
	s.byKey[key] = stored.ID

	job.ID = stored.ID
	return true, nil
}

func (s *memJobStore) FindByID(id string) (*models.NotificationJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

func (s *memJobStore) FindDispatchable(limit int) ([]models.NotificationJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.NotificationJob
	for _, job := range s.jobs {
		if job.Status == models.EmailJobStatusPending || job.Status == models.EmailJobStatusRetryEligible {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memJobStore) Claim(id string, fromStatus models.EmailJobStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Status != fromStatus {
		return false, nil
	}
	job.Status = models.EmailJobStatusInFlight
	return true, nil
}

func (s *memJobStore) MarkSent(id string, at time.Time, attemptCount int) error {
	return s.transition(id, models.EmailJobStatusSent, at, attemptCount, nil)
}

func (s *memJobStore) MarkRetryEligible(id string, at time.Time, attemptCount int, lastError string) error {
	return s.transition(id, models.EmailJobStatusRetryEligible, at, attemptCount, &lastError)
}

func (s *memJobStore) MarkFailed(id string, at time.Time, attemptCount int, lastError string) error {
	return s.transition(id, models.EmailJobStatusFailed, at, attemptCount, &lastError)
}

func (s *memJobStore) transition(id string, to models.EmailJobStatus, at time.Time, attemptCount int, lastError *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	if job.Status != models.EmailJobStatusInFlight {
		return fmt.Errorf("job %s is %s, expected in_flight", id, job.Status)
	}

	job.Status = to
	job.AttemptCount = attemptCount
	attempt := at
	job.LastAttemptAt = &attempt
	job.LastError = lastError
	return nil
}

func (s *memJobStore) ResetForRetry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	if job.Status != models.EmailJobStatusFailed {
		return repositories.ErrJobNotFailed
	}
	job.Status = models.EmailJobStatusRetryEligible
	return nil
}

func (s *memJobStore) CountByStatus() (map[models.EmailJobStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[models.EmailJobStatus]int64)
	for _, job := range s.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

func (s *memJobStore) FindRecent(limit int) ([]models.NotificationJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.NotificationJob
	for _, job := range s.jobs {
		if job.LastAttemptAt != nil {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastAttemptAt.After(*out[j].LastAttemptAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// get возвращает текущее состояние job'а, минуя интерфейс.
func (s *memJobStore) get(id string) models.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.jobs[id]
}

// idFor находит ID job'а по паре (документ, порог).
func (s *memJobStore) idFor(documentID string, threshold int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byKey[jobKey(documentID, threshold)]
}

type memDocSource struct {
	mu   sync.Mutex
	docs []models.MachineDocument
	err  error
}

func (s *memDocSource) ListActiveForNotification() ([]models.MachineDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.MachineDocument, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer проваливает первые failures отправок, остальные записывает.
type fakeMailer struct {
	mu       sync.Mutex
	failures int
	err      error
	sent     []sentMail
	block    chan struct{} // если задан, Send ждет закрытия канала
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.block != nil {
		<-m.block
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failures > 0 {
		m.failures--
		if m.err != nil {
			return m.err
		}
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// testDocument - активный документ с машиной-владельцем.
func testDocument(id string, docType models.DocumentType, expiresAt time.Time, offsets []byte) models.MachineDocument {
	doc := models.MachineDocument{
		MachineID:     "machine-1",
		Type:          docType,
		Number:        "DOC-" + id,
		ExpiresAt:     expiresAt,
		NotifyEnabled: true,
		NotifyOffsets: offsets,
		Machine: &models.Machine{
			Label:        "JCB-04",
			ContactName:  "Ivan Petrov",
			ContactEmail: "ivan@rentpro.test",
		},
	}
	doc.ID = id
	return doc
}
