package scheduler

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"rentpro_backend/internal/models"
)

var (
	ErrEmptyThresholds   = errors.New("threshold set must not be empty")
	ErrNegativeThreshold = errors.New("thresholds must be non-negative")
)

// Policy хранит process-wide набор порогов по умолчанию и считает,
// какие пороги документа уже наступили.
//
// Замена дефолтов - всегда полная (replace-on-update, без merge).
// Старые jobs, созданные при прежних дефолтах, не пересчитываются.
type Policy struct {
	mu       sync.RWMutex
	defaults []int
}

// NewPolicy создает Policy с начальным набором дефолтных порогов.
func NewPolicy(defaults []int) (*Policy, error) {
	normalized, err := normalizeThresholds(defaults)
	if err != nil {
		return nil, err
	}
	return &Policy{defaults: normalized}, nil
}

// Defaults возвращает копию текущего набора дефолтов.
func (p *Policy) Defaults() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]int, len(p.defaults))
	copy(out, p.defaults)
	return out
}

// SetDefaults заменяет набор дефолтов целиком. Невалидный набор
// отклоняется, прежние дефолты остаются в силе.
func (p *Policy) SetDefaults(thresholds []int) error {
	normalized, err := normalizeThresholds(thresholds)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.defaults = normalized
	p.mu.Unlock()
	return nil
}

// DueThresholds возвращает наступившие пороги документа по убыванию
// (сначала самый ранний warning). Порог d наступил, когда
// today >= expiry - d дней. Для просроченного документа наступают все
// пороги сразу - по одному job на каждый.
func (p *Policy) DueThresholds(doc *models.MachineDocument, today time.Time) []int {
	if !doc.NotifyEnabled {
		return nil
	}

	effective := p.effectiveThresholds(doc)
	if len(effective) == 0 {
		return nil
	}

	expiry := DateOnly(doc.ExpiresAt)
	day := DateOnly(today)

	var due []int
	for _, d := range effective {
		if !day.Before(expiry.AddDate(0, 0, -d)) {
			due = append(due, d)
		}
	}
	return due
}

// effectiveThresholds - overrides документа, если заданы и непусты,
// иначе текущий снапшот дефолтов.
func (p *Policy) effectiveThresholds(doc *models.MachineDocument) []int {
	if len(doc.NotifyOffsets) > 0 {
		var overrides []int
		if err := json.Unmarshal(doc.NotifyOffsets, &overrides); err == nil && len(overrides) > 0 {
			normalized, err := normalizeThresholds(overrides)
			if err == nil {
				return normalized
			}
		}
	}
	return p.Defaults()
}

// normalizeThresholds проверяет и приводит набор к виду:
// без дубликатов, по убыванию.
func normalizeThresholds(thresholds []int) ([]int, error) {
	if len(thresholds) == 0 {
		return nil, ErrEmptyThresholds
	}

	seen := make(map[int]bool, len(thresholds))
	out := make([]int, 0, len(thresholds))
	for _, d := range thresholds {
		if d < 0 {
			return nil, ErrNegativeThreshold
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

// DateOnly обрезает timestamp до календарной даты (UTC midnight).
// Expiry - календарная дата, сравнение всегда по дням.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
