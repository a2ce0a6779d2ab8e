package query

import "github.com/shenikar/activity_tracker/internal/models"

// Summary - сводные счётчики. ByStatus и ByPriority всегда содержат все четыре ключа.
type Summary struct {
	Total              int                     `json:"total"`
	ByStatus           map[models.Status]int   `json:"by_status"`
	ByPriority         map[models.Priority]int `json:"by_priority"`
	Active             int                     `json:"active"`
	Critical           int                     `json:"critical"`
	CriticalUnresolved int                     `json:"critical_unresolved"`
}

// Alert - есть критические активности в статусе Active или In Progress
func (s Summary) Alert() bool {
	return s.CriticalUnresolved > 0
}

// Summarize считает записи по статусам и приоритетам
func Summarize(records []models.Activity) Summary {
	s := Summary{
		Total:      len(records),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ByPriority: make(map[models.Priority]int, len(models.Priorities)),
	}
	for _, st := range models.Statuses {
		s.ByStatus[st] = 0
	}
	for _, p := range models.Priorities {
		s.ByPriority[p] = 0
	}

	for _, a := range records {
		if a.Status.Valid() {
			s.ByStatus[a.Status]++
		}
		if a.Priority.Valid() {
			s.ByPriority[a.Priority]++
		}
		if a.CriticalUnresolved() {
			s.CriticalUnresolved++
		}
	}
	s.Active = s.ByStatus[models.StatusActive]
	s.Critical = s.ByPriority[models.PriorityCritical]
	return s
}
