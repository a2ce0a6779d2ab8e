// Package report формирует экспортируемый JSON-отчёт по активностям.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/query"
)

const fileTimeLayout = "20060102_150405"

// Report - документ отчёта
type Report struct {
	ReportGenerated     time.Time         `json:"report_generated"`
	TotalActivities     int               `json:"total_activities"`
	ActiveEmergencies   int               `json:"active_emergencies"`
	CriticalEmergencies int               `json:"critical_emergencies"`
	Summary             Breakdown         `json:"summary"`
	Activities          []models.Activity `json:"activities"`
}

// Breakdown - разбивка по приоритетам и статусам, все ключи присутствуют
type Breakdown struct {
	ByPriority map[models.Priority]int `json:"by_priority"`
	ByStatus   map[models.Status]int   `json:"by_status"`
}

// Build собирает отчёт; записи идут в порядке отображения
func Build(records []models.Activity, generatedAt time.Time) Report {
	s := query.Summarize(records)
	activities := query.Sort(records)
	if activities == nil {
		activities = []models.Activity{}
	}
	return Report{
		ReportGenerated:     generatedAt,
		TotalActivities:     s.Total,
		ActiveEmergencies:   s.Active,
		CriticalEmergencies: s.Critical,
		Summary: Breakdown{
			ByPriority: s.ByPriority,
			ByStatus:   s.ByStatus,
		},
		Activities: activities,
	}
}

// FileName - имя файла отчёта для момента генерации
func FileName(generatedAt time.Time) string {
	return fmt.Sprintf("ice_emergency_report_%s.json", generatedAt.Format(fileTimeLayout))
}

// WriteFile атомарно записывает отчёт в каталог dir и возвращает путь к файлу
func WriteFile(dir string, r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", &models.PersistenceError{Op: "export", Err: err}
	}

	path := filepath.Join(dir, FileName(r.ReportGenerated))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", &models.PersistenceError{Op: "export", Err: err}
	}
	return path, nil
}
