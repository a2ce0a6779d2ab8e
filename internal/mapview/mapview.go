// Package mapview генерирует статическую HTML-карту активностей (Leaflet + OpenStreetMap).
// Карта - чистая функция от списка записей.
package mapview

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/query"
)

// DefaultCenter - центр карты без записей (Fullerton, CA)
var DefaultCenter = models.Coordinates{Lat: 33.8703, Lng: -117.9242}

// PriorityColors - цвет маркера по приоритету
var PriorityColors = map[models.Priority]string{
	models.PriorityLow:      "#4CAF50",
	models.PriorityMedium:   "#FF9800",
	models.PriorityHigh:     "#F44336",
	models.PriorityCritical: "#9C27B0",
}

//go:embed map.html.tmpl
var mapTemplate string

var tmpl = template.Must(template.New("map").Parse(mapTemplate))

// Options - параметры отрисовки
type Options struct {
	Title       string
	GeneratedAt time.Time
	// RefreshInterval > 0 включает автообновление страницы
	RefreshInterval time.Duration
}

type legendItem struct {
	Color string
	Label string
}

type pageData struct {
	Title          string
	Center         models.Coordinates
	Summary        query.Summary
	InProgress     int
	Activities     []models.Activity
	Colors         map[models.Priority]string
	Legend         []legendItem
	LastUpdated    string
	RefreshSeconds int
}

// Render пишет HTML-страницу карты в w
func Render(w io.Writer, records []models.Activity, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Activity Map"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	activities := query.Sort(records)
	if activities == nil {
		activities = []models.Activity{}
	}
	summary := query.Summarize(records)

	data := pageData{
		Title:       opts.Title,
		Center:      Center(records),
		Summary:     summary,
		InProgress:  summary.ByStatus[models.StatusInProgress],
		Activities:  activities,
		Colors:      PriorityColors,
		LastUpdated: opts.GeneratedAt.Format("2006-01-02 15:04:05"),
		Legend: []legendItem{
			{PriorityColors[models.PriorityCritical], "Critical - Immediate Response"},
			{PriorityColors[models.PriorityHigh], "High - Urgent"},
			{PriorityColors[models.PriorityMedium], "Medium - Monitor"},
			{PriorityColors[models.PriorityLow], "Low - Routine"},
		},
		RefreshSeconds: int(opts.RefreshInterval / time.Second),
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}

// Center - среднее координат всех записей или DefaultCenter
func Center(records []models.Activity) models.Coordinates {
	if len(records) == 0 {
		return DefaultCenter
	}
	var lat, lng float64
	for _, a := range records {
		lat += a.Coordinates.Lat
		lng += a.Coordinates.Lng
	}
	n := float64(len(records))
	return models.Coordinates{Lat: lat / n, Lng: lng / n}
}
