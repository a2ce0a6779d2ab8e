package v1

import (
	"time"
)

// CoordinatesDTO - координаты активности
// @Description Координаты активности
type CoordinatesDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// CreateActivityRequest DTO для регистрации активности.
// Без coordinates место геокодируется по location, без alert_radius берётся радиус по умолчанию.
// @Description DTO для регистрации активности
type CreateActivityRequest struct {
	ActivityType      string          `json:"activity_type" validate:"required,max=255"`
	Location          string          `json:"location" validate:"required,max=255"`
	Description       string          `json:"description,omitempty"`
	Priority          string          `json:"priority,omitempty" validate:"omitempty,oneof=Critical High Medium Low"`
	AssignedPersonnel []string        `json:"assigned_personnel,omitempty"`
	ResourcesNeeded   []string        `json:"resources_needed,omitempty"`
	Coordinates       *CoordinatesDTO `json:"coordinates,omitempty"`
	AlertRadius       *int            `json:"alert_radius,omitempty" validate:"omitempty,min=100,max=10000"`
}

// UpdateActivityRequest DTO для частичного обновления активности.
// Отсутствующие поля не меняются, координаты не обновляются.
// @Description DTO для обновления активности
type UpdateActivityRequest struct {
	ActivityType      *string   `json:"activity_type,omitempty" validate:"omitempty,max=255"`
	Location          *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Description       *string   `json:"description,omitempty"`
	Priority          *string   `json:"priority,omitempty" validate:"omitempty,oneof=Critical High Medium Low"`
	Status            *string   `json:"status,omitempty"`
	AssignedPersonnel *[]string `json:"assigned_personnel,omitempty"`
	ResourcesNeeded   *[]string `json:"resources_needed,omitempty"`
	AlertRadius       *int      `json:"alert_radius,omitempty" validate:"omitempty,min=100,max=10000"`
}

// ActivityResponse DTO для ответа с информацией об активности
// @Description DTO для ответа с информацией об активности
type ActivityResponse struct {
	ID                string         `json:"id"`
	Timestamp         time.Time      `json:"timestamp"`
	ActivityType      string         `json:"activity_type"`
	Location          string         `json:"location"`
	Description       string         `json:"description"`
	Priority          string         `json:"priority"`
	Status            string         `json:"status"`
	AssignedPersonnel []string       `json:"assigned_personnel"`
	ResourcesNeeded   []string       `json:"resources_needed"`
	Coordinates       CoordinatesDTO `json:"coordinates"`
	AlertRadius       int            `json:"alert_radius"`
}

// SummaryResponse DTO со сводкой по всем активностям
// @Description Сводка по всем активностям
type SummaryResponse struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"by_status"`
	ByPriority         map[string]int `json:"by_priority"`
	Active             int            `json:"active"`
	Critical           int            `json:"critical"`
	CriticalUnresolved int            `json:"critical_unresolved"`
	Alert              bool           `json:"alert"`
}

// ListActivitiesResponse DTO для списка активностей: видимые строки и сводка по всем записям
// @Description Список активностей
type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Summary    SummaryResponse    `json:"summary"`
	Shown      int                `json:"shown"`
	Total      int                `json:"total"`
}

// WeatherResponse DTO с погодой для места активности
// @Description Погода для места активности
type WeatherResponse struct {
	Location        string `json:"location"`
	Temperature     int    `json:"temperature"`
	Condition       string `json:"condition"`
	WindSpeed       int    `json:"wind_speed"`
	Visibility      int    `json:"visibility"`
	AffectsResponse bool   `json:"affects_response"`
}

// ReportResponse DTO с путём к экспортированному отчёту
// @Description Результат экспорта отчёта
type ReportResponse struct {
	Path string `json:"path"`
}
