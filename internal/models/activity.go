package models

import (
	"slices"
	"time"
)

// Priority - уровень срочности активности
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities перечисляет приоритеты в порядке убывания срочности
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Valid сообщает, является ли значение одним из известных приоритетов
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Rank возвращает позицию приоритета при сортировке: Critical=0 ... Low=3, неизвестный=4
func (p Priority) Rank() int {
	if i := slices.Index(Priorities, p); i >= 0 {
		return i
	}
	return len(Priorities)
}

// Status - стадия жизненного цикла активности.
// Переходы между статусами не ограничиваются.
type Status string

const (
	StatusActive     Status = "Active"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses перечисляет статусы в порядке ожидаемого прохождения
var Statuses = []Status{StatusActive, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Unresolved - активность ещё требует реагирования
func (s Status) Unresolved() bool {
	return s == StatusActive || s == StatusInProgress
}

const (
	DefaultAlertRadius = 1000
	MinAlertRadius     = 100
	MaxAlertRadius     = 10000
)

// Coordinates - координаты активности, назначаются один раз при создании
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Activity - запись об экстренной активности
type Activity struct {
	ID                string
	CreatedAt         time.Time
	ActivityType      string   `validate:"notblank"`
	Location          string   `validate:"notblank"`
	Description       string
	Priority          Priority `validate:"priority"`
	Status            Status   `validate:"status"`
	AssignedPersonnel []string
	ResourcesNeeded   []string
	Coordinates       Coordinates
	AlertRadius       int `validate:"min=100,max=10000"`
}

// Clone возвращает копию записи, не разделяющую срезы с оригиналом
func (a Activity) Clone() Activity {
	a.AssignedPersonnel = slices.Clone(a.AssignedPersonnel)
	a.ResourcesNeeded = slices.Clone(a.ResourcesNeeded)
	return a
}

// CriticalUnresolved - критическая активность, по которой ещё идёт работа
func (a Activity) CriticalUnresolved() bool {
	return a.Priority == PriorityCritical && a.Status.Unresolved()
}

// ActivityInput - данные для регистрации новой активности.
// Пустой приоритет означает Medium, нулевой радиус - DefaultAlertRadius.
type ActivityInput struct {
	ActivityType      string
	Location          string
	Description       string
	Priority          Priority
	AssignedPersonnel []string
	ResourcesNeeded   []string
	Coordinates       Coordinates
	AlertRadius       int
}

// ToActivity собирает запись из входных данных, без ID и времени создания
func (in ActivityInput) ToActivity() Activity {
	a := Activity{
		ActivityType:      in.ActivityType,
		Location:          in.Location,
		Description:       in.Description,
		Priority:          in.Priority,
		Status:            StatusActive,
		AssignedPersonnel: slices.Clone(in.AssignedPersonnel),
		ResourcesNeeded:   slices.Clone(in.ResourcesNeeded),
		Coordinates:       in.Coordinates,
		AlertRadius:       in.AlertRadius,
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.AlertRadius == 0 {
		a.AlertRadius = DefaultAlertRadius
	}
	return a
}

// ActivityPatch - частичное обновление; nil-поля не меняются.
// ID, CreatedAt и Coordinates обновлению не подлежат.
type ActivityPatch struct {
	ActivityType      *string
	Location          *string
	Description       *string
	Priority          *Priority
	Status            *Status
	AssignedPersonnel *[]string
	ResourcesNeeded   *[]string
	AlertRadius       *int
}

// Apply возвращает копию записи с применёнными изменениями
func (a Activity) Apply(p ActivityPatch) Activity {
	out := a.Clone()
	if p.ActivityType != nil {
		out.ActivityType = *p.ActivityType
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.AssignedPersonnel != nil {
		out.AssignedPersonnel = slices.Clone(*p.AssignedPersonnel)
	}
	if p.ResourcesNeeded != nil {
		out.ResourcesNeeded = slices.Clone(*p.ResourcesNeeded)
	}
	if p.AlertRadius != nil {
		out.AlertRadius = *p.AlertRadius
	}
	return out
}

// Weather - сводка погоды для места активности. В запись не сохраняется.
type Weather struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	WindSpeed   int    `json:"wind_speed"`
	Visibility  int    `json:"visibility"`
}

// AffectsResponse сообщает, что погода может помешать реагированию
func (w Weather) AffectsResponse() bool {
	return w.Condition == "Stormy" || w.Condition == "Snowy" || w.WindSpeed > 30
}
