package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// localTimestampLayout - ISO-8601 без часового пояса, как пишут старые файлы данных
const localTimestampLayout = "2006-01-02T15:04:05.999999999"

// activityJSON - форма записи в документе и в отчёте
type activityJSON struct {
	ID                string      `json:"id"`
	Timestamp         string      `json:"timestamp"`
	ActivityType      string      `json:"activity_type"`
	Location          string      `json:"location"`
	Description       string      `json:"description"`
	Priority          Priority    `json:"priority"`
	Status            Status      `json:"status"`
	AssignedPersonnel []string    `json:"assigned_personnel"`
	ResourcesNeeded   []string    `json:"resources_needed"`
	Coordinates       Coordinates `json:"coordinates"`
	AlertRadius       int         `json:"alert_radius"`
}

// MarshalJSON пишет запись с ключами документа; пустые списки пишутся как []
func (a Activity) MarshalJSON() ([]byte, error) {
	out := activityJSON{
		ID:                a.ID,
		Timestamp:         a.CreatedAt.Format(time.RFC3339Nano),
		ActivityType:      a.ActivityType,
		Location:          a.Location,
		Description:       a.Description,
		Priority:          a.Priority,
		Status:            a.Status,
		AssignedPersonnel: a.AssignedPersonnel,
		ResourcesNeeded:   a.ResourcesNeeded,
		Coordinates:       a.Coordinates,
		AlertRadius:       a.AlertRadius,
	}
	if out.AssignedPersonnel == nil {
		out.AssignedPersonnel = []string{}
	}
	if out.ResourcesNeeded == nil {
		out.ResourcesNeeded = []string{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON требует все ключи, кроме alert_radius (по умолчанию 1000).
// Отсутствующий ключ и null считаются ошибкой.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var in struct {
		ID                *string   `json:"id"`
		Timestamp         *string   `json:"timestamp"`
		ActivityType      *string   `json:"activity_type"`
		Location          *string   `json:"location"`
		Description       *string   `json:"description"`
		Priority          *Priority `json:"priority"`
		Status            *Status   `json:"status"`
		AssignedPersonnel *[]string `json:"assigned_personnel"`
		ResourcesNeeded   *[]string `json:"resources_needed"`
		Coordinates       *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"coordinates"`
		AlertRadius *int `json:"alert_radius"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	required := []struct {
		name    string
		present bool
	}{
		{"id", in.ID != nil},
		{"timestamp", in.Timestamp != nil},
		{"activity_type", in.ActivityType != nil},
		{"location", in.Location != nil},
		{"description", in.Description != nil},
		{"priority", in.Priority != nil},
		{"status", in.Status != nil},
		{"assigned_personnel", in.AssignedPersonnel != nil},
		{"resources_needed", in.ResourcesNeeded != nil},
		{"coordinates", in.Coordinates != nil},
	}
	for _, r := range required {
		if !r.present {
			return fmt.Errorf("missing required field %q", r.name)
		}
	}
	if in.Coordinates.Lat == nil || in.Coordinates.Lng == nil {
		return fmt.Errorf("missing required field %q", "coordinates")
	}

	createdAt, err := ParseTimestamp(*in.Timestamp)
	if err != nil {
		return err
	}

	*a = Activity{
		ID:                *in.ID,
		CreatedAt:         createdAt,
		ActivityType:      *in.ActivityType,
		Location:          *in.Location,
		Description:       *in.Description,
		Priority:          *in.Priority,
		Status:            *in.Status,
		AssignedPersonnel: *in.AssignedPersonnel,
		ResourcesNeeded:   *in.ResourcesNeeded,
		Coordinates:       Coordinates{Lat: *in.Coordinates.Lat, Lng: *in.Coordinates.Lng},
		AlertRadius:       DefaultAlertRadius,
	}
	if in.AlertRadius != nil {
		a.AlertRadius = *in.AlertRadius
	}
	return nil
}

// ParseTimestamp разбирает ISO-8601 с зоной или без неё (тогда время считается локальным)
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
