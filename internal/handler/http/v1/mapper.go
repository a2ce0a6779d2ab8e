package v1

import (
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/query"
)

// DTOToActivityInput преобразует DTO создания в доменные входные данные
func DTOToActivityInput(dto CreateActivityRequest) models.ActivityInput {
	input := models.ActivityInput{
		ActivityType:      dto.ActivityType,
		Location:          dto.Location,
		Description:       dto.Description,
		Priority:          models.Priority(dto.Priority),
		AssignedPersonnel: dto.AssignedPersonnel,
		ResourcesNeeded:   dto.ResourcesNeeded,
		AlertRadius:       models.DefaultAlertRadius,
	}
	if dto.AlertRadius != nil {
		input.AlertRadius = *dto.AlertRadius
	}
	if dto.Coordinates != nil {
		input.Coordinates = models.Coordinates{Lat: dto.Coordinates.Lat, Lng: dto.Coordinates.Lng}
	}
	return input
}

// DTOToActivityPatch преобразует DTO обновления в доменный patch
func DTOToActivityPatch(dto UpdateActivityRequest) models.ActivityPatch {
	patch := models.ActivityPatch{
		ActivityType:      dto.ActivityType,
		Location:          dto.Location,
		Description:       dto.Description,
		AssignedPersonnel: dto.AssignedPersonnel,
		ResourcesNeeded:   dto.ResourcesNeeded,
		AlertRadius:       dto.AlertRadius,
	}
	if dto.Priority != nil {
		p := models.Priority(*dto.Priority)
		patch.Priority = &p
	}
	if dto.Status != nil {
		s := models.Status(*dto.Status)
		patch.Status = &s
	}
	return patch
}

// ModelToActivityResponse преобразует доменную модель в DTO для ответа
func ModelToActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                model.ID,
		Timestamp:         model.CreatedAt,
		ActivityType:      model.ActivityType,
		Location:          model.Location,
		Description:       model.Description,
		Priority:          string(model.Priority),
		Status:            string(model.Status),
		AssignedPersonnel: nonNil(model.AssignedPersonnel),
		ResourcesNeeded:   nonNil(model.ResourcesNeeded),
		Coordinates:       CoordinatesDTO{Lat: model.Coordinates.Lat, Lng: model.Coordinates.Lng},
		AlertRadius:       model.AlertRadius,
	}
}

// ModelsToActivityResponses преобразует слайс моделей в слайс DTO
func ModelsToActivityResponses(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = ModelToActivityResponse(a)
	}
	return responses
}

func SummaryToResponse(s query.Summary) SummaryResponse {
	resp := SummaryResponse{
		Total:              s.Total,
		ByStatus:           make(map[string]int, len(s.ByStatus)),
		ByPriority:         make(map[string]int, len(s.ByPriority)),
		Active:             s.Active,
		Critical:           s.Critical,
		CriticalUnresolved: s.CriticalUnresolved,
		Alert:              s.Alert(),
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	return resp
}

func ViewToResponse(v query.View) ListActivitiesResponse {
	return ListActivitiesResponse{
		Activities: ModelsToActivityResponses(v.Activities),
		Summary:    SummaryToResponse(v.Summary),
		Shown:      v.Shown,
		Total:      v.Total,
	}
}

func WeatherToResponse(w models.Weather) WeatherResponse {
	return WeatherResponse{
		Location:        w.Location,
		Temperature:     w.Temperature,
		Condition:       w.Condition,
		WindSpeed:       w.WindSpeed,
		Visibility:      w.Visibility,
		AffectsResponse: w.AffectsResponse(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
