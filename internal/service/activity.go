package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/activity_tracker/internal/alert"
	"github.com/shenikar/activity_tracker/internal/config"
	"github.com/shenikar/activity_tracker/internal/mapview"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/shenikar/activity_tracker/internal/query"
	"github.com/shenikar/activity_tracker/internal/report"
	"github.com/sirupsen/logrus"
)

const mapTitle = "ICE Activity Monitor"

// ActivityRepository определяет контракт хранилища активностей
type ActivityRepository interface {
	Create(input models.ActivityInput) (models.Activity, error)
	Seed(drafts []models.Activity) ([]models.Activity, error)
	// Update возвращает новое и предыдущее состояние записи
	Update(id string, patch models.ActivityPatch) (updated, previous models.Activity, err error)
	Close(id string) (models.Activity, error)
	Get(id string) (models.Activity, error)
	List() []models.Activity
}

// Geocoder превращает адрес в координаты
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// WeatherProvider возвращает погоду для места
type WeatherProvider interface {
	GetWeather(ctx context.Context, location string) (models.Weather, error)
}

// AlertPublisher публикует уведомления о критических активностях
type AlertPublisher interface {
	Publish(ctx context.Context, event alert.AlertEvent) error
}

// ActivityService определяет контракт бизнес-логики трекера активностей
type ActivityService interface {
	ReportActivity(ctx context.Context, input models.ActivityInput) (models.Activity, error)
	GetActivity(ctx context.Context, id string) (models.Activity, error)
	UpdateActivity(ctx context.Context, id string, patch models.ActivityPatch) (models.Activity, error)
	CloseActivity(ctx context.Context, id string) (models.Activity, error)
	ListActivities(ctx context.Context, criteria query.Criteria) query.View
	Summary(ctx context.Context) query.Summary
	GetWeather(ctx context.Context, id string) (models.Weather, error)
	ExportReport(ctx context.Context) (string, error)
	RenderMap(ctx context.Context, w io.Writer) error
	SeedSampleData(ctx context.Context) ([]models.Activity, error)
}

type activityService struct {
	repo      ActivityRepository
	geocoder  Geocoder
	weather   WeatherProvider
	publisher AlertPublisher
	cfg       *config.Config
	clock     clockwork.Clock
	metrics   *observability.Metrics
	logger    *logrus.Logger
}

func NewActivityService(
	repo ActivityRepository,
	geocoder Geocoder,
	weather WeatherProvider,
	publisher AlertPublisher,
	cfg *config.Config,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *logrus.Logger,
) ActivityService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if publisher == nil {
		publisher = alert.NopPublisher{}
	}
	return &activityService{
		repo:      repo,
		geocoder:  geocoder,
		weather:   weather,
		publisher: publisher,
		cfg:       cfg,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// ReportActivity регистрирует новую активность: проверка, геокодирование, сохранение, уведомление
func (s *activityService) ReportActivity(ctx context.Context, input models.ActivityInput) (models.Activity, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "activity",
		"method":        "ReportActivity",
		"activity_type": input.ActivityType,
		"priority":      input.Priority,
	})
	log.Info("Attempting to report a new activity")

	// Проверяем до геокодирования, чтобы не ходить во внешний сервис с заведомо плохими данными
	if err := models.ValidateActivity(input.ToActivity()); err != nil {
		log.WithError(err).Warn("Activity input rejected")
		return models.Activity{}, fmt.Errorf("service: invalid activity: %w", err)
	}

	if input.Coordinates == (models.Coordinates{}) {
		coords, err := s.geocoder.Geocode(ctx, input.Location)
		if err != nil {
			log.WithError(err).Error("Failed to geocode activity location")
			return models.Activity{}, fmt.Errorf("service: could not geocode %q: %w", input.Location, asLookupError("geocode", err))
		}
		input.Coordinates = coords
	}

	activity, err := s.repo.Create(input)
	if err != nil {
		log.WithError(err).Error("Failed to create activity in repository")
		return models.Activity{}, fmt.Errorf("service: could not create activity: %w", err)
	}

	s.metrics.ActivitiesReported.WithLabelValues(string(activity.Priority)).Inc()
	s.refreshGauge()
	log.WithField("activity_id", activity.ID).Info("Activity reported successfully")

	if activity.CriticalUnresolved() {
		s.publishAlert(ctx, activity, alert.ReasonReported)
	}
	return activity, nil
}

// GetActivity получает активность по ID
func (s *activityService) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	activity, err := s.repo.Get(id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "activity",
			"method":      "GetActivity",
			"activity_id": id,
		}).WithError(err).Warn("Failed to get activity")
		return models.Activity{}, fmt.Errorf("service: could not get activity: %w", err)
	}
	return activity, nil
}

// UpdateActivity применяет частичное обновление. Переходы статусов не ограничены.
func (s *activityService) UpdateActivity(ctx context.Context, id string, patch models.ActivityPatch) (models.Activity, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "activity",
		"method":      "UpdateActivity",
		"activity_id": id,
	})
	log.Info("Attempting to update activity")

	updated, before, err := s.repo.Update(id, patch)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			log.WithError(err).Warn("Attempted to update a non-existent activity")
		} else {
			log.WithError(err).Error("Failed to update activity in repository")
		}
		return models.Activity{}, fmt.Errorf("service: could not update activity: %w", err)
	}

	s.metrics.ActivitiesUpdated.WithLabelValues(string(updated.Priority)).Inc()
	s.refreshGauge()
	log.WithField("status", updated.Status).Info("Activity updated successfully")

	if updated.CriticalUnresolved() && !before.CriticalUnresolved() {
		s.publishAlert(ctx, updated, alert.ReasonEscalated)
	}
	return updated, nil
}

// CloseActivity переводит активность в статус Closed
func (s *activityService) CloseActivity(ctx context.Context, id string) (models.Activity, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "activity",
		"method":      "CloseActivity",
		"activity_id": id,
	})
	log.Info("Attempting to close activity")

	closed, err := s.repo.Close(id)
	if err != nil {
		log.WithError(err).Error("Failed to close activity")
		return models.Activity{}, fmt.Errorf("service: could not close activity: %w", err)
	}

	s.metrics.ActivitiesClosed.WithLabelValues(string(closed.Priority)).Inc()
	s.refreshGauge()
	log.Info("Emergency activity closed")
	return closed, nil
}

// ListActivities возвращает отфильтрованный и отсортированный список со сводкой по всем записям
func (s *activityService) ListActivities(ctx context.Context, criteria query.Criteria) query.View {
	return query.BuildView(s.repo.List(), criteria)
}

func (s *activityService) Summary(ctx context.Context) query.Summary {
	return query.Summarize(s.repo.List())
}

type weatherResult struct {
	weather models.Weather
	err     error
}

// GetWeather запрашивает погоду для места активности в фоновой горутине.
// Хранилище при этом не затрагивается.
func (s *activityService) GetWeather(ctx context.Context, id string) (models.Weather, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "activity",
		"method":      "GetWeather",
		"activity_id": id,
	})

	activity, err := s.repo.Get(id)
	if err != nil {
		log.WithError(err).Warn("Weather requested for a non-existent activity")
		return models.Weather{}, fmt.Errorf("service: could not get weather: %w", err)
	}

	// буфер на одно значение: горутина не зависнет, если вызывающий уже ушёл по ctx
	results := make(chan weatherResult, 1)
	go func() {
		w, err := s.weather.GetWeather(ctx, activity.Location)
		results <- weatherResult{weather: w, err: err}
	}()

	select {
	case <-ctx.Done():
		log.WithError(ctx.Err()).Warn("Weather request canceled")
		return models.Weather{}, fmt.Errorf("service: could not get weather: %w", asLookupError("weather", ctx.Err()))
	case r := <-results:
		if r.err != nil {
			log.WithError(r.err).Error("Weather fetch failed")
			return models.Weather{}, fmt.Errorf("service: could not get weather: %w", asLookupError("weather", r.err))
		}
		log.WithField("condition", r.weather.Condition).Info("Weather data retrieved")
		return r.weather, nil
	}
}

// ExportReport пишет JSON-отчёт в каталог отчётов и возвращает путь к файлу
func (s *activityService) ExportReport(ctx context.Context) (string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "activity",
		"method":  "ExportReport",
	})

	r := report.Build(s.repo.List(), s.clock.Now())
	path, err := report.WriteFile(s.cfg.ReportDir, r)
	if err != nil {
		log.WithError(err).Error("Failed to export report")
		return "", fmt.Errorf("service: could not export report: %w", err)
	}

	log.WithFields(logrus.Fields{
		"path":  path,
		"total": r.TotalActivities,
	}).Info("Report exported")
	return path, nil
}

// RenderMap пишет HTML-карту текущих активностей
func (s *activityService) RenderMap(ctx context.Context, w io.Writer) error {
	err := mapview.Render(w, s.repo.List(), mapview.Options{
		Title:           mapTitle,
		GeneratedAt:     s.clock.Now(),
		RefreshInterval: s.cfg.MapRefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("service: could not render map: %w", err)
	}
	return nil
}

// SeedSampleData добавляет демонстрационные активности одной записью
func (s *activityService) SeedSampleData(ctx context.Context) ([]models.Activity, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "activity",
		"method":  "SeedSampleData",
	})

	drafts := SampleActivities()
	for i := range drafts {
		coords, err := s.geocoder.Geocode(ctx, drafts[i].Location)
		if err != nil {
			log.WithError(err).Error("Failed to geocode sample activity")
			return nil, fmt.Errorf("service: could not geocode %q: %w", drafts[i].Location, asLookupError("geocode", err))
		}
		drafts[i].Coordinates = coords
	}

	created, err := s.repo.Seed(drafts)
	if err != nil {
		log.WithError(err).Error("Failed to seed sample activities")
		return nil, fmt.Errorf("service: could not seed sample data: %w", err)
	}

	s.refreshGauge()
	log.WithField("count", len(created)).Info("Sample activities created")
	return created, nil
}

// SampleActivities - демонстрационный набор для пустого хранилища
func SampleActivities() []models.Activity {
	return []models.Activity{
		{
			ActivityType:      "Medical Emergency",
			Location:          "Fullerton College Campus",
			Description:       "Student collapsed during sports practice, paramedics on scene",
			Priority:          models.PriorityHigh,
			Status:            models.StatusInProgress,
			AssignedPersonnel: []string{"EMT Team A", "Campus Security"},
			ResourcesNeeded:   []string{"Ambulance", "AED"},
			AlertRadius:       models.DefaultAlertRadius,
		},
		{
			ActivityType:      "Fire Emergency",
			Location:          "Downtown Fullerton",
			Description:       "Kitchen fire reported at local restaurant",
			Priority:          models.PriorityCritical,
			Status:            models.StatusActive,
			AssignedPersonnel: []string{"Fire Station 1", "Fire Station 2"},
			ResourcesNeeded:   []string{"Fire Truck", "Ladder Truck", "Water Tanker"},
			AlertRadius:       models.DefaultAlertRadius,
		},
		{
			ActivityType:      "Traffic Accident",
			Location:          "Harbor Blvd & Chapman Ave",
			Description:       "Multi-vehicle collision blocking intersection",
			Priority:          models.PriorityMedium,
			Status:            models.StatusResolved,
			AssignedPersonnel: []string{"Police Unit 12", "Tow Service"},
			ResourcesNeeded:   []string{"Police Car", "Tow Truck"},
			AlertRadius:       models.DefaultAlertRadius,
		},
	}
}

// publishAlert - ошибки публикации только логируются, мутация уже сохранена
func (s *activityService) publishAlert(ctx context.Context, activity models.Activity, reason string) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "activity",
		"method":      "publishAlert",
		"activity_id": activity.ID,
		"reason":      reason,
	})
	log.Warn("CRITICAL EMERGENCY: critical activity requires immediate response")

	event := alert.NewAlertEvent(activity, reason, s.clock.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish critical activity alert")
	}
}

func (s *activityService) refreshGauge() {
	s.metrics.CriticalUnresolved.Set(float64(query.Summarize(s.repo.List()).CriticalUnresolved))
}

// asLookupError оборачивает сбой внешнего сервиса в LookupError, если это ещё не сделано
func asLookupError(op string, err error) error {
	var lerr *models.LookupError
	if errors.As(err, &lerr) {
		return err
	}
	return &models.LookupError{Op: op, Err: err}
}
