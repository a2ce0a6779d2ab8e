package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/activity_tracker/internal/alert"
	"github.com/shenikar/activity_tracker/internal/config"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/shenikar/activity_tracker/internal/query"
	"github.com/shenikar/activity_tracker/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *mocks.MockActivityRepository
	geocoder  *mocks.MockGeocoder
	weather   *mocks.MockWeatherProvider
	publisher *mocks.MockAlertPublisher
	metrics   *observability.Metrics
	cfg       *config.Config
}

// newTestActivityService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestActivityService(t *testing.T) (*activityService, *testDeps) {
	ctrl := gomock.NewController(t)
	deps := &testDeps{
		repo:      mocks.NewMockActivityRepository(ctrl),
		geocoder:  mocks.NewMockGeocoder(ctrl),
		weather:   mocks.NewMockWeatherProvider(ctrl),
		publisher: mocks.NewMockAlertPublisher(ctrl),
		metrics:   observability.NewMetricsForTesting(),
		cfg: &config.Config{
			ReportDir:          t.TempDir(),
			MapRefreshInterval: 30 * time.Second,
		},
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewActivityService(deps.repo, deps.geocoder, deps.weather, deps.publisher,
		deps.cfg, clockwork.NewFakeClockAt(testNow), deps.metrics, logger)
	return svc.(*activityService), deps
}

func fireInput() models.ActivityInput {
	return models.ActivityInput{
		ActivityType: "Fire Emergency",
		Location:     "Downtown Fullerton",
		Priority:     models.PriorityCritical,
		AlertRadius:  2000,
	}
}

func stored(input models.ActivityInput, id string) models.Activity {
	a := input.ToActivity()
	a.ID = id
	a.CreatedAt = testNow
	return a
}

func TestReportActivity_Success_NotCritical(t *testing.T) {
	// Подготовка
	svc, deps := newTestActivityService(t)
	ctx := context.Background()
	input := fireInput()
	input.Priority = models.PriorityLow
	coords := models.Coordinates{Lat: 33.87, Lng: -117.92}

	withCoords := input
	withCoords.Coordinates = coords
	created := stored(withCoords, "a-1")

	// Ожидания
	deps.geocoder.EXPECT().Geocode(ctx, "Downtown Fullerton").Return(coords, nil).Times(1)
	deps.repo.EXPECT().Create(withCoords).Return(created, nil).Times(1)
	deps.repo.EXPECT().List().Return([]models.Activity{created}).AnyTimes()

	// Действие
	got, err := svc.ReportActivity(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.metrics.ActivitiesReported.WithLabelValues("Low")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(deps.metrics.CriticalUnresolved), 0)
}

func TestReportActivity_CriticalPublishesAlert(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx := context.Background()
	input := fireInput()
	input.Coordinates = models.Coordinates{Lat: 33.87, Lng: -117.92}
	created := stored(input, "a-1")

	deps.repo.EXPECT().Create(input).Return(created, nil)
	deps.repo.EXPECT().List().Return([]models.Activity{created}).AnyTimes()
	deps.publisher.EXPECT().
		Publish(ctx, alert.NewAlertEvent(created, alert.ReasonReported, testNow)).
		Return(errors.New("redis down")).
		Times(1)

	got, err := svc.ReportActivity(ctx, input)

	require.NoError(t, err, "publish failure must not fail the report")
	assert.Equal(t, "a-1", got.ID)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.metrics.CriticalUnresolved), 0)
}

func TestReportActivity_ValidationSkipsLookup(t *testing.T) {
	svc, _ := newTestActivityService(t)
	input := fireInput()
	input.Location = "   "

	_, err := svc.ReportActivity(context.Background(), input)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location", verr.Field)
}

func TestReportActivity_GeocodeFailure(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx := context.Background()

	deps.geocoder.EXPECT().Geocode(ctx, gomock.Any()).Return(models.Coordinates{}, errors.New("timeout"))

	_, err := svc.ReportActivity(ctx, fireInput())

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "geocode", lerr.Op)
}

func TestReportActivity_RepositoryError(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx := context.Background()
	perr := &models.PersistenceError{Op: "save", Err: errors.New("disk full")}

	deps.geocoder.EXPECT().Geocode(ctx, gomock.Any()).Return(models.Coordinates{Lat: 34, Lng: -118}, nil)
	deps.repo.EXPECT().Create(gomock.Any()).Return(models.Activity{}, perr)

	_, err := svc.ReportActivity(ctx, fireInput())

	require.ErrorIs(t, err, perr)
}

func TestUpdateActivity_EscalationPublishesAlert(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx := context.Background()
	input := fireInput()
	input.Priority = models.PriorityHigh
	before := stored(input, "a-1")
	after := before.Clone()
	after.Priority = models.PriorityCritical
	patch := models.ActivityPatch{Priority: ptr(models.PriorityCritical)}

	deps.repo.EXPECT().Update("a-1", patch).Return(after, before, nil)
	deps.repo.EXPECT().List().Return([]models.Activity{after}).AnyTimes()
	deps.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e alert.AlertEvent) error {
			assert.Equal(t, alert.ReasonEscalated, e.Reason)
			assert.Equal(t, "a-1", e.ActivityID)
			return nil
		}).Times(1)

	got, err := svc.UpdateActivity(ctx, "a-1", patch)

	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, got.Priority)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.metrics.ActivitiesUpdated.WithLabelValues("Critical")), 0)
}

func TestUpdateActivity_AlreadyCriticalNoAlert(t *testing.T) {
	svc, deps := newTestActivityService(t)
	before := stored(fireInput(), "a-1")
	after := before.Clone()
	after.Status = models.StatusInProgress
	patch := models.ActivityPatch{Status: ptr(models.StatusInProgress)}

	deps.repo.EXPECT().Update("a-1", patch).Return(after, before, nil)
	deps.repo.EXPECT().List().Return([]models.Activity{after}).AnyTimes()

	_, err := svc.UpdateActivity(context.Background(), "a-1", patch)

	require.NoError(t, err)
}

func TestUpdateActivity_NotFound(t *testing.T) {
	svc, deps := newTestActivityService(t)

	deps.repo.EXPECT().Update("missing", models.ActivityPatch{}).Return(models.Activity{}, models.Activity{}, &models.NotFoundError{ID: "missing"})

	_, err := svc.UpdateActivity(context.Background(), "missing", models.ActivityPatch{})

	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCloseActivity(t *testing.T) {
	svc, deps := newTestActivityService(t)
	closed := stored(fireInput(), "a-1")
	closed.Status = models.StatusClosed

	deps.repo.EXPECT().Close("a-1").Return(closed, nil)
	deps.repo.EXPECT().List().Return([]models.Activity{closed}).AnyTimes()

	got, err := svc.CloseActivity(context.Background(), "a-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.metrics.ActivitiesClosed.WithLabelValues("Critical")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(deps.metrics.CriticalUnresolved), 0)
}

func TestListActivities(t *testing.T) {
	svc, deps := newTestActivityService(t)
	low := stored(models.ActivityInput{ActivityType: "Noise", Location: "Park", Priority: models.PriorityLow}, "low")
	crit := stored(fireInput(), "crit")

	deps.repo.EXPECT().List().Return([]models.Activity{low, crit})

	view := svc.ListActivities(context.Background(), query.Criteria{})

	require.Len(t, view.Activities, 2)
	assert.Equal(t, "crit", view.Activities[0].ID)
	assert.Equal(t, 2, view.Total)
}

func TestGetWeather_Success(t *testing.T) {
	svc, deps := newTestActivityService(t)
	a := stored(fireInput(), "a-1")
	want := models.Weather{Location: a.Location, Temperature: 21, Condition: "Clear", WindSpeed: 5, Visibility: 10}

	deps.repo.EXPECT().Get("a-1").Return(a, nil)
	deps.weather.EXPECT().GetWeather(gomock.Any(), "Downtown Fullerton").Return(want, nil)

	got, err := svc.GetWeather(context.Background(), "a-1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetWeather_ProviderError(t *testing.T) {
	svc, deps := newTestActivityService(t)

	deps.repo.EXPECT().Get("a-1").Return(stored(fireInput(), "a-1"), nil)
	deps.weather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).Return(models.Weather{}, errors.New("503"))

	_, err := svc.GetWeather(context.Background(), "a-1")

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "weather", lerr.Op)
}

func TestGetWeather_CanceledWhileWaiting(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	done := make(chan struct{})

	deps.repo.EXPECT().Get("a-1").Return(stored(fireInput(), "a-1"), nil)
	deps.weather.EXPECT().GetWeather(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) (models.Weather, error) {
			defer close(done)
			cancel()
			<-release
			return models.Weather{Condition: "Clear"}, nil
		})

	_, err := svc.GetWeather(ctx, "a-1")
	close(release)
	<-done

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportReport(t *testing.T) {
	svc, deps := newTestActivityService(t)

	deps.repo.EXPECT().List().Return([]models.Activity{stored(fireInput(), "a-1")})

	path, err := svc.ExportReport(context.Background())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(deps.cfg.ReportDir, "ice_emergency_report_20250601_120000.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"critical_emergencies": 1`)
}

func TestRenderMap(t *testing.T) {
	svc, deps := newTestActivityService(t)

	deps.repo.EXPECT().List().Return([]models.Activity{stored(fireInput(), "a-1")})

	var buf bytes.Buffer
	require.NoError(t, svc.RenderMap(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "ICE Activity Monitor")
	assert.Contains(t, html, `content="30"`)
	assert.Contains(t, html, "Last Updated: 2025-06-01 12:00:00")
}

func TestSeedSampleData(t *testing.T) {
	svc, deps := newTestActivityService(t)
	ctx := context.Background()

	deps.geocoder.EXPECT().Geocode(ctx, gomock.Any()).Return(models.Coordinates{Lat: 33.9, Lng: -117.9}, nil).Times(3)
	deps.repo.EXPECT().Seed(gomock.Any()).DoAndReturn(func(drafts []models.Activity) ([]models.Activity, error) {
		require.Len(t, drafts, 3)
		statuses := []models.Status{drafts[0].Status, drafts[1].Status, drafts[2].Status}
		assert.Equal(t, []models.Status{models.StatusInProgress, models.StatusActive, models.StatusResolved}, statuses)
		for _, d := range drafts {
			assert.InDelta(t, 33.9, d.Coordinates.Lat, 0)
		}
		return drafts, nil
	})
	deps.repo.EXPECT().List().Return(SampleActivities()).AnyTimes()

	created, err := svc.SeedSampleData(ctx)

	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.metrics.CriticalUnresolved), 0)
}

func TestSampleActivities_Valid(t *testing.T) {
	for _, a := range SampleActivities() {
		assert.NoError(t, models.ValidateActivity(a), a.ActivityType)
		assert.False(t, strings.TrimSpace(a.Description) == "")
	}
}

func ptr[T any](v T) *T { return &v }
