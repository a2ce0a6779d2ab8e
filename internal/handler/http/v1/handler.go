package v1

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/activity_tracker/internal/config"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/query"
	"github.com/shenikar/activity_tracker/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	activityService service.ActivityService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(activityService service.ActivityService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		activityService: activityService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Report a new activity
// @Description Register a new emergency activity. Without coordinates the location is geocoded. Requires API key when keys are configured.
// @Tags Activities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param activity body CreateActivityRequest true "Activity report"
// @Success 201 {object} ActivityResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Geocoding failed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activities [post]
func (h *Handler) reportActivity(c *gin.Context) {
	var input CreateActivityRequest
	log := h.logger.WithField("method", "reportActivity")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.activityService.ReportActivity(c.Request.Context(), DTOToActivityInput(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToActivityResponse(activity))
}

// @Summary List activities
// @Description List activities sorted by priority (Critical first) and newest first, with a summary over all activities.
// @Tags Activities
// @Produce json
// @Param status query string false "Status filter (All, Active, In Progress, Resolved, Closed)"
// @Param priority query string false "Priority filter (All, Critical, High, Medium, Low)"
// @Success 200 {object} ListActivitiesResponse
// @Failure 400 {object} map[string]string "Unknown filter value"
// @Router /activities [get]
func (h *Handler) listActivities(c *gin.Context) {
	log := h.logger.WithField("method", "listActivities")

	criteria, err := query.ParseCriteria(c.Query("status"), c.Query("priority"))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	view := h.activityService.ListActivities(c.Request.Context(), criteria)
	c.JSON(http.StatusOK, ViewToResponse(view))
}

// @Summary Get activity by ID
// @Description Get a single activity by its ID.
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} ActivityResponse
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [get]
func (h *Handler) getActivity(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getActivity").WithField("id", id)

	activity, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToActivityResponse(activity))
}

// @Summary Update an activity
// @Description Partially update an activity. Absent fields are left unchanged; any status transition is allowed. Requires API key when keys are configured.
// @Tags Activities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Activity ID"
// @Param activity body UpdateActivityRequest true "Activity update"
// @Success 200 {object} ActivityResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Activity not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activities/{id} [put]
func (h *Handler) updateActivity(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateActivity").WithField("id", id)

	var input UpdateActivityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.activityService.UpdateActivity(c.Request.Context(), id, DTOToActivityPatch(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToActivityResponse(activity))
}

// @Summary Close an activity
// @Description Set the activity status to Closed. Closing a closed activity is a no-op. Requires API key when keys are configured.
// @Tags Activities
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} ActivityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Activity not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activities/{id}/close [post]
func (h *Handler) closeActivity(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "closeActivity").WithField("id", id)

	activity, err := h.activityService.CloseActivity(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToActivityResponse(activity))
}

// @Summary Get weather for an activity
// @Description Fetch current weather at the activity location. The activity itself is not modified.
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} WeatherResponse
// @Failure 404 {object} map[string]string "Activity not found"
// @Failure 502 {object} map[string]string "Weather lookup failed"
// @Router /activities/{id}/weather [get]
func (h *Handler) getWeather(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getWeather").WithField("id", id)

	weather, err := h.activityService.GetWeather(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, WeatherToResponse(weather))
}

// @Summary Get summary
// @Description Counts by status and priority over all activities.
// @Tags Activities
// @Produce json
// @Success 200 {object} SummaryResponse
// @Router /summary [get]
func (h *Handler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, SummaryToResponse(h.activityService.Summary(c.Request.Context())))
}

// @Summary Activity map
// @Description Leaflet map of all activities as an HTML page.
// @Tags Map
// @Produce html
// @Success 200 {string} string "HTML page"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /map [get]
func (h *Handler) getMap(c *gin.Context) {
	log := h.logger.WithField("method", "getMap")

	var buf bytes.Buffer
	if err := h.activityService.RenderMap(c.Request.Context(), &buf); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// @Summary Export report
// @Description Write a JSON report of all activities to the report directory. Requires API key when keys are configured.
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) exportReport(c *gin.Context) {
	log := h.logger.WithField("method", "exportReport")

	path, err := h.activityService.ExportReport(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ReportResponse{Path: path})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError переводит доменную ошибку в HTTP-статус
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	var (
		verr *models.ValidationError
		nerr *models.NotFoundError
		lerr *models.LookupError
	)
	switch {
	case errors.As(err, &verr):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &nerr):
		log.WithError(err).Warn("Activity not found")
		c.JSON(http.StatusNotFound, gin.H{"error": nerr.Error()})
	case errors.As(err, &lerr):
		log.WithError(err).Error("External lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "external lookup failed"})
	default:
		log.WithError(err).Error("Failed to process request in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
