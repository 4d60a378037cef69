package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/fire_alert_system/internal/config"
	"github.com/shenikar/fire_alert_system/internal/models"
	"github.com/shenikar/fire_alert_system/internal/photo"
	"github.com/shenikar/fire_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Допустимые расширения загружаемых фотографий
var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Handler struct {
	incidentService service.IncidentService
	photos          *photo.Store
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, photos *photo.Store, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		photos:          photos,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Report a new incident
// @Description Report a new fire incident with optional geolocation and photo.
// @Tags Incidents
// @Accept mpfd
// @Produce json
// @Param location formData string false "Location JSON: {latitude, longitude, accuracy}"
// @Param language formData string false "Reporter language code" default(eng)
// @Param deviceId formData string false "Reporter device ID"
// @Param phone formData string false "Reporter phone"
// @Param timestamp formData string false "Reporter-claimed ISO-8601 timestamp"
// @Param photo formData file false "Incident photo (jpeg/jpg/png/gif/webp, max 10MB)"
// @Success 201 {object} CreateIncidentResponse
// @Failure 400 {object} map[string]string "Invalid photo upload"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	log := h.logger.WithField("method", "createIncident")

	incident := &models.Incident{
		DeviceID:  optionalString(c.PostForm("deviceId")),
		Phone:     optionalString(c.PostForm("phone")),
		Timestamp: c.PostForm("timestamp"),
		Language:  c.PostForm("language"),
	}

	// Кривой location не валит запрос: координаты просто остаются пустыми
	if raw := c.PostForm("location"); raw != "" {
		var loc LocationPayload
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			log.WithError(err).Warn("Failed to parse location payload, storing incident without coordinates")
		} else {
			incident.Latitude = loc.Latitude
			incident.Longitude = loc.Longitude
			incident.Accuracy = loc.Accuracy
		}
	}

	uploadedPath, ok := h.savePhotoUpload(c, log)
	if !ok {
		return
	}

	if err := h.incidentService.ReportIncident(c.Request.Context(), incident, uploadedPath); err != nil {
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create incident"})
		return
	}

	c.JSON(http.StatusCreated, CreateIncidentResponse{
		Success:    true,
		IncidentID: incident.ID,
		Message:    "Incident reported successfully",
	})
}

// savePhotoUpload сохраняет фотографию из формы во временное имя в хранилище.
// Возвращает пустой путь, если фотографии нет; false - если ответ уже отправлен.
func (h *Handler) savePhotoUpload(c *gin.Context, log *logrus.Entry) (string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", true
		}
		log.WithError(err).Warn("Failed to read photo from form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo upload"})
		return "", false
	}

	if fileHeader.Size > h.cfg.MaxUploadSizeMB<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds maximum upload size"})
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExt[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image files are allowed"})
		return "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.WithError(err).Error("Failed to open uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
		return "", false
	}
	defer src.Close()

	name, err := h.photos.Save(src, fileHeader.Filename)
	if err != nil {
		log.WithError(err).Error("Failed to store uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
		return "", false
	}
	return h.photos.Path(name), true
}

// @Summary Get a list of incidents
// @Description Get incidents ordered by creation time (most recent first), optionally filtered by status.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param status query string false "Status filter" Enums(unverified, verified, dispatched, resolved, false_alarm)
// @Param limit query int false "Maximum number of incidents to return"
// @Success 200 {object} ListIncidentsResponse
// @Failure 400 {object} map[string]string "Unknown status filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), status, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	responses := ModelsToIncidentResponses(incidents)
	c.JSON(http.StatusOK, ListIncidentsResponse{
		Success:   true,
		Count:     len(responses),
		Incidents: responses,
	})
}

// @Summary Get incident by ID
// @Description Get a single incident with its full audit trail.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} GetIncidentResponse
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, trail, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, GetIncidentResponse{
		Success:  true,
		Incident: ModelToIncidentResponse(incident),
		AuditLog: ModelsToAuditEntryResponses(trail),
	})
}

// @Summary Update an incident
// @Description Change incident status. A request without status changes nothing and logs nothing.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} UpdateIncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or unknown status"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [patch]
func (h *Handler) updateIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
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

	// Без нового статуса запрос ничего не меняет и не логирует:
	// возвращаем текущее состояние записи
	if input.Status == "" {
		incident, _, err := h.incidentService.GetIncident(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrIncidentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
				return
			}
			log.WithError(err).Error("Failed to get incident from service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, UpdateIncidentResponse{Success: true, Incident: ModelToIncidentResponse(incident)})
		return
	}

	incident, err := h.incidentService.ChangeStatus(c.Request.Context(), id, models.Status(input.Status), input.Notes, input.Actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncidentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status value"})
		default:
			log.WithError(err).Error("Failed to change incident status in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, UpdateIncidentResponse{Success: true, Incident: ModelToIncidentResponse(incident)})
}

// @Summary Get incident photo
// @Description Get the raw photo bytes for an incident.
// @Tags Incidents
// @Produce image/jpeg
// @Param id path string true "Incident ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Incident, photo, or photo file not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/photo [get]
func (h *Handler) getIncidentPhoto(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncidentPhoto").WithField("id", id)

	path, err := h.incidentService.PhotoFilePath(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncidentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		case errors.Is(err, service.ErrNoPhoto):
			c.JSON(http.StatusNotFound, gin.H{"error": "no photo available for this incident"})
		case errors.Is(err, service.ErrPhotoFileMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "photo file not found"})
		default:
			log.WithError(err).Error("Failed to resolve incident photo")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.File(path)
}

// @Summary Get incident audit trail
// @Description Get the append-only audit trail for an incident, newest entries first.
// @Tags Audit
// @Accept json
// @Produce json
// @Param incidentId path string true "Incident ID"
// @Success 200 {object} AuditTrailResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /audit/{incidentId} [get]
func (h *Handler) getAuditTrail(c *gin.Context) {
	incidentID := c.Param("incidentId")
	log := h.logger.WithField("method", "getAuditTrail").WithField("incident_id", incidentID)

	trail, err := h.incidentService.GetAuditTrail(c.Request.Context(), incidentID)
	if err != nil {
		log.WithError(err).Error("Failed to get audit trail from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	responses := ModelsToAuditEntryResponses(trail)
	c.JSON(http.StatusOK, AuditTrailResponse{
		Success:  true,
		Count:    len(responses),
		AuditLog: responses,
	})
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

// optionalString возвращает nil для пустой строки
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
