package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shenikar/fire_alert_system/internal/models"
	"github.com/shenikar/fire_alert_system/internal/photo"
	"github.com/shenikar/fire_alert_system/internal/webhook"
	"github.com/shenikar/fire_alert_system/pkg/idgen"
	"github.com/sirupsen/logrus"
)

// Ошибки уровня сервиса, по которым хэндлер выбирает HTTP-статус
var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrInvalidStatus    = errors.New("invalid incident status")
	ErrNoPhoto          = errors.New("incident has no photo")
	ErrPhotoFileMissing = errors.New("photo file not found")
)

// IncidentRepository определяет контракт для работы с бд инцидентов и журналом аудита
type IncidentRepository interface {
	CreateWithAudit(ctx context.Context, incident *models.Incident, notes string) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	List(ctx context.Context, status models.Status, limit int) ([]*models.Incident, error)
	UpdateStatusWithAudit(ctx context.Context, id string, status models.Status, actor, notes string) (*models.Incident, error)
	ListAuditFor(ctx context.Context, incidentID string) ([]*models.AuditLogEntry, error)
	GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id string) error
}

// PhotoPipeline определяет контракт конвейера сжатия фотографий
type PhotoPipeline interface {
	Process(ctx context.Context, inputPath string) photo.Result
}

// PhotoStore определяет контракт хранилища фотографий
type PhotoStore interface {
	Path(filename string) string
	Exists(filename string) bool
}

// IncidentService определяет контракт для бизнес-логики жизненного цикла инцидентов
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident, uploadedPhotoPath string) error
	ChangeStatus(ctx context.Context, id string, status models.Status, notes, actor string) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, []*models.AuditLogEntry, error)
	ListIncidents(ctx context.Context, status string, limit int) ([]*models.Incident, error)
	GetAuditTrail(ctx context.Context, id string) ([]*models.AuditLogEntry, error)
	PhotoFilePath(ctx context.Context, id string) (string, error)
}

type incidentService struct {
	repo      IncidentRepository
	pipeline  PhotoPipeline
	photos    PhotoStore
	publisher webhook.EventPublisher
	logger    *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, pipeline PhotoPipeline, photos PhotoStore, publisher webhook.EventPublisher, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:      repo,
		pipeline:  pipeline,
		photos:    photos,
		publisher: publisher,
		logger:    logger,
	}
}

// ReportIncident регистрирует новый инцидент. Фотография (если есть) сжимается
// до записи в бд, чтобы строка не могла сослаться на еще не существующий файл.
// Инцидент и его первая запись аудита создаются в одной транзакции.
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident, uploadedPhotoPath string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ReportIncident",
	})
	log.Info("Attempting to report a new incident")

	if incident.ID == "" {
		incident.ID = idgen.Generate()
	}
	if incident.Language == "" {
		incident.Language = "eng"
	}
	if incident.TransmissionType == "" {
		incident.TransmissionType = "app"
	}
	if incident.Timestamp == "" {
		incident.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	// Статус при создании всегда unverified, что бы ни пришло снаружи
	incident.Status = models.StatusUnverified

	if uploadedPhotoPath != "" {
		result := s.pipeline.Process(ctx, uploadedPhotoPath)
		name := filepath.Base(result.Path)
		incident.PhotoPath = &name
		log.WithFields(logrus.Fields{
			"photo_outcome": result.Outcome,
			"photo_path":    name,
		}).Info("Photo processed")
	}

	notes := fmt.Sprintf("Incident created via %s", incident.TransmissionType)
	if err := s.repo.CreateWithAudit(ctx, incident, notes); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	s.publishEvent(ctx, incident, models.ActionCreated, models.ActorSystem)
	return nil
}

// ChangeStatus переводит инцидент в новый статус и пишет ровно одну запись аудита.
// Статус вне допустимого набора отклоняется до обращения к бд.
func (s *incidentService) ChangeStatus(ctx context.Context, id string, status models.Status, notes, actor string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ChangeStatus",
		"incident_id": id,
		"new_status":  status,
	})
	log.Info("Attempting to change incident status")

	if !status.Valid() {
		log.Warn("Rejected unknown status value")
		return nil, fmt.Errorf("service: %w: %q", ErrInvalidStatus, status)
	}

	if actor == "" {
		actor = models.ActorOperator
	}
	if notes == "" {
		notes = fmt.Sprintf("Status changed to %s", status)
	}

	incident, err := s.repo.UpdateStatusWithAudit(ctx, id, status, actor, notes)
	if err != nil {
		if errors.Is(err, ErrIncidentNotFound) {
			log.Warn("Attempted to change status of a non-existent incident")
			return nil, fmt.Errorf("service: incident %s not found for status change: %w", id, err)
		}
		log.WithError(err).Error("Failed to update incident status in repository")
		return nil, fmt.Errorf("service: could not change incident status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident status changed successfully")
	s.publishEvent(ctx, incident, models.ActionStatusChanged, actor)
	return incident, nil
}

// GetIncident возвращает инцидент вместе с полным журналом аудита
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, []*models.AuditLogEntry, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.getCached(ctx, id, log)
	if err != nil {
		return nil, nil, err
	}

	trail, err := s.repo.ListAuditFor(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list audit trail")
		return nil, nil, fmt.Errorf("service: could not get audit trail: %w", err)
	}

	log.Info("Incident fetched successfully")
	return incident, trail, nil
}

// ListIncidents возвращает инциденты, опционально отфильтрованные по статусу
func (s *incidentService) ListIncidents(ctx context.Context, status string, limit int) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"status":  status,
		"limit":   limit,
	})
	log.Info("Listing incidents")

	filter := models.Status(status)
	if status != "" && !filter.Valid() {
		log.Warn("Rejected unknown status filter")
		return nil, fmt.Errorf("service: %w: %q", ErrInvalidStatus, status)
	}

	incidents, err := s.repo.List(ctx, filter, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// GetAuditTrail возвращает журнал аудита инцидента
func (s *incidentService) GetAuditTrail(ctx context.Context, id string) ([]*models.AuditLogEntry, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetAuditTrail",
		"incident_id": id,
	})

	trail, err := s.repo.ListAuditFor(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list audit trail")
		return nil, fmt.Errorf("service: could not get audit trail: %w", err)
	}
	return trail, nil
}

// PhotoFilePath возвращает путь к файлу фотографии инцидента для отдачи клиенту
func (s *incidentService) PhotoFilePath(ctx context.Context, id string) (string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "PhotoFilePath",
		"incident_id": id,
	})

	incident, err := s.getCached(ctx, id, log)
	if err != nil {
		return "", err
	}

	if incident.PhotoPath == nil {
		return "", fmt.Errorf("service: %w", ErrNoPhoto)
	}
	if !s.photos.Exists(*incident.PhotoPath) {
		log.WithField("photo_path", *incident.PhotoPath).Warn("Photo referenced by incident is missing on disk")
		return "", fmt.Errorf("service: %w", ErrPhotoFileMissing)
	}
	return s.photos.Path(*incident.PhotoPath), nil
}

// getCached читает инцидент сначала из кеша, затем из бд с обратной записью в кеш
func (s *incidentService) getCached(ctx context.Context, id string, log *logrus.Entry) (*models.Incident, error) {
	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIncidentNotFound) {
			log.Warn("Incident not found")
			return nil, fmt.Errorf("service: %w", err)
		}
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// publishEvent отправляет событие жизненного цикла. Доставка best-effort:
// сбой публикации не влияет на результат операции.
func (s *incidentService) publishEvent(ctx context.Context, incident *models.Incident, action, actor string) {
	if s.publisher == nil {
		return
	}
	event := webhook.IncidentEvent{
		IncidentID: incident.ID,
		Action:     action,
		Status:     incident.Status.String(),
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("incident_id", incident.ID).Warn("Failed to publish incident event")
	}
}
