package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shenikar/fire_alert_system/internal/models"
	"github.com/shenikar/fire_alert_system/internal/photo"
	"github.com/shenikar/fire_alert_system/internal/service/mocks"
	"github.com/shenikar/fire_alert_system/internal/webhook"
	webhook_mocks "github.com/shenikar/fire_alert_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *mocks.MockPhotoPipeline, *mocks.MockPhotoStore, *webhook_mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	pipelineMock := mocks.NewMockPhotoPipeline(ctrl)
	photosMock := mocks.NewMockPhotoStore(ctrl)
	publisherMock := webhook_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(repoMock, pipelineMock, photosMock, publisherMock, logger)
	return service.(*incidentService), repoMock, pipelineMock, photosMock, publisherMock
}

func TestReportIncident_Success_NoPhoto(t *testing.T) {
	// Подготовка
	service, repoMock, pipelineMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{}

	// Ожидания
	// 1. Конвейер сжатия не вызывается без фотографии
	pipelineMock.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)

	// 2. Создание с записью аудита в одной транзакции
	repoMock.EXPECT().
		CreateWithAudit(ctx, gomock.Any(), "Incident created via app").
		DoAndReturn(func(ctx context.Context, inc *models.Incident, notes string) error {
			assert.Equal(t, models.StatusUnverified, inc.Status)
			return nil
		}).Times(1)

	// 3. Публикация события создания
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event webhook.IncidentEvent) {
			assert.Equal(t, models.ActionCreated, event.Action)
			assert.Equal(t, models.ActorSystem, event.Actor)
		}).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident, "")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnverified, incident.Status)
	assert.True(t, strings.HasPrefix(incident.ID, "INC-"))
	assert.Equal(t, "eng", incident.Language)
	assert.Equal(t, "app", incident.TransmissionType)
	assert.NotEmpty(t, incident.Timestamp)
	assert.Nil(t, incident.PhotoPath)
}

func TestReportIncident_WithPhoto(t *testing.T) {
	// Подготовка
	service, repoMock, pipelineMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{}
	uploadedPath := "/data/uploads/4f2c1b.jpg"

	// Ожидания
	// 1. Фотография сжимается до записи в бд
	pipelineMock.EXPECT().
		Process(ctx, uploadedPath).
		Return(photo.Result{
			Path:    "/data/uploads/4f2c1b-compressed.jpg",
			Outcome: photo.OutcomeCompressed,
			Quality: 80,
		}).Times(1)

	// 2. В бд попадает только имя файла, без пути
	repoMock.EXPECT().
		CreateWithAudit(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident, notes string) error {
			require.NotNil(t, inc.PhotoPath)
			assert.Equal(t, "4f2c1b-compressed.jpg", *inc.PhotoPath)
			return nil
		}).Times(1)

	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident, uploadedPath)

	// Проверки
	require.NoError(t, err)
}

func TestReportIncident_PhotoFallbackKeepsOriginal(t *testing.T) {
	// Подготовка
	service, repoMock, pipelineMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{}
	uploadedPath := "/data/uploads/broken.jpg"

	// Ожидания
	// 1. Сбой сжатия деградирует до исходного файла и не роняет запрос
	pipelineMock.EXPECT().
		Process(ctx, uploadedPath).
		Return(photo.Result{Path: uploadedPath, Outcome: photo.OutcomeFallback}).
		Times(1)

	repoMock.EXPECT().
		CreateWithAudit(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident, notes string) error {
			require.NotNil(t, inc.PhotoPath)
			assert.Equal(t, "broken.jpg", *inc.PhotoPath)
			return nil
		}).Times(1)

	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident, uploadedPath)

	// Проверки
	require.NoError(t, err)
}

func TestReportIncident_StorageFailure(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{}
	dbError := fmt.Errorf("соединение с бд потеряно")

	// Ожидания
	repoMock.EXPECT().
		CreateWithAudit(ctx, gomock.Any(), gomock.Any()).
		Return(dbError).Times(1)

	// Событие не публикуется при неудачном создании
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.ReportIncident(ctx, incident, "")

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not create incident")
}

func TestChangeStatus_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	updated := &models.Incident{ID: incidentID, Status: models.StatusVerified}

	// Ожидания
	// 1. Дефолтные actor и notes подставляются сервисом
	repoMock.EXPECT().
		UpdateStatusWithAudit(ctx, incidentID, models.StatusVerified, models.ActorOperator, "Status changed to verified").
		Return(updated, nil).Times(1)

	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil).Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event webhook.IncidentEvent) {
			assert.Equal(t, models.ActionStatusChanged, event.Action)
			assert.Equal(t, "verified", event.Status)
		}).Return(nil).Times(1)

	// Действие
	incident, err := service.ChangeStatus(ctx, incidentID, models.StatusVerified, "", "")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, updated, incident)
}

func TestChangeStatus_CustomNotesAndActor(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	updated := &models.Incident{ID: incidentID, Status: models.StatusVerified}

	// Ожидания
	repoMock.EXPECT().
		UpdateStatusWithAudit(ctx, incidentID, models.StatusVerified, "operator-7", "confirmed by patrol").
		Return(updated, nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	_, err := service.ChangeStatus(ctx, incidentID, models.StatusVerified, "confirmed by patrol", "operator-7")

	// Проверки
	require.NoError(t, err)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: до бд дело не доходит
	repoMock.EXPECT().UpdateStatusWithAudit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	incident, err := service.ChangeStatus(ctx, "INC-1-a", "exploded", "", "")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestChangeStatus_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-missing00"

	// Ожидания
	repoMock.EXPECT().
		UpdateStatusWithAudit(ctx, incidentID, models.StatusVerified, models.ActorOperator, gomock.Any()).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, ErrIncidentNotFound)).
		Times(1)

	// Записи аудита и события при промахе не создаются
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	incident, err := service.ChangeStatus(ctx, incidentID, models.StatusVerified, "", "")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	expectedIncident := &models.Incident{ID: incidentID, Status: models.StatusUnverified}
	expectedTrail := []*models.AuditLogEntry{{ID: 1, IncidentID: incidentID, Action: models.ActionCreated}}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(expectedIncident, nil).Times(1)
	repoMock.EXPECT().ListAuditFor(ctx, incidentID).Return(expectedTrail, nil).Times(1)

	// Действие
	incident, trail, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
	assert.Equal(t, expectedTrail, trail)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	expectedIncident := &models.Incident{ID: incidentID}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(expectedIncident, nil).Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().SetIncidentCache(ctx, expectedIncident).Return(nil).Times(1)

	repoMock.EXPECT().ListAuditFor(ctx, incidentID).Return([]*models.AuditLogEntry{}, nil).Times(1)

	// Действие
	incident, _, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-missing00"

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, ErrIncidentNotFound)).
		Times(1)

	// Действие
	incident, trail, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.Nil(t, trail)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestListIncidents_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	expectedIncidents := []*models.Incident{
		{ID: "INC-1700000000001-aaaaaaaaa", Status: models.StatusVerified},
		{ID: "INC-1700000000000-bbbbbbbbb", Status: models.StatusVerified},
	}

	// Ожидания
	repoMock.EXPECT().List(ctx, models.StatusVerified, 10).Return(expectedIncidents, nil).Times(1)

	// Действие
	incidents, err := service.ListIncidents(ctx, "verified", 10)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncidents, incidents)
}

func TestListIncidents_NoFilter(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().List(ctx, models.Status(""), 0).Return([]*models.Incident{}, nil).Times(1)

	// Действие
	incidents, err := service.ListIncidents(ctx, "", 0)

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestListIncidents_InvalidFilter(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: неизвестный статус отклоняется до обращения к бд
	repoMock.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	incidents, err := service.ListIncidents(ctx, "on_fire", 0)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incidents)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPhotoFilePath_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _, photosMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	photoName := "4f2c1b-compressed.jpg"
	incident := &models.Incident{ID: incidentID, PhotoPath: &photoName}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(incident, nil).Times(1)
	photosMock.EXPECT().Exists(photoName).Return(true).Times(1)
	photosMock.EXPECT().Path(photoName).Return("/data/uploads/" + photoName).Times(1)

	// Действие
	path, err := service.PhotoFilePath(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "/data/uploads/"+photoName, path)
}

func TestPhotoFilePath_NoPhoto(t *testing.T) {
	// Подготовка
	service, repoMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	incident := &models.Incident{ID: incidentID}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(incident, nil).Times(1)

	// Действие
	path, err := service.PhotoFilePath(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Empty(t, path)
	assert.ErrorIs(t, err, ErrNoPhoto)
}

func TestPhotoFilePath_FileMissing(t *testing.T) {
	// Подготовка
	service, repoMock, _, photosMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := "INC-1700000000000-abc123def"
	photoName := "gone.jpg"
	incident := &models.Incident{ID: incidentID, PhotoPath: &photoName}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(incident, nil).Times(1)
	photosMock.EXPECT().Exists(photoName).Return(false).Times(1)

	// Действие
	path, err := service.PhotoFilePath(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Empty(t, path)
	assert.ErrorIs(t, err, ErrPhotoFileMissing)
}
