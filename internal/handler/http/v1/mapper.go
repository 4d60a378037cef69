package v1

import "github.com/shenikar/fire_alert_system/internal/models"

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:               model.ID,
		DeviceID:         model.DeviceID,
		Phone:            model.Phone,
		Timestamp:        model.Timestamp,
		Latitude:         model.Latitude,
		Longitude:        model.Longitude,
		Accuracy:         model.Accuracy,
		Language:         model.Language,
		TransmissionType: model.TransmissionType,
		PhotoPath:        model.PhotoPath,
		Status:           model.Status.String(),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToAuditEntryResponse преобразует запись журнала аудита в DTO
func ModelToAuditEntryResponse(model *models.AuditLogEntry) *AuditLogEntryResponse {
	return &AuditLogEntryResponse{
		ID:         model.ID,
		IncidentID: model.IncidentID,
		Action:     model.Action,
		Actor:      model.Actor,
		Notes:      model.Notes,
		Timestamp:  model.Timestamp,
	}
}

// ModelsToAuditEntryResponses преобразует слайс записей журнала в слайс DTO
func ModelsToAuditEntryResponses(models []*models.AuditLogEntry) []*AuditLogEntryResponse {
	responses := make([]*AuditLogEntryResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAuditEntryResponse(model)
	}
	return responses
}
