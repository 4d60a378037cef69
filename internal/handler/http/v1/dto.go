package v1

import (
	"time"
)

// LocationPayload - геоданные из поля location формы создания инцидента
// @Description Геоданные из поля location формы создания инцидента
type LocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *int     `json:"accuracy"`
}

// UpdateIncidentRequest DTO для обновления инцидента
// @Description DTO для обновления инцидента
type UpdateIncidentRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=unverified verified dispatched resolved false_alarm"`
	Notes  string `json:"notes,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID               string    `json:"id"`
	DeviceID         *string   `json:"device_id,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Timestamp        string    `json:"timestamp"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Accuracy         *int      `json:"accuracy,omitempty"`
	Language         string    `json:"language"`
	TransmissionType string    `json:"transmission_type"`
	PhotoPath        *string   `json:"photo_path,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AuditLogEntryResponse DTO для одной записи журнала аудита
// @Description DTO для одной записи журнала аудита
type AuditLogEntryResponse struct {
	ID         int64     `json:"id"`
	IncidentID string    `json:"incident_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Notes      *string   `json:"notes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreateIncidentResponse DTO для ответа на создание инцидента
// @Description DTO для ответа на создание инцидента
type CreateIncidentResponse struct {
	Success    bool   `json:"success"`
	IncidentID string `json:"incident_id"`
	Message    string `json:"message"`
}

// ListIncidentsResponse DTO для ответа со списком инцидентов
// @Description DTO для ответа со списком инцидентов
type ListIncidentsResponse struct {
	Success   bool                `json:"success"`
	Count     int                 `json:"count"`
	Incidents []*IncidentResponse `json:"incidents"`
}

// GetIncidentResponse DTO для ответа с инцидентом и журналом аудита
// @Description DTO для ответа с инцидентом и журналом аудита
type GetIncidentResponse struct {
	Success  bool                     `json:"success"`
	Incident *IncidentResponse        `json:"incident"`
	AuditLog []*AuditLogEntryResponse `json:"audit_log"`
}

// UpdateIncidentResponse DTO для ответа на обновление инцидента
// @Description DTO для ответа на обновление инцидента
type UpdateIncidentResponse struct {
	Success  bool              `json:"success"`
	Incident *IncidentResponse `json:"incident"`
}

// AuditTrailResponse DTO для ответа с журналом аудита
// @Description DTO для ответа с журналом аудита
type AuditTrailResponse struct {
	Success  bool                     `json:"success"`
	Count    int                      `json:"count"`
	AuditLog []*AuditLogEntryResponse `json:"audit_log"`
}
