package models

import (
	"time"
)

// Действия, фиксируемые в журнале аудита
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
)

// Акторы по умолчанию
const (
	ActorSystem   = "system"
	ActorOperator = "operator"
)

// AuditLogEntry представляет одну неизменяемую запись журнала аудита.
// Записи только добавляются и никогда не удаляются.
type AuditLogEntry struct {
	ID         int64     `json:"id"`
	IncidentID string    `json:"incident_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Notes      *string   `json:"notes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
