package models

import (
	"time"
)

// Status - закрытый набор статусов инцидента
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusVerified   Status = "verified"
	StatusDispatched Status = "dispatched"
	StatusResolved   Status = "resolved"
	StatusFalseAlarm Status = "false_alarm"
)

// Valid проверяет, что статус входит в допустимый набор
func (s Status) Valid() bool {
	switch s {
	case StatusUnverified, StatusVerified, StatusDispatched, StatusResolved, StatusFalseAlarm:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Incident представляет один зарегистрированный инцидент.
// После создания изменяются только Status и UpdatedAt.
type Incident struct {
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
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
