package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertStatus - статус жизненного цикла алерта
type AlertStatus string

const (
	AlertStatusPending    AlertStatus = "pending"
	AlertStatusNotified   AlertStatus = "notified"
	AlertStatusInProgress AlertStatus = "in_progress"
	AlertStatusResolved   AlertStatus = "resolved"
)

// Alert - запись о раненом животном. Изображение, классификация и координаты
// задаются при создании и больше не меняются.
type Alert struct {
	ID             uuid.UUID   `json:"id"`
	ImageURL       string      `json:"image_url"`
	AnimalType     string      `json:"animal_type"`
	InjuryLocation string      `json:"injury_location"`
	Severity       int         `json:"severity"`
	Description    string      `json:"description"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	Status         AlertStatus `json:"status"`
	ResponderID    *uuid.UUID  `json:"responder_id"`
	ExecutionID    *string     `json:"execution_id"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ClassificationFinding - результат классификации изображения
type ClassificationFinding struct {
	AnimalType     string `json:"animal_type"`
	InjuryLocation string `json:"injury_location"`
	Severity       int    `json:"severity"`
	Description    string `json:"description"`
	// Fallback выставляется, когда классификатор недоступен и использована оценка по умолчанию
	Fallback bool `json:"fallback"`
}

// AlertStats - агрегированная статистика по алертам
type AlertStats struct {
	TotalReports     int    `json:"total_reports"`
	CriticalCases    int    `json:"critical_cases"`
	MostCommonAnimal string `json:"most_common_animal"`
}

// UnknownAnimal - значение MostCommonAnimal, когда алертов ещё нет
const UnknownAnimal = "Unknown"

// CriticalSeverity - тяжесть, при которой случай считается критическим
const CriticalSeverity = 5

// IntakeRequest - входные данные приёма алерта
type IntakeRequest struct {
	Image       []byte
	FileName    string
	ContentType string
	Latitude    float64
	Longitude   float64
}

// IntakeResult - итог приёма: id созданного алерта и его фактический статус
type IntakeResult struct {
	AlertID uuid.UUID   `json:"alertId"`
	Status  AlertStatus `json:"status"`
}
