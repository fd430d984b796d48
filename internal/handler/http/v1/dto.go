package v1

import (
	"time"

	"github.com/google/uuid"
)

// IntakeForm - текстовые поля multipart-формы приёма алерта; файл передаётся в поле image
// @Description Поля формы приёма алерта
type IntakeForm struct {
	Latitude  *float64 `form:"latitude" validate:"required,latitude"`
	Longitude *float64 `form:"longitude" validate:"required,longitude"`
}

// IntakeResponse DTO для ответа на приём алерта
// @Description DTO для ответа на приём алерта
type IntakeResponse struct {
	AlertID uuid.UUID `json:"alertId"`
	Status  string    `json:"status"`
}

// AlertResponse DTO для ответа с информацией об алерте
// @Description DTO для ответа с информацией об алерте
type AlertResponse struct {
	ID             uuid.UUID  `json:"id"`
	ImageURL       string     `json:"image_url"`
	AnimalType     string     `json:"animal_type"`
	InjuryLocation string     `json:"injury_location"`
	Severity       int        `json:"severity"`
	Description    string     `json:"description"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Status         string     `json:"status"`
	ResponderID    *uuid.UUID `json:"responder_id"`
	ExecutionID    *string    `json:"execution_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ResponderResponse DTO для ответа с информацией о спасательной организации
// @Description DTO для ответа с информацией о спасательной организации
type ResponderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RadiusKm  float64   `json:"radius_km"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	TotalReports     int    `json:"total_reports"`
	CriticalCases    int    `json:"critical_cases"`
	MostCommonAnimal string `json:"most_common_animal"`
}

// ErrorResponse DTO для ответа с ошибкой
// @Description DTO для ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
