package models

import (
	"time"

	"github.com/google/uuid"
)

// Responder - организация, которая выезжает на спасение в пределах своего радиуса
type Responder struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RadiusKm  float64   `json:"radius_km"`
	CreatedAt time.Time `json:"created_at"`
}
