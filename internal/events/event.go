// Package events публикует события жизненного цикла алертов для внешних потребителей.
// Доставка событий не влияет на результат приёма алерта.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
)

// Типы событий
const (
	TypeAlertCreated      = "alert.created"
	TypeAlertNotified     = "alert.notified"
	TypeAlertNotifyFailed = "alert.notify_failed"
)

// Event - событие по алерту
type Event struct {
	ID          uuid.UUID          `json:"id"`
	Type        string             `json:"type"`
	AlertID     uuid.UUID          `json:"alert_id"`
	Status      models.AlertStatus `json:"status"`
	ResponderID *uuid.UUID         `json:"responder_id,omitempty"`
	ExecutionID string             `json:"execution_id,omitempty"`
	AnimalType  string             `json:"animal_type"`
	Severity    int                `json:"severity"`
	Latitude    float64            `json:"latitude"`
	Longitude   float64            `json:"longitude"`
	Reason      string             `json:"reason,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewEvent строит событие по текущему состоянию алерта
func NewEvent(eventType string, alert *models.Alert) Event {
	e := Event{
		ID:          uuid.New(),
		Type:        eventType,
		AlertID:     alert.ID,
		Status:      alert.Status,
		ResponderID: alert.ResponderID,
		AnimalType:  alert.AnimalType,
		Severity:    alert.Severity,
		Latitude:    alert.Latitude,
		Longitude:   alert.Longitude,
		Timestamp:   time.Now().UTC(),
	}
	if alert.ExecutionID != nil {
		e.ExecutionID = *alert.ExecutionID
	}
	return e
}

// Publisher - интерфейс для публикации событий
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher отбрасывает события (EVENTS_BACKEND=none)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
