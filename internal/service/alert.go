package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// AlertRepository определяет контракт для работы с бд алертов
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	List(ctx context.Context) ([]*models.Alert, error)
	MarkNotified(ctx context.Context, id uuid.UUID, executionID string) error
	GetStats(ctx context.Context) (*models.AlertStats, error)
	GetAlertFromCache(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	SetAlertCache(ctx context.Context, alert *models.Alert) error
	InvalidateAlertCache(ctx context.Context, id uuid.UUID) error
}

// AlertService определяет контракт чтения алертов
type AlertService interface {
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAlerts(ctx context.Context) ([]*models.Alert, error)
	GetStats(ctx context.Context) (*models.AlertStats, error)
}

type alertService struct {
	repo   AlertRepository
	logger *logrus.Logger
}

func NewAlertService(repo AlertRepository, logger *logrus.Logger) AlertService {
	return &alertService{
		repo:   repo,
		logger: logger,
	}
}

// GetAlert получает алерт по ID, сначала из кеша
func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "GetAlert",
		"alert_id": id,
	})

	cached, err := s.repo.GetAlertFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get alert from cache")
	}
	if cached != nil {
		log.Debug("Alert fetched from cache")
		return cached, nil
	}

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			log.Info("Alert not found")
			return nil, err
		}
		log.WithError(err).Error("Failed to get alert in repository")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}

	// pending ещё может смениться на notified; кешируются только алерты, прошедшие оповещение
	if alert.Status == models.AlertStatusPending {
		return alert, nil
	}
	if err := s.repo.SetAlertCache(ctx, alert); err != nil {
		log.WithError(err).Warn("Failed to set alert cache")
	}
	return alert, nil
}

// ListAlerts возвращает все алерты, новые первыми
func (s *alertService) ListAlerts(ctx context.Context) ([]*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "ListAlerts",
	})

	alerts, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list alerts in repository")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}
	log.WithField("count", len(alerts)).Debug("Alerts listed")
	return alerts, nil
}

// GetStats возвращает сводную статистику по алертам
func (s *alertService) GetStats(ctx context.Context) (*models.AlertStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "GetStats",
	})

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get alert stats in repository")
		return nil, fmt.Errorf("service: could not get alert stats: %w", err)
	}
	if stats.MostCommonAnimal == "" {
		stats.MostCommonAnimal = models.UnknownAnimal
	}
	return stats, nil
}
