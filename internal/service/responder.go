package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// ResponderRepository определяет контракт для работы с реестром спасательных организаций
type ResponderRepository interface {
	ListResponders(ctx context.Context) ([]*models.Responder, error)
	GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error)
	GetRosterFromCache(ctx context.Context) ([]*models.Responder, error)
	SetRosterCache(ctx context.Context, roster []*models.Responder) error
}

// ResponderService определяет контракт чтения реестра
type ResponderService interface {
	ListResponders(ctx context.Context) ([]*models.Responder, error)
	GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error)
}

type responderService struct {
	repo   ResponderRepository
	logger *logrus.Logger
}

func NewResponderService(repo ResponderRepository, logger *logrus.Logger) ResponderService {
	return &responderService{
		repo:   repo,
		logger: logger,
	}
}

// ListResponders возвращает всех спасателей, упорядоченных по имени
func (s *responderService) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "responder",
		"method":  "ListResponders",
	})

	roster, err := loadRoster(ctx, s.repo, log)
	if err != nil {
		return nil, fmt.Errorf("service: could not list responders: %w", err)
	}
	return roster, nil
}

// GetResponder возвращает спасателя по id, например назначенного алерту
func (s *responderService) GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "responder",
		"method":       "GetResponder",
		"responder_id": id,
	})

	responder, err := s.repo.GetResponder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResponderNotFound) {
			log.Info("Responder not found")
			return nil, err
		}
		log.WithError(err).Error("Failed to get responder in repository")
		return nil, fmt.Errorf("service: could not get responder: %w", err)
	}
	return responder, nil
}

// loadRoster читает снимок реестра из кеша, при промахе - из БД.
// Ошибки кеша не фатальны.
func loadRoster(ctx context.Context, repo ResponderRepository, log *logrus.Entry) ([]*models.Responder, error) {
	cached, err := repo.GetRosterFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read responder roster from cache")
	}
	if cached != nil {
		log.Debug("Responder roster served from cache")
		return cached, nil
	}

	roster, err := repo.ListResponders(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load responder roster from repository")
		return nil, err
	}

	if err := repo.SetRosterCache(ctx, roster); err != nil {
		log.WithError(err).Warn("Failed to cache responder roster")
	}
	return roster, nil
}
