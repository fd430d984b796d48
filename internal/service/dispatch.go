package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/events"
	"github.com/shenikar/animal_rescue_dispatch/internal/geo"
	"github.com/shenikar/animal_rescue_dispatch/internal/metrics"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/shenikar/animal_rescue_dispatch/internal/workflow"
	"github.com/sirupsen/logrus"
)

// Classifier классифицирует изображение; никогда не возвращает ошибку
type Classifier interface {
	Classify(ctx context.Context, image []byte) models.ClassificationFinding
}

// ImageStore сохраняет изображение и возвращает его публичный URL
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NotificationTrigger запускает внешний workflow оповещения
type NotificationTrigger interface {
	Trigger(ctx context.Context, alertID uuid.UUID, fields workflow.Fields) (string, error)
}

// EventPublisher публикует события жизненного цикла алерта
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// validateIntake проверяет наличие изображения и диапазоны координат
func validateIntake(r *models.IntakeRequest) error {
	if r == nil || len(r.Image) == 0 {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	if math.IsNaN(r.Latitude) || r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrValidation)
	}
	if math.IsNaN(r.Longitude) || r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrValidation)
	}
	return nil
}

// Границы для операций, которые выполняются после сохранения алерта и не зависят от отмены запроса
const (
	persistTimeout = 5 * time.Second
	eventTimeout   = 5 * time.Second
)

// DispatchService принимает алерт и ведёт его от классификации до оповещения
type DispatchService interface {
	SubmitIntake(ctx context.Context, req *models.IntakeRequest) (*models.IntakeResult, error)
	// RetryNotification повторно запускает workflow для pending-алерта
	RetryNotification(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	// Drain ждёт завершения фоновой публикации событий
	Drain(ctx context.Context) error
}

// DispatchDeps - зависимости DispatchService. Trigger и Events могут быть nil.
type DispatchDeps struct {
	Alerts     AlertRepository
	Responders ResponderRepository
	Classifier Classifier
	Images     ImageStore
	Trigger    NotificationTrigger
	Events     EventPublisher
}

type dispatchService struct {
	alerts          AlertRepository
	responders      ResponderRepository
	classifier      Classifier
	images          ImageStore
	trigger         NotificationTrigger
	events          EventPublisher
	logger          *logrus.Logger
	metrics         *metrics.Metrics
	workflowTimeout time.Duration
	persistTimeout  time.Duration
	eventTimeout    time.Duration
	inflight        sync.WaitGroup
}

func NewDispatchService(deps DispatchDeps, logger *logrus.Logger, m *metrics.Metrics, workflowTimeout time.Duration) DispatchService {
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &dispatchService{
		alerts:          deps.Alerts,
		responders:      deps.Responders,
		classifier:      deps.Classifier,
		images:          deps.Images,
		trigger:         deps.Trigger,
		events:          pub,
		logger:          logger,
		metrics:         m,
		workflowTimeout: workflowTimeout,
		persistTimeout:  persistTimeout,
		eventTimeout:    eventTimeout,
	}
}

// detached отвязывает ctx от отмены вызывающего и ограничивает его своим таймаутом
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// SubmitIntake классифицирует изображение, подбирает ближайшего спасателя, сохраняет алерт
// и запускает оповещение. Ошибки после сохранения алерта не возвращаются вызывающему.
func (s *dispatchService) SubmitIntake(ctx context.Context, req *models.IntakeRequest) (*models.IntakeResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "dispatch",
		"method":  "SubmitIntake",
	})

	start := time.Now()
	outcome := metrics.IntakeAccepted
	defer func() {
		s.metrics.ObserveIntake(outcome, time.Since(start).Seconds())
	}()

	if err := validateIntake(req); err != nil {
		outcome = metrics.IntakeInvalid
		log.WithError(err).Info("Intake rejected: invalid request")
		return nil, err
	}
	log = log.WithFields(logrus.Fields{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
	})

	finding := s.classifier.Classify(ctx, req.Image)

	roster, err := loadRoster(ctx, s.responders, log)
	if err != nil {
		outcome = metrics.IntakeStorageFailure
		return nil, fmt.Errorf("service: could not load responders: %w: %w", ErrStorage, err)
	}

	responder := geo.NearestWithinRadius(geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}, roster)
	if responder == nil {
		outcome = metrics.IntakeNoResponder
		log.WithField("roster_size", len(roster)).Info("Intake rejected: no responder in range")
		return nil, ErrNoResponderAvailable
	}
	log = log.WithField("responder_id", responder.ID)

	imageURL, err := s.images.Upload(ctx, req.FileName, req.ContentType, req.Image)
	if err != nil {
		outcome = metrics.IntakeStorageFailure
		log.WithError(err).Error("Failed to upload alert image")
		return nil, fmt.Errorf("service: could not upload image: %w: %w", ErrStorage, err)
	}

	responderID := responder.ID
	alert := &models.Alert{
		ImageURL:       imageURL,
		AnimalType:     finding.AnimalType,
		InjuryLocation: finding.InjuryLocation,
		Severity:       finding.Severity,
		Description:    finding.Description,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         models.AlertStatusPending,
		ResponderID:    &responderID,
	}

	// Отключение клиента не прерывает вставку: закоммиченная строка всегда доходит до оповещения
	createCtx, cancelCreate := detached(ctx, s.persistTimeout)
	err = s.alerts.Create(createCtx, alert)
	cancelCreate()
	if err != nil {
		outcome = metrics.IntakeStorageFailure
		log.WithError(err).Error("Failed to create alert in repository")
		return nil, fmt.Errorf("service: could not create alert: %w: %w", ErrStorage, err)
	}
	log = log.WithField("alert_id", alert.ID)
	log.Info("Alert created")

	created := events.NewEvent(events.TypeAlertCreated, alert)
	followUp, _ := s.notify(ctx, log, alert, responder)

	pending := []events.Event{created}
	if followUp != nil {
		pending = append(pending, *followUp)
	}
	s.publishAsync(ctx, log, pending...)

	return &models.IntakeResult{AlertID: alert.ID, Status: alert.Status}, nil
}

// RetryNotification повторно запускает workflow для алерта, который остался pending.
// Перевод в notified выполняется не более одного раза.
func (s *dispatchService) RetryNotification(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "dispatch",
		"method":   "RetryNotification",
		"alert_id": id,
	})

	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			return nil, err
		}
		log.WithError(err).Error("Failed to get alert in repository")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	if alert.Status != models.AlertStatusPending {
		return nil, fmt.Errorf("service: alert status is %s: %w", alert.Status, ErrAlertNotPending)
	}
	if s.trigger == nil {
		return nil, ErrWorkflowNotConfigured
	}
	if alert.ResponderID == nil {
		return nil, fmt.Errorf("service: alert has no assigned responder: %w", ErrResponderNotFound)
	}

	responder, err := s.responders.GetResponder(ctx, *alert.ResponderID)
	if err != nil {
		log.WithError(err).Error("Failed to get assigned responder")
		return nil, fmt.Errorf("service: could not get assigned responder: %w", err)
	}

	followUp, err := s.notify(ctx, log, alert, responder)
	if followUp != nil {
		s.publishAsync(ctx, log, *followUp)
	}
	if err != nil {
		// Условное обновление не нашло pending-алерт: его уже перевёл параллельный запрос
		if errors.Is(err, ErrAlertNotFound) {
			return nil, fmt.Errorf("service: %w", ErrAlertNotPending)
		}
		return nil, err
	}
	return alert, nil
}

// notify запускает workflow и при успехе переводит алерт в notified.
// Возвращает событие для публикации (или nil) и ошибку запуска или сохранения статуса.
func (s *dispatchService) notify(ctx context.Context, log *logrus.Entry, alert *models.Alert, responder *models.Responder) (*events.Event, error) {
	if s.trigger == nil {
		log.Warn("Workflow trigger is not configured, alert stays pending")
		s.metrics.ObserveWorkflowTrigger("skipped")
		return nil, ErrWorkflowNotConfigured
	}

	triggerCtx, cancelTrigger := detached(ctx, s.workflowTimeout)
	executionID, err := s.trigger.Trigger(triggerCtx, alert.ID, workflow.Fields{
		AnimalType:     alert.AnimalType,
		InjuryLocation: alert.InjuryLocation,
		Severity:       alert.Severity,
		ResponderEmail: responder.Email,
		ImageURL:       alert.ImageURL,
		Latitude:       alert.Latitude,
		Longitude:      alert.Longitude,
	})
	cancelTrigger()
	if err != nil {
		outcome := "unavailable"
		var rejected *workflow.DownstreamRejectedError
		if errors.As(err, &rejected) {
			outcome = "rejected"
		}
		s.metrics.ObserveWorkflowTrigger(outcome)
		log.WithError(err).WithField("outcome", outcome).Warn("Notification failed, alert stays pending")
		failed := events.NewEvent(events.TypeAlertNotifyFailed, alert)
		failed.Reason = err.Error()
		return &failed, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	s.metrics.ObserveWorkflowTrigger("success")
	log = log.WithField("execution_id", executionID)

	// Сохранение статуса получает свой срок, независимый от времени, потраченного на workflow
	markCtx, cancelMark := detached(ctx, s.persistTimeout)
	defer cancelMark()

	if err := s.alerts.MarkNotified(markCtx, alert.ID, executionID); err != nil {
		log.WithError(err).Error("Failed to mark alert as notified, alert stays pending")
		return nil, fmt.Errorf("%w: could not mark alert notified: %w", ErrStorage, err)
	}
	alert.Status = models.AlertStatusNotified
	alert.ExecutionID = &executionID

	if err := s.alerts.InvalidateAlertCache(markCtx, alert.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate alert cache")
	}
	log.Info("Alert notified")
	notified := events.NewEvent(events.TypeAlertNotified, alert)
	return &notified, nil
}

// publishAsync публикует события по порядку в фоне; каждое получает свой таймаут
func (s *dispatchService) publishAsync(ctx context.Context, log *logrus.Entry, evts ...events.Event) {
	base := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		for _, event := range evts {
			pubCtx, cancel := detached(base, s.eventTimeout)
			err := s.events.Publish(pubCtx, event)
			cancel()
			s.metrics.ObserveEventPublished(event.Type, err)
			if err != nil {
				log.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish alert event")
			}
		}
	}()
}

// Drain ждёт, пока фоновые публикации завершатся, или истечёт ctx
func (s *dispatchService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
