// Package classifier оборачивает внешний классификатор изображений.
// Adapter никогда не возвращает ошибку: при любом сбое отдаётся оценка по умолчанию.
package classifier

import (
	"context"
	"time"

	"github.com/shenikar/animal_rescue_dispatch/internal/metrics"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// Prompt - фиксированная инструкция для классификатора
const Prompt = "Analyze this image of an injured animal. Provide ONLY a JSON response with these fields: " +
	"animal_type (e.g., Dog, Cat, Bird), injury_location (e.g., Front leg, Head, Back), " +
	"severity (number 1-5 where 1=minor, 5=critical), description (brief summary). Be specific and accurate."

const (
	maxTokens   = 200
	temperature = 0.2
)

// Provider - внешний сервис, возвращающий текстовый ответ на изображение и инструкцию
type Provider interface {
	Analyze(ctx context.Context, image []byte, mediaType, prompt string) (string, error)
	Name() string
}

// Adapter вызывает Provider один раз и приводит ответ к ClassificationFinding
type Adapter struct {
	provider    Provider
	logger      *logrus.Logger
	metrics     *metrics.Metrics
	timeout     time.Duration
	maxImageDim int
}

// NewAdapter создает адаптер. provider может быть nil - тогда всегда используется оценка по умолчанию.
func NewAdapter(provider Provider, logger *logrus.Logger, m *metrics.Metrics, timeout time.Duration, maxImageDim int) *Adapter {
	return &Adapter{
		provider:    provider,
		logger:      logger,
		metrics:     m,
		timeout:     timeout,
		maxImageDim: maxImageDim,
	}
}

// Classify классифицирует изображение. Ошибки провайдера, таймауты и нераспознанные ответы
// логируются и заменяются оценкой по умолчанию.
func (a *Adapter) Classify(ctx context.Context, image []byte) (finding models.ClassificationFinding) {
	log := a.logger.WithFields(logrus.Fields{
		"component": "classifier",
		"method":    "Classify",
	})

	if a.provider == nil {
		log.Warn("Classifier provider is not configured, using fallback finding")
		a.metrics.ObserveClassification(true, 0)
		return FallbackFinding()
	}
	log = log.WithField("provider", a.provider.Name())

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Classifier provider panicked, using fallback finding")
			finding = FallbackFinding()
		}
		a.metrics.ObserveClassification(finding.Fallback, time.Since(start).Seconds())
	}()

	// Таймаут покрывает и подготовку изображения, и вызов провайдера
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	payload, mediaType, err := prepareImage(image, a.maxImageDim)
	if err != nil {
		log.WithError(err).Debug("Image preparation failed, sending original bytes")
		payload, mediaType = image, detectMediaType(image)
	}

	var raw string
	if err = callCtx.Err(); err == nil {
		raw, err = a.provider.Analyze(callCtx, payload, mediaType, Prompt)
	}
	finding = ParseFinding(raw, err)
	if finding.Fallback {
		entry := log.WithField("duration", time.Since(start).String())
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("Classification degraded, using fallback finding")
		return finding
	}

	log.WithFields(logrus.Fields{
		"animal_type": finding.AnimalType,
		"severity":    finding.Severity,
	}).Info("Image classified")
	return finding
}
