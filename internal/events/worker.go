package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/animal_rescue_dispatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SignatureHeader - заголовок с HMAC-SHA256 подписью тела запроса
const SignatureHeader = "X-Webhook-Signature"

// Исходы доставки для метрики rescue_webhook_deliveries_total
const (
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
	DeliverySkipped   = "skipped"
)

// WorkerConfig - параметры доставки вебхуков
type WorkerConfig struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Worker забирает события из очереди Redis и отправляет их на вебхук
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	metrics     *metrics.Metrics
	cfg         WorkerConfig
	httpClient  *http.Client
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, logger *logrus.Logger, m *metrics.Metrics, cfg WorkerConfig) *Worker {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		metrics:     m,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Start запускает горутину обработки очереди; она завершается при отмене ctx
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting event webhook worker...")
	go func() {
		for {
			// 0 - бесконечное ожидание
			result, err := w.redisClient.BRPop(ctx, 0, QueueKey).Result()
			if err != nil {
				if ctx.Err() != nil {
					w.logger.Info("Stopping event webhook worker.")
					return
				}
				w.logger.WithError(err).Error("Failed to pop event from Redis")
				if !sleepCtx(ctx, w.cfg.BaseDelay) {
					return
				}
				continue
			}

			// result[0] - ключ, result[1] - значение
			w.Deliver(ctx, result[1])
		}
	}()
}

// Deliver отправляет одно событие с повторами и экспоненциальной задержкой.
// Возвращает true, если получатель ответил 2xx.
func (w *Worker) Deliver(ctx context.Context, rawPayload string) bool {
	var event Event
	if err := json.Unmarshal([]byte(rawPayload), &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal event from Redis")
		w.metrics.ObserveWebhookDelivery(DeliveryFailed)
		return false
	}

	log := w.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"alert_id":   event.AlertID,
	})
	log.Debug("Processing event...")

	if w.cfg.URL == "" {
		log.Debug("Event webhook URL is not configured. Skipping delivery.")
		w.metrics.ObserveWebhookDelivery(DeliverySkipped)
		return false
	}

	delay := w.cfg.BaseDelay
	for i := 0; i < w.cfg.MaxRetries; i++ {
		if i > 0 {
			if !sleepCtx(ctx, delay) {
				break
			}
			delay *= 2
		}

		status, err := w.send(ctx, rawPayload)
		if err == nil && status >= 200 && status < 300 {
			log.Info("Event webhook delivered successfully.")
			w.metrics.ObserveWebhookDelivery(DeliveryDelivered)
			return true
		}

		entry := log.WithField("attempts_left", w.cfg.MaxRetries-1-i)
		if err != nil {
			entry.WithError(err).Warn("Failed to send event webhook")
		} else {
			entry.Warnf("Event webhook delivery failed with status code %d", status)
		}
	}

	log.Errorf("Failed to deliver event webhook after %d attempts.", w.cfg.MaxRetries)
	w.metrics.ObserveWebhookDelivery(DeliveryFailed)
	return false
}

func (w *Worker) send(ctx context.Context, rawPayload string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(rawPayload, w.cfg.Secret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Sign возвращает hex HMAC-SHA256 подпись данных
func Sign(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
