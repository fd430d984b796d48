package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/shenikar/animal_rescue_dispatch/internal/service"
)

const alertColumns = `
	id,
	image_url,
	animal_type,
	injury_location,
	severity,
	description,
	latitude,
	longitude,
	status,
	responder_id,
	execution_id,
	created_at`

type AlertRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewAlertRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) *AlertRepository {
	return &AlertRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

var _ service.AlertRepository = (*AlertRepository)(nil)

// Create сохраняет новый алерт; id и created_at назначает БД
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (image_url, animal_type, injury_location, severity, description,
			latitude, longitude, status, responder_id, execution_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.ImageURL,
		alert.AnimalType,
		alert.InjuryLocation,
		alert.Severity,
		alert.Description,
		alert.Latitude,
		alert.Longitude,
		alert.Status,
		alert.ResponderID,
		alert.ExecutionID,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// GetByID возвращает алерт по его UUID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := `SELECT` + alertColumns + ` FROM alerts WHERE id = $1;`

	alert, err := scanAlert(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("alert with id %s: %w", id, service.ErrAlertNotFound)
		}
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return alert, nil
}

// List возвращает все алерты, новые первыми
func (r *AlertRepository) List(ctx context.Context) ([]*models.Alert, error) {
	query := `SELECT` + alertColumns + ` FROM alerts ORDER BY created_at DESC, id;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return alerts, nil
}

// MarkNotified переводит pending-алерт в notified и сохраняет id запуска workflow
func (r *AlertRepository) MarkNotified(ctx context.Context, id uuid.UUID, executionID string) error {
	query := `
		UPDATE alerts SET
			status = $1,
			execution_id = $2
		WHERE id = $3 AND status = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, models.AlertStatusNotified, executionID, id, models.AlertStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark alert notified: %w", err)
	}

	// Если RowsAffected() == 0, алерта нет или он уже не pending
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("pending alert with id %s: %w", id, service.ErrAlertNotFound)
	}
	return nil
}

// GetStats возвращает количество алертов, критических случаев и самый частый вид животного
func (r *AlertRepository) GetStats(ctx context.Context) (*models.AlertStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM alerts),
			(SELECT COUNT(*) FROM alerts WHERE severity = $1),
			COALESCE((
				SELECT animal_type FROM alerts
				GROUP BY animal_type
				ORDER BY COUNT(*) DESC, MIN(created_at)
				LIMIT 1
			), '');
	`
	stats := &models.AlertStats{}
	err := r.db.QueryRow(ctx, query, models.CriticalSeverity).Scan(
		&stats.TotalReports,
		&stats.CriticalCases,
		&stats.MostCommonAnimal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert stats: %w", err)
	}
	return stats, nil
}

// GetAlertFromCache пытается получить алерт из Redis
func (r *AlertRepository) GetAlertFromCache(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	val, err := r.redisClient.Get(ctx, alertCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert from cache: %w", err)
	}

	alert := &models.Alert{}
	if err := json.Unmarshal(val, alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert from cache: %w", err)
	}
	return alert, nil
}

// SetAlertCache сохраняет алерт в Redis
func (r *AlertRepository) SetAlertCache(ctx context.Context, alert *models.Alert) error {
	val, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, alertCacheKey(alert.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set alert in cache: %w", err)
	}
	return nil
}

// InvalidateAlertCache удаляет алерт из Redis кэша
func (r *AlertRepository) InvalidateAlertCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, alertCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate alert cache: %w", err)
	}
	return nil
}

func alertCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("alert:%s", id.String())
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	alert := &models.Alert{}
	err := row.Scan(
		&alert.ID,
		&alert.ImageURL,
		&alert.AnimalType,
		&alert.InjuryLocation,
		&alert.Severity,
		&alert.Description,
		&alert.Latitude,
		&alert.Longitude,
		&alert.Status,
		&alert.ResponderID,
		&alert.ExecutionID,
		&alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return alert, nil
}
