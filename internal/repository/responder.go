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

const rosterCacheKey = "responders:roster"

type ResponderRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewResponderRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) *ResponderRepository {
	return &ResponderRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

var _ service.ResponderRepository = (*ResponderRepository)(nil)

// ListResponders возвращает всех спасателей, упорядоченных по имени
func (r *ResponderRepository) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	query := `
		SELECT id, name, email, latitude, longitude, radius_km, created_at
		FROM responders
		ORDER BY name, id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	defer rows.Close()

	responders := make([]*models.Responder, 0)
	for rows.Next() {
		resp := &models.Responder{}
		err := rows.Scan(
			&resp.ID,
			&resp.Name,
			&resp.Email,
			&resp.Latitude,
			&resp.Longitude,
			&resp.RadiusKm,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan responder row: %w", err)
		}
		responders = append(responders, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return responders, nil
}

// GetResponder возвращает спасателя по id
func (r *ResponderRepository) GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error) {
	query := `
		SELECT id, name, email, latitude, longitude, radius_km, created_at
		FROM responders
		WHERE id = $1;
	`
	resp := &models.Responder{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.ID,
		&resp.Name,
		&resp.Email,
		&resp.Latitude,
		&resp.Longitude,
		&resp.RadiusKm,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder with id %s: %w", id, service.ErrResponderNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by id: %w", err)
	}
	return resp, nil
}

// CountResponders возвращает размер реестра
func (r *ResponderRepository) CountResponders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM responders;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responders: %w", err)
	}
	return count, nil
}

// Seed добавляет спасателей одной транзакцией, если реестр пуст.
// Возвращает количество добавленных записей. Без клиента Redis кэш реестра не сбрасывается.
func (r *ResponderRepository) Seed(ctx context.Context, responders []*models.Responder) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM responders;`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count responders: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, resp := range responders {
		batch.Queue(`
			INSERT INTO responders (name, email, latitude, longitude, radius_km)
			VALUES ($1, $2, $3, $4, $5);
		`, resp.Name, resp.Email, resp.Latitude, resp.Longitude, resp.RadiusKm)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert responders: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	if r.redisClient == nil {
		return len(responders), nil
	}
	if err := r.redisClient.Del(ctx, rosterCacheKey).Err(); err != nil {
		return len(responders), fmt.Errorf("failed to invalidate roster cache: %w", err)
	}
	return len(responders), nil
}

// GetRosterFromCache возвращает снимок реестра из Redis; nil при промахе
func (r *ResponderRepository) GetRosterFromCache(ctx context.Context) ([]*models.Responder, error) {
	val, err := r.redisClient.Get(ctx, rosterCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roster from cache: %w", err)
	}

	roster := make([]*models.Responder, 0)
	if err := json.Unmarshal(val, &roster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster from cache: %w", err)
	}
	return roster, nil
}

// SetRosterCache сохраняет снимок реестра в Redis
func (r *ResponderRepository) SetRosterCache(ctx context.Context, roster []*models.Responder) error {
	if roster == nil {
		roster = []*models.Responder{}
	}
	val, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, rosterCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set roster in cache: %w", err)
	}
	return nil
}
