package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis поднимает Redis в контейнере; тест пропускается без Docker
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	addr, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisPublisher_PublishIsFIFO(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	p := NewRedisPublisher(client)

	alert := &models.Alert{ID: uuid.New(), Status: models.AlertStatusPending}
	require.NoError(t, p.Publish(ctx, NewEvent(TypeAlertCreated, alert)))
	require.NoError(t, p.Publish(ctx, NewEvent(TypeAlertNotified, alert)))

	for _, wantType := range []string{TypeAlertCreated, TypeAlertNotified} {
		res, err := client.BRPop(ctx, 0, QueueKey).Result()
		require.NoError(t, err)

		var got Event
		require.NoError(t, json.Unmarshal([]byte(res[1]), &got))
		assert.Equal(t, wantType, got.Type)
		assert.Equal(t, alert.ID, got.AlertID)
	}
}
