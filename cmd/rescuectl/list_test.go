package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/animal_rescue_dispatch/internal/models"
)

func TestWriteResponders(t *testing.T) {
	buf := &bytes.Buffer{}

	err := writeResponders(buf, []*models.Responder{
		{Name: "Visakha SPCA", Email: "contact@vspca.org", Latitude: 17.6869, Longitude: 83.2185, RadiusKm: 30},
	})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "Visakha SPCA")
	assert.Contains(t, lines[1], "30.0")
}

func TestWriteAlerts(t *testing.T) {
	buf := &bytes.Buffer{}
	executionID := "exec-7"
	id := uuid.New()

	err := writeAlerts(buf, []*models.Alert{
		{ID: id, AnimalType: "Dog", Severity: 5, Status: models.AlertStatusNotified, ExecutionID: &executionID, CreatedAt: time.Now()},
		{ID: uuid.New(), AnimalType: "Cat", Severity: 2, Status: models.AlertStatusPending, CreatedAt: time.Now()},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "exec-7")
	assert.Contains(t, out, "pending")
}

func TestWriteSeedResult(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeSeedResult(buf, 0, 6))
	assert.Equal(t, "roster already populated (6 responders), nothing to do\n", buf.String())

	buf.Reset()
	require.NoError(t, writeSeedResult(buf, 6, 0))
	assert.Equal(t, "inserted 6 responders\n", buf.String())
}

func TestRootCommand_Tree(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	root := RootCommand(log)

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed"},
		{"responders", "list"},
		{"alerts", "list"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestMigrateDown_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	log := logrus.New()
	log.SetOutput(io.Discard)
	root := RootCommand(log)
	root.SetArgs([]string{"migrate", "down", "--steps", "1"})
	root.SetOut(io.Discard)

	err := root.Execute()

	assert.ErrorContains(t, err, "DATABASE_URL")
}
