package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/shenikar/animal_rescue_dispatch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestAlertService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestAlertService(t *testing.T) (AlertService, *mocks.MockAlertRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAlertRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return NewAlertService(repoMock, logger), repoMock
}

func TestGetAlert_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expected := &models.Alert{ID: alertID, AnimalType: "Cat"}

	// Ожидания
	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(expected, nil).Times(1)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, alert)
}

func TestGetAlert_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expected := &models.Alert{ID: alertID, AnimalType: "Dog", Status: models.AlertStatusNotified}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(nil, nil).Times(1)
	// 2. Попадание в БД
	repoMock.EXPECT().GetByID(ctx, alertID).Return(expected, nil).Times(1)
	// 3. Запись в кеш
	repoMock.EXPECT().SetAlertCache(ctx, expected).Return(nil).Times(1)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, alert)
}

func TestGetAlert_CacheErrorFallsBackToDB(t *testing.T) {
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expected := &models.Alert{ID: alertID, Status: models.AlertStatusNotified}

	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(nil, errors.New("redis timeout"))
	repoMock.EXPECT().GetByID(ctx, alertID).Return(expected, nil)
	repoMock.EXPECT().SetAlertCache(ctx, expected).Return(errors.New("redis timeout"))

	alert, err := service.GetAlert(ctx, alertID)

	require.NoError(t, err)
	assert.Equal(t, expected, alert)
}

func TestGetAlert_PendingIsNotCached(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expected := &models.Alert{ID: alertID, AnimalType: "Cow", Status: models.AlertStatusPending}

	// Ожидания
	// pending может смениться на notified, поэтому SetAlertCache не вызывается
	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(nil, nil)
	repoMock.EXPECT().GetByID(ctx, alertID).Return(expected, nil)
	repoMock.EXPECT().SetAlertCache(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, alert)
}

func TestGetAlert_NotFound(t *testing.T) {
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(nil, nil)
	repoMock.EXPECT().GetByID(ctx, alertID).Return(nil, fmt.Errorf("alert %s: %w", alertID, ErrAlertNotFound))

	alert, err := service.GetAlert(ctx, alertID)

	assert.Nil(t, alert)
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestListAlerts(t *testing.T) {
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()
	expected := []*models.Alert{{ID: uuid.New()}, {ID: uuid.New()}}

	repoMock.EXPECT().List(ctx).Return(expected, nil)

	alerts, err := service.ListAlerts(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, alerts)
}

func TestListAlerts_Error(t *testing.T) {
	service, repoMock := newTestAlertService(t)
	ctx := context.Background()

	repoMock.EXPECT().List(ctx).Return(nil, errors.New("db down"))

	alerts, err := service.ListAlerts(ctx)

	assert.Nil(t, alerts)
	assert.Error(t, err)
}

func TestGetStats(t *testing.T) {
	tests := []struct {
		name     string
		repo     *models.AlertStats
		expected *models.AlertStats
	}{
		{
			name:     "with alerts",
			repo:     &models.AlertStats{TotalReports: 10, CriticalCases: 2, MostCommonAnimal: "Dog"},
			expected: &models.AlertStats{TotalReports: 10, CriticalCases: 2, MostCommonAnimal: "Dog"},
		},
		{
			name:     "no alerts yet",
			repo:     &models.AlertStats{},
			expected: &models.AlertStats{MostCommonAnimal: models.UnknownAnimal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repoMock := newTestAlertService(t)
			ctx := context.Background()

			repoMock.EXPECT().GetStats(ctx).Return(tt.repo, nil)

			stats, err := service.GetStats(ctx)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}
