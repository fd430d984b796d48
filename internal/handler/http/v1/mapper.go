package v1

import "github.com/shenikar/animal_rescue_dispatch/internal/models"

// ModelToAlertResponse преобразует доменную модель в DTO для ответа
func ModelToAlertResponse(model *models.Alert) *AlertResponse {
	return &AlertResponse{
		ID:             model.ID,
		ImageURL:       model.ImageURL,
		AnimalType:     model.AnimalType,
		InjuryLocation: model.InjuryLocation,
		Severity:       model.Severity,
		Description:    model.Description,
		Latitude:       model.Latitude,
		Longitude:      model.Longitude,
		Status:         string(model.Status),
		ResponderID:    model.ResponderID,
		ExecutionID:    model.ExecutionID,
		CreatedAt:      model.CreatedAt,
	}
}

// ModelsToAlertResponses преобразует слайс моделей в слайс DTO
func ModelsToAlertResponses(alerts []*models.Alert) []*AlertResponse {
	responses := make([]*AlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ModelToAlertResponse(alert)
	}
	return responses
}

// ModelToResponderResponse преобразует спасателя в DTO
func ModelToResponderResponse(r *models.Responder) *ResponderResponse {
	return &ResponderResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		RadiusKm:  r.RadiusKm,
		CreatedAt: r.CreatedAt,
	}
}

// ModelsToResponderResponses преобразует реестр в слайс DTO
func ModelsToResponderResponses(responders []*models.Responder) []*ResponderResponse {
	responses := make([]*ResponderResponse, len(responders))
	for i, r := range responders {
		responses[i] = ModelToResponderResponse(r)
	}
	return responses
}

// ModelToStatsResponse преобразует статистику в DTO
func ModelToStatsResponse(stats *models.AlertStats) *StatsResponse {
	return &StatsResponse{
		TotalReports:     stats.TotalReports,
		CriticalCases:    stats.CriticalCases,
		MostCommonAnimal: stats.MostCommonAnimal,
	}
}
