// Package geo содержит расчёт расстояний и подбор ближайшей организации в пределах её радиуса.
package geo

import (
	"github.com/golang/geo/s2"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
)

// EarthRadiusKm - средний радиус Земли в километрах
const EarthRadiusKm = 6371.0

// Point - координаты в градусах WGS84
type Point struct {
	Latitude  float64
	Longitude float64
}

// Distance возвращает расстояние по большому кругу между точками в километрах.
// s2.LatLng.Distance считает центральный угол по формуле гаверсинусов.
func Distance(a, b Point) float64 {
	from := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	to := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return from.Distance(to).Radians() * EarthRadiusKm
}

// NearestWithinRadius возвращает ближайшую организацию, в радиус обслуживания которой попадает origin.
// При равных расстояниях выигрывает первая в порядке входного списка. nil означает, что подходящих нет.
func NearestWithinRadius(origin Point, candidates []*models.Responder) *models.Responder {
	var nearest *models.Responder
	minDistance := 0.0

	for _, c := range candidates {
		if c == nil || c.RadiusKm < 0 {
			continue
		}
		d := Distance(origin, Point{Latitude: c.Latitude, Longitude: c.Longitude})
		if d > c.RadiusKm {
			continue
		}
		// строгое сравнение сохраняет первого кандидата при равенстве
		if nearest == nil || d < minDistance {
			nearest = c
			minDistance = d
		}
	}
	return nearest
}
