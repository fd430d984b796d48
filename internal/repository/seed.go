package repository

import "github.com/shenikar/animal_rescue_dispatch/internal/models"

// DefaultResponders - начальный реестр спасательных организаций
func DefaultResponders() []*models.Responder {
	return []*models.Responder{
		{Name: "Wildlife SOS Delhi", Email: "delhi@wildlifesos.org", Latitude: 28.6139, Longitude: 77.2090, RadiusKm: 50},
		{Name: "Blue Cross of India", Email: "contact@bluecrossofindia.org", Latitude: 13.0827, Longitude: 80.2707, RadiusKm: 40},
		{Name: "PETA India", Email: "rescue@petaindia.org", Latitude: 19.0760, Longitude: 72.8777, RadiusKm: 60},
		{Name: "Animal Aid Unlimited", Email: "help@animalaidunlimited.org", Latitude: 24.5854, Longitude: 73.7125, RadiusKm: 45},
		{Name: "People For Animals Bangalore", Email: "bangalore@peopleforanimals.org", Latitude: 12.9716, Longitude: 77.5946, RadiusKm: 50},
		{Name: "Karuna Society for Animals", Email: "info@karunasociety.org", Latitude: 18.5204, Longitude: 73.8567, RadiusKm: 35},
		{Name: "Friendicoes SECA", Email: "help@friendicoes.org", Latitude: 28.7041, Longitude: 77.1025, RadiusKm: 40},
		{Name: "Visakha SPCA", Email: "contact@vspca.org", Latitude: 17.6869, Longitude: 83.2185, RadiusKm: 30},
	}
}
