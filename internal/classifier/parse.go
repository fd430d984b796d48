package classifier

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shenikar/animal_rescue_dispatch/internal/models"
)

// Значения по умолчанию для отсутствующих полей ответа
const (
	DefaultAnimalType     = "Animal"
	DefaultInjuryLocation = "Body"
	DefaultDescription    = "AI analysis completed"
	DefaultSeverity       = 3
)

// Оценка, используемая при недоступности классификатора
const (
	FallbackAnimalType     = "Dog"
	FallbackInjuryLocation = "Front leg"
	FallbackDescription    = "Fallback analysis: Unable to analyze image with AI. Using default assessment."
)

// FallbackFinding возвращает оценку по умолчанию
func FallbackFinding() models.ClassificationFinding {
	return models.ClassificationFinding{
		AnimalType:     FallbackAnimalType,
		InjuryLocation: FallbackInjuryLocation,
		Severity:       DefaultSeverity,
		Description:    FallbackDescription,
		Fallback:       true,
	}
}

// ParseFinding превращает ответ провайдера (или его ошибку) в ClassificationFinding.
// Функция чистая и никогда не возвращает ошибку.
func ParseFinding(raw string, err error) models.ClassificationFinding {
	if err != nil {
		return FallbackFinding()
	}
	obj, ok := extractJSONObject(raw)
	if !ok {
		return FallbackFinding()
	}
	return models.ClassificationFinding{
		AnimalType:     textField(obj, "animal_type", DefaultAnimalType),
		InjuryLocation: textField(obj, "injury_location", DefaultInjuryLocation),
		Severity:       severityField(obj["severity"]),
		Description:    textField(obj, "description", DefaultDescription),
	}
}

// extractJSONObject находит первый корректный JSON-объект в произвольном тексте
func extractJSONObject(text string) (map[string]any, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

func textField(obj map[string]any, key, def string) string {
	s, ok := obj[key].(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// severityField принимает число или числовую строку; дробная часть отбрасывается,
// всё вне диапазона [1,5] заменяется на DefaultSeverity
func severityField(v any) int {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return DefaultSeverity
		}
		f = parsed
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return DefaultSeverity
		}
		f = parsed
	default:
		return DefaultSeverity
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultSeverity
	}
	severity := int(math.Trunc(f))
	if severity < 1 || severity > 5 {
		return DefaultSeverity
	}
	return severity
}
