package usecase

import (
	"strings"

	"github.com/shariq8055/ClosetCoach/internal/domain"
)

// Маппинг контекстных значений фронтенда в доменные термины.
// Неизвестные значения сводятся к дефолтам, как и в rule-engine стилиста.

func MapWeather(raw string) domain.Weather {
	return domain.Weather(mapOrDefault(weatherMap, strings.ToLower(raw), "warm"))
}

func MapOccasion(raw string) domain.Occasion {
	return domain.Occasion(mapOrDefault(occasionMap, strings.ToLower(raw), "casual"))
}

func MapMood(raw string) domain.Mood {
	return domain.Mood(mapOrDefault(moodMap, strings.ToLower(raw), "happy"))
}
