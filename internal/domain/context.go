package domain

// Weather, Mood и Occasion — контекстные сигналы запроса.
// Не персистятся, влияют только на выбор категорий и тексты обоснований.
type (
	Weather  string
	Mood     string
	Occasion string
)

const (
	WeatherHot  Weather = "hot"
	WeatherWarm Weather = "warm"
	WeatherCold Weather = "cold"
)

const (
	OccasionOffice Occasion = "office"
	OccasionFormal Occasion = "formal"
	OccasionParty  Occasion = "party"
	OccasionCasual Occasion = "casual"
)
