package usecase

import (
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylistRecommend_Weather(t *testing.T) {
	uc := NewStylistUC()

	t.Run("hot weather skips layer", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Gender: "male", Weather: "hot"})
		assert.Equal(t, "cotton / linen", res.Outfit.Fabric)
		assert.Empty(t, res.Outfit.Layer)
		assert.Contains(t, res.Reasoning, "Hot weather → breathable fabrics, no heavy layers")
	})

	t.Run("cold weather requires layer", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Gender: "male", Weather: "cold"})
		assert.Equal(t, "wool / fleece", res.Outfit.Fabric)
		assert.Equal(t, "jacket", res.Outfit.Layer)
		assert.Contains(t, res.Reasoning, "Cold weather → warm layers required")
	})

	t.Run("warm weather keeps light layer", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Gender: "male", Weather: "warm"})
		assert.Equal(t, "cotton blend", res.Outfit.Fabric)
		assert.Equal(t, "jacket", res.Outfit.Layer)
	})

	t.Run("rainy maps to cold", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Gender: "male", Weather: "Rainy"})
		assert.Equal(t, "wool / fleece", res.Outfit.Fabric)
	})
}

func TestStylistRecommend_Occasion(t *testing.T) {
	uc := NewStylistUC()

	tests := []struct {
		occasion string
		want     string
	}{
		{"office", "Office occasion → clean and formal styling"},
		{"college", "Office occasion → clean and formal styling"},
		{"formal", "Office occasion → clean and formal styling"},
		{"party", "Party occasion → statement and contrast styling"},
		{"date", "Party occasion → statement and contrast styling"},
		{"daily", "Casual occasion → comfort-first styling"},
		{"unknown", "Casual occasion → comfort-first styling"},
	}

	for _, tt := range tests {
		t.Run(tt.occasion, func(t *testing.T) {
			res := uc.Recommend(&StylistReq{Occasion: tt.occasion})
			assert.Contains(t, res.Reasoning, tt.want)
		})
	}
}

func TestStylistRecommend_Gender(t *testing.T) {
	uc := NewStylistUC()

	tests := []struct {
		gender string
		top    string
		bottom string
		layer  string
	}{
		{"male", "solid t-shirt", "pants", "jacket"},
		{"men", "solid t-shirt", "pants", "jacket"},
		{"female", "blouse", "pants", "cardigan"},
		{"women", "blouse", "pants", "cardigan"},
		{"", "relaxed top", "comfortable bottom", "light layer"},
	}

	for _, tt := range tests {
		t.Run(tt.gender, func(t *testing.T) {
			res := uc.Recommend(&StylistReq{Gender: tt.gender, Weather: "cold"})
			assert.Equal(t, tt.top, res.Outfit.Top)
			assert.Equal(t, tt.bottom, res.Outfit.Bottom)
			assert.Equal(t, tt.layer, res.Outfit.Layer)
		})
	}
}

func TestStylistRecommend_MoodPalette(t *testing.T) {
	uc := NewStylistUC()

	t.Run("elegant maps to calm palette", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Mood: "Elegant"})
		assert.Equal(t, []string{"beige", "grey", "pastel"}, res.Outfit.ColorPalette)
		assert.Contains(t, res.Reasoning, "Colors selected based on calm mood using color psychology")
	})

	t.Run("unknown mood defaults to happy", func(t *testing.T) {
		res := uc.Recommend(&StylistReq{Mood: "mysterious"})
		assert.Equal(t, []string{"white", "yellow", "sky blue"}, res.Outfit.ColorPalette)
	})
}

// Пустой запрос не падает: все значения сводятся к дефолтам.
func TestStylistRecommend_Defaults(t *testing.T) {
	uc := NewStylistUC()

	res := uc.Recommend(&StylistReq{})
	require.NotNil(t, res)

	assert.Equal(t, "cotton blend", res.Outfit.Fabric)
	assert.Equal(t, "relaxed top", res.Outfit.Top)
	assert.Equal(t, "minimalist, relaxed fit, earth-tone inspired", res.Outfit.Trend)
	assert.Contains(t, res.Reasoning, "Casual occasion → comfort-first styling")
	assert.Contains(t, res.Reasoning, "Incorporated evergreen fashion trends (minimalism, earth tones)")
}

func TestMapContextValues(t *testing.T) {
	assert.Equal(t, domain.WeatherCold, MapWeather("Rainy"))
	assert.Equal(t, domain.WeatherWarm, MapWeather("moderate"))
	assert.Equal(t, domain.WeatherWarm, MapWeather(""))
	assert.Equal(t, domain.WeatherHot, MapWeather("HOT"))

	assert.Equal(t, domain.OccasionOffice, MapOccasion("college"))
	assert.Equal(t, domain.OccasionParty, MapOccasion("date"))
	assert.Equal(t, domain.OccasionCasual, MapOccasion("whatever"))

	assert.Equal(t, domain.Mood("calm"), MapMood("relaxed"))
	assert.Equal(t, domain.Mood("happy"), MapMood(""))
}
