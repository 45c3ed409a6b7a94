package usecase

import (
	"fmt"
	"strings"
)

// Таблицы rule-engine стилиста. Значения подобраны стилистом вручную
// и меняются только вместе с продуктовой командой.
var (
	// moodPalette — цветовая психология: настроение -> палитра.
	moodPalette = map[string][]string{
		"happy":    {"white", "yellow", "sky blue"},
		"positive": {"white", "pastel blue"},
		"calm":     {"beige", "grey", "pastel"},
		"sad":      {"soft blue", "muted grey"},
		"angry":    {"muted tones", "soft neutrals"},
		"neutral":  {"earth tones"},
	}

	// Маппинг значений фронтенда в термины rule-engine.
	moodMap = map[string]string{
		"casual":    "happy",
		"confident": "happy",
		"relaxed":   "calm",
		"energetic": "happy",
		"elegant":   "calm",
	}
	occasionMap = map[string]string{
		"daily":   "casual",
		"college": "office",
		"office":  "office",
		"party":   "party",
		"formal":  "office",
		"date":    "party",
	}
	weatherMap = map[string]string{
		"hot":      "hot",
		"moderate": "warm",
		"warm":     "warm",
		"cold":     "cold",
		"cool":     "cold",
		"rainy":    "cold",
	}
)

// StylistUseCase — текстовый rule-engine стилиста. Не обращается к
// индексу и гардеробу, работает только по таблицам правил.
type StylistUseCase struct{}

func NewStylistUC() *StylistUseCase {
	return &StylistUseCase{}
}

// Recommend собирает текстовое описание образа по контексту.
// Входные значения принимаются в терминах фронтенда; неизвестные
// значения сводятся к дефолтам, поэтому операция не возвращает ошибок.
func (s *StylistUseCase) Recommend(req *StylistReq) *StylistRes {
	gender := strings.ToLower(req.Gender)
	weather := mapOrDefault(weatherMap, strings.ToLower(req.Weather), "warm")
	mood := mapOrDefault(moodMap, strings.ToLower(req.Mood), "happy")
	occasion := mapOrDefault(occasionMap, strings.ToLower(req.Occasion), "casual")

	res := &StylistRes{}

	colors, ok := moodPalette[mood]
	if !ok {
		colors = []string{"neutral"}
	}
	res.Outfit.ColorPalette = colors
	res.Reasoning = append(res.Reasoning,
		fmt.Sprintf("Colors selected based on %s mood using color psychology", mood))

	var (
		fabric       string
		layerAllowed bool
	)
	switch weather {
	case "hot":
		fabric = "cotton / linen"
		layerAllowed = false
		res.Reasoning = append(res.Reasoning, "Hot weather → breathable fabrics, no heavy layers")
	case "cold":
		fabric = "wool / fleece"
		layerAllowed = true
		res.Reasoning = append(res.Reasoning, "Cold weather → warm layers required")
	default:
		fabric = "cotton blend"
		layerAllowed = true
	}
	res.Outfit.Fabric = fabric

	switch occasion {
	case "office":
		res.Reasoning = append(res.Reasoning, "Office occasion → clean and formal styling")
	case "party":
		res.Reasoning = append(res.Reasoning, "Party occasion → statement and contrast styling")
	default:
		res.Reasoning = append(res.Reasoning, "Casual occasion → comfort-first styling")
	}

	var top, bottom, layer string
	switch gender {
	case "male", "men":
		top, bottom, layer = "solid t-shirt", "pants", "jacket"
	case "female", "women":
		top, bottom, layer = "blouse", "pants", "cardigan"
	default:
		top, bottom, layer = "relaxed top", "comfortable bottom", "light layer"
	}

	res.Outfit.Top = top
	res.Outfit.Bottom = bottom
	if layerAllowed {
		res.Outfit.Layer = layer
	}

	res.Outfit.Trend = "minimalist, relaxed fit, earth-tone inspired"
	res.Reasoning = append(res.Reasoning,
		"Incorporated evergreen fashion trends (minimalism, earth tones)")

	return res
}

func mapOrDefault(m map[string]string, key string, def string) string {
	if v, ok := m[key]; ok {
		return v
	}

	return def
}
