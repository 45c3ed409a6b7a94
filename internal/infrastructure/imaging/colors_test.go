package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(c color.NRGBA, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Изображение из трёх вертикальных полос заданных цветов.
func stripedImage(stripes []color.NRGBA, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stripeWidth := w / len(stripes)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := x / stripeWidth
			if i >= len(stripes) {
				i = len(stripes) - 1
			}
			img.SetNRGBA(x, y, stripes[i])
		}
	}
	return img
}

func TestExtractColors_SolidImage(t *testing.T) {
	data := encodePNG(t, solidImage(color.NRGBA{R: 200, G: 40, B: 40, A: 255}, 64, 64))

	colors, err := NewColorExtractor().ExtractColors(data)
	require.NoError(t, err)
	require.Len(t, colors, 3)

	// На одноцветном изображении все кластеры сходятся к этому цвету
	for _, c := range colors {
		assert.InDelta(t, 200, float64(c.R), 2)
		assert.InDelta(t, 40, float64(c.G), 2)
		assert.InDelta(t, 40, float64(c.B), 2)
	}
}

func TestExtractColors_FindsDominantColors(t *testing.T) {
	stripes := []color.NRGBA{
		{R: 230, G: 20, B: 20, A: 255},
		{R: 20, G: 230, B: 20, A: 255},
		{R: 20, G: 20, B: 230, A: 255},
	}
	data := encodePNG(t, stripedImage(stripes, 96, 96))

	colors, err := NewColorExtractor().ExtractColors(data)
	require.NoError(t, err)
	require.Len(t, colors, 3)

	// Каждый исходный цвет должен быть близок к одному из центров.
	// Допуск покрывает смешение на границах полос при сжатии.
	for _, want := range stripes {
		assert.True(t, hasCloseColor(colors, want, 40),
			"no cluster center close to %+v in %+v", want, colors)
	}
}

// Первым возвращается центр самого населённого кластера, а не цвет,
// с которого начался посев центров.
func TestExtractColors_DominantColorFirst(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			switch {
			case x < 4:
				img.SetNRGBA(x, y, color.NRGBA{R: 230, G: 20, B: 20, A: 255})
			case x < 8:
				img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 230, B: 20, A: 255})
			default:
				img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 20, B: 230, A: 255})
			}
		}
	}

	colors, err := NewColorExtractor().ExtractColors(encodePNG(t, img))
	require.NoError(t, err)
	require.Len(t, colors, 3)

	assert.InDelta(t, 20, float64(colors[0].R), 40)
	assert.InDelta(t, 20, float64(colors[0].G), 40)
	assert.InDelta(t, 230, float64(colors[0].B), 40)
}

func TestExtractColors_Deterministic(t *testing.T) {
	stripes := []color.NRGBA{
		{R: 230, G: 20, B: 20, A: 255},
		{R: 20, G: 230, B: 20, A: 255},
		{R: 20, G: 20, B: 230, A: 255},
	}
	data := encodePNG(t, stripedImage(stripes, 96, 96))

	extractor := NewColorExtractor()

	first, err := extractor.ExtractColors(data)
	require.NoError(t, err)
	second, err := extractor.ExtractColors(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractColors_RejectsGarbage(t *testing.T) {
	_, err := NewColorExtractor().ExtractColors([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrUnsupportedMediaType))
}

func hasCloseColor(colors []domain.RGB, want color.NRGBA, delta float64) bool {
	for _, c := range colors {
		dr := float64(c.R) - float64(want.R)
		dg := float64(c.G) - float64(want.G)
		db := float64(c.B) - float64(want.B)
		if dr*dr+dg*dg+db*db <= delta*delta {
			return true
		}
	}
	return false
}
