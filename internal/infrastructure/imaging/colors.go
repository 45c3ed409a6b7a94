// Package imaging выделяет доминантные цвета вещи кластеризацией пикселей.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"golang.org/x/image/draw"
)

const (
	// Изображение сжимается до 64x64 перед кластеризацией:
	// доминантные цвета от этого не меняются, работа ускоряется на порядки.
	sampleSize = 64

	clusters      = 3
	maxIterations = 10
)

// ColorExtractor выделяет доминантные цвета k-means кластеризацией пикселей.
// Инициализация центров детерминированная (farthest-point), один и тот же
// вход всегда даёт одни и те же цвета.
type ColorExtractor struct{}

func NewColorExtractor() *ColorExtractor {
	return &ColorExtractor{}
}

type point struct {
	r, g, b float64
}

// ExtractColors возвращает центры трёх цветовых кластеров изображения,
// самый населённый кластер — первым.
func (c *ColorExtractor) ExtractColors(imageData []byte) ([]domain.RGB, error) {
	const op = "imaging.ColorExtractor.ExtractColors"

	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrUnsupportedMediaType, err))
	}

	pixels := samplePixels(src)
	if len(pixels) == 0 {
		return nil, e.Wrap(op, fmt.Errorf("image has no pixels"))
	}

	centers := kMeans(pixels, clusters, maxIterations)
	centers = sortByPopulation(pixels, centers)

	colors := make([]domain.RGB, 0, len(centers))
	for _, ctr := range centers {
		colors = append(colors, domain.RGB{
			R: clampByte(ctr.r),
			G: clampByte(ctr.g),
			B: clampByte(ctr.b),
		})
	}

	return colors, nil
}

// samplePixels сжимает изображение до sampleSize и возвращает пиксели в RGB.
func samplePixels(src image.Image) []point {
	dst := image.NewRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([]point, 0, sampleSize*sampleSize)
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			i := dst.PixOffset(x, y)
			pixels = append(pixels, point{
				r: float64(dst.Pix[i]),
				g: float64(dst.Pix[i+1]),
				b: float64(dst.Pix[i+2]),
			})
		}
	}

	return pixels
}

// kMeans кластеризует пиксели. Центры инициализируются первой точкой
// и далее самыми удалёнными от уже выбранных, без случайности.
func kMeans(pixels []point, k int, iterations int) []point {
	if len(pixels) < k {
		k = len(pixels)
	}

	centers := seedCenters(pixels, k)
	assignments := make([]int, len(pixels))

	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i, p := range pixels {
			best := nearestCenter(p, centers)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		sums := make([]point, k)
		counts := make([]int, k)
		for i, p := range pixels {
			a := assignments[i]
			sums[a].r += p.r
			sums[a].g += p.g
			sums[a].b += p.b
			counts[a]++
		}

		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			centers[j] = point{
				r: sums[j].r / float64(counts[j]),
				g: sums[j].g / float64(counts[j]),
				b: sums[j].b / float64(counts[j]),
			}
		}
	}

	return centers
}

func seedCenters(pixels []point, k int) []point {
	centers := make([]point, 0, k)
	centers = append(centers, pixels[0])

	for len(centers) < k {
		var (
			farthest point
			maxDist  = -1.0
		)
		for _, p := range pixels {
			dist := math.Inf(1)
			for _, ctr := range centers {
				if d := sqDist(p, ctr); d < dist {
					dist = d
				}
			}
			if dist > maxDist {
				maxDist = dist
				farthest = p
			}
		}
		centers = append(centers, farthest)
	}

	return centers
}

// sortByPopulation упорядочивает центры по числу отнесённых к ним
// пикселей, по убыванию. При равных размерах порядок центров сохраняется.
func sortByPopulation(pixels []point, centers []point) []point {
	counts := make([]int, len(centers))
	for _, p := range pixels {
		counts[nearestCenter(p, centers)]++
	}

	idx := make([]int, len(centers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return counts[idx[a]] > counts[idx[b]]
	})

	out := make([]point, 0, len(centers))
	for _, i := range idx {
		out = append(out, centers[i])
	}

	return out
}

func nearestCenter(p point, centers []point) int {
	best := 0
	bestDist := math.Inf(1)
	for j, ctr := range centers {
		if d := sqDist(p, ctr); d < bestDist {
			bestDist = d
			best = j
		}
	}

	return best
}

func sqDist(a, b point) float64 {
	dr := a.r - b.r
	dg := a.g - b.g
	db := a.b - b.b
	return dr*dr + dg*dg + db*db
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
