package vision

import (
	"math"

	"mammo-analyzer/internal/domain/entity"
)

// Preprocess готовит вход классификатора: билинейное сжатие до квадрата
// size x size и нормировка значений в [0,1].
func Preprocess(img *entity.RawImage, size int) *entity.ModelInput {
	small := resizeRGBA(toRGBA(img), size, size)

	input := entity.NewModelInput(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := small.PixOffset(x, y)
			input.Set(x, y, 0, float32(small.Pix[i])/255)
			input.Set(x, y, 1, float32(small.Pix[i+1])/255)
			input.Set(x, y, 2, float32(small.Pix[i+2])/255)
		}
	}
	return input
}

// ComputeStats сводная статистика значений всех каналов снимка по
// шкале 0..255. Медиана считается по гистограмме.
func ComputeStats(img *entity.RawImage) entity.ImageStats {
	var hist [256]int
	n := len(img.Pix)
	if n == 0 {
		return entity.ImageStats{}
	}

	sum := 0.0
	minV, maxV := 255.0, 0.0
	for _, p := range img.Pix {
		v := float64(p)
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		hist[p]++
	}
	mean := sum / float64(n)

	varSum := 0.0
	for _, p := range img.Pix {
		d := float64(p) - mean
		varSum += d * d
	}
	std := math.Sqrt(varSum / float64(n))

	median := 0.0
	half := n / 2
	acc := 0
	for bin, count := range hist {
		acc += count
		if acc > half {
			median = float64(bin)
			break
		}
	}

	return entity.ImageStats{
		MeanIntensity:   mean,
		StdIntensity:    std,
		MinIntensity:    minV,
		MaxIntensity:    maxV,
		MedianIntensity: median,
		Brightness:      mean / 255 * 100,
		Contrast:        std / 255 * 100,
	}
}
