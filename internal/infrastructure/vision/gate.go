package vision

import (
	"fmt"
	"math"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

// AdmissibilityGate проверяет, пригоден ли снимок для анализа.
// Чистая функция над пиксельным буфером: эвристики применяются в
// фиксированном порядке, первая сработавшая обрывает проверку.
type AdmissibilityGate struct {
	cfg config.GateConfig
}

// NewAdmissibilityGate создаёт гейт с заданными порогами.
func NewAdmissibilityGate(cfg config.GateConfig) *AdmissibilityGate {
	return &AdmissibilityGate{cfg: cfg}
}

// Evaluate прогоняет снимок через все проверки допуска. Вердикт несёт код
// первой нарушенной эвристики, её измеренное значение и все метрики,
// вычисленные к моменту отказа.
func (g *AdmissibilityGate) Evaluate(img *entity.RawImage) entity.ValidationVerdict {
	metrics := entity.GateMetrics{
		Width:    img.Width,
		Height:   img.Height,
		HasAlpha: img.HasAlpha,
	}

	if img.HasAlpha {
		return reject(entity.ReasonHasAlpha, 1, metrics,
			"image carries an alpha channel: mammograms are X-ray scans without transparency, "+
				"this looks like a graphic or a photo cutout")
	}

	if img.Width < g.cfg.MinWidth || img.Height < g.cfg.MinHeight {
		return reject(entity.ReasonResolution, float64(minInt(img.Width, img.Height)), metrics,
			fmt.Sprintf("image resolution %dx%d is below the diagnostic minimum %dx%d",
				img.Width, img.Height, g.cfg.MinWidth, g.cfg.MinHeight))
	}

	metrics.AspectRatio = img.AspectRatio()
	if metrics.AspectRatio < g.cfg.MinAspectRatio || metrics.AspectRatio > g.cfg.MaxAspectRatio {
		return reject(entity.ReasonAspectRatio, metrics.AspectRatio, metrics,
			fmt.Sprintf("aspect ratio %.2f is outside the mammographic plate range [%.2f, %.2f]",
				metrics.AspectRatio, g.cfg.MinAspectRatio, g.cfg.MaxAspectRatio))
	}

	color := measureColor(img)
	metrics.ColorVariance = color.variance
	if color.variance > g.cfg.MaxColorVariance {
		return reject(entity.ReasonColorVariance, color.variance, metrics,
			fmt.Sprintf("mean channel difference %.1f exceeds %.1f: a true grayscale scan has negligible chroma",
				color.variance, g.cfg.MaxColorVariance))
	}

	metrics.Saturation = color.saturation
	if color.saturation > g.cfg.MaxSaturation {
		return reject(entity.ReasonSaturation, color.saturation, metrics,
			fmt.Sprintf("mean saturation %.1f exceeds %.1f: the image is colored, not an X-ray scan",
				color.saturation, g.cfg.MaxSaturation))
	}

	metrics.SkinToneFraction = color.skinFraction
	if color.skinFraction > g.cfg.MaxSkinToneFraction {
		return reject(entity.ReasonSkinTone, color.skinFraction, metrics,
			fmt.Sprintf("%.0f%% of pixels match a skin-tone ordering: this looks like a photograph of a person",
				color.skinFraction*100))
	}

	gray := img.Gray()

	metrics.EdgeDensity = edgeDensity(gray, img.Width, img.Height, g.cfg.EdgeGradient)
	if metrics.EdgeDensity > g.cfg.MaxEdgeDensity {
		return reject(entity.ReasonEdgeDensity, metrics.EdgeDensity, metrics,
			fmt.Sprintf("edge density %.3f exceeds %.3f: soft-tissue scans do not have this many sharp boundaries",
				metrics.EdgeDensity, g.cfg.MaxEdgeDensity))
	}

	hist := histogram256(gray)
	total := float64(len(gray))
	extreme := 0.0
	for bin := 0; bin < g.cfg.ExtremeLowBin; bin++ {
		extreme += float64(hist[bin])
	}
	for bin := g.cfg.ExtremeHighBin; bin < 256; bin++ {
		extreme += float64(hist[bin])
	}
	metrics.HistogramExtremeFraction = extreme / total
	if metrics.HistogramExtremeFraction > g.cfg.MaxExtremeFraction {
		return reject(entity.ReasonHistogram, metrics.HistogramExtremeFraction, metrics,
			fmt.Sprintf("%.0f%% of intensities sit at the histogram extremes: this looks like a screenshot or binary graphic",
				metrics.HistogramExtremeFraction*100))
	}

	mean, std := meanStd255(gray)
	metrics.MeanIntensity = mean
	metrics.StdIntensity = std
	if mean < g.cfg.MinMeanIntensity {
		return reject(entity.ReasonTooDark, mean, metrics,
			fmt.Sprintf("mean intensity %.1f: the image is too dark to show tissue", mean))
	}
	if mean > g.cfg.MaxMeanIntensity {
		return reject(entity.ReasonTooBright, mean, metrics,
			fmt.Sprintf("mean intensity %.1f: the image is too bright to show tissue", mean))
	}
	if std < g.cfg.MinStdIntensity {
		return reject(entity.ReasonLowContrast, std, metrics,
			fmt.Sprintf("intensity deviation %.2f: the image is practically uniform", std))
	}

	tissue := 0.0
	for _, v := range gray {
		iv := v * 255
		if iv > g.cfg.TissueLow && iv < g.cfg.TissueHigh {
			tissue++
		}
	}
	metrics.TissueFraction = tissue / total
	if metrics.TissueFraction < g.cfg.MinTissueFraction {
		return reject(entity.ReasonNoTissue, metrics.TissueFraction, metrics,
			fmt.Sprintf("tissue occupies %.2f%% of the image, below the required %.2f%%",
				metrics.TissueFraction*100, g.cfg.MinTissueFraction*100))
	}

	return entity.ValidationVerdict{Accepted: true, Metrics: metrics}
}

func reject(reason entity.RejectReason, value float64, metrics entity.GateMetrics, message string) entity.ValidationVerdict {
	return entity.ValidationVerdict{
		Accepted:      false,
		Reason:        reason,
		Message:       message,
		MeasuredValue: value,
		Metrics:       metrics,
	}
}

type colorMeasures struct {
	variance     float64 // средняя попарная разница каналов
	saturation   float64 // среднее (max-min) по каналам
	skinFraction float64 // доля пикселей с порядком R>G>B телесного диапазона
}

// measureColor собирает цветовые метрики за один проход по буферу.
func measureColor(img *entity.RawImage) colorMeasures {
	var diffSum, satSum, skin float64
	n := img.Width * img.Height
	for p := 0; p < n; p++ {
		i := p * 3
		r := float64(img.Pix[i])
		g := float64(img.Pix[i+1])
		b := float64(img.Pix[i+2])

		diffSum += (math.Abs(r-g) + math.Abs(r-b) + math.Abs(g-b)) / 3

		max := math.Max(r, math.Max(g, b))
		min := math.Min(r, math.Min(g, b))
		satSum += max - min

		if r > g && g > b && r > 100 && r < 255 {
			skin++
		}
	}
	return colorMeasures{
		variance:     diffSum / float64(n),
		saturation:   satSum / float64(n),
		skinFraction: skin / float64(n),
	}
}

// edgeDensity возвращает долю пикселей, где модуль градиента яркости
// превышает порог. Градиент центральными разностями по шкале 0..255.
func edgeDensity(gray []float64, width, height int, threshold float64) float64 {
	if width < 2 || height < 2 {
		return 0
	}
	strong := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := gradientAxis(gray, width, x, y, 1, 0, width, height)
			gy := gradientAxis(gray, width, x, y, 0, 1, width, height)
			if math.Sqrt(gx*gx+gy*gy)*255 > threshold {
				strong++
			}
		}
	}
	return float64(strong) / float64(width*height)
}

// gradientAxis центральная разность вдоль одной оси с односторонними
// разностями на границах.
func gradientAxis(gray []float64, stride, x, y, dx, dy, width, height int) float64 {
	x0, y0 := x-dx, y-dy
	x1, y1 := x+dx, y+dy
	div := 2.0
	if x0 < 0 || y0 < 0 {
		x0, y0 = x, y
		div = 1
	}
	if x1 >= width || y1 >= height {
		x1, y1 = x, y
		div = 1
	}
	return (gray[y1*stride+x1] - gray[y0*stride+x0]) / div
}

// histogram256 гистограмма яркости по 256 бинам, вход в [0,1].
func histogram256(gray []float64) [256]int {
	var hist [256]int
	for _, v := range gray {
		bin := int(v * 255)
		if bin < 0 {
			bin = 0
		}
		if bin > 255 {
			bin = 255
		}
		hist[bin]++
	}
	return hist
}

// meanStd255 среднее и стандартное отклонение яркости по шкале 0..255.
func meanStd255(gray []float64) (mean, std float64) {
	n := float64(len(gray))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range gray {
		sum += v * 255
	}
	mean = sum / n
	varSum := 0.0
	for _, v := range gray {
		d := v*255 - mean
		varSum += d * d
	}
	return mean, math.Sqrt(varSum / n)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
