package vision

import (
	"math"
	"sort"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

// component связная область карты внимания до типизации.
type component struct {
	Box            entity.BoundingBox
	PixelCount     int     // пикселей в компоненте
	AreaFraction   float64 // доля площади снимка (по рамке)
	MeanActivation float64 // средняя активация компоненты
	MaxActivation  float64 // максимальная активация компоненты
	StdActivation  float64 // разброс активации компоненты
	FillRatio      float64 // пикселей компоненты к площади рамки
}

// RegionExtractor выделяет связные области внимания на растянутой карте.
type RegionExtractor struct {
	cfg config.ExplainConfig
}

// NewRegionExtractor создаёт экстрактор с заданными порогами.
func NewRegionExtractor(cfg config.ExplainConfig) *RegionExtractor {
	return &RegionExtractor{cfg: cfg}
}

// Extract бинаризует карту порогом внимания, размечает связные компоненты,
// отбрасывает шумовые и фоновые, ранжирует по площади на среднюю активацию
// и оставляет не больше MaxRegions. Карта и маска ткани должны совпадать
// с разрешением исходного снимка.
func (e *RegionExtractor) Extract(cam *entity.ActivationMap, tissue []bool) []component {
	w, h := cam.Width, cam.Height
	if w == 0 || h == 0 {
		return nil
	}

	labels := make([]int32, w*h)
	var comps []component
	queue := make([]int, 0, 256)

	next := int32(0)
	for start := 0; start < w*h; start++ {
		if labels[start] != 0 || cam.Values[start] <= e.cfg.AttentionThreshold {
			continue
		}

		next++
		labels[start] = next
		queue = append(queue[:0], start)

		minX, minY := w, h
		maxX, maxY := 0, 0
		count := 0
		sum, sumSq, maxV := 0.0, 0.0, 0.0

		// Поиск в ширину по 4-связности
		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			x, y := p%w, p/w
			v := cam.Values[p]
			count++
			sum += v
			sumSq += v * v
			if v > maxV {
				maxV = v
			}
			minX = minInt(minX, x)
			minY = minInt(minY, y)
			maxX = maxInt(maxX, x)
			maxY = maxInt(maxY, y)

			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				np := ny*w + nx
				if labels[np] == 0 && cam.Values[np] > e.cfg.AttentionThreshold {
					labels[np] = next
					queue = append(queue, np)
				}
			}
		}

		box := entity.BoundingBox{
			X:      minX,
			Y:      minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
		}
		mean := sum / float64(count)
		variance := sumSq/float64(count) - mean*mean
		if variance < 0 {
			variance = 0
		}

		comps = append(comps, component{
			Box:            box,
			PixelCount:     count,
			AreaFraction:   float64(box.Area()) / float64(w*h),
			MeanActivation: mean,
			MaxActivation:  maxV,
			StdActivation:  math.Sqrt(variance),
			FillRatio:      float64(count) / float64(box.Area()),
		})
	}

	kept := comps[:0]
	for _, c := range comps {
		if c.AreaFraction < e.cfg.MinAreaFraction {
			continue
		}
		if c.Box.Width < e.cfg.MinBoxSide || c.Box.Height < e.cfg.MinBoxSide {
			continue
		}
		if !e.onTissue(c.Box, tissue, w, h) {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return float64(kept[i].PixelCount)*kept[i].MeanActivation >
			float64(kept[j].PixelCount)*kept[j].MeanActivation
	})
	if len(kept) > e.cfg.MaxRegions {
		kept = kept[:e.cfg.MaxRegions]
	}
	return kept
}

// onTissue требует, чтобы центр рамки лежал на ткани и ткань покрывала
// достаточную долю рамки: находки на чёрном фоне отбрасываются.
func (e *RegionExtractor) onTissue(box entity.BoundingBox, tissue []bool, w, h int) bool {
	if len(tissue) != w*h {
		return true
	}
	cx, cy := box.Center()
	if !tissue[cy*w+cx] {
		return false
	}

	covered := 0
	for y := box.Y; y < box.Y+box.Height; y++ {
		for x := box.X; x < box.X+box.Width; x++ {
			if tissue[y*w+x] {
				covered++
			}
		}
	}
	return float64(covered)/float64(box.Area()) >= e.cfg.MinTissueCoverage
}
