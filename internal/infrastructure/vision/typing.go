package vision

import (
	"fmt"
	"math"
	"sync"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

// RegionTyper присваивает находкам эвристический тип по дескрипторам формы
// и локальной яркости. Пороги правил настраиваемые заготовки.
type RegionTyper struct {
	cfg config.TypingConfig
}

// NewRegionTyper создаёт типизатор с заданными порогами.
func NewRegionTyper(cfg config.TypingConfig) *RegionTyper {
	return &RegionTyper{cfg: cfg}
}

// Type характеризует каждую компоненту и строит находки. Компоненты
// независимы и только читаются, поэтому обсчитываются параллельно;
// порядок входного списка сохраняется.
func (t *RegionTyper) Type(comps []component, img *entity.RawImage) []entity.Region {
	regions := make([]entity.Region, len(comps))

	var wg sync.WaitGroup
	for i := range comps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regions[i] = t.characterize(comps[i], img)
			regions[i].ID = i + 1
		}(i)
	}
	wg.Wait()

	return regions
}

// characterize считает дескрипторы одной компоненты и применяет правила
// типизации.
func (t *RegionTyper) characterize(c component, img *entity.RawImage) entity.Region {
	box := c.Box
	grayMean, grayStd := t.localGrayStats(img, box)

	elongation := 1.0
	if box.Width > 0 && box.Height > 0 {
		elongation = float64(maxInt(box.Width, box.Height)) / float64(minInt(box.Width, box.Height))
	}

	imageArea := float64(img.Width * img.Height)
	region := entity.Region{
		BoundingBox:   box,
		AreaFraction:  float64(box.Area()) / imageArea,
		Confidence:    c.MeanActivation,
		MeanIntensity: c.MeanActivation,
		MaxIntensity:  c.MaxActivation,
		StdIntensity:  c.StdActivation,
		LocalGrayMean: grayMean,
		LocalGrayStd:  grayStd,
		FillRatio:     c.FillRatio,
		Elongation:    elongation,
		Location:      locate(box, img.Width, img.Height),
	}
	region.TypeLabel = t.classify(region)
	return region
}

// classify применяет пороговые правила в фиксированном порядке: скопление
// кальцинатов, образование, нарушение архитектоники, остаток — асимметрия.
func (t *RegionTyper) classify(r entity.Region) entity.LesionType {
	switch {
	case r.AreaFraction <= t.cfg.CalcMaxAreaFraction && r.LocalGrayStd >= t.cfg.CalcMinGrayStd:
		return entity.LesionCalcification
	case r.FillRatio >= t.cfg.MassMinFill && r.LocalGrayMean >= t.cfg.MassMinGrayMean:
		return entity.LesionMass
	case r.FillRatio <= t.cfg.DistortionMaxFill || r.Elongation >= t.cfg.DistortionMinElongation:
		return entity.LesionDistortion
	default:
		return entity.LesionAsymmetry
	}
}

// localGrayStats средняя яркость и её разброс внутри рамки по исходному
// серому снимку, шкала [0,1].
func (t *RegionTyper) localGrayStats(img *entity.RawImage, box entity.BoundingBox) (mean, std float64) {
	gray := img.Gray()
	sum, sumSq := 0.0, 0.0
	n := 0
	for y := box.Y; y < box.Y+box.Height && y < img.Height; y++ {
		for x := box.X; x < box.X+box.Width && x < img.Width; x++ {
			v := gray[y*img.Width+x]
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// locate словесная привязка рамки: позиция по третям и квадрант по половинам.
func locate(box entity.BoundingBox, imgWidth, imgHeight int) entity.RegionLocation {
	cx, cy := box.Center()
	fx := float64(cx) / float64(imgWidth)
	fy := float64(cy) / float64(imgHeight)

	hPos := "central"
	if fx < 1.0/3 {
		hPos = "lateral"
	} else if fx > 2.0/3 {
		hPos = "medial"
	}

	vPos := "mid"
	if fy < 1.0/3 {
		vPos = "upper"
	} else if fy > 2.0/3 {
		vPos = "lower"
	}

	var quadrant string
	switch {
	case fx < 0.5 && fy < 0.5:
		quadrant = "upper-outer quadrant"
	case fx >= 0.5 && fy < 0.5:
		quadrant = "upper-inner quadrant"
	case fx < 0.5:
		quadrant = "lower-outer quadrant"
	default:
		quadrant = "lower-inner quadrant"
	}

	return entity.RegionLocation{
		Position:    vPos + "-" + hPos,
		Quadrant:    quadrant,
		Description: fmt.Sprintf("%s %s region (%s)", vPos, hPos, quadrant),
	}
}
