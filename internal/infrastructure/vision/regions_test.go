package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

func allTissue(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// fillBlock закрашивает прямоугольник карты постоянной активацией.
func fillBlock(cam *entity.ActivationMap, x0, y0, w, h int, v float64) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			cam.Set(x, y, v)
		}
	}
}

func TestExtract_SingleComponent(t *testing.T) {
	cam := entity.NewActivationMap(200, 200)
	fillBlock(cam, 40, 60, 30, 20, 0.9)

	comps := NewRegionExtractor(config.Default().Explain).Extract(cam, allTissue(200*200))
	require.Len(t, comps, 1)

	c := comps[0]
	require.Equal(t, entity.BoundingBox{X: 40, Y: 60, Width: 30, Height: 20}, c.Box)
	require.Equal(t, 600, c.PixelCount)
	require.InDelta(t, 0.9, c.MeanActivation, 1e-9)
	require.InDelta(t, 0.9, c.MaxActivation, 1e-9)
	require.InDelta(t, 1.0, c.FillRatio, 1e-9)
	require.True(t, c.Box.Inside(200, 200))
}

func TestExtract_BelowThresholdIgnored(t *testing.T) {
	cam := entity.NewActivationMap(200, 200)
	fillBlock(cam, 40, 60, 30, 30, 0.5) // ровно на пороге, не выше

	comps := NewRegionExtractor(config.Default().Explain).Extract(cam, allTissue(200*200))
	require.Empty(t, comps)
}

func TestExtract_TinyComponentFiltered(t *testing.T) {
	cam := entity.NewActivationMap(200, 200)
	fillBlock(cam, 10, 10, 5, 5, 0.9) // меньше минимальной стороны рамки

	comps := NewRegionExtractor(config.Default().Explain).Extract(cam, allTissue(200*200))
	require.Empty(t, comps)
}

func TestExtract_OffTissueFiltered(t *testing.T) {
	cam := entity.NewActivationMap(200, 200)
	fillBlock(cam, 40, 60, 30, 20, 0.9)

	comps := NewRegionExtractor(config.Default().Explain).Extract(cam, make([]bool, 200*200))
	require.Empty(t, comps)
}

func TestExtract_SeparateComponentsRankedBySalience(t *testing.T) {
	cam := entity.NewActivationMap(300, 300)
	fillBlock(cam, 10, 10, 20, 20, 0.6)
	fillBlock(cam, 100, 100, 40, 40, 0.95)

	comps := NewRegionExtractor(config.Default().Explain).Extract(cam, allTissue(300*300))
	require.Len(t, comps, 2)
	// Крупная и яркая компонента ранжируется первой
	require.Equal(t, 100, comps[0].Box.X)
	require.Equal(t, 10, comps[1].Box.X)
}

func TestExtract_CapsAtMaxRegions(t *testing.T) {
	cfg := config.Default().Explain
	cam := entity.NewActivationMap(400, 400)
	for i := 0; i < 12; i++ {
		fillBlock(cam, (i%4)*100+10, (i/4)*100+10, 20, 20, 0.9)
	}

	comps := NewRegionExtractor(cfg).Extract(cam, allTissue(400*400))
	require.Len(t, comps, cfg.MaxRegions)
}

func TestExtract_EmptyMap(t *testing.T) {
	comps := NewRegionExtractor(config.Default().Explain).Extract(entity.NewActivationMap(0, 0), nil)
	require.Empty(t, comps)
}
