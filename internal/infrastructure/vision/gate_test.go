package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

func newGate() *AdmissibilityGate {
	return NewAdmissibilityGate(config.Default().Gate)
}

func TestGate_AcceptsGrayscaleMammogram(t *testing.T) {
	img := grayImage(1024, 1300)

	verdict := newGate().Evaluate(img)
	require.True(t, verdict.Accepted)
	require.Empty(t, verdict.Reason)
	require.Equal(t, 1024, verdict.Metrics.Width)
	require.InDelta(t, 1024.0/1300.0, verdict.Metrics.AspectRatio, 0.001)
	require.Greater(t, verdict.Metrics.TissueFraction, 0.9)
}

func TestGate_AlphaChannelRejectedFirst(t *testing.T) {
	img := grayImage(10, 10) // и разрешение тоже негодное
	img.HasAlpha = true

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonHasAlpha, verdict.Reason)
}

func TestGate_ResolutionPrecedesColorChecks(t *testing.T) {
	img := testImage(100, 100, func(x, y int) (uint8, uint8, uint8) {
		return 200, 50, 50 // цветной и маленький одновременно
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonResolution, verdict.Reason)
	require.Equal(t, 100.0, verdict.MeasuredValue)
	require.Contains(t, verdict.Message, "100x100")
}

func TestGate_AspectRatioOutOfRange(t *testing.T) {
	img := grayImage(2100, 800)

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonAspectRatio, verdict.Reason)
	require.InDelta(t, 2.625, verdict.MeasuredValue, 0.001)
}

func TestGate_ColorVarianceRejected(t *testing.T) {
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		return 50, 120, 200
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonColorVariance, verdict.Reason)
	require.Greater(t, verdict.MeasuredValue, 30.0)
}

func TestGate_SaturationRejected(t *testing.T) {
	// Разброс каналов чуть ниже порога, насыщенность выше
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		return 40, 20, 0
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonSaturation, verdict.Reason)
}

func TestGate_SkinToneRejected(t *testing.T) {
	img := testImage(1200, 900, func(x, y int) (uint8, uint8, uint8) {
		if x < 420 { // 35% кадра телесного тона
			return 150, 135, 120
		}
		v := uint8(100 + (x+y)%40)
		return v, v, v
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonSkinTone, verdict.Reason)
	require.InDelta(t, 0.35, verdict.MeasuredValue, 0.01)
}

func TestGate_EdgeDensityRejected(t *testing.T) {
	// Вертикальные полосы шириной два пикселя: резкая граница на каждом шаге
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		if (x/2)%2 == 0 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonEdgeDensity, verdict.Reason)
	require.Greater(t, verdict.MeasuredValue, 0.45)
}

func TestGate_HistogramExtremesRejected(t *testing.T) {
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		if y < 450 {
			return 0, 0, 0
		}
		return 255, 255, 255
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonHistogram, verdict.Reason)
	require.Greater(t, verdict.MeasuredValue, 0.95)
}

func TestGate_TooDarkRejected(t *testing.T) {
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		if y < 90 { // 10% кадра чуть светлее, гистограмма не вырождена
			return 20, 20, 20
		}
		return 0, 0, 0
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonTooDark, verdict.Reason)
	require.Less(t, verdict.MeasuredValue, 3.0)
}

func TestGate_LowContrastRejected(t *testing.T) {
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		return 128, 128, 128
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonLowContrast, verdict.Reason)
}

func TestGate_NoTissueRejected(t *testing.T) {
	// Яркости целиком вне тканевого диапазона, но не в крайних бинах
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		if y < 450 {
			return 10, 10, 10
		}
		return 240, 240, 240
	})

	verdict := newGate().Evaluate(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, entity.ReasonNoTissue, verdict.Reason)
}

func TestGate_MetricsFilledUpToFailure(t *testing.T) {
	img := testImage(900, 900, func(x, y int) (uint8, uint8, uint8) {
		return 50, 120, 200
	})

	verdict := newGate().Evaluate(img)
	require.Equal(t, 900, verdict.Metrics.Width)
	require.InDelta(t, 1.0, verdict.Metrics.AspectRatio, 0.001)
	require.Greater(t, verdict.Metrics.ColorVariance, 0.0)
	// Поздние метрики не вычислялись
	require.Zero(t, verdict.Metrics.TissueFraction)
}
