package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

func TestExactHash_Deterministic(t *testing.T) {
	a := ExactHash([]byte("mammogram bytes"))
	b := ExactHash([]byte("mammogram bytes"))
	c := ExactHash([]byte("other bytes"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 64)
}

func TestFingerprinter_ComputeStablePerceptualHash(t *testing.T) {
	f := NewFingerprinter(config.Default().Dedup)
	img := grayImage(1024, 1300)

	first := f.Compute(img)
	second := f.Compute(img)

	require.True(t, first.PerceptualOK)
	require.Equal(t, first.PerceptualHash, second.PerceptualHash)
	require.Equal(t, first.ExactHash, second.ExactHash)
}

func TestFingerprinter_NearDuplicateWithinThreshold(t *testing.T) {
	f := NewFingerprinter(config.Default().Dedup)
	base := grayImage(1024, 1300)

	// Лёгкая порча нескольких пикселей не должна менять перцептивный хэш
	altered := grayImage(1024, 1300)
	for i := 0; i < 30; i++ {
		altered.Pix[i] = 255
	}
	altered.Data = []byte("different file bytes")

	a := f.Compute(base)
	b := f.Compute(altered)
	require.True(t, a.PerceptualOK)
	require.True(t, b.PerceptualOK)
	require.NotEqual(t, a.ExactHash, b.ExactHash)
	require.LessOrEqual(t, HammingDistance(a.PerceptualHash, b.PerceptualHash), 3)
}

func TestFingerprinter_DistinctContentDiffers(t *testing.T) {
	f := NewFingerprinter(config.Default().Dedup)

	light := testImage(400, 400, func(x, y int) (uint8, uint8, uint8) {
		if x < 200 {
			return 230, 230, 230
		}
		return 20, 20, 20
	})
	dark := testImage(400, 400, func(x, y int) (uint8, uint8, uint8) {
		if y < 200 {
			return 230, 230, 230
		}
		return 20, 20, 20
	})

	a := f.Compute(light)
	b := f.Compute(dark)
	require.Greater(t, HammingDistance(a.PerceptualHash, b.PerceptualHash), 3)
}

func TestFingerprinter_PerceptualDegradesGracefully(t *testing.T) {
	f := NewFingerprinter(config.DedupConfig{HashGridSize: 9, MaxHammingDistance: 3})
	fp := f.Compute(grayImage(64, 64))

	// Сетка 9x9 не помещается в 64 бита: остаётся только точный хэш
	require.False(t, fp.PerceptualOK)
	require.NotEmpty(t, fp.ExactHash)
}

func TestFingerprinter_EmptyImage(t *testing.T) {
	f := NewFingerprinter(config.Default().Dedup)
	fp := f.Compute(&entity.RawImage{Data: []byte("x")})

	require.False(t, fp.PerceptualOK)
	require.NotEmpty(t, fp.ExactHash)
}

func TestHammingDistance_Symmetric(t *testing.T) {
	require.Equal(t, 0, HammingDistance(42, 42))
	require.Equal(t, HammingDistance(0xF0, 0x0F), HammingDistance(0x0F, 0xF0))
	require.Equal(t, 8, HammingDistance(0xF0, 0x0F))
	require.Equal(t, 64, HammingDistance(0, ^uint64(0)))
}
