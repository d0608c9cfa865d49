package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/internal/domain/entity"
)

func TestCache_ExactDuplicate(t *testing.T) {
	cache := NewMemoryFingerprintCache(3)
	fp := entity.ContentFingerprint{ExactHash: "abc", PerceptualHash: 0xFF, PerceptualOK: true}

	require.False(t, cache.Check(fp).IsDuplicate)

	cache.Register(fp, "scan1.png")
	verdict := cache.Check(fp)
	require.True(t, verdict.IsDuplicate)
	require.True(t, verdict.Exact)
	require.Equal(t, "scan1.png", verdict.MatchedReference)
}

func TestCache_PerceptualNearDuplicate(t *testing.T) {
	cache := NewMemoryFingerprintCache(3)
	cache.Register(entity.ContentFingerprint{
		ExactHash:      "abc",
		PerceptualHash: 0b11110000,
		PerceptualOK:   true,
	}, "scan1.png")

	// Другие байты файла, перцептивный хэш в двух битах от эталона
	verdict := cache.Check(entity.ContentFingerprint{
		ExactHash:      "def",
		PerceptualHash: 0b11111100,
		PerceptualOK:   true,
	})
	require.True(t, verdict.IsDuplicate)
	require.False(t, verdict.Exact)
	require.Equal(t, 2, verdict.HammingDistance)
	require.Equal(t, "scan1.png", verdict.MatchedReference)
}

func TestCache_BeyondThresholdNotDuplicate(t *testing.T) {
	cache := NewMemoryFingerprintCache(3)
	cache.Register(entity.ContentFingerprint{ExactHash: "abc", PerceptualHash: 0, PerceptualOK: true}, "scan1.png")

	verdict := cache.Check(entity.ContentFingerprint{ExactHash: "def", PerceptualHash: 0b1111, PerceptualOK: true})
	require.False(t, verdict.IsDuplicate)
}

func TestCache_PerceptualSkippedWhenUncomputable(t *testing.T) {
	cache := NewMemoryFingerprintCache(64)
	cache.Register(entity.ContentFingerprint{ExactHash: "abc", PerceptualHash: 1, PerceptualOK: true}, "scan1.png")

	// Без перцептивного хэша сравнение деградирует до точного
	verdict := cache.Check(entity.ContentFingerprint{ExactHash: "def", PerceptualOK: false})
	require.False(t, verdict.IsDuplicate)
}

func TestCache_RegisterIdempotent(t *testing.T) {
	cache := NewMemoryFingerprintCache(3)
	fp := entity.ContentFingerprint{ExactHash: "abc", PerceptualHash: 7, PerceptualOK: true}

	cache.Register(fp, "first.png")
	cache.Register(fp, "second.png")

	// Эталоном остаётся первый файл
	require.Equal(t, "first.png", cache.Check(fp).MatchedReference)
	require.Equal(t, 1, cache.Len())
}

func TestCache_ResetRestoresUniqueness(t *testing.T) {
	cache := NewMemoryFingerprintCache(3)
	fp := entity.ContentFingerprint{ExactHash: "abc", PerceptualHash: 7, PerceptualOK: true}

	cache.Register(fp, "scan1.png")
	require.True(t, cache.Check(fp).IsDuplicate)

	cache.Reset()
	require.False(t, cache.Check(fp).IsDuplicate)
	require.Equal(t, 0, cache.Len())
}

func TestCache_ConcurrentRegister(t *testing.T) {
	cache := NewMemoryFingerprintCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fp := entity.ContentFingerprint{
				ExactHash:      fmt.Sprintf("hash-%d", i),
				PerceptualHash: uint64(i) << 32,
				PerceptualOK:   true,
			}
			cache.Register(fp, fmt.Sprintf("scan-%d.png", i))
			cache.Check(fp)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, cache.Len())
}
