package vision

import (
	"crypto/sha256"
	"encoding/hex"
	"math/bits"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

// Fingerprinter считает отпечатки снимка: точный по байтам файла и
// перцептивный по уменьшенной серой сетке.
type Fingerprinter struct {
	cfg config.DedupConfig
}

// NewFingerprinter создаёт вычислитель отпечатков.
func NewFingerprinter(cfg config.DedupConfig) *Fingerprinter {
	return &Fingerprinter{cfg: cfg}
}

// Compute возвращает пару отпечатков. Перцептивный хэш может оказаться
// невычислимым на вырожденном снимке; тогда сравнение деградирует до
// точного хэша, ошибкой это не считается.
func (f *Fingerprinter) Compute(img *entity.RawImage) entity.ContentFingerprint {
	fp := entity.ContentFingerprint{
		ExactHash: ExactHash(img.Data),
	}

	if phash, ok := f.perceptualHash(img); ok {
		fp.PerceptualHash = phash
		fp.PerceptualOK = true
	}

	return fp
}

// ExactHash SHA-256 исходных байтов файла в hex. Повторный вызов на тех же
// байтах всегда даёт ту же строку.
func ExactHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// perceptualHash строит 64-битный средний хэш: снимок сжимается до сетки
// NxN, переводится в яркость, каждая клетка сравнивается со средним по
// сетке. Поворот и отражение хэшем не нормализуются.
func (f *Fingerprinter) perceptualHash(img *entity.RawImage) (uint64, bool) {
	n := f.cfg.HashGridSize
	if n <= 0 || n*n > 64 {
		return 0, false
	}
	if img.Width == 0 || img.Height == 0 || len(img.Pix) < img.Width*img.Height*3 {
		return 0, false
	}

	small := resizeRGBA(toRGBA(img), n, n)

	cells := make([]float64, n*n)
	sum := 0.0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := small.PixOffset(x, y)
			v := (float64(small.Pix[i]) + float64(small.Pix[i+1]) + float64(small.Pix[i+2])) / 3
			cells[y*n+x] = v
			sum += v
		}
	}
	avg := sum / float64(n*n)

	var hash uint64
	for i, v := range cells {
		if v > avg {
			hash |= 1 << uint(63-i)
		}
	}
	return hash, true
}

// HammingDistance число различающихся битов двух перцептивных хэшей.
// Симметрична по построению.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
