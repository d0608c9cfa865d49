package storage

import (
	"sync"

	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
	"mammo-analyzer/internal/infrastructure/vision"
)

// perceptualEntry зарегистрированный перцептивный хэш с именем эталона.
type perceptualEntry struct {
	hash  uint64
	label string
}

// MemoryFingerprintCache сессионное in-memory хранилище отпечатков.
// Все операции сериализованы мьютексом: параллельные регистрации не могут
// испортить отображение на эталоны.
type MemoryFingerprintCache struct {
	mu          sync.RWMutex
	exact       map[string]string
	perceptual  []perceptualEntry
	maxDistance int
}

// NewMemoryFingerprintCache создаёт пустой кэш с порогом Хэмминга.
func NewMemoryFingerprintCache(maxDistance int) *MemoryFingerprintCache {
	return &MemoryFingerprintCache{
		exact:       make(map[string]string),
		maxDistance: maxDistance,
	}
}

// Check сравнивает отпечаток с зарегистрированными. Совпадение точного
// хэша — безусловный дубликат; перцептивное сравнение подключается, только
// если хэш удалось вычислить.
func (c *MemoryFingerprintCache) Check(fp entity.ContentFingerprint) *entity.DuplicateVerdict {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if label, ok := c.exact[fp.ExactHash]; ok {
		return &entity.DuplicateVerdict{
			IsDuplicate:      true,
			MatchedReference: label,
			Exact:            true,
		}
	}

	if fp.PerceptualOK {
		for _, entry := range c.perceptual {
			distance := vision.HammingDistance(fp.PerceptualHash, entry.hash)
			if distance <= c.maxDistance {
				return &entity.DuplicateVerdict{
					IsDuplicate:      true,
					MatchedReference: entry.label,
					HammingDistance:  distance,
				}
			}
		}
	}

	return &entity.DuplicateVerdict{IsDuplicate: false}
}

// Register запоминает отпечаток под именем файла. Повторная регистрация
// идемпотентна: эталоном остаётся первый файл.
func (c *MemoryFingerprintCache) Register(fp entity.ContentFingerprint, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.exact[fp.ExactHash]; !ok {
		c.exact[fp.ExactHash] = label
	}

	if !fp.PerceptualOK {
		return
	}
	for _, entry := range c.perceptual {
		if entry.hash == fp.PerceptualHash {
			return
		}
	}
	c.perceptual = append(c.perceptual, perceptualEntry{hash: fp.PerceptualHash, label: label})
}

// Reset очищает кэш при старте новой сессии.
func (c *MemoryFingerprintCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exact = make(map[string]string)
	c.perceptual = nil
}

// Len возвращает число зарегистрированных точных отпечатков.
func (c *MemoryFingerprintCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.exact)
}

// Проверка реализации интерфейса
var _ port.FingerprintCache = (*MemoryFingerprintCache)(nil)
