package port

import (
	"mammo-analyzer/internal/domain/entity"
)

// FingerprintCache сессионное хранилище отпечатков загруженных снимков.
// Кэш внедряется в конвейер явно, без глобального состояния; все операции
// сериализованы внутри реализации.
type FingerprintCache interface {
	// Check сравнивает отпечаток с уже зарегистрированными.
	Check(fp entity.ContentFingerprint) *entity.DuplicateVerdict

	// Register запоминает отпечаток под именем файла. Повторная регистрация
	// того же отпечатка ничего не меняет: эталоном остаётся первый файл.
	Register(fp entity.ContentFingerprint, label string)

	// Reset очищает кэш при старте новой сессии.
	Reset()
}
