package entity

// ContentFingerprint пара отпечатков снимка. Считается один раз,
// хранится в сессионном кэше и не изменяется.
type ContentFingerprint struct {
	ExactHash      string // SHA-256 исходных байтов файла, hex
	PerceptualHash uint64 // 64-битный перцептивный хэш (сетка 8x8)
	PerceptualOK   bool   // удалось ли вычислить перцептивный хэш
}

// DuplicateVerdict итог проверки на повторную загрузку.
type DuplicateVerdict struct {
	IsDuplicate      bool   // является ли снимок дубликатом
	MatchedReference string // имя файла-эталона при совпадении
	HammingDistance  int    // расстояние Хэмминга до эталона
	Exact            bool   // совпадение по точному хэшу
}
