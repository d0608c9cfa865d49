package entity

// RejectReason код сработавшей эвристики допуска.
type RejectReason string

const (
	ReasonHasAlpha      RejectReason = "hasAlpha"      // найден альфа-канал
	ReasonResolution    RejectReason = "resolution"    // слишком низкое разрешение
	ReasonAspectRatio   RejectReason = "aspectRatio"   // пропорции вне допустимого окна
	ReasonColorVariance RejectReason = "colorVariance" // заметный разброс цветовых каналов
	ReasonSaturation    RejectReason = "saturation"    // слишком высокая насыщенность
	ReasonSkinTone      RejectReason = "skinTone"      // найдены пиксели телесного тона
	ReasonEdgeDensity   RejectReason = "edgeDensity"   // слишком много резких границ
	ReasonHistogram     RejectReason = "histogram"     // гистограмма сосредоточена на краях
	ReasonTooDark       RejectReason = "tooDark"       // снимок почти полностью чёрный
	ReasonTooBright     RejectReason = "tooBright"     // снимок почти полностью белый
	ReasonLowContrast   RejectReason = "lowContrast"   // практически однотонное изображение
	ReasonNoTissue      RejectReason = "noTissue"      // нет площади с тканью
)

// GateMetrics измеренные характеристики снимка. Заполняются по мере
// прохождения проверок: при раннем отказе поздние метрики остаются нулевыми.
type GateMetrics struct {
	Width                    int     // ширина в пикселях
	Height                   int     // высота в пикселях
	AspectRatio              float64 // отношение ширины к высоте
	ColorVariance            float64 // средняя попарная разница каналов RGB
	Saturation               float64 // средняя насыщенность (max-min канал)
	SkinToneFraction         float64 // доля пикселей телесного тона
	EdgeDensity              float64 // доля пикселей с сильным градиентом
	HistogramExtremeFraction float64 // доля пикселей в крайних бинах
	MeanIntensity            float64 // средняя яркость, 0..255
	StdIntensity             float64 // стандартное отклонение яркости
	TissueFraction           float64 // доля пикселей с тканью
	HasAlpha                 bool    // есть ли альфа-канал
}

// ValidationVerdict итог проверки допуска. Неизменяемый, прикладывается
// к результату анализа.
type ValidationVerdict struct {
	Accepted      bool         // прошёл ли снимок все проверки
	Reason        RejectReason // код первой сработавшей проверки
	Message       string       // человекочитаемое объяснение отказа
	MeasuredValue float64      // измеренное значение нарушенной эвристики
	Metrics       GateMetrics  // все вычисленные метрики
}
