package entity

// PredictionLabel текстовая метка предсказания модели.
type PredictionLabel string

const (
	LabelBenign    PredictionLabel = "Benign (Non-Cancerous)"
	LabelMalignant PredictionLabel = "Malignant (Cancerous)"
)

// ImageStats сводная статистика яркости исходного снимка.
type ImageStats struct {
	MeanIntensity   float64 // средняя яркость, 0..255
	StdIntensity    float64 // стандартное отклонение яркости
	MinIntensity    float64 // минимальная яркость
	MaxIntensity    float64 // максимальная яркость
	MedianIntensity float64 // медианная яркость
	Brightness      float64 // яркость в процентах
	Contrast        float64 // контраст в процентах
}

// AnalysisResult итог полного прохода конвейера. Единственный объект,
// пересекающий границу ядра.
type AnalysisResult struct {
	Label         PredictionLabel // метка победившего класса
	Probability   float64         // вероятность победившего класса, проценты
	Confidence    float64         // сырой выход модели, P(malignant) в [0,1]
	BenignProb    float64         // вероятность доброкачественности, проценты
	MalignantProb float64         // вероятность злокачественности, проценты
	RiskLevel     Severity        // общий уровень риска по уверенности модели

	Stats      ImageStats         // статистика яркости снимка
	Validation *ValidationVerdict // вердикт проверки допуска
	Duplicate  *DuplicateVerdict  // вердикт проверки на дубликат

	Regions     []Region // находки, по убыванию уверенности
	HeatmapJPEG []byte   // тепловая карта отдельным изображением
	OverlayJPEG []byte   // наложение карты на исходный снимок
	RegionsJPEG []byte   // снимок с рамками находок
	Summary     string   // текстовая сводка анализа
	Highest     Severity // максимальная серьёзность среди находок
	HeatmapMean float64  // средняя активация по карте
	HeatmapMax  float64  // максимальная активация по карте

	VisualizationAvailable bool // удалось ли построить визуализацию
}

// RejectionReason причина досрочного завершения конвейера.
type RejectionReason string

const (
	RejectionAdmissibility RejectionReason = "admissibility-failed"
	RejectionDuplicate     RejectionReason = "duplicate-detected"
)

// RejectionOutcome структурированный отказ. Всегда называет конкретную
// нарушенную эвристику и её измеренное значение.
type RejectionOutcome struct {
	Reason        RejectionReason    // категория отказа
	Message       string             // человекочитаемое объяснение
	Metric        string             // имя нарушенной эвристики
	MeasuredValue float64            // измеренное значение
	Validation    *ValidationVerdict // детали проверки допуска
	Duplicate     *DuplicateVerdict  // детали проверки на дубликат
}

// AnalysisOutcome итог вызова конвейера: либо отказ, либо результат.
// Заполнено ровно одно из полей.
type AnalysisOutcome struct {
	Rejection *RejectionOutcome // отказ на ранней стадии
	Result    *AnalysisResult   // полный результат анализа
}

// Rejected сообщает, завершился ли конвейер отказом.
func (o *AnalysisOutcome) Rejected() bool {
	return o.Rejection != nil
}
