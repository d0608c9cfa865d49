package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"mammo-analyzer/internal/domain/entity"
)

// Config собирает все пороги конвейера в одном месте. Значения читаются
// из окружения один раз при старте процесса; алгоритмы получают готовые
// секции и не содержат числовых литералов.
type Config struct {
	Model   ModelConfig
	Gate    GateConfig
	Dedup   DedupConfig
	Explain ExplainConfig
	Typing  TypingConfig
	Rules   []SeverityRule
}

// ModelConfig параметры подготовки входа классификатора.
type ModelConfig struct {
	InputSize int // сторона квадратного входа модели
}

// GateConfig пороги проверки допуска. Порядок проверок фиксирован в
// самом гейте; здесь только числа.
type GateConfig struct {
	MinWidth            int     // минимальная ширина снимка
	MinHeight           int     // минимальная высота снимка
	MinAspectRatio      float64 // нижняя граница отношения сторон
	MaxAspectRatio      float64 // верхняя граница отношения сторон
	MaxColorVariance    float64 // допустимая средняя разница каналов RGB
	MaxSaturation       float64 // допустимая средняя насыщенность
	MaxSkinToneFraction float64 // допустимая доля пикселей телесного тона
	EdgeGradient        float64 // градиент, с которого пиксель считается границей
	MaxEdgeDensity      float64 // допустимая доля граничных пикселей
	ExtremeLowBin       int     // верх нижнего крайнего диапазона гистограммы
	ExtremeHighBin      int     // низ верхнего крайнего диапазона гистограммы
	MaxExtremeFraction  float64 // допустимая доля пикселей в крайних бинах
	MinMeanIntensity    float64 // ниже — снимок считается чёрным
	MaxMeanIntensity    float64 // выше — снимок считается белым
	MinStdIntensity     float64 // ниже — снимок считается однотонным
	TissueLow           float64 // яркость, с которой пиксель считается тканью
	TissueHigh          float64 // яркость, после которой пиксель считается фоном
	MinTissueFraction   float64 // минимальная доля пикселей с тканью
}

// DedupConfig пороги детектора дубликатов.
type DedupConfig struct {
	HashGridSize       int // сторона сетки перцептивного хэша
	MaxHammingDistance int // максимум различающихся битов для дубликата
}

// ExplainConfig параметры движка объяснений.
type ExplainConfig struct {
	AttentionThreshold float64 // порог бинаризации карты внимания
	MinAreaFraction    float64 // минимальная доля площади компоненты
	MinBoxSide         int     // минимальная сторона рамки в пикселях
	MaxRegions         int     // максимум находок в результате
	OverlayAlpha       float64 // прозрачность тепловой карты в наложении
	TissueThreshold    float64 // яркость в [0,1], с которой пиксель считается тканью
	MinTissueCoverage  float64 // минимальная доля ткани внутри рамки
}

// TypingConfig пороги эвристической типизации находок. Значения являются
// настраиваемыми заготовками, а не клинически выверенными константами.
type TypingConfig struct {
	MassMinFill             float64 // заполненность рамки, с которой находка похожа на образование
	MassMinGrayMean         float64 // локальная яркость образования
	CalcMaxAreaFraction     float64 // максимальный размер скопления кальцинатов
	CalcMinGrayStd          float64 // разброс яркости внутри скопления
	DistortionMaxFill       float64 // заполненность ниже — нарушение архитектоники
	DistortionMinElongation float64 // вытянутость нарушения архитектоники
}

// SeverityRule строка таблицы категоризации серьёзности: первая строка
// своего типа с подходящей уверенностью выигрывает. Таблица упорядочена
// по убыванию порога, поэтому категория монотонна по уверенности.
type SeverityRule struct {
	Type          entity.LesionType
	MinConfidence float64
	Severity      entity.Severity
}

// Load читает .env (если он есть) и собирает конфигурацию с
// переопределениями из окружения.
func Load() (*Config, error) {
	// Отсутствие .env не ошибка
	_ = godotenv.Load()

	cfg := Default()

	cfg.Model.InputSize = getEnvInt("MODEL_INPUT_SIZE", cfg.Model.InputSize)

	cfg.Gate.MinWidth = getEnvInt("GATE_MIN_WIDTH", cfg.Gate.MinWidth)
	cfg.Gate.MinHeight = getEnvInt("GATE_MIN_HEIGHT", cfg.Gate.MinHeight)
	cfg.Gate.MinAspectRatio = getEnvFloat("GATE_MIN_ASPECT_RATIO", cfg.Gate.MinAspectRatio)
	cfg.Gate.MaxAspectRatio = getEnvFloat("GATE_MAX_ASPECT_RATIO", cfg.Gate.MaxAspectRatio)
	cfg.Gate.MaxColorVariance = getEnvFloat("GATE_MAX_COLOR_VARIANCE", cfg.Gate.MaxColorVariance)
	cfg.Gate.MaxSaturation = getEnvFloat("GATE_MAX_SATURATION", cfg.Gate.MaxSaturation)
	cfg.Gate.MaxSkinToneFraction = getEnvFloat("GATE_MAX_SKIN_TONE_FRACTION", cfg.Gate.MaxSkinToneFraction)
	cfg.Gate.EdgeGradient = getEnvFloat("GATE_EDGE_GRADIENT", cfg.Gate.EdgeGradient)
	cfg.Gate.MaxEdgeDensity = getEnvFloat("GATE_MAX_EDGE_DENSITY", cfg.Gate.MaxEdgeDensity)
	cfg.Gate.ExtremeLowBin = getEnvInt("GATE_EXTREME_LOW_BIN", cfg.Gate.ExtremeLowBin)
	cfg.Gate.ExtremeHighBin = getEnvInt("GATE_EXTREME_HIGH_BIN", cfg.Gate.ExtremeHighBin)
	cfg.Gate.MaxExtremeFraction = getEnvFloat("GATE_MAX_EXTREME_FRACTION", cfg.Gate.MaxExtremeFraction)
	cfg.Gate.MinMeanIntensity = getEnvFloat("GATE_MIN_MEAN_INTENSITY", cfg.Gate.MinMeanIntensity)
	cfg.Gate.MaxMeanIntensity = getEnvFloat("GATE_MAX_MEAN_INTENSITY", cfg.Gate.MaxMeanIntensity)
	cfg.Gate.MinStdIntensity = getEnvFloat("GATE_MIN_STD_INTENSITY", cfg.Gate.MinStdIntensity)
	cfg.Gate.TissueLow = getEnvFloat("GATE_TISSUE_LOW", cfg.Gate.TissueLow)
	cfg.Gate.TissueHigh = getEnvFloat("GATE_TISSUE_HIGH", cfg.Gate.TissueHigh)
	cfg.Gate.MinTissueFraction = getEnvFloat("GATE_MIN_TISSUE_FRACTION", cfg.Gate.MinTissueFraction)

	cfg.Dedup.HashGridSize = getEnvInt("DEDUP_HASH_GRID_SIZE", cfg.Dedup.HashGridSize)
	cfg.Dedup.MaxHammingDistance = getEnvInt("DEDUP_MAX_HAMMING_DISTANCE", cfg.Dedup.MaxHammingDistance)

	cfg.Explain.AttentionThreshold = getEnvFloat("EXPLAIN_ATTENTION_THRESHOLD", cfg.Explain.AttentionThreshold)
	cfg.Explain.MinAreaFraction = getEnvFloat("EXPLAIN_MIN_AREA_FRACTION", cfg.Explain.MinAreaFraction)
	cfg.Explain.MinBoxSide = getEnvInt("EXPLAIN_MIN_BOX_SIDE", cfg.Explain.MinBoxSide)
	cfg.Explain.MaxRegions = getEnvInt("EXPLAIN_MAX_REGIONS", cfg.Explain.MaxRegions)
	cfg.Explain.OverlayAlpha = getEnvFloat("EXPLAIN_OVERLAY_ALPHA", cfg.Explain.OverlayAlpha)
	cfg.Explain.TissueThreshold = getEnvFloat("EXPLAIN_TISSUE_THRESHOLD", cfg.Explain.TissueThreshold)
	cfg.Explain.MinTissueCoverage = getEnvFloat("EXPLAIN_MIN_TISSUE_COVERAGE", cfg.Explain.MinTissueCoverage)

	cfg.Typing.MassMinFill = getEnvFloat("TYPING_MASS_MIN_FILL", cfg.Typing.MassMinFill)
	cfg.Typing.MassMinGrayMean = getEnvFloat("TYPING_MASS_MIN_GRAY_MEAN", cfg.Typing.MassMinGrayMean)
	cfg.Typing.CalcMaxAreaFraction = getEnvFloat("TYPING_CALC_MAX_AREA_FRACTION", cfg.Typing.CalcMaxAreaFraction)
	cfg.Typing.CalcMinGrayStd = getEnvFloat("TYPING_CALC_MIN_GRAY_STD", cfg.Typing.CalcMinGrayStd)
	cfg.Typing.DistortionMaxFill = getEnvFloat("TYPING_DISTORTION_MAX_FILL", cfg.Typing.DistortionMaxFill)
	cfg.Typing.DistortionMinElongation = getEnvFloat("TYPING_DISTORTION_MIN_ELONGATION", cfg.Typing.DistortionMinElongation)

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			InputSize: 224,
		},
		Gate: GateConfig{
			MinWidth:            800,
			MinHeight:           800,
			MinAspectRatio:      0.4,
			MaxAspectRatio:      2.5,
			MaxColorVariance:    30,
			MaxSaturation:       25,
			MaxSkinToneFraction: 0.15,
			EdgeGradient:        30,
			MaxEdgeDensity:      0.45,
			ExtremeLowBin:       10,
			ExtremeHighBin:      246,
			MaxExtremeFraction:  0.95,
			MinMeanIntensity:    3,
			MaxMeanIntensity:    252,
			MinStdIntensity:     2,
			TissueLow:           20,
			TissueHigh:          235,
			MinTissueFraction:   0.001,
		},
		Dedup: DedupConfig{
			HashGridSize:       8,
			MaxHammingDistance: 3,
		},
		Explain: ExplainConfig{
			AttentionThreshold: 0.5,
			MinAreaFraction:    0.0005,
			MinBoxSide:         15,
			MaxRegions:         8,
			OverlayAlpha:       0.5,
			TissueThreshold:    15.0 / 255.0,
			MinTissueCoverage:  0.5,
		},
		Typing: TypingConfig{
			MassMinFill:             0.55,
			MassMinGrayMean:         0.45,
			CalcMaxAreaFraction:     0.01,
			CalcMinGrayStd:          0.12,
			DistortionMaxFill:       0.35,
			DistortionMinElongation: 2.0,
		},
		Rules: DefaultSeverityRules(),
	}
}

// DefaultSeverityRules таблица категоризации по умолчанию. Пороги
// наследуют шкалу рисков исходной системы и подлежат настройке.
func DefaultSeverityRules() []SeverityRule {
	return []SeverityRule{
		{Type: entity.LesionMass, MinConfidence: 0.9, Severity: entity.SeverityVeryHigh},
		{Type: entity.LesionMass, MinConfidence: 0.75, Severity: entity.SeverityHigh},
		{Type: entity.LesionMass, MinConfidence: 0.6, Severity: entity.SeverityModerateHigh},
		{Type: entity.LesionMass, MinConfidence: 0.4, Severity: entity.SeverityModerate},
		{Type: entity.LesionMass, MinConfidence: 0, Severity: entity.SeverityLowModerate},

		{Type: entity.LesionCalcification, MinConfidence: 0.9, Severity: entity.SeverityHigh},
		{Type: entity.LesionCalcification, MinConfidence: 0.7, Severity: entity.SeverityModerateHigh},
		{Type: entity.LesionCalcification, MinConfidence: 0.5, Severity: entity.SeverityModerate},
		{Type: entity.LesionCalcification, MinConfidence: 0, Severity: entity.SeverityLowModerate},

		{Type: entity.LesionDistortion, MinConfidence: 0.85, Severity: entity.SeverityHigh},
		{Type: entity.LesionDistortion, MinConfidence: 0.6, Severity: entity.SeverityModerate},
		{Type: entity.LesionDistortion, MinConfidence: 0, Severity: entity.SeverityLowModerate},

		{Type: entity.LesionAsymmetry, MinConfidence: 0.8, Severity: entity.SeverityModerate},
		{Type: entity.LesionAsymmetry, MinConfidence: 0.5, Severity: entity.SeverityLowModerate},
		{Type: entity.LesionAsymmetry, MinConfidence: 0, Severity: entity.SeverityLow},
	}
}

func getEnvInt(key string, fallback int) int {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
