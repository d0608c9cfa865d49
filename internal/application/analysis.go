package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
	"mammo-analyzer/internal/infrastructure/vision"
)

// InferenceError фатальный для запроса сбой обёрнутой модели. Не несёт
// частичного результата и не ретраится: сбои модели не транзиентны.
type InferenceError struct {
	Filename string
	Err      error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed for %q: %v", e.Filename, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// AnalysisService конвейер анализа: допуск, дубликаты, предсказание,
// объяснение. Стадии выполняются строго последовательно, любая может
// завершить запрос структурированным отказом.
type AnalysisService struct {
	gate          *vision.AdmissibilityGate
	fingerprinter *vision.Fingerprinter
	cache         port.FingerprintCache
	model         port.GradientModel
	engine        *vision.ExplainEngine
	inputSize     int
	log           *zap.Logger
}

// NewAnalysisService собирает конвейер из готовых компонентов.
// Кэш отпечатков внедряется снаружи и живёт столько же, сколько сессия.
func NewAnalysisService(cfg *config.Config, gate *vision.AdmissibilityGate, fingerprinter *vision.Fingerprinter,
	cache port.FingerprintCache, model port.GradientModel, engine *vision.ExplainEngine, log *zap.Logger) *AnalysisService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisService{
		gate:          gate,
		fingerprinter: fingerprinter,
		cache:         cache,
		model:         model,
		engine:        engine,
		inputSize:     cfg.Model.InputSize,
		log:           log,
	}
}

// Analyze прогоняет снимок через конвейер. Отказы допуска и дубликаты
// возвращаются данными внутри исхода; ошибка зарезервирована за сбоями
// инференса и инфраструктуры.
func (s *AnalysisService) Analyze(ctx context.Context, img *entity.RawImage) (*entity.AnalysisOutcome, error) {
	verdict := s.gate.Evaluate(img)
	if !verdict.Accepted {
		s.log.Info("image rejected by admissibility gate",
			zap.String("filename", img.Filename),
			zap.String("reason", string(verdict.Reason)),
			zap.Float64("measured", verdict.MeasuredValue))
		return &entity.AnalysisOutcome{Rejection: &entity.RejectionOutcome{
			Reason:        entity.RejectionAdmissibility,
			Message:       verdict.Message,
			Metric:        string(verdict.Reason),
			MeasuredValue: verdict.MeasuredValue,
			Validation:    &verdict,
		}}, nil
	}

	fp := s.fingerprinter.Compute(img)
	dup := s.cache.Check(fp)
	if dup.IsDuplicate {
		s.log.Info("image rejected as duplicate",
			zap.String("filename", img.Filename),
			zap.String("reference", dup.MatchedReference),
			zap.Bool("exact", dup.Exact))
		// Точное совпадение находит хэш байтов, перцептивное сравнение
		// при этом не выполняется
		metric, measured := "hammingDistance", float64(dup.HammingDistance)
		if dup.Exact {
			metric, measured = "exactHash", 0
		}
		return &entity.AnalysisOutcome{Rejection: &entity.RejectionOutcome{
			Reason:        entity.RejectionDuplicate,
			Message:       duplicateMessage(dup),
			Metric:        metric,
			MeasuredValue: measured,
			Validation:    &verdict,
			Duplicate:     dup,
		}}, nil
	}
	s.cache.Register(fp, img.Filename)

	input := vision.Preprocess(img, s.inputSize)
	confidence, err := s.model.Predict(ctx, input)
	if err == nil && (math.IsNaN(confidence) || confidence < 0 || confidence > 1) {
		err = fmt.Errorf("model returned malformed probability %v", confidence)
	}
	if err != nil {
		s.log.Error("inference failed",
			zap.String("filename", img.Filename),
			zap.Int("width", img.Width),
			zap.Int("height", img.Height),
			zap.Int("bytes", img.ByteLen()),
			zap.Error(err))
		return nil, &InferenceError{Filename: img.Filename, Err: err}
	}

	expl := s.engine.Explain(ctx, img, input)

	result := assemble(img, &verdict, dup, confidence, expl)
	s.log.Info("analysis complete",
		zap.String("filename", img.Filename),
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", confidence),
		zap.Int("regions", len(result.Regions)),
		zap.Bool("visualization", result.VisualizationAvailable))

	return &entity.AnalysisOutcome{Result: result}, nil
}

// ResetSession очищает сессионный кэш отпечатков: ранее отклонённые как
// дубликаты снимки снова станут уникальными.
func (s *AnalysisService) ResetSession() {
	s.cache.Reset()
	s.log.Info("session cache reset")
}

// assemble собирает итоговый результат из выходов стадий.
func assemble(img *entity.RawImage, verdict *entity.ValidationVerdict, dup *entity.DuplicateVerdict,
	confidence float64, expl *vision.Explanation) *entity.AnalysisResult {
	benign := (1 - confidence) * 100
	malignant := confidence * 100

	label := entity.LabelBenign
	probability := benign
	if confidence > 0.5 {
		label = entity.LabelMalignant
		probability = malignant
	}

	highest := entity.SeverityVeryLow
	for _, r := range expl.Regions {
		if r.SeverityCategory > highest {
			highest = r.SeverityCategory
		}
	}

	return &entity.AnalysisResult{
		Label:                  label,
		Probability:            probability,
		Confidence:             confidence,
		BenignProb:             benign,
		MalignantProb:          malignant,
		RiskLevel:              vision.OverallRisk(confidence),
		Stats:                  vision.ComputeStats(img),
		Validation:             verdict,
		Duplicate:              dup,
		Regions:                expl.Regions,
		HeatmapJPEG:            expl.HeatmapJPEG,
		OverlayJPEG:            expl.OverlayJPEG,
		RegionsJPEG:            expl.RegionsJPEG,
		Summary:                buildSummary(label, probability, confidence, highest, expl.Regions),
		Highest:                highest,
		HeatmapMean:            expl.HeatmapMean,
		HeatmapMax:             expl.HeatmapMax,
		VisualizationAvailable: expl.Available,
	}
}

// buildSummary текстовая сводка: метка с вероятностью, находки и
// максимальная серьёзность.
func buildSummary(label entity.PredictionLabel, probability, confidence float64,
	highest entity.Severity, regions []entity.Region) string {

	head := fmt.Sprintf("%s, %.1f%% probability.", label, probability)

	switch len(regions) {
	case 0:
		if confidence > 0.5 {
			return head + " Diffuse abnormal patterns detected, no distinct regions."
		}
		return head + " No distinct suspicious regions identified."
	case 1:
		r := regions[0]
		return fmt.Sprintf("%s Single suspicious region (%s) in %s with %.1f%% confidence. Highest severity: %s.",
			head, r.TypeLabel, r.Location.Description, r.Confidence*100, highest)
	default:
		quadrants := make([]string, 0, len(regions))
		seen := make(map[string]bool)
		for _, r := range regions {
			if !seen[r.Location.Quadrant] {
				seen[r.Location.Quadrant] = true
				quadrants = append(quadrants, r.Location.Quadrant)
			}
		}
		return fmt.Sprintf("%s Multiple suspicious regions (%d) detected across %s. Highest severity: %s.",
			head, len(regions), strings.Join(quadrants, ", "), highest)
	}
}

// duplicateMessage сообщение отказа с именем эталона и измеренной
// близостью, как того требует политика пользовательских сообщений.
func duplicateMessage(dup *entity.DuplicateVerdict) string {
	if dup.Exact {
		return fmt.Sprintf("exact duplicate detected: this image matches %q, please upload a different mammogram",
			dup.MatchedReference)
	}
	return fmt.Sprintf("duplicate detected: this image is very similar to %q (similarity %d/64), please upload a different mammogram",
		dup.MatchedReference, 64-dup.HammingDistance)
}
