package vision

import (
	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

// severityNotes краткие клинические комментарии по категориям.
var severityNotes = map[entity.Severity]string{
	entity.SeverityVeryLow:      "Minimal model response; no suspicious features expected.",
	entity.SeverityLow:          "Low model response; pattern is likely benign.",
	entity.SeverityLowModerate:  "Mild focal attention; short-interval follow-up is reasonable.",
	entity.SeverityModerate:     "Moderate focal attention; additional views are advised.",
	entity.SeverityModerateHigh: "Pronounced focal attention; diagnostic work-up is advised.",
	entity.SeverityHigh:         "Strong focal attention consistent with a suspicious finding.",
	entity.SeverityVeryHigh:     "Very strong focal attention; highly suspicious finding.",
}

// severityActions рекомендуемые действия по категориям.
var severityActions = map[entity.Severity]string{
	entity.SeverityVeryLow:      "Routine screening",
	entity.SeverityLow:          "Regular monitoring",
	entity.SeverityLowModerate:  "Enhanced surveillance",
	entity.SeverityModerate:     "Additional testing recommended",
	entity.SeverityModerateHigh: "Urgent medical consultation",
	entity.SeverityHigh:         "Immediate specialist referral",
	entity.SeverityVeryHigh:     "Emergency medical attention",
}

// SeverityClassifier прогоняет находки через упорядоченную таблицу правил.
// Внутри одного типа категория монотонна по уверенности.
type SeverityClassifier struct {
	rules []config.SeverityRule
}

// NewSeverityClassifier создаёт классификатор с таблицей правил.
func NewSeverityClassifier(rules []config.SeverityRule) *SeverityClassifier {
	return &SeverityClassifier{rules: rules}
}

// Categorize подбирает категорию по типу и уверенности находки и
// прикладывает комментарий с рекомендацией из статических таблиц.
func (s *SeverityClassifier) Categorize(r *entity.Region) {
	r.SeverityCategory = entity.SeverityVeryLow
	for _, rule := range s.rules {
		if rule.Type != r.TypeLabel {
			continue
		}
		if r.Confidence >= rule.MinConfidence {
			r.SeverityCategory = rule.Severity
			break
		}
	}
	r.ClinicalNote = severityNotes[r.SeverityCategory]
	r.RecommendedAction = severityActions[r.SeverityCategory]
}

// OverallRisk общий уровень риска по сырой уверенности модели.
// Диапазоны наследуют шкалу исходной системы.
func OverallRisk(confidence float64) entity.Severity {
	malignant := confidence * 100
	switch {
	case malignant > 90:
		return entity.SeverityVeryHigh
	case malignant > 75:
		return entity.SeverityHigh
	case malignant > 60:
		return entity.SeverityModerateHigh
	case malignant > 40:
		return entity.SeverityModerate
	case malignant > 25:
		return entity.SeverityLowModerate
	case malignant > 10:
		return entity.SeverityLow
	default:
		return entity.SeverityVeryLow
	}
}

// RecommendedAction возвращает действие для категории.
func RecommendedAction(sev entity.Severity) string {
	return severityActions[sev]
}
