package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/internal/domain/entity"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, 224, cfg.Model.InputSize)
	require.Equal(t, 800, cfg.Gate.MinWidth)
	require.Equal(t, 30.0, cfg.Gate.MaxColorVariance)
	require.Equal(t, 0.95, cfg.Gate.MaxExtremeFraction)
	require.Equal(t, 8, cfg.Dedup.HashGridSize)
	require.Equal(t, 3, cfg.Dedup.MaxHammingDistance)
	require.Equal(t, 0.5, cfg.Explain.AttentionThreshold)
	require.Equal(t, 8, cfg.Explain.MaxRegions)
	require.NotEmpty(t, cfg.Rules)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GATE_MIN_WIDTH", "512")
	t.Setenv("GATE_MIN_MEAN_INTENSITY", "5")
	t.Setenv("GATE_TISSUE_LOW", "25")
	t.Setenv("DEDUP_MAX_HAMMING_DISTANCE", "5")
	t.Setenv("DEDUP_HASH_GRID_SIZE", "4")
	t.Setenv("EXPLAIN_ATTENTION_THRESHOLD", "0.7")
	t.Setenv("EXPLAIN_MIN_BOX_SIDE", "20")
	t.Setenv("TYPING_MASS_MIN_FILL", "0.6")
	t.Setenv("MODEL_INPUT_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 512, cfg.Gate.MinWidth)
	require.Equal(t, 5.0, cfg.Gate.MinMeanIntensity)
	require.Equal(t, 25.0, cfg.Gate.TissueLow)
	require.Equal(t, 5, cfg.Dedup.MaxHammingDistance)
	require.Equal(t, 4, cfg.Dedup.HashGridSize)
	require.Equal(t, 0.7, cfg.Explain.AttentionThreshold)
	require.Equal(t, 20, cfg.Explain.MinBoxSide)
	require.Equal(t, 0.6, cfg.Typing.MassMinFill)
	// Негодное значение откатывается к значению по умолчанию
	require.Equal(t, 224, cfg.Model.InputSize)
}

func TestDefaultSeverityRules_OrderedWithinType(t *testing.T) {
	rules := DefaultSeverityRules()

	last := make(map[entity.LesionType]float64)
	for _, rule := range rules {
		if prev, ok := last[rule.Type]; ok {
			require.Less(t, rule.MinConfidence, prev, "rules for %s must descend", rule.Type)
		}
		last[rule.Type] = rule.MinConfidence
	}

	// У каждого типа есть строка с нулевым порогом
	for _, lesion := range []entity.LesionType{
		entity.LesionMass, entity.LesionCalcification, entity.LesionDistortion, entity.LesionAsymmetry,
	} {
		require.Zero(t, last[lesion])
	}
}
