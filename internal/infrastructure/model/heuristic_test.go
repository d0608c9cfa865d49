package model

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
)

func uniformInput(size int, v float32) *entity.ModelInput {
	input := entity.NewModelInput(size)
	for i := range input.Values {
		input.Values[i] = v
	}
	return input
}

func noisyInput(size int) *entity.ModelInput {
	rng := rand.New(rand.NewSource(7))
	input := entity.NewModelInput(size)
	for i := range input.Values {
		input.Values[i] = rng.Float32()
	}
	return input
}

func TestHeuristic_PredictDeterministic(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})
	input := noisyInput(224)
	ctx := context.Background()

	first, err := h.Predict(ctx, input)
	require.NoError(t, err)
	second, err := h.Predict(ctx, input)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.GreaterOrEqual(t, first, 0.0)
	require.LessOrEqual(t, first, 1.0)
}

func TestHeuristic_FlatInputScoresLow(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})

	flat, err := h.Predict(context.Background(), uniformInput(224, 0.5))
	require.NoError(t, err)
	require.Less(t, flat, 0.5)

	textured, err := h.Predict(context.Background(), noisyInput(224))
	require.NoError(t, err)
	require.Greater(t, textured, flat)
}

func TestHeuristic_RejectsWrongShape(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})

	_, err := h.Predict(context.Background(), uniformInput(64, 0.5))
	require.Error(t, err)

	_, err = h.ConvGradients(context.Background(), nil)
	require.Error(t, err)
}

func TestHeuristic_ConvGradientsShape(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})

	fm, err := h.ConvGradients(context.Background(), noisyInput(224))
	require.NoError(t, err)
	require.Equal(t, 14, fm.Width)
	require.Equal(t, 14, fm.Height)
	require.Equal(t, 2, fm.Channels)
	require.Len(t, fm.Activations, 14*14*2)

	// Вес имеет только канал контраста
	for y := 0; y < fm.Height; y++ {
		for x := 0; x < fm.Width; x++ {
			require.Equal(t, 1.0, fm.GradientAt(x, y, 0))
			require.Equal(t, 0.0, fm.GradientAt(x, y, 1))
		}
	}
}

func TestHeuristic_FreshBuffersPerCall(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})
	input := noisyInput(224)
	ctx := context.Background()

	first, err := h.ConvGradients(ctx, input)
	require.NoError(t, err)
	want := first.Activations[0]
	first.Activations[0] = -100

	second, err := h.ConvGradients(ctx, input)
	require.NoError(t, err)
	require.Equal(t, want, second.Activations[0])
}

func TestHeuristic_ContrastChannelTracksTexture(t *testing.T) {
	h := NewHeuristic(config.ModelConfig{InputSize: 224})

	flat, err := h.ConvGradients(context.Background(), uniformInput(224, 0.5))
	require.NoError(t, err)
	for y := 0; y < flat.Height; y++ {
		for x := 0; x < flat.Width; x++ {
			require.InDelta(t, 0.0, flat.ActivationAt(x, y, 0), 1e-6)
			require.InDelta(t, 0.5, flat.ActivationAt(x, y, 1), 1e-6)
		}
	}
}
