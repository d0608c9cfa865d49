package model

import (
	"context"
	"errors"
	"math"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
)

// cellsPerSide во сколько раз сетка признаков мельче входа модели.
const cellsPerSide = 16

// Heuristic запасной бэкенд классификатора на плотностной эвристике.
// Используется демо-драйвером и тестами вместо обученной сети: исходная
// система так же поднимала модель со случайными весами, когда файл весов
// отсутствовал. Детерминирован и не хранит состояния между вызовами.
type Heuristic struct {
	inputSize int
	gridSize  int
}

// NewHeuristic создаёт эвристический бэкенд под размер входа модели.
func NewHeuristic(cfg config.ModelConfig) *Heuristic {
	grid := cfg.InputSize / cellsPerSide
	if grid < 1 {
		grid = 1
	}
	return &Heuristic{inputSize: cfg.InputSize, gridSize: grid}
}

// Predict оценивает вероятность по текстурности снимка: логистическая
// функция от разброса яркости. Плоские снимки дают низкий балл.
func (h *Heuristic) Predict(ctx context.Context, input *entity.ModelInput) (float64, error) {
	_ = ctx
	if input == nil || input.Size != h.inputSize {
		return 0, errors.New("model input has unexpected shape")
	}

	mean, std := grayStats(input)
	raw := 1 / (1 + math.Exp(-(10*std + mean - 2)))
	return raw, nil
}

// ConvGradients строит карты признаков из локального контраста клеток.
// Буферы создаются заново на каждый вызов: контекст вычисления
// не разделяется между параллельными запросами.
func (h *Heuristic) ConvGradients(ctx context.Context, input *entity.ModelInput) (*entity.FeatureMaps, error) {
	_ = ctx
	if input == nil || input.Size != h.inputSize {
		return nil, errors.New("model input has unexpected shape")
	}

	n := h.gridSize
	cell := input.Size / n
	fm := &entity.FeatureMaps{
		Width:       n,
		Height:      n,
		Channels:    2,
		Activations: make([]float64, n*n*2),
		Gradients:   make([]float64, n*n*2),
	}

	for cy := 0; cy < n; cy++ {
		for cx := 0; cx < n; cx++ {
			mean, std := cellStats(input, cx*cell, cy*cell, cell)
			i := (cy*n + cx) * 2
			fm.Activations[i] = std
			fm.Activations[i+1] = mean
			// Вес канала контраста положительный, канала яркости нулевой
			fm.Gradients[i] = 1
			fm.Gradients[i+1] = 0
		}
	}

	return fm, nil
}

// grayStats среднее и разброс яркости всего входа.
func grayStats(input *entity.ModelInput) (mean, std float64) {
	n := input.Size * input.Size
	sum := 0.0
	for p := 0; p < n; p++ {
		i := p * 3
		sum += gray3(input.Values[i], input.Values[i+1], input.Values[i+2])
	}
	mean = sum / float64(n)

	varSum := 0.0
	for p := 0; p < n; p++ {
		i := p * 3
		d := gray3(input.Values[i], input.Values[i+1], input.Values[i+2]) - mean
		varSum += d * d
	}
	return mean, math.Sqrt(varSum / float64(n))
}

// cellStats среднее и разброс яркости одной клетки сетки.
func cellStats(input *entity.ModelInput, x0, y0, side int) (mean, std float64) {
	sum, sumSq := 0.0, 0.0
	n := 0
	for y := y0; y < y0+side && y < input.Size; y++ {
		for x := x0; x < x0+side && x < input.Size; x++ {
			v := gray3(input.At(x, y, 0), input.At(x, y, 1), input.At(x, y, 2))
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

func gray3(r, g, b float32) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Проверка реализации интерфейса
var _ port.GradientModel = (*Heuristic)(nil)
