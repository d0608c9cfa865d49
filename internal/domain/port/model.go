package port

import (
	"context"
	"errors"

	"mammo-analyzer/internal/domain/entity"
)

// ErrNoConvLayer возвращается, когда у модели нет свёрточного слоя,
// пригодного как источник внимания.
var ErrNoConvLayer = errors.New("model has no convolutional layer")

// GradientModel интерфейс обученного классификатора с доступом к градиентам.
// Модель загружается один раз и только читается; слой-источник внимания
// выбирается при загрузке, а не на каждый запрос.
type GradientModel interface {
	// Predict возвращает вероятность злокачественности в [0,1].
	Predict(ctx context.Context, input *entity.ModelInput) (float64, error)

	// ConvGradients возвращает карты признаков выбранного свёрточного слоя
	// и градиенты выходной оценки по ним. Каждый вызов получает
	// независимые буферы: контекст вычисления не разделяется между запросами.
	ConvGradients(ctx context.Context, input *entity.ModelInput) (*entity.FeatureMaps, error)
}
