package port

import (
	"errors"

	"mammo-analyzer/internal/domain/entity"
)

// ErrVisualizationUnavailable возвращается сборкой без графической
// библиотеки. Конвейер переживает её штатно: результат уходит с флагом
// недоступной визуализации, а не с ошибкой.
var ErrVisualizationUnavailable = errors.New("visualization backend is not available")

// HeatmapRenderer интерфейс отрисовки визуальных артефактов анализа.
type HeatmapRenderer interface {
	// Available сообщает, собран ли рабочий рендер.
	Available() bool

	// RenderHeatmap рисует тепловую карту отдельным изображением.
	RenderHeatmap(activation *entity.ActivationMap) ([]byte, error)

	// RenderOverlay накладывает карту на исходный снимок; tissue ограничивает
	// наложение маской ткани.
	RenderOverlay(img *entity.RawImage, activation *entity.ActivationMap, tissue []bool) ([]byte, error)

	// RenderRegions рисует рамки находок поверх исходного снимка.
	RenderRegions(img *entity.RawImage, regions []entity.Region) ([]byte, error)
}
