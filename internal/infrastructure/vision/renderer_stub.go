//go:build !gocv
// +build !gocv

package vision

import (
	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
)

// Renderer заглушка для сборки без тега gocv: визуализация недоступна,
// конвейер отдаёт результат с флагом VisualizationAvailable=false.
type Renderer struct {
	Alpha float64
}

// NewRenderer создаёт рендер-заглушку (без OpenCV).
func NewRenderer(cfg config.ExplainConfig) *Renderer {
	return &Renderer{Alpha: cfg.OverlayAlpha}
}

// Available сообщает, что рендер в этой сборке отсутствует.
func (r *Renderer) Available() bool {
	return false
}

// RenderHeatmap возвращает ошибку недоступности визуализации.
func (r *Renderer) RenderHeatmap(activation *entity.ActivationMap) ([]byte, error) {
	_ = activation
	return nil, port.ErrVisualizationUnavailable
}

// RenderOverlay возвращает ошибку недоступности визуализации.
func (r *Renderer) RenderOverlay(img *entity.RawImage, activation *entity.ActivationMap, tissue []bool) ([]byte, error) {
	_, _, _ = img, activation, tissue
	return nil, port.ErrVisualizationUnavailable
}

// RenderRegions возвращает ошибку недоступности визуализации.
func (r *Renderer) RenderRegions(img *entity.RawImage, regions []entity.Region) ([]byte, error) {
	_, _ = img, regions
	return nil, port.ErrVisualizationUnavailable
}

// Проверка реализации интерфейса
var _ port.HeatmapRenderer = (*Renderer)(nil)
