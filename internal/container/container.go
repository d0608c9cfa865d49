package container

import (
	"go.uber.org/zap"

	"mammo-analyzer/config"
	app "mammo-analyzer/internal/application"
	"mammo-analyzer/internal/domain/port"
	"mammo-analyzer/internal/infrastructure/vision"
)

// Container собранные сервисы приложения.
type Container struct {
	Analysis *app.AnalysisService
}

// New строит конвейер анализа из конфигурации и внешних коллабораторов:
// модели, рендера и сессионного кэша отпечатков.
func New(cfg *config.Config, model port.GradientModel, renderer port.HeatmapRenderer,
	cache port.FingerprintCache, log *zap.Logger) *Container {

	gate := vision.NewAdmissibilityGate(cfg.Gate)
	fingerprinter := vision.NewFingerprinter(cfg.Dedup)
	engine := vision.NewExplainEngine(cfg, model, renderer, log)
	analysis := app.NewAnalysisService(cfg, gate, fingerprinter, cache, model, engine, log)

	return &Container{Analysis: analysis}
}
