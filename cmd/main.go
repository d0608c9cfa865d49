package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/container"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/infrastructure/model"
	"mammo-analyzer/internal/infrastructure/storage"
	"mammo-analyzer/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mammo-analyzer <image> [image...]")
		os.Exit(2)
	}

	// Сессионный кэш отпечатков и запасная модель для демо-запуска
	cache := storage.NewMemoryFingerprintCache(cfg.Dedup.MaxHammingDistance)
	backend := model.NewHeuristic(cfg.Model)
	renderer := vision.NewRenderer(cfg.Explain)

	c := container.New(cfg, backend, renderer, cache, log)
	ctx := context.Background()

	for _, path := range os.Args[1:] {
		outcome, err := analyzeFile(ctx, c, path)
		if err != nil {
			log.Error("analysis failed", zap.String("path", path), zap.Error(err))
			continue
		}

		if outcome.Rejected() {
			fmt.Printf("%s: rejected (%s): %s\n", path, outcome.Rejection.Reason, outcome.Rejection.Message)
			continue
		}

		res := outcome.Result
		fmt.Printf("%s: %s\n", path, res.Summary)
		if res.VisualizationAvailable {
			writeArtifacts(log, path, res)
		}
	}
}

// analyzeFile декодирует файл и прогоняет его через конвейер.
// В боевом развёртывании декодированием владеет внешний слой.
func analyzeFile(ctx context.Context, c *container.Container, path string) (*entity.AnalysisOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	raw := entity.NewRawImage(decoded, data, filepath.Base(path))
	return c.Analysis.Analyze(ctx, raw)
}

// writeArtifacts сохраняет артефакты визуализации рядом с исходным файлом.
func writeArtifacts(log *zap.Logger, path string, res *entity.AnalysisResult) {
	base := path[:len(path)-len(filepath.Ext(path))]
	for suffix, data := range map[string][]byte{
		"_heatmap.jpg": res.HeatmapJPEG,
		"_overlay.jpg": res.OverlayJPEG,
		"_regions.jpg": res.RegionsJPEG,
	} {
		if len(data) == 0 {
			continue
		}
		if err := os.WriteFile(base+suffix, data, 0o644); err != nil {
			log.Warn("failed to write artifact", zap.String("path", base+suffix), zap.Error(err))
		}
	}
}
