package vision

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
)

// Explanation визуальная часть результата анализа.
type Explanation struct {
	Regions     []entity.Region // находки по убыванию уверенности
	HeatmapJPEG []byte          // тепловая карта
	OverlayJPEG []byte          // наложение карты на снимок
	RegionsJPEG []byte          // снимок с рамками находок
	HeatmapMean float64         // средняя активация карты
	HeatmapMax  float64         // максимальная активация карты
	Available   bool            // удалось ли построить визуализацию
}

// ExplainEngine движок объяснений: карта активации класса, находки,
// типизация, категоризация и отрисовка. Любой сбой визуализации
// деградирует в пустые артефакты, а не в ошибку конвейера.
type ExplainEngine struct {
	cfg       config.ExplainConfig
	model     port.GradientModel
	renderer  port.HeatmapRenderer
	extractor *RegionExtractor
	typer     *RegionTyper
	severity  *SeverityClassifier
	log       *zap.Logger
}

// NewExplainEngine создаёт движок. Модель выбирает свой свёрточный слой
// при загрузке, движок об этом выборе ничего не знает.
func NewExplainEngine(cfg *config.Config, model port.GradientModel, renderer port.HeatmapRenderer, log *zap.Logger) *ExplainEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExplainEngine{
		cfg:       cfg.Explain,
		model:     model,
		renderer:  renderer,
		extractor: NewRegionExtractor(cfg.Explain),
		typer:     NewRegionTyper(cfg.Typing),
		severity:  NewSeverityClassifier(cfg.Rules),
		log:       log,
	}
}

// Explain строит объяснение предсказания для одного снимка.
func (e *ExplainEngine) Explain(ctx context.Context, img *entity.RawImage, input *entity.ModelInput) *Explanation {
	fm, err := e.model.ConvGradients(ctx, input)
	if err != nil {
		e.log.Warn("conv gradients unavailable, visualization degraded",
			zap.String("filename", img.Filename), zap.Error(err))
		return &Explanation{}
	}

	cam, ok := ComputeCAM(fm)
	if !ok {
		e.log.Warn("activation map is flat, visualization degraded",
			zap.String("filename", img.Filename))
		return &Explanation{}
	}

	up := upsampleActivation(cam, img.Width, img.Height)
	tissue := TissueMask(img, e.cfg.TissueThreshold)
	ApplyTissueMask(up, tissue)

	comps := e.extractor.Extract(up, tissue)
	regions := e.typer.Type(comps, img)
	for i := range regions {
		e.severity.Categorize(&regions[i])
	}

	// Итоговый список упорядочен по уверенности
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Confidence > regions[j].Confidence
	})
	for i := range regions {
		regions[i].ID = i + 1
	}

	expl := &Explanation{
		Regions:     regions,
		HeatmapMean: up.Mean(),
		HeatmapMax:  up.Max(),
		Available:   true,
	}

	if !e.renderer.Available() {
		expl.Available = false
		return expl
	}

	if expl.HeatmapJPEG, err = e.renderer.RenderHeatmap(up); err != nil {
		return e.degrade(expl, img, err)
	}
	if expl.OverlayJPEG, err = e.renderer.RenderOverlay(img, up, tissue); err != nil {
		return e.degrade(expl, img, err)
	}
	if expl.RegionsJPEG, err = e.renderer.RenderRegions(img, regions); err != nil {
		return e.degrade(expl, img, err)
	}
	return expl
}

// degrade сбрасывает артефакты после сбоя отрисовки, находки сохраняются.
func (e *ExplainEngine) degrade(expl *Explanation, img *entity.RawImage, err error) *Explanation {
	e.log.Warn("rendering failed, visualization degraded",
		zap.String("filename", img.Filename), zap.Error(err))
	expl.HeatmapJPEG = nil
	expl.OverlayJPEG = nil
	expl.RegionsJPEG = nil
	expl.Available = false
	return expl
}
