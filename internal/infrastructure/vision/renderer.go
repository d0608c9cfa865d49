//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"mammo-analyzer/config"
	"mammo-analyzer/internal/domain/entity"
	"mammo-analyzer/internal/domain/port"
)

// Renderer отрисовка артефактов анализа через OpenCV.
type Renderer struct {
	Alpha float64 // прозрачность тепловой карты в наложении
}

// NewRenderer создаёт рендер с параметрами наложения.
func NewRenderer(cfg config.ExplainConfig) *Renderer {
	return &Renderer{Alpha: cfg.OverlayAlpha}
}

// Available сообщает, что сборка несёт рабочий рендер.
func (r *Renderer) Available() bool {
	return true
}

// RenderHeatmap рисует карту внимания ложными цветами (палитра Jet).
func (r *Renderer) RenderHeatmap(activation *entity.ActivationMap) ([]byte, error) {
	colored, err := coloredHeatmap(activation)
	if err != nil {
		return nil, err
	}
	defer colored.Close()
	return encodeJPEG(colored)
}

// RenderOverlay смешивает тепловую карту с исходным снимком; вне маски
// ткани снимок остаётся нетронутым.
func (r *Renderer) RenderOverlay(img *entity.RawImage, activation *entity.ActivationMap, tissue []bool) ([]byte, error) {
	if activation.Width != img.Width || activation.Height != img.Height {
		return nil, errors.New("activation map resolution does not match the image")
	}

	base, err := matFromRaw(img)
	if err != nil {
		return nil, err
	}
	defer base.Close()

	colored, err := coloredHeatmap(activation)
	if err != nil {
		return nil, err
	}
	defer colored.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(base, 1-r.Alpha, colored, r.Alpha, 0, &blended)

	// Возвращаем исходные пиксели вне ткани
	if len(tissue) == img.Width*img.Height {
		maskData := make([]byte, len(tissue))
		for i, ok := range tissue {
			if !ok {
				maskData[i] = 255
			}
		}
		mask, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, maskData)
		if err != nil {
			return nil, err
		}
		defer mask.Close()
		base.CopyToWithMask(&blended, mask)
	}

	return encodeJPEG(blended)
}

// RenderRegions рисует рамки находок с подписью уверенности.
func (r *Renderer) RenderRegions(img *entity.RawImage, regions []entity.Region) ([]byte, error) {
	mat, err := matFromRaw(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	red := color.RGBA{R: 255, A: 255}
	for _, region := range regions {
		box := region.BoundingBox
		rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
		gocv.Rectangle(&mat, rect, red, 4)

		label := fmt.Sprintf("Region %d: %.1f%%", region.ID, region.Confidence*100)
		origin := image.Pt(box.X, maxInt(box.Y-6, 14))
		gocv.PutText(&mat, label, origin, gocv.FontHersheySimplex, 0.5, red, 1)
	}

	return encodeJPEG(mat)
}

// coloredHeatmap переводит карту в 8-битную серую матрицу и красит палитрой.
func coloredHeatmap(activation *entity.ActivationMap) (gocv.Mat, error) {
	data := make([]byte, len(activation.Values))
	for i, v := range activation.Values {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		data[i] = uint8(v * 255)
	}

	grayMat, err := gocv.NewMatFromBytes(activation.Height, activation.Width, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer grayMat.Close()

	colored := gocv.NewMat()
	gocv.ApplyColorMap(grayMat, &colored, gocv.ColormapJet)
	return colored, nil
}

// matFromRaw собирает BGR-матрицу из пиксельного буфера.
func matFromRaw(img *entity.RawImage) (gocv.Mat, error) {
	data := make([]byte, img.Width*img.Height*3)
	for p := 0; p < img.Width*img.Height; p++ {
		i := p * 3
		data[i] = img.Pix[i+2]
		data[i+1] = img.Pix[i+1]
		data[i+2] = img.Pix[i]
	}
	return gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, data)
}

func encodeJPEG(mat gocv.Mat) ([]byte, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.HeatmapRenderer = (*Renderer)(nil)
