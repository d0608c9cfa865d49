package vision

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"mammo-analyzer/internal/domain/entity"
)

// toRGBA переводит пиксельный буфер в image.RGBA для масштабирования.
func toRGBA(img *entity.RawImage) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.At(x, y)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// resizeRGBA билинейно масштабирует изображение до заданного размера.
func resizeRGBA(src *image.RGBA, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// upsampleActivation билинейно растягивает карту внимания до разрешения
// исходного снимка. Значения проходят через 16-битную серую плоскость,
// точности с запасом хватает для карты в [0,1].
func upsampleActivation(m *entity.ActivationMap, width, height int) *entity.ActivationMap {
	if m.Width == width && m.Height == height {
		return m
	}

	src := image.NewGray16(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := m.At(x, y)
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			src.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535)})
		}
	}

	dst := image.NewGray16(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	out := entity.NewActivationMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, float64(dst.Gray16At(x, y).Y)/65535.0)
		}
	}
	return out
}
