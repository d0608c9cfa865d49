package entity

import (
	"image"
	"sync"
)

// RawImage декодированный снимок вместе с исходными байтами файла.
// Создаётся один раз при приёме загрузки и дальше не изменяется.
type RawImage struct {
	Filename string  // имя исходного файла
	Width    int     // ширина в пикселях
	Height   int     // высота в пикселях
	Channels int     // число цветовых каналов
	HasAlpha bool    // есть ли альфа-канал в исходнике
	Pix      []uint8 // пиксели RGB, построчно
	Data     []byte  // исходные байты файла (вход точного отпечатка)

	grayOnce sync.Once
	gray     []float64 // ленивый кэш яркостной плоскости в [0,1]
}

// NewRawImage переводит уже декодированное изображение в пиксельный буфер.
// Декодирование формата остаётся на вызывающей стороне.
func NewRawImage(src image.Image, data []byte, filename string) *RawImage {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	raw := &RawImage{
		Filename: filename,
		Width:    w,
		Height:   h,
		Channels: 3,
		HasAlpha: hasAlphaChannel(src),
		Pix:      make([]uint8, w*h*3),
		Data:     data,
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			raw.Pix[i] = uint8(r >> 8)
			raw.Pix[i+1] = uint8(g >> 8)
			raw.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}

	return raw
}

// hasAlphaChannel определяет, нёс ли декодированный буфер альфа-канал.
// Важен сам факт наличия канала, а не фактическая прозрачность: снимок
// с маммографа никогда не декодируется в NRGBA.
func hasAlphaChannel(src image.Image) bool {
	switch src.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	}
	return false
}

// ByteLen возвращает размер исходного файла в байтах.
func (r *RawImage) ByteLen() int {
	return len(r.Data)
}

// At возвращает RGB-компоненты пикселя.
func (r *RawImage) At(x, y int) (uint8, uint8, uint8) {
	i := (y*r.Width + x) * 3
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// AspectRatio возвращает отношение ширины к высоте.
func (r *RawImage) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Gray возвращает яркостную плоскость в [0,1], среднее трёх каналов.
// Плоскость считается один раз; инициализация безопасна при
// параллельных вызовах.
func (r *RawImage) Gray() []float64 {
	r.grayOnce.Do(func() {
		gray := make([]float64, r.Width*r.Height)
		for p := 0; p < len(gray); p++ {
			i := p * 3
			sum := int(r.Pix[i]) + int(r.Pix[i+1]) + int(r.Pix[i+2])
			gray[p] = float64(sum) / (3.0 * 255.0)
		}
		r.gray = gray
	})
	return r.gray
}
