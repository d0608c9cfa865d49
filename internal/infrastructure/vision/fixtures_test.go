package vision

import (
	"mammo-analyzer/internal/domain/entity"
)

// testImage строит снимок из функции закраски пикселя.
func testImage(width, height int, fill func(x, y int) (r, g, b uint8)) *entity.RawImage {
	img := &entity.RawImage{
		Filename: "test.png",
		Width:    width,
		Height:   height,
		Channels: 3,
		Pix:      make([]uint8, width*height*3),
		Data:     []byte("test-bytes"),
	}
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := fill(x, y)
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			i += 3
		}
	}
	return img
}

// grayImage однотональный серый снимок с плавной текстурой: проходит
// все проверки допуска при диагностическом разрешении.
func grayImage(width, height int) *entity.RawImage {
	return testImage(width, height, func(x, y int) (uint8, uint8, uint8) {
		v := uint8(100 + (x+y)%40)
		return v, v, v
	})
}
