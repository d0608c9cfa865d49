package vision

import (
	"mammo-analyzer/internal/domain/entity"
)

// ComputeCAM строит карту активации класса по картам признаков и градиентам:
// для каждого канала берётся глобальное среднее градиентов как вес, карты
// суммируются с весами, отрицательный вклад отсекается, результат
// нормируется максимумом в [0,1].
//
// Второе значение false означает вырожденную карту (нулевые градиенты):
// визуализация по такой карте не строится, но это не ошибка.
func ComputeCAM(fm *entity.FeatureMaps) (*entity.ActivationMap, bool) {
	if fm == nil || fm.Width == 0 || fm.Height == 0 || fm.Channels == 0 {
		return nil, false
	}

	spatial := float64(fm.Width * fm.Height)
	weights := make([]float64, fm.Channels)
	for c := 0; c < fm.Channels; c++ {
		sum := 0.0
		for y := 0; y < fm.Height; y++ {
			for x := 0; x < fm.Width; x++ {
				sum += fm.GradientAt(x, y, c)
			}
		}
		weights[c] = sum / spatial
	}

	cam := entity.NewActivationMap(fm.Width, fm.Height)
	max := 0.0
	for y := 0; y < fm.Height; y++ {
		for x := 0; x < fm.Width; x++ {
			v := 0.0
			for c := 0; c < fm.Channels; c++ {
				v += weights[c] * fm.ActivationAt(x, y, c)
			}
			if v < 0 {
				v = 0
			}
			cam.Set(x, y, v)
			if v > max {
				max = v
			}
		}
	}

	if max == 0 {
		return cam, false
	}
	for i := range cam.Values {
		cam.Values[i] /= max
	}
	return cam, true
}

// TissueMask помечает пиксели с тканью: яркость выше порога. Маска
// отфильтровывает чёрный фон снимка из карты внимания и находок.
func TissueMask(img *entity.RawImage, threshold float64) []bool {
	gray := img.Gray()
	mask := make([]bool, len(gray))
	for i, v := range gray {
		mask[i] = v > threshold
	}
	return mask
}

// ApplyTissueMask обнуляет активацию вне ткани. Карта и маска должны быть
// одного разрешения.
func ApplyTissueMask(m *entity.ActivationMap, mask []bool) {
	if len(mask) != len(m.Values) {
		return
	}
	for i := range m.Values {
		if !mask[i] {
			m.Values[i] = 0
		}
	}
}
