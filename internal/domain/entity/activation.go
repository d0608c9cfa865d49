package entity

// ActivationMap плотная карта внимания модели. Значения нормированы в [0,1].
// Живёт только в пределах одного запроса внутри движка объяснений.
type ActivationMap struct {
	Width  int       // ширина сетки
	Height int       // высота сетки
	Values []float64 // значения построчно
}

// NewActivationMap создаёт нулевую карту заданного размера.
func NewActivationMap(width, height int) *ActivationMap {
	return &ActivationMap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At возвращает значение клетки.
func (m *ActivationMap) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Set записывает значение клетки.
func (m *ActivationMap) Set(x, y int, v float64) {
	m.Values[y*m.Width+x] = v
}

// Max возвращает максимум карты.
func (m *ActivationMap) Max() float64 {
	max := 0.0
	for _, v := range m.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// Mean возвращает среднее значение карты.
func (m *ActivationMap) Mean() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m.Values {
		sum += v
	}
	return sum / float64(len(m.Values))
}

// FeatureMaps карты признаков свёрточного слоя и градиенты оценки по ним.
// Буферы принадлежат одному запросу и не разделяются между вызовами.
type FeatureMaps struct {
	Width       int       // пространственная ширина слоя
	Height      int       // пространственная высота слоя
	Channels    int       // число каналов
	Activations []float64 // активации, порядок (y, x, c)
	Gradients   []float64 // градиенты той же формы
}

// ActivationAt возвращает активацию клетки канала.
func (f *FeatureMaps) ActivationAt(x, y, c int) float64 {
	return f.Activations[(y*f.Width+x)*f.Channels+c]
}

// GradientAt возвращает градиент клетки канала.
func (f *FeatureMaps) GradientAt(x, y, c int) float64 {
	return f.Gradients[(y*f.Width+x)*f.Channels+c]
}
