package entity

// ModelInput подготовленный вход классификатора: квадратный тензор
// Size x Size x 3, значения нормированы в [0,1].
type ModelInput struct {
	Size   int       // сторона квадратного входа
	Values []float32 // значения, порядок (y, x, c)
}

// NewModelInput создаёт нулевой тензор заданного размера.
func NewModelInput(size int) *ModelInput {
	return &ModelInput{
		Size:   size,
		Values: make([]float32, size*size*3),
	}
}

// At возвращает значение клетки канала.
func (m *ModelInput) At(x, y, c int) float32 {
	return m.Values[(y*m.Size+x)*3+c]
}

// Set записывает значение клетки канала.
func (m *ModelInput) Set(x, y, c int, v float32) {
	m.Values[(y*m.Size+x)*3+c] = v
}
