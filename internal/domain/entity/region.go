package entity

import "fmt"

// LesionType эвристический тип находки.
type LesionType string

const (
	LesionMass          LesionType = "mass"                     // объёмное образование
	LesionCalcification LesionType = "calcification-cluster"    // скопление кальцинатов
	LesionDistortion    LesionType = "architectural-distortion" // нарушение архитектоники
	LesionAsymmetry     LesionType = "asymmetry"                // асимметрия плотности
)

// Severity упорядоченная шкала серьёзности находки.
type Severity int

const (
	SeverityVeryLow Severity = iota
	SeverityLow
	SeverityLowModerate
	SeverityModerate
	SeverityModerateHigh
	SeverityHigh
	SeverityVeryHigh
)

// String возвращает текстовое имя уровня.
func (s Severity) String() string {
	switch s {
	case SeverityVeryLow:
		return "Very Low Risk"
	case SeverityLow:
		return "Low Risk"
	case SeverityLowModerate:
		return "Low-Moderate Risk"
	case SeverityModerate:
		return "Moderate Risk"
	case SeverityModerateHigh:
		return "Moderate-High Risk"
	case SeverityHigh:
		return "High Risk"
	case SeverityVeryHigh:
		return "Very High Risk"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// BoundingBox прямоугольник находки в координатах исходного снимка.
type BoundingBox struct {
	X      int // левый верхний угол, X
	Y      int // левый верхний угол, Y
	Width  int // ширина в пикселях
	Height int // высота в пикселях
}

// Area возвращает площадь прямоугольника в пикселях.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Center возвращает координаты центра.
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Inside проверяет, что прямоугольник целиком лежит в границах снимка.
func (b BoundingBox) Inside(imageWidth, imageHeight int) bool {
	return b.X >= 0 && b.Y >= 0 &&
		b.Width > 0 && b.Height > 0 &&
		b.X+b.Width <= imageWidth && b.Y+b.Height <= imageHeight
}

// RegionLocation анатомическая привязка находки.
type RegionLocation struct {
	Position    string // словесная позиция, например "upper-central"
	Quadrant    string // квадрант, например "upper-outer quadrant"
	Description string // развёрнутое описание расположения
}

// Region находка движка объяснений. После создания только читается;
// список находок отсортирован по убыванию уверенности.
type Region struct {
	ID                int            // порядковый номер, с единицы
	BoundingBox       BoundingBox    // рамка в координатах снимка
	AreaFraction      float64        // доля площади снимка
	Confidence        float64        // средняя активация компоненты, 0..1
	MeanIntensity     float64        // средняя активация внутри рамки
	MaxIntensity      float64        // максимальная активация внутри рамки
	StdIntensity      float64        // разброс активации внутри рамки
	LocalGrayMean     float64        // средняя яркость ткани внутри рамки
	LocalGrayStd      float64        // разброс яркости ткани внутри рамки
	FillRatio         float64        // площадь компоненты к площади рамки
	Elongation        float64        // вытянутость рамки, >= 1
	TypeLabel         LesionType     // эвристический тип находки
	SeverityCategory  Severity       // категория серьёзности
	ClinicalNote      string         // краткий клинический комментарий
	RecommendedAction string         // рекомендуемое действие
	Location          RegionLocation // анатомическая привязка
}
