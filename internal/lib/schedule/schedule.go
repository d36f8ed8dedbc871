package schedule

import (
	"time"
)

// Kind — происхождение интервала пребывания в расписании.
type Kind string

// Значения сохраняются как есть во внешних ответах и в базе.
const (
	KindManual    Kind = "Manual (Fixed)"
	KindOptimized Kind = "Optimized (Auto)"
)

// Stay — один непрерывный период пребывания, обе границы включительно.
type Stay struct {
	Kind         Kind
	Entry        time.Time
	Exit         time.Time
	DurationDays int
}

// Window — период действия визы для одного варианта длительности,
// End — последний действительный день включительно.
type Window struct {
	Label     string
	TotalDays int
	Start     time.Time
	End       time.Time
}

// NewWindow строит окно действия визы от даты начала.
func NewWindow(label string, totalDays int, start time.Time) Window {
	return Window{
		Label:     label,
		TotalDays: totalDays,
		Start:     start,
		End:       start.AddDate(0, 0, totalDays-1),
	}
}

// Validity — вариант длительности визы.
type Validity struct {
	Label string `yaml:"label" json:"label"`
	Days  int    `yaml:"days" json:"days"`
}

// DefaultValidities возвращает стандартный набор вариантов длительности визы.
// Порядок и значения фиксированы.
func DefaultValidities() []Validity {
	return []Validity{
		{Label: "3 months", Days: 90},
		{Label: "1 year", Days: 365},
		{Label: "2 years", Days: 730},
		{Label: "5 years", Days: 1825},
	}
}

// ManualTrip — первая поездка, зафиксированная пользователем.
type ManualTrip struct {
	Entry time.Time
	Exit  time.Time
}

// Policy — параметры правила пребывания: максимум дней подряд в зоне
// и обязательный перерыв между поездками.
type Policy struct {
	MaxStayDays     int
	RecoveryGapDays int
}

// DefaultPolicy возвращает параметры правила "90 дней пребывания, 91 день перерыва".
func DefaultPolicy() Policy {
	return Policy{
		MaxStayDays:     90,
		RecoveryGapDays: 91,
	}
}

// Schedule — упорядоченное расписание пребываний в пределах одного окна.
type Schedule struct {
	Stays     []Stay
	TripCount int
	TotalDays int
}

// DateOnly обрезает значение до полуночи UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive считает длину интервала в днях, обе границы включительно.
func DaysInclusive(entry, exit time.Time) int {
	return int(exit.Sub(entry).Hours()/24) + 1
}
