package entitlement

import "time"

// Holiday праздничный код, действующий только в своем окне дат.
type Holiday struct {
	ID       string
	Code     string
	Greeting string
	Widget   string
	Month    time.Month
	StartDay int
	EndDay   int // включительно
}

// Active сообщает, попадает ли дата t в окно праздника.
func (h Holiday) Active(t time.Time) bool {
	return t.Month() == h.Month && t.Day() >= h.StartDay && t.Day() <= h.EndDay
}

// DefaultHolidays встроенная таблица праздников.
var DefaultHolidays = []Holiday{
	{ID: "valentines", Code: "iloveyou", Greeting: "happy holidays", Widget: "heart", Month: time.February, StartDay: 7, EndDay: 16},
	{ID: "nye", Code: "newyear", Greeting: "happy holidays", Widget: "firework", Month: time.December, StartDay: 28, EndDay: 31},
	{ID: "nye-jan", Code: "newyear", Greeting: "happy holidays", Widget: "sparkle", Month: time.January, StartDay: 1, EndDay: 3},
}
