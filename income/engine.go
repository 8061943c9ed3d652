package income

import (
	"time"

	"github.com/warp/freelance-engine/generic"
)

// Engine carries the only ambient input the calculations need: the current
// date. Everything else arrives as arguments.
type Engine struct {
	// Now returns the current time. Defaults to time.Now; tests pin it.
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// FixedClock returns an engine whose "today" is always date.
func FixedClock(date generic.TimePoint) *Engine {
	return &Engine{Now: func() time.Time { return date.Time }}
}

func (e *Engine) Today() generic.TimePoint {
	if e == nil || e.Now == nil {
		return generic.Today()
	}
	return generic.FromTime(e.Now())
}

// resolveMonth substitutes the current month when either part is unset.
func (e *Engine) resolveMonth(year int, month time.Month) (int, time.Month) {
	if year == 0 || month == 0 {
		today := e.Today()
		return today.Year(), today.Month()
	}
	return year, month
}
