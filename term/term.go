// Package term converts calendar dates into the year fractions
// consumed by the pricing formulas.
package term

import (
	"fmt"
	"time"
)

// Convention selects the day-count rule.
type Convention string

const (
	Act365F    Convention = "ACT/365F"
	Act360     Convention = "ACT/360"
	Thirty360E Convention = "30E/360"
)

const dateLayout = "2006-01-02"

// ParseDate converts YYYY-MM-DD to a UTC time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// YearFraction returns the time to expiry in years between valuation
// and expiry under the given convention. An expiry on or before the
// valuation date clamps to zero: the option has expired, it does not
// accrue negative time.
func YearFraction(valuation, expiry time.Time, conv Convention) (float64, error) {
	if !expiry.After(valuation) {
		return 0, nil
	}
	switch conv {
	case Act360:
		return days(valuation, expiry) / 360.0, nil
	case Act365F, "":
		return days(valuation, expiry) / 365.0, nil
	case Thirty360E:
		// 30E/360 Eurobond basis: day-of-month capped at 30.
		d1 := min(valuation.Day(), 30)
		d2 := min(expiry.Day(), 30)
		y1, m1 := valuation.Year(), int(valuation.Month())
		y2, m2 := expiry.Year(), int(expiry.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0, nil
	}
	return 0, fmt.Errorf("unknown day count convention %q", conv)
}

// days is the ACT calendar-day count between two dates.
func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}
