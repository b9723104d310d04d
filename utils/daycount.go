package utils

import (
	"fmt"
	"time"
)

// DayCount names a day count convention used to turn calendar dates into model times.
type DayCount string

const (
	Act360  DayCount = "ACT/360"
	Act365F DayCount = "ACT/365F"
	Dc30E   DayCount = "30E/360"
	Dc30360 DayCount = "30/360"
)

// YearFraction computes the year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360. Dates before start give negative fractions.
func YearFraction(start, end time.Time, dc DayCount) (float64, error) {
	switch dc {
	case Act360:
		return Days(start, end) / 360.0, nil
	case Act365F, "":
		return Days(start, end) / 365.0, nil
	case Dc30E, Dc30360:
		// 30E/360: day of month capped at 30 on both ends
		d1 := min(start.Day(), 30)
		d2 := min(end.Day(), 30)
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0, nil
	default:
		return 0, fmt.Errorf("YearFraction: unsupported day count %q", dc)
	}
}

// Days returns the number of calendar days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// TimesFromDates converts dates into model times measured from reference.
func TimesFromDates(reference time.Time, dates []time.Time, dc DayCount) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, d := range dates {
		t, err := YearFraction(reference, d, dc)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
