package input

import (
	"fmt"
	"time"

	"github.com/meenmo/mcval/calendar"
	"github.com/meenmo/mcval/utils"
)

// expandSchedule fills the date lists of spec that are still empty from spec.Schedule.
func (c clock) expandSchedule(field string, spec ProductSpec) (ProductSpec, error) {
	s := spec.Schedule
	if !c.hasRef {
		return spec, fmt.Errorf("%s: needs reference_date", field)
	}

	start, err := utils.ParseDate(s.Start)
	if err != nil {
		return spec, fmt.Errorf("%s.start: %w", field, err)
	}
	end, err := utils.ParseDate(s.End)
	if err != nil {
		return spec, fmt.Errorf("%s.end: %w", field, err)
	}
	conv, err := calendar.ParseConvention(s.Convention)
	if err != nil {
		return spec, fmt.Errorf("%s.convention: %w", field, err)
	}
	holidays := make([]time.Time, len(s.Holidays))
	for i, h := range s.Holidays {
		if holidays[i], err = utils.ParseDate(h); err != nil {
			return spec, fmt.Errorf("%s.holidays[%d]: %w", field, i, err)
		}
	}

	dates, err := calendar.New(holidays...).Schedule(start, end, s.FrequencyMonths, conv)
	if err != nil {
		return spec, fmt.Errorf("%s: %w", field, err)
	}
	asTimes := func(ds []time.Time) []Time {
		out := make([]Time, len(ds))
		for i, d := range ds {
			out[i] = Time{Date: d.Format(utils.DateLayout)}
		}
		return out
	}
	periodStarts, periodEnds := asTimes(dates[:len(dates)-1]), asTimes(dates[1:])

	if len(spec.FixingDates) == 0 {
		spec.FixingDates = periodStarts
	}
	if len(spec.PaymentDates) == 0 {
		spec.PaymentDates = periodEnds
	}
	if len(spec.CouponDates) == 0 {
		spec.CouponDates = periodEnds
	}
	if len(spec.ExerciseDates) == 0 {
		spec.ExerciseDates = periodEnds
	}
	if spec.Maturity == (Time{}) {
		spec.Maturity = periodEnds[len(periodEnds)-1]
	}
	n := len(periodStarts)
	if len(spec.Strikes) == 1 && n > 1 {
		spec.Strikes = repeat(spec.Strikes[0], n)
	}
	if len(spec.SwapRates) == 1 && n > 1 {
		spec.SwapRates = repeat(spec.SwapRates[0], n)
	}
	return spec, nil
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
