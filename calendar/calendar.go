package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned for schedules that cannot be generated.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Convention is a business day adjustment rule.
type Convention string

const (
	Unadjusted        Convention = "UNADJUSTED"
	Following         Convention = "FOLLOWING"
	ModifiedFollowing Convention = "MODIFIED_FOLLOWING"
	Preceding         Convention = "PRECEDING"
)

// ParseConvention accepts the convention names in any case; empty means ModifiedFollowing.
func ParseConvention(s string) (Convention, error) {
	c := Convention(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	switch c {
	case "":
		return ModifiedFollowing, nil
	case Unadjusted, Following, ModifiedFollowing, Preceding:
		return c, nil
	default:
		return "", fmt.Errorf("ParseConvention: unknown convention %q", s)
	}
}

// Calendar is a weekend plus holiday calendar.
type Calendar struct {
	holidays map[string]struct{}
}

// New returns a calendar closed on weekends and on the given holidays.
func New(holidays ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.Format("2006-01-02")] = struct{}{}
	}
	return c
}

// IsBusinessDay checks weekends and the holiday set.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[t.Format("2006-01-02")]
	return !holiday
}

// Adjust moves t to a business day according to conv.
func (c *Calendar) Adjust(t time.Time, conv Convention) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following:
		return c.roll(t, 1)
	case Preceding:
		return c.roll(t, -1)
	default:
		adjusted := c.roll(t, 1)
		if adjusted.Month() != t.Month() {
			adjusted = c.roll(t, -1)
		}
		return adjusted
	}
}

func (c *Calendar) roll(t time.Time, step int) time.Time {
	for !c.IsBusinessDay(t) {
		t = t.AddDate(0, 0, step)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func (c *Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if c.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// AddMonths adds months to t, clamping to the end of the target month. A start on the
// last day of its month rolls to month ends.
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := daysInMonth(first.Year(), first.Month())
	day := t.Day()
	if day > last || day == daysInMonth(t.Year(), t.Month()) {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Schedule rolls forward from start every months months until end and adjusts every date
// but start with conv. A short final stub ends on end. The result includes start and end.
func (c *Calendar) Schedule(start, end time.Time, months int, conv Convention) ([]time.Time, error) {
	if months <= 0 {
		return nil, fmt.Errorf("Schedule: frequency must be positive, got %d months: %w", months, ErrInvalidSchedule)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("Schedule: end %s not after start %s: %w", end.Format("2006-01-02"), start.Format("2006-01-02"), ErrInvalidSchedule)
	}

	dates := []time.Time{start}
	for i := 1; ; i++ {
		next := AddMonths(start, i*months)
		if !next.Before(end) {
			break
		}
		dates = append(dates, c.Adjust(next, conv))
	}
	dates = append(dates, c.Adjust(end, conv))

	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("Schedule: adjusted dates collapse at %s: %w", dates[i].Format("2006-01-02"), ErrInvalidSchedule)
		}
	}
	return dates, nil
}
