package input

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/mcval/utils"
)

// Time is a model time given either as a number of years or as an ISO date that is
// converted with the document's day count from its reference date.
type Time struct {
	Years float64
	Date  string
}

// Years returns a Time given directly in years.
func Years(y float64) Time { return Time{Years: y} }

func (t *Time) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: time must be a number of years or a YYYY-MM-DD date", node.Line)
	}
	switch node.Tag {
	case "!!int", "!!float":
		*t = Time{}
		return node.Decode(&t.Years)
	default:
		*t = Time{Date: strings.TrimSpace(node.Value)}
		return nil
	}
}

// clock turns Times into model times.
type clock struct {
	reference time.Time
	hasRef    bool
	dayCount  utils.DayCount
}

func (c clock) resolve(field string, t Time) (float64, error) {
	if t.Date == "" {
		return t.Years, nil
	}
	if !c.hasRef {
		return 0, fmt.Errorf("%s: date %q needs reference_date", field, t.Date)
	}
	d, err := utils.ParseDate(t.Date)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	yf, err := utils.YearFraction(c.reference, d, c.dayCount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return yf, nil
}

func (c clock) resolveAll(field string, ts []Time) ([]float64, error) {
	out := make([]float64, len(ts))
	for i, t := range ts {
		v, err := c.resolve(fmt.Sprintf("%s[%d]", field, i), t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
