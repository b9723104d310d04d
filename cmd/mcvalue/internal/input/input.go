// Package input decodes and validates mcvalue documents and builds the model and
// products they describe.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/portfolio"
	"github.com/meenmo/mcval/product"
	"github.com/meenmo/mcval/utils"
)

// Document is the YAML or JSON input of every mcvalue command.
//
// Times may be written as years (0.5) or as dates ("2026-04-15"); dates require
// reference_date and are converted with day_count (ACT/365F when empty).
type Document struct {
	ReferenceDate  string       `yaml:"reference_date" validate:"omitempty,datetime=2006-01-02"`
	DayCount       string       `yaml:"day_count" validate:"omitempty,oneof=ACT/360 ACT/365F 30E/360 30/360"`
	EvaluationTime Time         `yaml:"evaluation_time"`
	Model          ModelSpec    `yaml:"model"`
	Product        *ProductSpec `yaml:"product"`
	Book           []BookEntry  `yaml:"book" validate:"omitempty,dive"`
}

// ModelSpec selects and parameterises the simulation.
type ModelSpec struct {
	Type         string            `yaml:"type" validate:"required,oneof=grid curve black_scholes"`
	Grid         *model.GridData   `yaml:"grid"`
	GridFile     string            `yaml:"grid_file"`
	Curve        *CurveSpec        `yaml:"curve" validate:"required_if=Type curve"`
	BlackScholes *BlackScholesSpec `yaml:"black_scholes" validate:"required_if=Type black_scholes"`
}

// CurveSpec describes a deterministic curve by a flat rate or discount factor pillars.
type CurveSpec struct {
	FlatRate *float64  `yaml:"flat_rate"`
	Pillars  []Pillar  `yaml:"pillars" validate:"omitempty,dive"`
	Spots    []float64 `yaml:"spots"`
}

type Pillar struct {
	Time Time    `yaml:"time"`
	DF   float64 `yaml:"df" validate:"gt=0"`
}

type BlackScholesSpec struct {
	InitialValue float64 `yaml:"initial_value" validate:"gt=0"`
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	Volatility   float64 `yaml:"volatility" validate:"gte=0"`
	Paths        int     `yaml:"paths" validate:"gt=0"`
	Steps        int     `yaml:"steps" validate:"gt=0"`
	DeltaT       float64 `yaml:"delta_t" validate:"gt=0"`
	Seed         uint64  `yaml:"seed"`
}

// ProductSpec holds the parameters of any product; Type selects which are read.
type ProductSpec struct {
	Type string `yaml:"type" validate:"required,oneof=cap caplet floorlet floater floater_bond swap coupon_bond swaption bonus_option memory_autocallable libor_in_arrears"`

	FixingDates  []Time    `yaml:"fixing_dates"`
	PaymentDates []Time    `yaml:"payment_dates"`
	Strikes      []float64 `yaml:"strikes"`
	SwapRates    []float64 `yaml:"swap_rates"`
	Position     string    `yaml:"position" validate:"omitempty,oneof=PAY REC pay rec"`
	Notional     float64   `yaml:"notional"`
	Maturity     Time      `yaml:"maturity"`

	PeriodStart Time    `yaml:"period_start"`
	PeriodEnd   Time    `yaml:"period_end"`
	Strike      float64 `yaml:"strike"`
	SwapRate    float64 `yaml:"swap_rate"`

	PaymentTime Time `yaml:"payment_time"`

	Coupon      float64 `yaml:"coupon"`
	CouponDates []Time  `yaml:"coupon_dates"`

	Barrier float64 `yaml:"barrier"`
	Bonus   float64 `yaml:"bonus"`
	Asset   int     `yaml:"asset" validate:"gte=0"`

	ExerciseDates   []Time  `yaml:"exercise_dates"`
	InitialLevel    float64 `yaml:"initial_level"`
	BarrierFraction float64 `yaml:"barrier_fraction" validate:"gte=0"`

	Schedule *ScheduleSpec `yaml:"schedule"`
}

// ScheduleSpec generates a periodic date schedule instead of listing dates. Each generated
// period fixes at its start and pays at its end; coupon and exercise dates are the period
// ends.
type ScheduleSpec struct {
	Start           string   `yaml:"start" validate:"required,datetime=2006-01-02"`
	End             string   `yaml:"end" validate:"required,datetime=2006-01-02"`
	FrequencyMonths int      `yaml:"frequency_months" validate:"gt=0"`
	Convention      string   `yaml:"convention"`
	Holidays        []string `yaml:"holidays" validate:"omitempty,dive,datetime=2006-01-02"`
}

type BookEntry struct {
	Name    string      `yaml:"name" validate:"required"`
	Product ProductSpec `yaml:"product"`
}

var validate = validator.New()

// Decode reads and validates a document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &doc, nil
}

// Read decodes the document at path, or stdin when path is empty.
func Read(stdin io.Reader, path string) (*Document, error) {
	var (
		data []byte
		err  error
	)
	if path = strings.TrimSpace(path); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

func (d *Document) clock() (clock, error) {
	c := clock{dayCount: utils.DayCount(d.DayCount)}
	if d.ReferenceDate != "" {
		ref, err := utils.ParseDate(d.ReferenceDate)
		if err != nil {
			return clock{}, fmt.Errorf("reference_date: %w", err)
		}
		c.reference, c.hasRef = ref, true
	}
	return c, nil
}

// Evaluation returns the evaluation time in model years.
func (d *Document) Evaluation() (float64, error) {
	c, err := d.clock()
	if err != nil {
		return 0, err
	}
	return c.resolve("evaluation_time", d.EvaluationTime)
}

// Simulation builds the model the document describes.
func (d *Document) Simulation() (model.Simulation, error) {
	c, err := d.clock()
	if err != nil {
		return nil, err
	}

	spec := d.Model
	switch spec.Type {
	case "grid":
		switch {
		case spec.Grid != nil && spec.GridFile != "":
			return nil, fmt.Errorf("model: set either grid or grid_file, not both")
		case spec.Grid != nil:
			return model.NewGridSimulation(*spec.Grid)
		case spec.GridFile != "":
			return model.LoadGrid(spec.GridFile)
		default:
			return nil, fmt.Errorf("model: grid model needs grid or grid_file")
		}

	case "curve":
		cs := spec.Curve
		if cs.FlatRate != nil {
			if len(cs.Pillars) > 0 {
				return nil, fmt.Errorf("model.curve: set either flat_rate or pillars, not both")
			}
			return model.NewFlatCurve(*cs.FlatRate, cs.Spots...), nil
		}
		dfs := make(map[float64]float64, len(cs.Pillars))
		for i, p := range cs.Pillars {
			t, err := c.resolve(fmt.Sprintf("model.curve.pillars[%d].time", i), p.Time)
			if err != nil {
				return nil, err
			}
			dfs[t] = p.DF
		}
		return model.NewCurveFromDFs(dfs, cs.Spots...)

	case "black_scholes":
		bs := spec.BlackScholes
		return model.NewBlackScholes(model.BlackScholesParams{
			InitialValue:      bs.InitialValue,
			RiskFreeRate:      bs.RiskFreeRate,
			Volatility:        bs.Volatility,
			NumberOfPaths:     bs.Paths,
			NumberOfTimeSteps: bs.Steps,
			DeltaT:            bs.DeltaT,
			Seed:              bs.Seed,
		})

	default:
		return nil, fmt.Errorf("model: unknown type %q", spec.Type)
	}
}

// SingleProduct builds the document's product.
func (d *Document) SingleProduct() (product.Product, error) {
	if d.Product == nil {
		return nil, fmt.Errorf("product is required")
	}
	return d.BuildProduct("product", *d.Product)
}

// PortfolioBook builds the document's book.
func (d *Document) PortfolioBook() (portfolio.Book, error) {
	if len(d.Book) == 0 {
		return nil, fmt.Errorf("book is required")
	}
	book := make(portfolio.Book, len(d.Book))
	for i, e := range d.Book {
		p, err := d.BuildProduct(fmt.Sprintf("book[%d]", i), e.Product)
		if err != nil {
			return nil, err
		}
		book[i] = portfolio.Entry{Name: e.Name, Product: p}
	}
	return book, nil
}

// BuildProduct turns spec into a product, resolving its dates. field prefixes errors.
func (d *Document) BuildProduct(field string, spec ProductSpec) (product.Product, error) {
	c, err := d.clock()
	if err != nil {
		return nil, err
	}

	if spec.Schedule != nil {
		if spec, err = c.expandSchedule(field+".schedule", spec); err != nil {
			return nil, err
		}
	}

	fixings, err := c.resolveAll(field+".fixing_dates", spec.FixingDates)
	if err != nil {
		return nil, err
	}
	payments, err := c.resolveAll(field+".payment_dates", spec.PaymentDates)
	if err != nil {
		return nil, err
	}
	maturity, err := c.resolve(field+".maturity", spec.Maturity)
	if err != nil {
		return nil, err
	}
	start, err := c.resolve(field+".period_start", spec.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := c.resolve(field+".period_end", spec.PeriodEnd)
	if err != nil {
		return nil, err
	}

	var p product.Product
	switch spec.Type {
	case "cap":
		p, err = product.NewCap(fixings, payments, spec.Strikes)
	case "caplet", "floorlet":
		p, err = product.NewCaplet(start, end, spec.Strike, spec.Type == "floorlet")
	case "floater":
		p, err = product.NewFloater(fixings, payments, spec.Notional)
	case "floater_bond":
		p, err = product.NewFloaterBond(fixings, payments, maturity, spec.Notional)
	case "swap":
		position := product.PositionPay
		if spec.Position != "" {
			if position, err = product.ParsePosition(spec.Position); err != nil {
				break
			}
		}
		p, err = product.NewSwap(spec.SwapRates, fixings, payments, spec.Notional, position)
	case "coupon_bond":
		var coupons []float64
		if coupons, err = c.resolveAll(field+".coupon_dates", spec.CouponDates); err != nil {
			return nil, err
		}
		p, err = product.NewCouponBond(spec.Coupon, coupons, maturity)
	case "swaption":
		p, err = product.NewSwaption(start, end, spec.SwapRate)
	case "bonus_option":
		p, err = product.NewBonusOption(maturity, spec.Barrier, spec.Bonus, spec.Asset)
	case "libor_in_arrears":
		var payment float64
		if payment, err = c.resolve(field+".payment_time", spec.PaymentTime); err != nil {
			return nil, err
		}
		p, err = product.NewLiborInArrears(start, end, payment, spec.Notional)
	case "memory_autocallable":
		var dates []float64
		if dates, err = c.resolveAll(field+".exercise_dates", spec.ExerciseDates); err != nil {
			return nil, err
		}
		p, err = product.NewMemoryAutocallable(dates, spec.InitialLevel, spec.Coupon, spec.BarrierFraction, spec.Notional, spec.Asset)
	default:
		err = fmt.Errorf("unknown type %q", spec.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return p, nil
}
