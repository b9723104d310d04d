package price

import (
	"fmt"
	"io"

	"github.com/meenmo/mcval/cmd/mcvalue/internal/cli"
	"github.com/meenmo/mcval/product"
	"github.com/meenmo/mcval/utils"
)

// Output is the JSON result of `mcvalue price`.
type Output struct {
	Kind           string  `json:"kind"`
	EvaluationTime float64 `json:"evaluation_time"`
	Value          float64 `json:"value"`
	StdError       float64 `json:"std_error"`
	Paths          int     `json:"paths"`
	// Yield is the annually compounded yield implied by Value, for coupon bonds only.
	Yield *float64 `json:"yield,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, opts := cli.NewFlagSet("price", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.Help {
		usage(stderr)
		return 0
	}
	if opts.Input == "" && cli.StdinIsTerminal(stdin) {
		usage(stderr)
		return 2
	}

	doc, cfg, logger, err := cli.Load(opts, "mcvalue.price", stdin, stderr)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	m, err := doc.Simulation()
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to build model: %v", err))
	}
	p, err := doc.SingleProduct()
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	t, err := doc.Evaluation()
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	value, err := product.Value(p, t, m)
	if err != nil {
		logger.Error("valuation failed", "kind", string(p.Kind()), "error", err)
		return cli.WriteError(stdout, fmt.Sprintf("failed to value product: %v", err))
	}
	if !utils.IsFinite(value.Average()) {
		logger.Error("non-finite value", "kind", string(p.Kind()))
		return cli.WriteError(stdout, "failed to value product: value is not finite")
	}
	logger.Debug("product valued", "kind", string(p.Kind()), "paths", m.NumberOfPaths(), "evaluation_time", t)

	out := Output{
		Kind:           string(p.Kind()),
		EvaluationTime: t,
		Value:          utils.RoundTo(value.Average(), cfg.PriceDecimals),
		StdError:       utils.RoundTo(value.StandardError(), cfg.PriceDecimals),
		Paths:          m.NumberOfPaths(),
	}
	if bond, ok := p.(*product.CouponBond); ok {
		y, _, err := bond.YieldFromPrice(value.Average(), t)
		if err != nil {
			logger.Warn("yield not available", "error", err)
		} else {
			y = utils.RoundTo(y, cfg.PriceDecimals)
			out.Yield = &y
		}
	}
	return cli.WriteJSON(stdout, out)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mcvalue price < input.yaml")
	fmt.Fprintln(w, "  mcvalue price -input /path/to/input.yaml [-config mcval.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read a model and one product, output the Monte Carlo value as JSON.")
}
