package trace

import (
	"fmt"
	"io"

	"github.com/meenmo/mcval/cmd/mcvalue/internal/cli"
	"github.com/meenmo/mcval/product"
	"github.com/meenmo/mcval/utils"
)

// Observation summarises one exercise date across paths.
type Observation struct {
	Date           float64 `json:"date"`
	AveragePayoff  float64 `json:"average_payoff"`
	AverageMemory  float64 `json:"average_memory"`
	ExercisedShare float64 `json:"exercised_share"`
}

// Output is the JSON result of `mcvalue trace`.
type Output struct {
	Observations []Observation `json:"observations"`
	Value        float64       `json:"value"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, opts := cli.NewFlagSet("trace", stderr)
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

	doc, cfg, logger, err := cli.Load(opts, "mcvalue.trace", stdin, stderr)
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
	autocallable, ok := p.(*product.MemoryAutocallable)
	if !ok {
		return cli.WriteError(stdout, fmt.Sprintf("trace needs a memory_autocallable product, got %s", p.Kind()))
	}
	t, err := doc.Evaluation()
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	observations, err := autocallable.Trace(m)
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to trace product: %v", err))
	}
	value, err := product.Value(autocallable, t, m)
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to value product: %v", err))
	}

	if !utils.IsFinite(value.Average()) {
		return cli.WriteError(stdout, "failed to value product: value is not finite")
	}

	out := Output{
		Observations: make([]Observation, len(observations)),
		Value:        utils.RoundTo(value.Average(), cfg.PriceDecimals),
	}
	for i, obs := range observations {
		out.Observations[i] = Observation{
			Date:           obs.Date,
			AveragePayoff:  utils.RoundTo(obs.Payoff.Average(), cfg.PriceDecimals),
			AverageMemory:  utils.RoundTo(obs.State.Memory.Average(), cfg.PriceDecimals),
			ExercisedShare: utils.RoundTo(obs.State.Exercised.Average(), cfg.PriceDecimals),
		}
		logger.Debug("exercise date", "date", obs.Date, "exercised_share", out.Observations[i].ExercisedShare)
	}
	return cli.WriteJSON(stdout, out)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mcvalue trace < autocallable.yaml")
	fmt.Fprintln(w, "  mcvalue trace -input /path/to/autocallable.yaml [-config mcval.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show per exercise date averages of the memory autocallable payoff and state.")
}
