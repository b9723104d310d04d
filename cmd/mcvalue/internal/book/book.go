package book

import (
	"context"
	"fmt"
	"io"

	"github.com/meenmo/mcval/cmd/mcvalue/internal/cli"
	"github.com/meenmo/mcval/portfolio"
	"github.com/meenmo/mcval/utils"
)

type EntryOutput struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Value    float64 `json:"value"`
	StdError float64 `json:"std_error"`
}

// Output is the JSON result of `mcvalue book`.
type Output struct {
	EvaluationTime float64       `json:"evaluation_time"`
	Entries        []EntryOutput `json:"entries"`
	Total          float64       `json:"total"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, opts := cli.NewFlagSet("book", stderr)
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

	doc, cfg, logger, err := cli.Load(opts, "mcvalue.book", stdin, stderr)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	m, err := doc.Simulation()
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to build model: %v", err))
	}
	b, err := doc.PortfolioBook()
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	t, err := doc.Evaluation()
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	results, err := portfolio.NewValuer(logger).Value(context.Background(), b, m, t)
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to value book: %v", err))
	}

	if total := portfolio.Total(results); !utils.IsFinite(total) {
		logger.Error("non-finite book total", "entries", len(results))
		return cli.WriteError(stdout, "failed to value book: total is not finite")
	}

	out := Output{EvaluationTime: t, Entries: make([]EntryOutput, len(results))}
	for i, r := range results {
		out.Entries[i] = EntryOutput{
			Name:     r.Name,
			Kind:     string(r.Kind),
			Value:    utils.RoundTo(r.Price, cfg.PriceDecimals),
			StdError: utils.RoundTo(r.Value.StandardError(), cfg.PriceDecimals),
		}
	}
	out.Total = utils.RoundTo(portfolio.Total(results), cfg.PriceDecimals)
	return cli.WriteJSON(stdout, out)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mcvalue book < book.yaml")
	fmt.Fprintln(w, "  mcvalue book -input /path/to/book.yaml [-config mcval.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Value every named product of a book against one model, output JSON.")
}
