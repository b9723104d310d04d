// Package portfolio values a book of named products against one simulation.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/mcval/config"
	"github.com/meenmo/mcval/logging"
	"github.com/meenmo/mcval/model"
	"github.com/meenmo/mcval/pathvector"
	"github.com/meenmo/mcval/product"
)

var (
	// ErrDuplicateName is returned when two book entries share a name.
	ErrDuplicateName = errors.New("duplicate entry name")
	// ErrValuationPanic wraps a panic recovered while valuing an entry.
	ErrValuationPanic = errors.New("valuation panic recovered")
)

// Entry is a named position in a book.
type Entry struct {
	Name    string
	Product product.Product
}

// Book is an ordered collection of entries.
type Book []Entry

// Validate rejects empty names, missing products and duplicate names.
func (b Book) Validate() error {
	seen := make(map[string]struct{}, len(b))
	for i, e := range b {
		if e.Name == "" {
			return fmt.Errorf("Book.Validate: entry %d has no name", i)
		}
		if e.Product == nil {
			return fmt.Errorf("Book.Validate: entry %q has no product", e.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("Book.Validate: %q: %w", e.Name, ErrDuplicateName)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Result is the valuation of one entry.
type Result struct {
	Name  string
	Kind  product.Kind
	Price float64
	Value pathvector.Vector
}

// Total sums the prices of results.
func Total(results []Result) float64 {
	total := 0.0
	for _, r := range results {
		total += r.Price
	}
	return total
}

// Valuer values books concurrently.
type Valuer struct {
	logger      *slog.Logger
	parallelism int
}

// NewValuer returns a valuer bounded by config.MaxParallelValuations. A nil logger discards.
func NewValuer(logger *slog.Logger) *Valuer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Valuer{logger: logger, parallelism: config.GetConfig().MaxParallelValuations}
}

// Value values every entry of book at evaluationTime. Results keep book order. The first
// failing entry cancels the remaining work and no partial results are returned.
func (v *Valuer) Value(ctx context.Context, book Book, m model.Simulation, evaluationTime float64) ([]Result, error) {
	if err := book.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, len(book))
	g, ctx := errgroup.WithContext(ctx)
	if v.parallelism > 0 {
		g.SetLimit(v.parallelism)
	}

	for i, entry := range book {
		i, entry := i, entry
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					v.logger.Error("valuation panic", "entry", entry.Name, "panic", rec, "stack", string(debug.Stack()))
					if cause, ok := rec.(error); ok {
						err = fmt.Errorf("%s: %w: %w", entry.Name, ErrValuationPanic, cause)
					} else {
						err = fmt.Errorf("%s: %w: %v", entry.Name, ErrValuationPanic, rec)
					}
				}
			}()

			if err := ctx.Err(); err != nil {
				return err
			}

			value, err := product.Value(entry.Product, evaluationTime, m)
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Name, err)
			}
			results[i] = Result{
				Name:  entry.Name,
				Kind:  entry.Product.Kind(),
				Price: value.Average(),
				Value: value,
			}
			v.logger.Debug("entry valued",
				"entry", entry.Name,
				"kind", string(entry.Product.Kind()),
				"price", results[i].Price,
				"std_error", value.StandardError(),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		v.logger.Warn("book valuation failed", "entries", len(book), "error", err)
		return nil, fmt.Errorf("Valuer.Value: %w", err)
	}
	v.logger.Info("book valued", "entries", len(book), "evaluation_time", evaluationTime, "total", Total(results))
	return results, nil
}
