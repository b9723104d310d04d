// Package model defines the query interface through which products read a Monte Carlo
// simulation, together with reference implementations of it.
package model

import (
	"errors"

	"github.com/meenmo/mcval/pathvector"
)

var (
	// ErrTimeOutOfRange is returned when a requested time cannot be resolved on the model's time axis.
	ErrTimeOutOfRange = errors.New("time outside simulated range")
	// ErrUnknownAsset is returned for an asset index the model does not simulate.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrInvalidPeriod is returned for a rate query whose end does not follow its start.
	ErrInvalidPeriod = errors.New("invalid rate period")
	// ErrUnsupportedQuery is returned when the model does not simulate the requested quantity.
	ErrUnsupportedQuery = errors.New("query not supported by model")
)

// Simulation is the read-only view of a simulated market used by products.
//
// Times are in years on the model's own axis. Implementations must be safe for
// concurrent use once constructed.
type Simulation interface {
	// NumberOfPaths returns the number of simulated paths.
	NumberOfPaths() int
	// Rate returns the simple forward rate fixed at start for the period [start, end].
	Rate(start, end float64) (pathvector.Vector, error)
	// Numeraire returns the strictly positive numeraire at t.
	Numeraire(t float64) (pathvector.Vector, error)
	// Weight returns the Monte Carlo probability weight of each path at t.
	Weight(t float64) (pathvector.Vector, error)
	// AssetValue returns the simulated level of asset at t.
	AssetValue(t float64, asset int) (pathvector.Vector, error)
	// Constant broadcasts value to all paths.
	Constant(value float64) pathvector.Vector
}
