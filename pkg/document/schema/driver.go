package schema

import (
	"github.com/pkg/errors"
)

// DefaultMaxIterations bounds the number of fixes per dirty path.
const DefaultMaxIterations = 42

// ErrIterationLimit reports a normalization that did not reach a fixed
// point, which means some rule re-introduces the violation it fixes.
var ErrIterationLimit = errors.New("normalization did not converge")
