package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/tensor"
)

// Default hyperparameters for Adagrad.
const (
	// DefaultEpsilon keeps the update denominator away from zero. It is
	// added after the square root of the accumulator.
	DefaultEpsilon float32 = 1e-6

	// DefaultInitialAccumulatorValue seeds newly created accumulators.
	DefaultInitialAccumulatorValue float32 = 0.0
)

// AdagradConfig holds construction-time configuration for Adagrad.
type AdagradConfig struct {
	// LR is the learning rate. Required (must be > 0) unless LRTensor is
	// supplied.
	LR float32

	// LRTensor optionally supplies the learning rate as a 1-element
	// Float32 tensor that is read on every step. External schedulers can
	// mutate it between steps; in deferred mode the same tensor is wired
	// into each emitted instruction. When nil, an internal tensor seeded
	// from LR is used.
	LRTensor *tensor.RawTensor

	// Epsilon is the numerical-stability floor (default 1e-6, must be a
	// strictly positive finite value).
	Epsilon float32

	// InitialAccumulatorValue seeds each parameter's accumulator
	// (default 0.0, must be >= 0).
	InitialAccumulatorValue float32

	// MultiPrecision keeps a full-precision master weight for every
	// float16/bfloat16 parameter and runs the update arithmetic on it.
	MultiPrecision bool

	// PropagateGroupOverrides restores the historical override behavior:
	// a group's epsilon/initial-accumulator overrides replace the
	// optimizer's active defaults and persist for subsequent groups and
	// unscoped steps. When false (the default), overrides are resolved
	// per group against the construction-time defaults and shared state
	// is never mutated.
	PropagateGroupOverrides bool
}

// ParamGroup is a subset of parameters with optional hyperparameter
// overrides. A nil override field inherits the active default.
type ParamGroup struct {
	Params                  []*nn.Parameter
	Epsilon                 *float32
	InitialAccumulatorValue *float32
}

// resolvedConfig is the per-group configuration the accumulator store
// and update engine actually consume. It is threaded explicitly through
// every call so that group overrides never need to touch shared state
// (unless PropagateGroupOverrides asks for exactly that).
type resolvedConfig struct {
	epsilon                 float32
	initialAccumulatorValue float32
}

func validEpsilon(eps float32) bool {
	return eps > 0 && !math.IsInf(float64(eps), 1) && !math.IsNaN(float64(eps))
}

// validate checks the construction-time configuration and fills in
// defaults. Returns the defaulted config or a precondition error.
func (c AdagradConfig) validate() (AdagradConfig, error) {
	if c.LRTensor != nil {
		if c.LRTensor.DType() != tensor.Float32 {
			return c, errors.Errorf("learning rate tensor must be float32, got %s", c.LRTensor.DType())
		}
		if c.LRTensor.NumElements() != 1 {
			return c, errors.Errorf("learning rate tensor must hold exactly 1 element, got %d", c.LRTensor.NumElements())
		}
	} else if c.LR <= 0 || math.IsNaN(float64(c.LR)) {
		return c, errors.Errorf("learning rate is required and must be > 0, got %v", c.LR)
	}

	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	if !validEpsilon(c.Epsilon) {
		return c, errors.Errorf("epsilon must be a strictly positive finite value, got %v", c.Epsilon)
	}

	if c.InitialAccumulatorValue < 0 || math.IsNaN(float64(c.InitialAccumulatorValue)) {
		return c, errors.Errorf("initial accumulator value must be >= 0, got %v", c.InitialAccumulatorValue)
	}

	return c, nil
}

// validateGroups checks the parameter groups: at least one parameter
// overall, no nil entries, unique names, and valid override values.
func validateGroups(groups []ParamGroup) error {
	if len(groups) == 0 {
		return errors.New("no parameter groups given")
	}

	seen := make(map[string]struct{})
	total := 0
	for gi, g := range groups {
		if g.Epsilon != nil && !validEpsilon(*g.Epsilon) {
			return errors.Errorf("group %d: epsilon override must be a strictly positive finite value, got %v", gi, *g.Epsilon)
		}
		if g.InitialAccumulatorValue != nil && *g.InitialAccumulatorValue < 0 {
			return errors.Errorf("group %d: initial accumulator value override must be >= 0, got %v", gi, *g.InitialAccumulatorValue)
		}
		for pi, p := range g.Params {
			if p == nil || p.Tensor() == nil {
				return errors.Errorf("group %d: parameter %d is nil", gi, pi)
			}
			if !p.Tensor().DType().IsFloat() {
				return errors.Errorf("group %d: parameter %q has non-float dtype %s", gi, p.Name(), p.Tensor().DType())
			}
			if _, dup := seen[p.Name()]; dup {
				return errors.Errorf("duplicate parameter name %q", p.Name())
			}
			seen[p.Name()] = struct{}{}
			total++
		}
	}
	if total == 0 {
		return errors.New("no parameters given")
	}
	return nil
}

// resolveGroup maps the active defaults plus a group's overrides onto
// the configuration used while processing that group. With
// PropagateGroupOverrides set, an override also replaces the active
// defaults for everything that follows.
func (a *Adagrad) resolveGroup(g *ParamGroup) resolvedConfig {
	rc := a.active
	if g.Epsilon != nil {
		rc.epsilon = *g.Epsilon
	}
	if g.InitialAccumulatorValue != nil {
		rc.initialAccumulatorValue = *g.InitialAccumulatorValue
	}
	if a.propagateOverrides {
		a.active = rc
	}
	return rc
}
