package optim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tern-ml/tern/internal/graph"
	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/tensor"
)

// Adagrad implements the Adaptive Gradient optimizer.
//
// Each parameter owns a persistent accumulator of squared gradients that
// scales its learning rate down over time:
//
//	moment_out = moment + grad * grad
//	param_out  = param - (lr * grad) / (sqrt(moment_out) + eps)
//
// Epsilon is added after the square root purely to keep the denominator
// away from zero; the original paper has no epsilon term.
//
// Parameters stored in float16/bfloat16 can be updated through a
// full-precision master weight (MultiPrecision): the arithmetic runs on
// the Float32 shadow and the visible parameter is the down-cast copy of
// the result. Without MultiPrecision, reduced-precision parameters
// accumulate in reduced precision and a warning is logged once per
// parameter.
//
// Updates either run immediately (Step) or are recorded as instructions
// into a graph.Block (StepGraph) for later execution.
//
// Reference: "Adaptive Subgradient Methods for Online Learning and
// Stochastic Optimization" (Duchi et al., 2011)
//
// Example:
//
//	optimizer, err := optim.NewAdagrad(model.Parameters(), optim.AdagradConfig{
//	    LR:      0.1,
//	    Epsilon: 1e-6,
//	})
//	if err != nil {
//	    return err
//	}
//
//	for epoch := range epochs {
//	    grads := computeGradients(model, batch)
//	    if err := optimizer.Step(grads); err != nil {
//	        return err
//	    }
//	    optimizer.ZeroGrad()
//	}
type Adagrad struct {
	groups []ParamGroup

	lrTensor *tensor.RawTensor // 1-element Float32, read every step
	defaults resolvedConfig    // construction-time epsilon / initial accumulator value
	active   resolvedConfig    // mutated by group overrides only when propagateOverrides is set

	multiPrecision     bool
	propagateOverrides bool

	store *accumulatorStore
}

// NewAdagrad creates an Adagrad optimizer over a flat parameter list.
//
// Returns a precondition error and no partial state if the learning rate
// is absent, epsilon is not strictly positive and finite, the parameter
// set is empty, or parameter names collide.
func NewAdagrad(params []*nn.Parameter, config AdagradConfig) (*Adagrad, error) {
	return NewAdagradGroups([]ParamGroup{{Params: params}}, config)
}

// NewAdagradGroups creates an Adagrad optimizer over parameter groups.
// Each group may override epsilon and the initial accumulator value; see
// AdagradConfig.PropagateGroupOverrides for how overrides scope.
func NewAdagradGroups(groups []ParamGroup, config AdagradConfig) (*Adagrad, error) {
	config, err := config.validate()
	if err != nil {
		return nil, err
	}
	if err := validateGroups(groups); err != nil {
		return nil, err
	}

	lrTensor := config.LRTensor
	if lrTensor == nil {
		lrTensor, err = tensor.Full(tensor.Shape{1}, tensor.Float32, config.LR, tensor.CPU)
		if err != nil {
			return nil, err
		}
	}

	defaults := resolvedConfig{
		epsilon:                 config.Epsilon,
		initialAccumulatorValue: config.InitialAccumulatorValue,
	}

	return &Adagrad{
		groups:             append([]ParamGroup(nil), groups...),
		lrTensor:           lrTensor,
		defaults:           defaults,
		active:             defaults,
		multiPrecision:     config.MultiPrecision,
		propagateOverrides: config.PropagateGroupOverrides,
		store:              newAccumulatorStore(config.MultiPrecision),
	}, nil
}

// applier commits a single parameter update. The two implementations are
// the two execution modes: mutate now, or record an instruction. The
// mode is chosen once per step, never inside the update logic.
type applier interface {
	apply(p *nn.Parameter, grad *tensor.RawTensor, st *paramState, lr *tensor.RawTensor, eps float32) error
}

// immediateApplier computes the update synchronously and mutates the
// parameter, accumulator and master weight in place.
type immediateApplier struct{}

func (immediateApplier) apply(p *nn.Parameter, grad *tensor.RawTensor, st *paramState, lr *tensor.RawTensor, eps float32) error {
	return adagradUpdate(p.Tensor(), grad, st.moment, st.master, lr.AsFloat32()[0], eps)
}

// blockApplier appends one instruction per parameter to a graph block.
// Nothing is mutated until an Executor runs the block.
type blockApplier struct {
	block *graph.Block
}

func (b blockApplier) apply(p *nn.Parameter, grad *tensor.RawTensor, st *paramState, lr *tensor.RawTensor, eps float32) error {
	if !grad.Shape().Equal(p.Tensor().Shape()) {
		return errors.Errorf("parameter %q: gradient shape %v does not match parameter shape %v",
			p.Name(), grad.Shape(), p.Tensor().Shape())
	}

	op := &graph.OpDesc{
		Type: AdagradOpType,
		Inputs: map[string]*tensor.RawTensor{
			inParam:        p.Tensor(),
			inGrad:         grad,
			inMoment:       st.moment,
			inLearningRate: lr,
		},
		Outputs: map[string]*tensor.RawTensor{
			outParam:  p.Tensor(),
			outMoment: st.moment,
		},
		Attrs: map[string]any{
			attrEpsilon:        eps,
			attrMultiPrecision: st.master != nil,
		},
		StopGradient: true,
	}
	if st.master != nil {
		op.Inputs[inMasterParam] = st.master
		op.Outputs[outMasterParam] = st.master
	}

	b.block.AppendOp(op)
	return nil
}

// step walks every group, resolves its configuration, ensures the
// per-parameter state and hands each (parameter, gradient) pair to the
// applier. Parameters with no gradient entry are skipped.
func (a *Adagrad) step(ap applier, grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	for gi := range a.groups {
		group := &a.groups[gi]
		rc := a.resolveGroup(group)

		for _, p := range group.Params {
			grad := getGradient(p, grads)
			if grad == nil {
				// Parameter didn't participate in this step.
				continue
			}

			st, err := a.store.ensure(p, rc)
			if err != nil {
				return errors.Wrapf(err, "parameter %q", p.Name())
			}
			if err := ap.apply(p, grad, st, a.lrTensor, rc.epsilon); err != nil {
				return errors.Wrapf(err, "parameter %q", p.Name())
			}
		}
	}
	return nil
}

// Step performs a single optimization step immediately, mutating
// parameters, accumulators and master weights in place.
func (a *Adagrad) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	return a.step(immediateApplier{}, grads)
}

// StepGraph records one update instruction per parameter into the given
// execution container instead of executing anything. The caller runs the
// container later through a graph.Executor with the Adagrad kernel
// registered.
//
// Fails with a type error before emitting anything if the container is
// not a recognized container type.
func (a *Adagrad) StepGraph(c graph.Container, grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	block, err := graph.AsBlock(c)
	if err != nil {
		return err
	}
	return a.step(blockApplier{block: block}, grads)
}

// ZeroGrad clears gradients for all parameters.
func (a *Adagrad) ZeroGrad() {
	for _, g := range a.groups {
		for _, p := range g.Params {
			p.ZeroGrad()
		}
	}
}

// GetLR returns the current learning rate.
func (a *Adagrad) GetLR() float32 {
	return a.lrTensor.AsFloat32()[0]
}

// SetLR updates the learning rate.
//
// The value is written into the shared learning-rate tensor, so
// instructions already recorded in deferred mode pick it up when they
// execute.
func (a *Adagrad) SetLR(lr float32) {
	a.lrTensor.AsFloat32()[0] = lr
}

// StateDict returns the optimizer state for external checkpointing.
//
// State keys: "moment.{param_name}" for accumulators and
// "master.{param_name}" for master weights. Parameters whose state has
// not been created yet are absent.
func (a *Adagrad) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for _, g := range a.groups {
		for _, p := range g.Params {
			st, ok := a.store.get(p.Name())
			if !ok {
				continue
			}
			stateDict[fmt.Sprintf("moment.%s", p.Name())] = st.moment
			if st.master != nil {
				stateDict[fmt.Sprintf("master.%s", p.Name())] = st.master
			}
		}
	}
	return stateDict
}

// LoadStateDict restores optimizer state produced by StateDict.
//
// Entries for unknown parameters are ignored; shape mismatches are
// errors. Parameters absent from the state dict keep lazy creation on
// their first step.
func (a *Adagrad) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for _, g := range a.groups {
		for _, p := range g.Params {
			moment, ok := stateDict[fmt.Sprintf("moment.%s", p.Name())]
			if !ok {
				continue
			}
			st := &paramState{moment: moment}
			if master, ok := stateDict[fmt.Sprintf("master.%s", p.Name())]; ok {
				if !master.Shape().Equal(p.Tensor().Shape()) {
					return errors.Errorf("master weight shape mismatch for %q: expected %v, got %v",
						p.Name(), p.Tensor().Shape(), master.Shape())
				}
				st.master = master
			}
			want := p.Tensor().Shape()
			if !moment.Shape().Equal(want) {
				return errors.Errorf("accumulator shape mismatch for %q: expected %v, got %v",
					p.Name(), want, moment.Shape())
			}
			a.store.states[p.Name()] = st
		}
	}
	return nil
}
