package optim

import (
	log "github.com/sirupsen/logrus"

	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/tensor"
)

// paramState is the persistent per-parameter optimizer state: the
// accumulator ("moment") and, in mixed-precision mode, the full-precision
// master weight. Both live for the lifetime of the optimizer.
type paramState struct {
	moment *tensor.RawTensor
	master *tensor.RawTensor // nil unless a full-precision shadow exists
}

// accumulatorStore owns the per-parameter state records, keyed by the
// parameter's stable name. Records are created lazily, exactly once.
type accumulatorStore struct {
	states         map[string]*paramState
	multiPrecision bool
}

func newAccumulatorStore(multiPrecision bool) *accumulatorStore {
	return &accumulatorStore{
		states:         make(map[string]*paramState),
		multiPrecision: multiPrecision,
	}
}

// ensure returns the state record for param, creating it on first call.
//
// On creation the moment is filled with the resolved initial accumulator
// value. For a reduced-precision parameter with multi-precision enabled,
// a Float32 master weight is seeded from the parameter's current values
// and the moment is sized Float32 to match it. A reduced-precision
// parameter without multi-precision keeps a reduced-precision moment and
// triggers a one-time warning.
//
// Subsequent calls return the memoized record untouched.
func (s *accumulatorStore) ensure(p *nn.Parameter, cfg resolvedConfig) (*paramState, error) {
	if st, ok := s.states[p.Name()]; ok {
		return st, nil
	}

	t := p.Tensor()
	st := &paramState{}

	momentDType := t.DType()
	if t.DType().IsReducedFloat() {
		if s.multiPrecision {
			master, err := t.CastTo(tensor.Float32)
			if err != nil {
				return nil, err
			}
			st.master = master
			momentDType = tensor.Float32
		} else {
			log.Warnf("parameter %q: accumulating with %s in the optimizer can lead to poor accuracy or slow convergence; consider the MultiPrecision option",
				p.Name(), t.DType())
		}
	}

	moment, err := tensor.Full(t.Shape(), momentDType, cfg.initialAccumulatorValue, t.Device())
	if err != nil {
		return nil, err
	}
	st.moment = moment

	s.states[p.Name()] = st
	return st, nil
}

// get returns the state record for a parameter name without creating it.
func (s *accumulatorStore) get(name string) (*paramState, bool) {
	st, ok := s.states[name]
	return st, ok
}
