package finiterepr

import (
	"fmt"
	"strings"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Alt is one case of a sum over the Go type S.
type Alt[S any] struct {
	name  string
	shape string
	card  index.Index
	match func(S) (index.Index, bool, error)
	build func(index.Index) (S, error)
}

// Name returns the case name.
func (a Alt[S]) Name() string { return a.name }

// Case describes a case of S carrying a payload of shape p. match reports
// whether a value belongs to this case and extracts the payload; wrap
// builds the value back from a payload.
func Case[S, P any](name string, p Shape[P], match func(S) (P, bool), wrap func(P) S) Alt[S] {
	return Alt[S]{
		name:  name,
		shape: p.String(),
		card:  p.Cardinality(),
		match: func(v S) (index.Index, bool, error) {
			payload, ok := match(v)
			if !ok {
				return index.Index{}, false, nil
			}
			i, err := p.IndexOf(payload)
			return i, true, err
		},
		build: func(i index.Index) (S, error) {
			payload, err := p.ValueAt(i)
			if err != nil {
				var zero S
				return zero, err
			}
			return wrap(payload), nil
		},
	}
}

// Tag describes a case without payload that matches exactly value.
func Tag[S comparable](name string, value S) Alt[S] {
	return Alt[S]{
		name: name,
		card: index.One(),
		match: func(v S) (index.Index, bool, error) {
			return index.Zero(), v == value, nil
		},
		build: func(index.Index) (S, error) {
			return value, nil
		},
	}
}

type sum[S any] struct {
	name  string
	cases []Alt[S]
	bases []index.Index
	card  index.Index
}

// Sum is the disjoint union of cases in declaration order. Case k occupies
// the indices [base_k, base_k + card_k) where base_k is the total
// cardinality of the cases before it, so reordering cases changes every
// encoding after the first moved case.
//
// Encoding uses the first case whose match accepts the value. A sum with no
// cases has no inhabitants.
func Sum[S any](name string, cases ...Alt[S]) Shape[S] {
	s := &sum[S]{
		name:  name,
		cases: append([]Alt[S](nil), cases...),
		bases: make([]index.Index, len(cases)),
	}
	base := index.Zero()
	for k, c := range cases {
		s.bases[k] = base
		base = base.Add(c.card)
	}
	s.card = base
	return s
}

func (s *sum[S]) Cardinality() index.Index { return s.card }

func (s *sum[S]) String() string {
	if s.name != "" {
		return s.name
	}
	parts := make([]string, len(s.cases))
	for i, c := range s.cases {
		if c.shape == "" {
			parts[i] = c.name
			continue
		}
		parts[i] = fmt.Sprintf("%s(%s)", c.name, c.shape)
	}
	return "variant { " + strings.Join(parts, ", ") + " }"
}

func (s *sum[S]) IndexOf(v S) (index.Index, error) {
	for k, c := range s.cases {
		i, ok, err := c.match(v)
		if err != nil {
			return index.Index{}, errors.Within(err, c.name)
		}
		if !ok {
			continue
		}
		r, ok := s.bases[k].CheckedAdd(i)
		if !ok {
			return index.Index{}, overflow(errors.PhaseEncode, v, s)
		}
		return r, nil
	}
	return index.Index{}, errors.InvalidValue(errors.PhaseEncode, v, s.String(), "no case matches value")
}

func (s *sum[S]) ValueAt(i index.Index) (S, error) {
	var zero S
	if err := checkRange(i, s.card, s); err != nil {
		return zero, err
	}
	for k, c := range s.cases {
		if !i.Less(s.bases[k].Add(c.card)) {
			continue
		}
		local, ok := i.Sub(s.bases[k])
		if !ok {
			break
		}
		v, err := c.build(local)
		if err != nil {
			return zero, errors.Within(err, c.name)
		}
		return v, nil
	}
	return zero, errors.OutOfRange(errors.PhaseDecode, i, s.card, s.String())
}
