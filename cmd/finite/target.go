package main

import (
	"iter"

	"lukechampine.com/uint128"

	finiterepr "github.com/wippyai/finite-repr"
	"github.com/wippyai/finite-repr/backend"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
	"github.com/wippyai/finite-repr/witshape"
)

// target is a backend family chosen at run time. Encodings cross the
// command line as decimal strings.
type target interface {
	backend.Descriptor

	Encode(n *witshape.Node, v any) (string, error)
	Decode(n *witshape.Node, s string) (any, error)
	// At returns the encoding and value of the inhabitant at index i.
	At(n *witshape.Node, i index.Index) (string, any, error)
	// Index parses an encoding and returns its index.
	Index(s string) (index.Index, error)
	Values(n *witshape.Node) iter.Seq2[string, any]
	Fits(n *witshape.Node) bool
}

type family[T any] struct {
	backend.Family[T]
}

func lookupTarget(name string) (target, error) {
	d, err := backend.Lookup(name)
	if err != nil {
		return nil, err
	}
	switch f := d.(type) {
	case backend.Family[uint8]:
		return family[uint8]{f}, nil
	case backend.Family[uint16]:
		return family[uint16]{f}, nil
	case backend.Family[uint32]:
		return family[uint32]{f}, nil
	case backend.Family[uint64]:
		return family[uint64]{f}, nil
	case backend.Family[uint128.Uint128]:
		return family[uint128.Uint128]{f}, nil
	case backend.Family[int8]:
		return family[int8]{f}, nil
	case backend.Family[int16]:
		return family[int16]{f}, nil
	case backend.Family[int32]:
		return family[int32]{f}, nil
	case backend.Family[int64]:
		return family[int64]{f}, nil
	}
	return nil, errors.Unsupported(errors.PhaseCLI, "backend "+d.Name())
}

func (f family[T]) Encode(n *witshape.Node, v any) (string, error) {
	t, err := finiterepr.EncodeWith[T, any](f.Family, n, v)
	if err != nil {
		return "", err
	}
	return f.Format(t), nil
}

func (f family[T]) parse(s string) (T, error) {
	t, err := f.Parse(s)
	if err != nil {
		return t, errors.New(errors.PhaseCLI, errors.KindInvalidInput).
			Value(s).
			Cause(err).
			Detail("not a %s value", f.Name()).
			Build()
	}
	return t, nil
}

func (f family[T]) Decode(n *witshape.Node, s string) (any, error) {
	t, err := f.parse(s)
	if err != nil {
		return nil, err
	}
	return finiterepr.DecodeWith[T, any](f.Family, n, t)
}

func (f family[T]) At(n *witshape.Node, i index.Index) (string, any, error) {
	t, ok := f.FromIndex(i)
	if !ok {
		return "", nil, errors.Overflow(errors.PhaseEncode, i, f.Name())
	}
	v, err := finiterepr.DecodeWith[T, any](f.Family, n, t)
	if err != nil {
		return "", nil, err
	}
	return f.Format(t), v, nil
}

func (f family[T]) Index(s string) (index.Index, error) {
	t, err := f.parse(s)
	if err != nil {
		return index.Index{}, err
	}
	i, ok := f.ToIndex(t)
	if !ok {
		return index.Index{}, errors.Overflow(errors.PhaseDecode, s, "index domain")
	}
	return i, nil
}

func (f family[T]) Values(n *witshape.Node) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for t, v := range finiterepr.ValuesWith[T, any](f.Family, n) {
			if !yield(f.Format(t), v) {
				return
			}
		}
	}
}

func (f family[T]) Fits(n *witshape.Node) bool {
	return finiterepr.Fits[T, any](f.Family, n)
}
