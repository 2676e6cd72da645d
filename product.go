package finiterepr

import (
	"fmt"
	"strings"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Field is one component of a product over the Go type S.
type Field[S any] struct {
	name  string
	shape string
	card  index.Index
	index func(S) (index.Index, error)
	set   func(*S, index.Index) error
}

// Name returns the field name.
func (f Field[S]) Name() string { return f.name }

// FieldOf describes a component of S with shape s, read by get and
// written by set.
func FieldOf[S, F any](name string, s Shape[F], get func(S) F, set func(*S, F)) Field[S] {
	return Field[S]{
		name:  name,
		shape: s.String(),
		card:  s.Cardinality(),
		index: func(v S) (index.Index, error) {
			return s.IndexOf(get(v))
		},
		set: func(dst *S, i index.Index) error {
			fv, err := s.ValueAt(i)
			if err != nil {
				return err
			}
			set(dst, fv)
			return nil
		},
	}
}

type product[S any] struct {
	name   string
	fields []Field[S]
	card   index.Index
	init   func() S
}

// Struct is the product of fields in declaration order. The first field is
// the least significant digit of the mixed-radix index:
//
//	idx = d0 + c0*d1 + c0*c1*d2 + ...
//
// where d_k is the index of field k and c_k its cardinality.
// A product with no fields has exactly one inhabitant.
func Struct[S any](name string, fields ...Field[S]) Shape[S] {
	return StructWith(name, nil, fields...)
}

// StructWith is Struct with a constructor for the zero value that decoding
// starts from. Use it when the zero value of S is not writable, as with maps.
func StructWith[S any](name string, init func() S, fields ...Field[S]) Shape[S] {
	card := index.One()
	for _, f := range fields {
		card = card.Mul(f.card)
	}
	return &product[S]{
		name:   name,
		fields: append([]Field[S](nil), fields...),
		card:   card,
		init:   init,
	}
}

func (p *product[S]) Cardinality() index.Index { return p.card }

func (p *product[S]) String() string {
	if p.name != "" {
		return p.name
	}
	parts := make([]string, len(p.fields))
	for i, f := range p.fields {
		parts[i] = f.name + ": " + f.shape
	}
	return "record { " + strings.Join(parts, ", ") + " }"
}

func (p *product[S]) IndexOf(v S) (index.Index, error) {
	acc := index.Zero()
	radix := index.One()
	for k, f := range p.fields {
		d, err := f.index(v)
		if err != nil {
			return index.Index{}, errors.Within(err, f.name)
		}
		term, ok := radix.CheckedMul(d)
		if !ok {
			return index.Index{}, overflow(errors.PhaseEncode, v, p)
		}
		if acc, ok = acc.CheckedAdd(term); !ok {
			return index.Index{}, overflow(errors.PhaseEncode, v, p)
		}
		if k < len(p.fields)-1 {
			// saturates; only matters if a later digit is non-zero
			radix = radix.Mul(f.card)
		}
	}
	return acc, nil
}

func (p *product[S]) ValueAt(i index.Index) (S, error) {
	var v S
	if p.init != nil {
		v = p.init()
	}
	if err := checkRange(i, p.card, p); err != nil {
		return v, err
	}
	rest := i
	for k, f := range p.fields {
		digit := rest
		if k < len(p.fields)-1 {
			q, r, ok := rest.QuoRem(f.card)
			if !ok {
				return v, errors.OutOfRange(errors.PhaseDecode, i, p.card, p.String())
			}
			digit, rest = r, q
		}
		if err := f.set(&v, digit); err != nil {
			return v, errors.Within(err, f.name)
		}
	}
	return v, nil
}

// Pair is a two-element tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is a three-element tuple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

func (p Pair[A, B]) String() string { return fmt.Sprintf("(%v, %v)", p.First, p.Second) }

func (t Triple[A, B, C]) String() string {
	return fmt.Sprintf("(%v, %v, %v)", t.First, t.Second, t.Third)
}

// Tuple2 is the product shape of a and b.
func Tuple2[A, B any](a Shape[A], b Shape[B]) Shape[Pair[A, B]] {
	return Struct(
		fmt.Sprintf("tuple<%s, %s>", a, b),
		FieldOf("0", a,
			func(p Pair[A, B]) A { return p.First },
			func(p *Pair[A, B], v A) { p.First = v }),
		FieldOf("1", b,
			func(p Pair[A, B]) B { return p.Second },
			func(p *Pair[A, B], v B) { p.Second = v }),
	)
}

// Tuple3 is the product shape of a, b and c.
func Tuple3[A, B, C any](a Shape[A], b Shape[B], c Shape[C]) Shape[Triple[A, B, C]] {
	return Struct(
		fmt.Sprintf("tuple<%s, %s, %s>", a, b, c),
		FieldOf("0", a,
			func(t Triple[A, B, C]) A { return t.First },
			func(t *Triple[A, B, C], v A) { t.First = v }),
		FieldOf("1", b,
			func(t Triple[A, B, C]) B { return t.Second },
			func(t *Triple[A, B, C], v B) { t.Second = v }),
		FieldOf("2", c,
			func(t Triple[A, B, C]) C { return t.Third },
			func(t *Triple[A, B, C], v C) { t.Third = v }),
	)
}
