package finiterepr

import (
	"fmt"
)

// Option is the shape of *A where nil is None. Present values keep the
// index they have in a; None takes index card(a), one past the last of
// them.
func Option[A any](a Shape[A]) Shape[*A] {
	return Sum(
		fmt.Sprintf("option<%s>", a),
		Case("some", a,
			func(p *A) (A, bool) {
				if p == nil {
					var zero A
					return zero, false
				}
				return *p, true
			},
			func(v A) *A { return &v }),
		Case("none", Unit(),
			func(p *A) (struct{}, bool) { return struct{}{}, p == nil },
			func(struct{}) *A { return nil }),
	)
}

// Some returns a pointer to v, for building Option values inline.
func Some[A any](v A) *A {
	return &v
}
