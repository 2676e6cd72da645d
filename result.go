package finiterepr

import (
	"fmt"
)

// Result holds exactly one of Ok or Err.
type Result[A, B any] struct {
	Ok  *A
	Err *B
}

// Ok returns a successful Result.
func Ok[A, B any](v A) Result[A, B] {
	return Result[A, B]{Ok: &v}
}

// Err returns a failed Result.
func Err[A, B any](v B) Result[A, B] {
	return Result[A, B]{Err: &v}
}

// IsOk reports whether r holds a success value.
func (r Result[A, B]) IsOk() bool { return r.Ok != nil && r.Err == nil }

// IsErr reports whether r holds an error value.
func (r Result[A, B]) IsErr() bool { return r.Err != nil && r.Ok == nil }

func (r Result[A, B]) String() string {
	switch {
	case r.IsOk():
		return fmt.Sprintf("ok(%v)", *r.Ok)
	case r.IsErr():
		return fmt.Sprintf("err(%v)", *r.Err)
	}
	return "invalid result"
}

// ResultOf is the shape of Result values. Ok values occupy
// [0, card(ok)) and Err values follow at [card(ok), card(ok)+card(err)).
// A Result with both or neither side set is not an inhabitant.
func ResultOf[A, B any](ok Shape[A], err Shape[B]) Shape[Result[A, B]] {
	return Sum(
		fmt.Sprintf("result<%s, %s>", ok, err),
		Case("ok", ok,
			func(r Result[A, B]) (A, bool) {
				if !r.IsOk() {
					var zero A
					return zero, false
				}
				return *r.Ok, true
			},
			Ok[A, B]),
		Case("err", err,
			func(r Result[A, B]) (B, bool) {
				if !r.IsErr() {
					var zero B
					return zero, false
				}
				return *r.Err, true
			},
			Err[A, B]),
	)
}
