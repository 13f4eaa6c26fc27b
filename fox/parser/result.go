package parser

type outcome int

const (
	outcomeNotFound outcome = iota
	outcomeFound
	outcomeFailed
)

// Result is what every grammar rule returns.
//
// A rule that is not found consumed nothing, so the caller may try an
// alternative. A failed rule consumed tokens and already reported its
// diagnostic; callers never report it again.
type Result[T any] struct {
	value   T
	outcome outcome
}

func Found[T any](v T) Result[T] {
	return Result[T]{value: v, outcome: outcomeFound}
}

func NotFound[T any]() Result[T] {
	return Result[T]{outcome: outcomeNotFound}
}

func Failed[T any]() Result[T] {
	return Result[T]{outcome: outcomeFailed}
}

func (r Result[T]) IsFound() bool    { return r.outcome == outcomeFound }
func (r Result[T]) IsNotFound() bool { return r.outcome == outcomeNotFound }
func (r Result[T]) IsFailed() bool   { return r.outcome == outcomeFailed }

// Value returns the parsed value, or the zero value unless IsFound.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) String() string {
	switch r.outcome {
	case outcomeFound:
		return "found"
	case outcomeFailed:
		return "failed"
	}
	return "not found"
}
