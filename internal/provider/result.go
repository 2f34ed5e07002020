// Package provider contains the best-effort external data clients.
// Every call collapses transport and parse failures into an
// unavailable Result; no error crosses an adapter boundary.
package provider

// Result carries the outcome of a fail-soft provider call.
type Result[T any] struct {
	Value T
	OK    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v, OK: true} }

// Unavailable is the zero outcome of a failed or empty call.
func Unavailable[T any]() Result[T] { return Result[T]{} }
