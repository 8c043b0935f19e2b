// Package safe provides absence-tolerant helpers for data coming off the
// wire. Every function accepts a nil slice or a missing value and behaves as
// if given an empty collection or a type-appropriate default instead of
// panicking. All functions are pure.
package safe

import (
	"fmt"
	"sort"
	"time"
)

// Array returns v unchanged, or an empty slice when v is nil.
func Array[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Slice returns v[start:end] clamped to valid bounds.
func Slice[T any](v []T, start, end int) []T {
	arr := Array(v)
	if start < 0 {
		start = 0
	}
	if end > len(arr) {
		end = len(arr)
	}
	if start >= end {
		return []T{}
	}
	return arr[start:end]
}

// Filter returns the elements of v for which pred is true.
func Filter[T any](v []T, pred func(T) bool) []T {
	out := []T{}
	for _, e := range Array(v) {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Map applies fn to every element of v.
func Map[T, U any](v []T, fn func(T) U) []U {
	arr := Array(v)
	out := make([]U, 0, len(arr))
	for _, e := range arr {
		out = append(out, fn(e))
	}
	return out
}

// Reduce folds v into a single value starting from init.
func Reduce[T, U any](v []T, fn func(U, T) U, init U) U {
	acc := init
	for _, e := range Array(v) {
		acc = fn(acc, e)
	}
	return acc
}

// Find returns the first element matching pred.
func Find[T any](v []T, pred func(T) bool) (T, bool) {
	for _, e := range Array(v) {
		if pred(e) {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// Some reports whether any element matches pred.
func Some[T any](v []T, pred func(T) bool) bool {
	_, ok := Find(v, pred)
	return ok
}

// Every reports whether all elements match pred. True for an empty slice.
func Every[T any](v []T, pred func(T) bool) bool {
	for _, e := range Array(v) {
		if !pred(e) {
			return false
		}
	}
	return true
}

// Sort returns a new slice ordered by less. The input is never mutated and
// the sort is stable.
func Sort[T any](v []T, less func(a, b T) bool) []T {
	arr := Array(v)
	out := make([]T, len(arr))
	copy(out, arr)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Length returns len of the array-coerced input.
func Length[T any](v []T) int {
	return len(Array(v))
}

// IsEmpty reports whether the array-coerced input has no elements.
func IsEmpty[T any](v []T) bool {
	return Length(v) == 0
}

// IsNotEmpty reports whether the array-coerced input has elements.
func IsNotEmpty[T any](v []T) bool {
	return Length(v) > 0
}

// Number coerces v to a float64, returning def when the value is absent or
// not numeric. Numeric JSON values decode as float64, but payloads sometimes
// carry numbers as strings, so those are parsed too.
func Number(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f
		}
		return def
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return def
	}
}

// String coerces v to a string. Only an absent value yields def; any other
// value is stringified.
func String(v any, def string) string {
	if v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Date parses v as a calendar date (YYYY-MM-DD, or RFC 3339 from which the
// date part is taken). Unparseable input yields def, or the current time
// when def is the zero value.
func Date(v string, def time.Time) time.Time {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if def.IsZero() {
		return time.Now()
	}
	return def
}

// Get traverses a dotted path through nested map[string]any values,
// short-circuiting to def at the first missing or non-map segment.
func Get(obj map[string]any, path string, def any) any {
	if obj == nil || path == "" {
		return def
	}
	current := any(obj)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i != len(path) && path[i] != '.' {
			continue
		}
		key := path[start:i]
		start = i + 1
		m, ok := current.(map[string]any)
		if !ok {
			return def
		}
		current, ok = m[key]
		if !ok || current == nil {
			return def
		}
	}
	return current
}
