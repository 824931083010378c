// Package assert provides small test helpers used across the project's tests.
package assert

import (
	"reflect"
	"testing"
)

// Nil fails the test if value is not nil.
func Nil(t testing.TB, value any) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("expected nil, got %v", value)
	}
}

// NotNil fails the test if value is nil.
func NotNil(t testing.TB, value any) {
	t.Helper()
	if isNil(value) {
		t.Fatalf("expected non-nil value")
	}
}

// True fails the test if value is false.
func True(t testing.TB, value bool) {
	t.Helper()
	if !value {
		t.Fatalf("expected true, got false")
	}
}

// False fails the test if value is true.
func False(t testing.TB, value bool) {
	t.Helper()
	if value {
		t.Fatalf("expected false, got true")
	}
}

// Equal fails the test if got and want are not deeply equal.
func Equal[T any](t testing.TB, got, want T) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

// Len fails the test if the slice does not have the expected length.
func Len[T any](t testing.TB, s []T, want int) {
	t.Helper()
	if len(s) != want {
		t.Fatalf("expected length %d, got %d: %#v", want, len(s), s)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
