package utils

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mohae/deepcopy"
)

// Variables

// equalOpts make cmp.Equal behave as a total structural
// comparison: unexported fields are compared instead of
// causing a panic, and NaN is considered equal to NaN.
var equalOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateNaNs(),
}

// Functions

// Equal reports whether a and b are structurally equal.
// Values with differing dynamic types are unequal, instants
// such as time.Time compare by their Equal method, slices
// compare element-wise in order and maps compare by key set
// and then value by value.
func Equal(a interface{}, b interface{}) bool {
	return cmp.Equal(a, b, equalOpts...)
}

// Clone returns a deep copy of v. Pointers, slices and
// maps reachable from v are duplicated, nil stays nil.
func Clone[T any](v T) T {

	c, ok := deepcopy.Copy(v).(T)
	if !ok {
		var zero T
		return zero
	}

	return c
}
