package clock

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Structs

// Comparer orders two clock literals. Compare returns -1 if
// a precedes b, 1 if a follows b and 0 otherwise.
type Comparer[L any] interface {
	Compare(a L, b L) int
}

// Clock is a logical time source producing literals of type L.
type Clock[L any] interface {
	Comparer[L]

	// ID returns the replica id this clock belongs to.
	ID() int

	// Tick advances the clock by one local step. It is
	// driven by local writes and by send events.
	Tick()

	// Tock reacts to a literal received from another
	// replica and then behaves like Tick.
	Tock(other L)

	// Literal returns an immutable snapshot of the clock.
	Literal() L

	// Freeze suspends the effect of Tick and Tock until
	// Unfreeze is called.
	Freeze()
	Unfreeze()
	Frozen() bool
}

// Kind names one of the available clock implementations.
type Kind string

const (
	KindSystem Kind = "system"
	KindVector Kind = "vector"
)

// Option configures a clock during construction.
type Option func(*options)

type options struct {
	orderByID bool
	now       func() time.Time
}

// base carries the state shared by all clock implementations.
type base struct {
	id        int
	orderByID bool
	frozen    bool
}

// Functions

// WithOrderByID controls whether the replica id is used to
// break ties between equal or concurrent moments. Ordering
// by id is enabled by default.
func WithOrderByID(orderByID bool) Option {
	return func(o *options) {
		o.orderByID = orderByID
	}
}

// WithNow replaces the wall clock read by a SystemClock.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) *options {

	o := &options{
		orderByID: true,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// ParseKind maps a configuration string onto a Kind.
func ParseKind(s string) (Kind, error) {

	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSystem:
		return KindSystem, nil
	case KindVector:
		return KindVector, nil
	}

	return "", errors.Errorf("unknown clock kind '%s'", s)
}

// ID returns the replica id of the clock.
func (b *base) ID() int {
	return b.id
}

// Freeze stops ticking.
func (b *base) Freeze() {
	b.frozen = true
}

// Unfreeze resumes ticking.
func (b *base) Unfreeze() {
	b.frozen = false
}

// Frozen reports whether ticking is suspended.
func (b *base) Frozen() bool {
	return b.frozen
}

// compareIDs breaks a tie between two moments by replica id.
func compareIDs(a int, b int, orderByID bool) int {

	if !orderByID {
		return 0
	}

	if a < b {
		return -1
	}

	if a > b {
		return 1
	}

	return 0
}
