package clock

import (
	"fmt"
	"time"
)

// Structs

// SystemLiteral is a snapshot of a SystemClock: the
// replica id and a Unix timestamp in milliseconds.
type SystemLiteral struct {
	ID int   `json:"id"`
	TS int64 `json:"ts"`
}

// SystemClock stamps moments with the wall clock. Equal
// timestamps are ordered by replica id if enabled.
type SystemClock struct {
	base
	ts  int64
	now func() time.Time
}

// Functions

// NewSystemClock returns a clock for replica id set
// to the current wall clock reading.
func NewSystemClock(id int, opts ...Option) *SystemClock {

	o := buildOptions(opts)

	return &SystemClock{
		base: base{
			id:        id,
			orderByID: o.orderByID,
		},
		ts:  o.now().UnixMilli(),
		now: o.now,
	}
}

// SystemClockFromLiteral restores a clock from a snapshot.
func SystemClockFromLiteral(lit SystemLiteral, opts ...Option) *SystemClock {

	c := NewSystemClock(lit.ID, opts...)
	c.ts = lit.TS

	return c
}

// CompareSystem orders two system clock literals by
// timestamp, then by replica id if orderByID is set.
func CompareSystem(a SystemLiteral, b SystemLiteral, orderByID bool) int {

	if a.TS < b.TS {
		return -1
	}

	if a.TS > b.TS {
		return 1
	}

	return compareIDs(a.ID, b.ID, orderByID)
}

// Compare implements Comparer.
func (c *SystemClock) Compare(a SystemLiteral, b SystemLiteral) int {
	return CompareSystem(a, b, c.orderByID)
}

// Tick sets the timestamp to the current wall clock reading.
func (c *SystemClock) Tick() {

	if c.frozen {
		return
	}

	c.ts = c.now().UnixMilli()
}

// Tock ignores the payload of other, wall time being
// independently authoritative, and ticks.
func (c *SystemClock) Tock(other SystemLiteral) {
	c.Tick()
}

// Literal returns a snapshot of the clock.
func (c *SystemClock) Literal() SystemLiteral {

	return SystemLiteral{
		ID: c.id,
		TS: c.ts,
	}
}

// String returns "id@ts" for logging.
func (l SystemLiteral) String() string {
	return fmt.Sprintf("%d@%d", l.ID, l.TS)
}
