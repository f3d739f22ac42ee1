package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// Structs

// VectorLiteral is a snapshot of a VectorClock. Times[i]
// holds the knowledge about events of replica i.
type VectorLiteral struct {
	ID    int      `json:"id"`
	Times []uint64 `json:"times"`
}

// VectorClock orders moments causally. Identical and
// concurrent moments are ordered by replica id if enabled,
// projecting the partial order onto a total one.
type VectorClock struct {
	base
	times []uint64
}

// Functions

// NewVectorClock returns a zeroed clock for replica id
// in a system of length replicas.
func NewVectorClock(id int, length int, opts ...Option) *VectorClock {

	o := buildOptions(opts)

	if length < 0 {
		length = 0
	}

	return &VectorClock{
		base: base{
			id:        id,
			orderByID: o.orderByID,
		},
		times: make([]uint64, length),
	}
}

// VectorClockFromLiteral restores a clock from a snapshot.
// The vector is copied.
func VectorClockFromLiteral(lit VectorLiteral, opts ...Option) *VectorClock {

	c := NewVectorClock(lit.ID, 0, opts...)
	c.times = copyTimes(lit.Times)

	return c
}

// CompareVector orders two vector clock literals causally
// over their overlapping prefix and falls back to the
// replica id if orderByID is set.
func CompareVector(a VectorLiteral, b VectorLiteral, orderByID bool) int {

	if isBefore(a.Times, b.Times) {
		return -1
	}

	if isBefore(b.Times, a.Times) {
		return 1
	}

	return compareIDs(a.ID, b.ID, orderByID)
}

// isBefore reports whether every component of a is less
// than or equal to the one in b with at least one strictly
// less. Indices past the shorter vector are ignored.
func isBefore(a []uint64, b []uint64) bool {

	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	before := false

	for i := 0; i < length; i++ {

		if a[i] > b[i] {
			return false
		}

		if a[i] < b[i] {
			before = true
		}
	}

	return before
}

func copyTimes(times []uint64) []uint64 {

	if times == nil {
		return []uint64{}
	}

	c := make([]uint64, len(times))
	copy(c, times)

	return c
}

// Len returns the number of replicas tracked.
func (c *VectorClock) Len() int {
	return len(c.times)
}

// Compare implements Comparer.
func (c *VectorClock) Compare(a VectorLiteral, b VectorLiteral) int {
	return CompareVector(a, b, c.orderByID)
}

// Tick increments the own component. An id outside
// the vector bounds leaves the clock untouched.
func (c *VectorClock) Tick() {

	if c.frozen {
		return
	}

	if c.id < 0 || c.id >= len(c.times) {
		return
	}

	c.times[c.id]++
}

// Tock ticks and then takes the component-wise maximum
// with other over the overlapping prefix.
func (c *VectorClock) Tock(other VectorLiteral) {

	c.Tick()

	if c.frozen {
		return
	}

	length := len(c.times)
	if len(other.Times) < length {
		length = len(other.Times)
	}

	for i := 0; i < length; i++ {

		if other.Times[i] > c.times[i] {
			c.times[i] = other.Times[i]
		}
	}
}

// Literal returns a snapshot of the clock that does
// not share the underlying vector.
func (c *VectorClock) Literal() VectorLiteral {

	return VectorLiteral{
		ID:    c.id,
		Times: copyTimes(c.times),
	}
}

// String returns "id@[t0 t1 ...]" for logging.
func (l VectorLiteral) String() string {

	parts := make([]string, len(l.Times))
	for i, t := range l.Times {
		parts[i] = strconv.FormatUint(t, 10)
	}

	return fmt.Sprintf("%d@[%s]", l.ID, strings.Join(parts, " "))
}
