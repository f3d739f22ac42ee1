package crdt

import (
	"strings"

	"github.com/pkg/errors"
)

// Bias decides presence when the add-set item and the
// remove-set item of an element carry equal clocks.
type Bias int

const (
	// BiasRemove reports such elements as absent. It is
	// the zero value and thus the default.
	BiasRemove Bias = iota

	// BiasAdd reports such elements as present.
	BiasAdd
)

// ParseBias maps "add" or "remove" onto a Bias.
func ParseBias(s string) (Bias, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "remove":
		return BiasRemove, nil
	case "add":
		return BiasAdd, nil
	}

	return BiasRemove, errors.Errorf("unknown bias '%s'", s)
}

func (b Bias) String() string {

	if b == BiasAdd {
		return "add"
	}

	return "remove"
}
