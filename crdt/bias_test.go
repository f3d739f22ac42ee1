package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseBias executes a black-box test on ParseBias().
func TestParseBias(t *testing.T) {

	tests := []struct {
		in       string
		expected Bias
		valid    bool
	}{
		{"", BiasRemove, true},
		{"remove", BiasRemove, true},
		{" ADD ", BiasAdd, true},
		{"both", BiasRemove, false},
	}

	for _, tt := range tests {

		b, err := ParseBias(tt.in)
		assert.Equal(t, tt.expected, b)

		if tt.valid {
			assert.Nil(t, err)
		} else {
			assert.EqualError(t, err, "unknown bias '"+tt.in+"'")
		}
	}

	assert.Equal(t, "add", BiasAdd.String())
	assert.Equal(t, "remove", BiasRemove.String())
}
