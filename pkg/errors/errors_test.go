package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeSchema, "weight field missing")
	assert.Equal(t, "schema: weight field missing", err.Error())
	assert.True(t, IsType(err, ErrorTypeSchema))
	assert.False(t, IsType(err, ErrorTypeConfig))
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("open failed")
	err := Wrap(cause, ErrorTypeStore, "cannot read record")

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store: cannot read record: open failed", err.Error())

	// Wrapping our own error keeps the original stack
	outer := Wrap(err, ErrorTypeInternal, "pipeline aborted")
	assert.Equal(t, err.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeInternal))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeStore, "ignored"))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeData, "zero weight mass").
		WithDetail("simulation", "sim-a").
		WithDetail("stride", 10)

	assert.Equal(t, "sim-a", err.Details["simulation"])
	assert.Equal(t, 10, err.Details["stride"])
}
