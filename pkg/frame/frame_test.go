package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumetab/plumetab/pkg/errors"
)

func TestAddColumn(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("phi0", []float64{1, 2, 3}))
	assert.Equal(t, 3, f.Len())

	t.Run("length mismatch", func(t *testing.T) {
		err := f.AddFloats("psi0", []float64{1, 2})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := f.AddFloats("phi0", []float64{4, 5, 6})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	})

	vals, ok := f.Floats("phi0")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, vals)
}

func TestDropColumn(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("a", []float64{1}))
	require.NoError(t, f.AddFloats("b", []float64{2}))

	f.DropColumn("a")
	assert.Equal(t, []string{"b"}, f.Columns())
	f.DropColumn("does-not-exist")
	assert.Equal(t, []string{"b"}, f.Columns())
}

func TestAppendLevel(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("obs", []float64{1, 2}))
	require.NoError(t, f.AppendLevel("ff", []Label{StringLabel("a"), StringLabel("b")}))

	assert.Equal(t, []string{"ff"}, f.LevelNames())
	err := f.AppendLevel("res_nr", []Label{IntLabel(0)})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestConcatOuterAlignment(t *testing.T) {
	a := New()
	require.NoError(t, a.AddFloats("phi0", []float64{1, 2}))
	require.NoError(t, a.AddFloats("chi0", []float64{10, 20}))

	b := New()
	require.NoError(t, b.AddFloats("phi0", []float64{3}))

	out, err := Concat([]*Frame{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())

	phi, _ := out.Floats("phi0")
	assert.Equal(t, []float64{1, 2, 3}, phi)

	// chi0 is absent from b: the gap is NaN, never zero.
	chi, _ := out.Floats("chi0")
	assert.Equal(t, []float64{10, 20}, chi[:2])
	assert.True(t, math.IsNaN(chi[2]))
}

func TestConcatLevelMismatch(t *testing.T) {
	a := New()
	require.NoError(t, a.AddFloats("x", []float64{1}))
	require.NoError(t, a.AppendLevel("ff", []Label{StringLabel("a")}))

	b := New()
	require.NoError(t, b.AddFloats("x", []float64{2}))

	_, err := Concat([]*Frame{a, b})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestConcatTypeConflict(t *testing.T) {
	a := New()
	require.NoError(t, a.AddFloats("x", []float64{1}))

	b := New()
	require.NoError(t, b.AddStrings("x", []string{"oops"}))

	_, err := Concat([]*Frame{a, b})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestSortIndex(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("obs", []float64{4, 3, 2, 1}))
	require.NoError(t, f.AddStrings("tag", []string{"d", "c", "b", "a"}))
	require.NoError(t, f.AppendLevel("time", []Label{
		FloatLabel(2), FloatLabel(1), FloatLabel(2), FloatLabel(1),
	}))
	require.NoError(t, f.AppendLevel("res_nr", []Label{
		IntLabel(1), IntLabel(1), IntLabel(0), IntLabel(0),
	}))

	f.SortIndex()

	obs, _ := f.Floats("obs")
	assert.Equal(t, []float64{1, 3, 2, 4}, obs)
	tag, _ := f.Strings("tag")
	assert.Equal(t, []string{"a", "c", "b", "d"}, tag)

	lvl := f.Level(0)
	assert.Equal(t, 1.0, lvl.Labels[0].Float())
	assert.Equal(t, 2.0, lvl.Labels[3].Float())
}

func TestSortIndexStable(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("obs", []float64{1, 2, 3}))
	require.NoError(t, f.AppendLevel("ff", []Label{
		StringLabel("a"), StringLabel("a"), StringLabel("a"),
	}))

	f.SortIndex()
	obs, _ := f.Floats("obs")
	assert.Equal(t, []float64{1, 2, 3}, obs)
}

func TestSortColumns(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("psi", []float64{1}))
	require.NoError(t, f.AddFloats("phi", []float64{1}))
	require.NoError(t, f.AddFloats("ene", []float64{1}))

	f.SortColumns()
	assert.Equal(t, []string{"ene", "phi", "psi"}, f.Columns())
}

func TestLabelCompare(t *testing.T) {
	assert.Negative(t, StringLabel("a").Compare(StringLabel("b")))
	assert.Positive(t, IntLabel(3).Compare(IntLabel(-1)))
	assert.Zero(t, FloatLabel(1.5).Compare(FloatLabel(1.5)))
	// Mixed kinds stay totally ordered.
	assert.NotZero(t, StringLabel("a").Compare(IntLabel(1)))
}
