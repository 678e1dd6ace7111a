package nbt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteRejectsOutOfRange(t *testing.T) {
	_, err := NewByte("b", 200)
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestNewShortRejectsOutOfRange(t *testing.T) {
	_, err := NewShort("s", 70000)
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestNewIntRejectsOutOfRange(t *testing.T) {
	_, err := NewInt("i", math.MaxInt32+1)
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestNewFloatRejectsInfinity(t *testing.T) {
	_, err := NewFloat("f", float32(math.Inf(1)))
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestNewDoubleAllowsNaN(t *testing.T) {
	d, err := NewDouble("d", math.NaN())
	require.NoError(t, err)
	require.True(t, math.IsNaN(d.Value()))
}

func TestDoubleEqualTreatsNaNAsEqual(t *testing.T) {
	a, _ := NewDouble("d", math.NaN())
	b, _ := NewDouble("d", math.NaN())
	require.True(t, a.Equal(b))
}

func TestNewStringRejectsInvalidUTF8(t *testing.T) {
	_, err := NewString("s", string([]byte{0xff, 0xfe}))
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestNewStringRejectsOversizedPayload(t *testing.T) {
	_, err := NewString("s", string(make([]byte, 65536)))
	require.ErrorIs(t, err, ErrValueConstraint)
}

func TestScalarCloneIsIndependent(t *testing.T) {
	b, _ := NewByte("b", 1)
	clone := b.Clone().(*ByteTag)
	_ = clone.SetValue(2)
	require.Equal(t, int8(1), b.Value())
	require.Equal(t, int8(2), clone.Value())
}
