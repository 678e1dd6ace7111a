package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompoundAddDuplicateRejected(t *testing.T) {
	c := NewCompound("root")
	a, _ := NewInt("x", 1)
	require.NoError(t, c.Add(a, false))

	b, _ := NewInt("x", 2)
	err := c.Add(b, false)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestCompoundAddReplacePreservesPosition(t *testing.T) {
	c := NewCompound("root")
	a, _ := NewInt("a", 1)
	b, _ := NewInt("b", 2)
	d, _ := NewInt("d", 3)
	require.NoError(t, c.Add(a, false))
	require.NoError(t, c.Add(b, false))
	require.NoError(t, c.Add(d, false))

	replacement, _ := NewInt("b", 99)
	require.NoError(t, c.Add(replacement, true))

	tags := c.Tags()
	require.Len(t, tags, 3)
	require.Equal(t, "a", tags[0].Name())
	require.Equal(t, "b", tags[1].Name())
	require.Equal(t, "d", tags[2].Name())
	require.Equal(t, int32(99), tags[1].(*IntTag).Value())
}

func TestCompoundRemoveIsIdempotent(t *testing.T) {
	c := NewCompound("root")
	a, _ := NewInt("a", 1)
	require.NoError(t, c.Add(a, false))

	c.Remove("a")
	require.Nil(t, c.Get("a"))
	c.Remove("a") // second removal must not panic
}

func TestCompoundRequire(t *testing.T) {
	c := NewCompound("root")
	a, _ := NewInt("a", 1)
	require.NoError(t, c.Add(a, false))

	tag, err := c.Require("a")
	require.NoError(t, err)
	require.Equal(t, int32(1), tag.(*IntTag).Value())

	_, err = c.Require("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompoundContains(t *testing.T) {
	c := NewCompound("root")
	name, _ := NewString("name", "Steve")
	health, _ := NewFloat("health", 20)
	require.NoError(t, c.Add(name, false))
	require.NoError(t, c.Add(health, false))

	require.True(t, c.Contains(map[string]any{"name": "Steve"}))
	require.True(t, c.Contains(map[string]any{"name": nil}))
	require.False(t, c.Contains(map[string]any{"name": "Alex"}))
	require.False(t, c.Contains(map[string]any{"absent": "anything"}))
}

func TestCompoundContainsNested(t *testing.T) {
	inner := NewCompound("pos")
	x, _ := NewInt("x", 5)
	require.NoError(t, inner.Add(x, false))

	outer := NewCompound("root")
	require.NoError(t, outer.Add(inner, false))

	require.True(t, outer.Contains(map[string]any{
		"pos": map[string]any{"x": int32(5)},
	}))
	require.False(t, outer.Contains(map[string]any{
		"pos": map[string]any{"x": int32(6)},
	}))
}

func TestCompoundToDict(t *testing.T) {
	c := NewCompound("root")
	a, _ := NewInt("a", 7)
	s, _ := NewString("s", "hi")
	require.NoError(t, c.Add(a, false))
	require.NoError(t, c.Add(s, false))

	dict := c.ToDict()
	require.Equal(t, int32(7), dict["a"])
	require.Equal(t, "hi", dict["s"])
}

func TestCompoundMergeKeep(t *testing.T) {
	dst := NewCompound("root")
	a, _ := NewInt("a", 1)
	require.NoError(t, dst.Add(a, false))

	src := NewCompound("root")
	a2, _ := NewInt("a", 99)
	b, _ := NewInt("b", 2)
	require.NoError(t, src.Add(a2, false))
	require.NoError(t, src.Add(b, false))

	require.NoError(t, dst.Merge(src, MergeKeep, true))
	require.Equal(t, int32(1), dst.Get("a").(*IntTag).Value(), "keep mode must not overwrite existing values")
	require.Equal(t, int32(2), dst.Get("b").(*IntTag).Value(), "keep mode still copies absent names")
}

func TestCompoundMergeUpdate(t *testing.T) {
	dst := NewCompound("root")
	a, _ := NewInt("a", 1)
	require.NoError(t, dst.Add(a, false))

	src := NewCompound("root")
	a2, _ := NewInt("a", 99)
	b, _ := NewInt("b", 2)
	require.NoError(t, src.Add(a2, false))
	require.NoError(t, src.Add(b, false))

	require.NoError(t, dst.Merge(src, MergeUpdate, true))
	require.Equal(t, int32(99), dst.Get("a").(*IntTag).Value())
	require.Nil(t, dst.Get("b"), "update mode must not introduce names absent from the destination")
}

func TestCompoundMergeReplace(t *testing.T) {
	dst := NewCompound("root")
	a, _ := NewString("a", "old")
	require.NoError(t, dst.Add(a, false))

	src := NewCompound("root")
	a2, _ := NewInt("a", 5) // deliberately a different tag type
	require.NoError(t, src.Add(a2, false))

	require.NoError(t, dst.Merge(src, MergeReplace, true))
	require.Equal(t, IDInt, dst.Get("a").ID(), "replace mode swaps in the source tag regardless of type")
}

func TestCompoundMergeRecursive(t *testing.T) {
	dstInner := NewCompound("pos")
	dx, _ := NewInt("x", 1)
	require.NoError(t, dstInner.Add(dx, false))
	dst := NewCompound("root")
	require.NoError(t, dst.Add(dstInner, false))

	srcInner := NewCompound("pos")
	sy, _ := NewInt("y", 2)
	require.NoError(t, srcInner.Add(sy, false))
	src := NewCompound("root")
	require.NoError(t, src.Add(srcInner, false))

	require.NoError(t, dst.Merge(src, MergeMerge, true))
	pos := dst.Get("pos").(*CompoundTag)
	require.Equal(t, int32(1), pos.Get("x").(*IntTag).Value())
	require.Equal(t, int32(2), pos.Get("y").(*IntTag).Value())
}

func TestCompoundEqualIgnoresOrder(t *testing.T) {
	a := NewCompound("root")
	x, _ := NewInt("x", 1)
	y, _ := NewInt("y", 2)
	require.NoError(t, a.Add(x, false))
	require.NoError(t, a.Add(y, false))

	b := NewCompound("root")
	y2, _ := NewInt("y", 2)
	x2, _ := NewInt("x", 1)
	require.NoError(t, b.Add(y2, false))
	require.NoError(t, b.Add(x2, false))

	require.True(t, a.Equal(b))
}

func TestCompoundClone(t *testing.T) {
	c := NewCompound("root")
	x, _ := NewInt("x", 1)
	require.NoError(t, c.Add(x, false))

	clone := c.Clone().(*CompoundTag)
	require.True(t, c.Equal(clone))

	_ = clone.Get("x").(*IntTag).SetValue(99)
	require.NotEqual(t, clone.Get("x").(*IntTag).Value(), c.Get("x").(*IntTag).Value(), "clone must be independent of the original")
}
