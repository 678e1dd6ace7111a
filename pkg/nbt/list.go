package nbt

import "fmt"

// ListTag holds an ordered sequence of unnamed tags, all of the same
// variant. The element type is fixed by the first tag ever inserted
// and rejects anything else afterward.
type ListTag struct {
	name     string
	elemType byte
	items    []Tag
}

// NewList creates an empty List tag whose element type is fixed to
// elemType. Pass IDEnd to leave the type undetermined until the first
// Append/Insert.
func NewList(name string, elemType byte) *ListTag {
	return &ListTag{name: name, elemType: elemType}
}

func (t *ListTag) ID() byte          { return IDList }
func (t *ListTag) Name() string      { return t.name }
func (t *ListTag) Len() int          { return len(t.items) }
func (t *ListTag) ElemType() byte    { return t.elemType }
func (t *ListTag) setName(n string)  { t.name = n }

// TagAt returns the element at index i.
func (t *ListTag) TagAt(i int) Tag { return t.items[i] }

// checkElem validates that tag may be inserted into the list, fixing
// the list's element type on the first insertion.
func (t *ListTag) checkElem(tag Tag) error {
	if t.elemType == IDEnd && len(t.items) == 0 {
		t.elemType = tag.ID()
		return nil
	}
	if tag.ID() != t.elemType {
		return fmt.Errorf("%w: list of %s cannot hold %s", ErrTypeMismatch, idName(t.elemType), idName(tag.ID()))
	}
	return nil
}

// Insert places tag at index i, shifting later elements right.
func (t *ListTag) Insert(i int, tag Tag) error {
	if err := t.checkElem(tag); err != nil {
		return err
	}
	tag.setName("")
	t.items = append(t.items, nil)
	copy(t.items[i+1:], t.items[i:])
	t.items[i] = tag
	return nil
}

// Append adds tag to the end of the list.
func (t *ListTag) Append(tag Tag) error { return t.Insert(len(t.items), tag) }

// Prepend adds tag to the beginning of the list.
func (t *ListTag) Prepend(tag Tag) error { return t.Insert(0, tag) }

// Extend appends each of tags in order.
func (t *ListTag) Extend(tags []Tag) error {
	for _, tag := range tags {
		if err := t.Append(tag); err != nil {
			return err
		}
	}
	return nil
}

// Set replaces the element at index i, validating its type the same
// way Insert does.
func (t *ListTag) Set(i int, tag Tag) error {
	if tag.ID() != t.elemType {
		return fmt.Errorf("%w: list of %s cannot hold %s", ErrTypeMismatch, idName(t.elemType), idName(tag.ID()))
	}
	tag.setName("")
	t.items[i] = tag
	return nil
}

// Remove deletes the element at index i.
func (t *ListTag) Remove(i int) {
	t.items = append(t.items[:i], t.items[i+1:]...)
}

// Clear removes all elements from the list, but preserves elemType.
func (t *ListTag) Clear() {
	t.items = nil
}

// Slice returns a new list containing the elements in [lo, hi).
func (t *ListTag) Slice(lo, hi int) *ListTag {
	out := &ListTag{name: t.name, elemType: t.elemType}
	for _, tag := range t.items[lo:hi] {
		out.items = append(out.items, tag.Clone())
	}
	return out
}

// Contains tests if each element of array can be matched to a distinct
// element in the list (scalars by value equality with the template
// value, map and slice templates recursively via the Compound or List
// element's Contains), per the template-matching rule shared with
// Compound.Contains. Matching is greedy: template elements are tried
// in order, each taking the first unused list element that matches,
// with no backtracking.
func (t *ListTag) Contains(array []any) bool {
	usedI := make(map[int]bool)
	usedJ := make(map[int]bool)
	for i := range array {
		if usedI[i] {
			continue
		}
		for j, tag := range t.items {
			if usedJ[j] {
				continue
			}
			if elemMatchesTemplate(tag, array[i]) {
				usedI[i] = true
				usedJ[j] = true
				break
			}
		}
	}
	return len(usedI) == len(array)
}

// Query returns a new list holding the Compound elements that match
// template, in their original order. Only valid when the list's
// element type is Compound.
func (t *ListTag) Query(template map[string]any) (*ListTag, error) {
	if t.elemType != IDCompound && t.elemType != IDEnd {
		return nil, fmt.Errorf("%w: Query requires a list of Compound, got %s", ErrTypeMismatch, idName(t.elemType))
	}
	out := &ListTag{name: t.name, elemType: t.elemType}
	for _, tag := range t.items {
		c, ok := tag.(*CompoundTag)
		if ok && c.Contains(template) {
			out.items = append(out.items, c.Clone())
		}
	}
	return out, nil
}

// elemMatchesTemplate reports whether tag matches the given template
// value: recursively via Contains for Compound/List templates (a
// map[string]any or []any), otherwise by comparing the scalar value.
func elemMatchesTemplate(tag Tag, template any) bool {
	switch v := template.(type) {
	case map[string]any:
		c, ok := tag.(*CompoundTag)
		return ok && c.Contains(v)
	case []any:
		l, ok := tag.(*ListTag)
		return ok && l.Contains(v)
	default:
		return scalarEqual(tag, template)
	}
}

// scalarEqual compares a scalar tag's Go value against an arbitrary
// template value (as produced by ToArray/ToDict's native types).
func scalarEqual(tag Tag, value any) bool {
	switch v := tag.(type) {
	case *ByteTag:
		n, ok := value.(int8)
		return ok && v.value == n
	case *ShortTag:
		n, ok := value.(int16)
		return ok && v.value == n
	case *IntTag:
		n, ok := value.(int32)
		return ok && v.value == n
	case *LongTag:
		n, ok := value.(int64)
		return ok && v.value == n
	case *FloatTag:
		n, ok := value.(float32)
		return ok && v.value == n
	case *DoubleTag:
		n, ok := value.(float64)
		return ok && v.value == n
	case *StringTag:
		n, ok := value.(string)
		return ok && v.value == n
	default:
		return false
	}
}

// ToArray recursively flattens the list into plain Go values: nested
// Compound tags become map[string]any, nested Lists become []any, and
// scalars become their native Go type.
func (t *ListTag) ToArray() []any {
	out := make([]any, len(t.items))
	for i, tag := range t.items {
		out[i] = tagToNative(tag)
	}
	return out
}

func tagToNative(tag Tag) any {
	switch v := tag.(type) {
	case *CompoundTag:
		return v.ToDict()
	case *ListTag:
		return v.ToArray()
	case *ByteTag:
		return v.value
	case *ShortTag:
		return v.value
	case *IntTag:
		return v.value
	case *LongTag:
		return v.value
	case *FloatTag:
		return v.value
	case *DoubleTag:
		return v.value
	case *StringTag:
		return v.value
	case *ByteArrayTag:
		return v.values
	case *IntArrayTag:
		return v.values
	case *LongArrayTag:
		return v.values
	default:
		return nil
	}
}

func (t *ListTag) Clone() Tag {
	out := &ListTag{name: t.name, elemType: t.elemType}
	out.items = make([]Tag, len(t.items))
	for i, tag := range t.items {
		out.items[i] = tag.Clone()
	}
	return out
}

func (t *ListTag) Equal(other Tag) bool {
	o, ok := other.(*ListTag)
	if !ok || o.name != t.name || o.elemType != t.elemType || len(o.items) != len(t.items) {
		return false
	}
	for i, a := range t.items {
		if !a.Equal(o.items[i]) {
			return false
		}
	}
	return true
}

func (t *ListTag) encode(e *encoder) {
	e.putByte(t.elemType)
	e.putInt32(int32(len(t.items)))
	for _, tag := range t.items {
		e.writeElem(tag)
	}
}
