package nbt

import "fmt"

// MergeMode controls how Compound.Merge reconciles a name that exists
// in both the destination and the source compound.
type MergeMode int

const (
	// MergeKeep copies only names absent from the destination.
	MergeKeep MergeMode = iota
	// MergeUpdate copies only names already present in the destination,
	// updating their values; names absent from the destination are skipped.
	MergeUpdate
	// MergeMerge copies every name from the source, updating the value of
	// any name already present in the destination.
	MergeMerge
	// MergeReplace copies every name from the source, replacing whatever
	// tag (of any type) currently occupies that name in the destination.
	MergeReplace
)

// CompoundTag holds an ordered collection of uniquely-named tags.
// Insertion order is preserved; Add with replace=true keeps the
// original position of the replaced tag.
type CompoundTag struct {
	name string
	tags []Tag
}

// NewCompound creates an empty Compound tag.
func NewCompound(name string) *CompoundTag {
	return &CompoundTag{name: name}
}

func (t *CompoundTag) ID() byte         { return IDCompound }
func (t *CompoundTag) Name() string     { return t.name }
func (t *CompoundTag) Len() int         { return len(t.tags) }
func (t *CompoundTag) setName(n string) { t.name = n }

// Tags returns the compound's children in insertion order. The slice
// is owned by the caller's view only; mutate through Add/Remove.
func (t *CompoundTag) Tags() []Tag {
	out := make([]Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// Get returns the child tag with the given name, or nil if absent.
func (t *CompoundTag) Get(name string) Tag {
	for _, tag := range t.tags {
		if tag.Name() == name {
			return tag
		}
	}
	return nil
}

// Require returns the child tag with the given name, or ErrNotFound if
// absent. Grounded on the indexed-access semantics of
// original_source/nbt/tags/TAG_Compound.py's __getitem__, which raises
// on a missing key rather than returning a sentinel value.
func (t *CompoundTag) Require(name string) (Tag, error) {
	tag := t.Get(name)
	if tag == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return tag, nil
}

// Add inserts tag into the compound. If a tag with the same name
// already exists and replace is false, it returns ErrDuplicateName.
// When replace is true, the existing tag is removed and the new one
// takes its position, so insertion order is otherwise preserved.
func (t *CompoundTag) Add(tag Tag, replace bool) error {
	for i, x := range t.tags {
		if x.Name() == tag.Name() {
			if !replace {
				return fmt.Errorf("%w: %q", ErrDuplicateName, tag.Name())
			}
			t.tags[i] = tag
			return nil
		}
	}
	t.tags = append(t.tags, tag)
	return nil
}

// Remove deletes the tag with the given name, if present.
func (t *CompoundTag) Remove(name string) {
	for i, tag := range t.tags {
		if tag.Name() == name {
			t.tags = append(t.tags[:i], t.tags[i+1:]...)
			return
		}
	}
}

// Clear removes every child tag.
func (t *CompoundTag) Clear() {
	t.tags = nil
}

// Contains tests whether the compound holds data matching template: a
// nil value for a key means only the key's presence is checked;
// Compound/List-valued children recurse into their own Contains.
func (t *CompoundTag) Contains(template map[string]any) bool {
	for name, value := range template {
		tag := t.Get(name)
		if tag != nil && value == nil {
			continue
		}
		switch want := value.(type) {
		case map[string]any:
			c, ok := tag.(*CompoundTag)
			if !ok || !c.Contains(want) {
				return false
			}
		case []any:
			l, ok := tag.(*ListTag)
			if !ok || !l.Contains(want) {
				return false
			}
		default:
			if tag == nil || !scalarEqual(tag, value) {
				return false
			}
		}
	}
	return true
}

// ToDict recursively flattens the compound into a plain
// map[string]any: nested Compound tags become map[string]any, nested
// Lists become []any, and scalars become their native Go type.
func (t *CompoundTag) ToDict() map[string]any {
	out := make(map[string]any, len(t.tags))
	for _, tag := range t.tags {
		out[tag.Name()] = tagToNative(tag)
	}
	return out
}

// Merge copies tags from source into t according to mode. When
// recursive is true and both sides hold a Compound under the same
// name, Merge descends into it instead of replacing it outright.
// Returns ErrTypeMismatch if a shared name holds incompatible tag
// variants under a mode that requires updating it in place.
func (t *CompoundTag) Merge(source *CompoundTag, mode MergeMode, recursive bool) error {
	for _, tag := range source.tags {
		current := t.Get(tag.Name())
		if current == nil {
			if mode != MergeUpdate {
				_ = t.Add(tag.Clone(), false)
			}
			continue
		}

		if recursive {
			if sc, ok := tag.(*CompoundTag); ok {
				if cc, ok := current.(*CompoundTag); ok {
					if err := cc.Merge(sc, mode, true); err != nil {
						return err
					}
					continue
				}
			}
		}

		if mode == MergeKeep {
			continue
		}
		if mode == MergeReplace {
			_ = t.Add(tag.Clone(), true)
			continue
		}
		if tag.ID() != current.ID() {
			return fmt.Errorf("%w: %q is %s in destination, %s in source", ErrTypeMismatch, tag.Name(), idName(current.ID()), idName(tag.ID()))
		}
		switch st := tag.(type) {
		case *CompoundTag:
			ct := current.(*CompoundTag)
			ct.tags = make([]Tag, len(st.tags))
			for i, child := range st.tags {
				ct.tags[i] = child.Clone()
			}
		case *ListTag:
			lt := current.(*ListTag)
			lt.Clear()
			for _, item := range st.items {
				if err := lt.Append(item.Clone()); err != nil {
					return fmt.Errorf("%w: merging list %q", err, tag.Name())
				}
			}
		default:
			_ = t.Add(tag.Clone(), true)
		}
	}
	return nil
}

func (t *CompoundTag) Clone() Tag {
	out := &CompoundTag{name: t.name}
	out.tags = make([]Tag, len(t.tags))
	for i, tag := range t.tags {
		out.tags[i] = tag.Clone()
	}
	return out
}

func (t *CompoundTag) Equal(other Tag) bool {
	o, ok := other.(*CompoundTag)
	if !ok || o.name != t.name || len(o.tags) != len(t.tags) {
		return false
	}
	used := make(map[int]bool, len(o.tags))
	for _, a := range t.tags {
		found := false
		for j, b := range o.tags {
			if used[j] {
				continue
			}
			if a.Equal(b) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (t *CompoundTag) encode(e *encoder) {
	for _, tag := range t.tags {
		e.writeTag(tag)
	}
	e.putByte(IDEnd)
}
