package nbt

// ByteArrayTag holds a sequence of signed 8-bit integers, Int-length
// prefixed on the wire.
type ByteArrayTag struct {
	name   string
	values []int8
}

// NewByteArray creates a ByteArray tag from values (copied).
func NewByteArray(name string, values []int8) *ByteArrayTag {
	return &ByteArrayTag{name: name, values: append([]int8(nil), values...)}
}

func (t *ByteArrayTag) ID() byte       { return IDByteArray }
func (t *ByteArrayTag) Name() string   { return t.name }
func (t *ByteArrayTag) Values() []int8 { return t.values }
func (t *ByteArrayTag) setName(n string) { t.name = n }

// SetValues replaces the array's contents (copied).
func (t *ByteArrayTag) SetValues(values []int8) {
	t.values = append([]int8(nil), values...)
}

func (t *ByteArrayTag) Clone() Tag {
	return &ByteArrayTag{name: t.name, values: append([]int8(nil), t.values...)}
}

func (t *ByteArrayTag) Equal(other Tag) bool {
	o, ok := other.(*ByteArrayTag)
	if !ok || o.name != t.name || len(o.values) != len(t.values) {
		return false
	}
	for i, v := range t.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

func (t *ByteArrayTag) encode(e *encoder) {
	encodeArray(e, t.values, func(e *encoder, v int8) { e.putByte(byte(v)) })
}

// IntArrayTag holds a sequence of signed 32-bit integers, Int-length
// prefixed on the wire.
type IntArrayTag struct {
	name   string
	values []int32
}

// NewIntArray creates an IntArray tag from values (copied).
func NewIntArray(name string, values []int32) *IntArrayTag {
	return &IntArrayTag{name: name, values: append([]int32(nil), values...)}
}

func (t *IntArrayTag) ID() byte        { return IDIntArray }
func (t *IntArrayTag) Name() string    { return t.name }
func (t *IntArrayTag) Values() []int32 { return t.values }
func (t *IntArrayTag) setName(n string) { t.name = n }

func (t *IntArrayTag) SetValues(values []int32) {
	t.values = append([]int32(nil), values...)
}

func (t *IntArrayTag) Clone() Tag {
	return &IntArrayTag{name: t.name, values: append([]int32(nil), t.values...)}
}

func (t *IntArrayTag) Equal(other Tag) bool {
	o, ok := other.(*IntArrayTag)
	if !ok || o.name != t.name || len(o.values) != len(t.values) {
		return false
	}
	for i, v := range t.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

func (t *IntArrayTag) encode(e *encoder) {
	encodeArray(e, t.values, (*encoder).putInt32)
}

// LongArrayTag holds a sequence of signed 64-bit integers, Int-length
// prefixed on the wire.
type LongArrayTag struct {
	name   string
	values []int64
}

// NewLongArray creates a LongArray tag from values (copied).
func NewLongArray(name string, values []int64) *LongArrayTag {
	return &LongArrayTag{name: name, values: append([]int64(nil), values...)}
}

func (t *LongArrayTag) ID() byte        { return IDLongArray }
func (t *LongArrayTag) Name() string    { return t.name }
func (t *LongArrayTag) Values() []int64 { return t.values }
func (t *LongArrayTag) setName(n string) { t.name = n }

func (t *LongArrayTag) SetValues(values []int64) {
	t.values = append([]int64(nil), values...)
}

func (t *LongArrayTag) Clone() Tag {
	return &LongArrayTag{name: t.name, values: append([]int64(nil), t.values...)}
}

func (t *LongArrayTag) Equal(other Tag) bool {
	o, ok := other.(*LongArrayTag)
	if !ok || o.name != t.name || len(o.values) != len(t.values) {
		return false
	}
	for i, v := range t.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

func (t *LongArrayTag) encode(e *encoder) {
	encodeArray(e, t.values, (*encoder).putInt64)
}
