package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// encoder writes NBT binary data to an io.Writer in big-endian format,
// accumulating the first error encountered so callers can check once at
// the end rather than after every write. Modeled on the teacher package's
// nbt.Writer, generalized from a fixed sequence of WriteX calls to walking
// an arbitrary Tag tree.
type encoder struct {
	w   io.Writer
	err error
}

func newEncoder(w io.Writer) *encoder {
	return &encoder{w: w}
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
}

func (e *encoder) putByte(v byte)     { e.write([]byte{v}) }
func (e *encoder) putUint16(v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); e.write(b[:]) }
func (e *encoder) putInt32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.write(b[:])
}
func (e *encoder) putInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.write(b[:])
}
func (e *encoder) putFloat32(v float32) { e.putInt32(int32(math.Float32bits(v))) }
func (e *encoder) putFloat64(v float64) { e.putInt64(int64(math.Float64bits(v))) }

func (e *encoder) putString(s string) {
	e.putUint16(uint16(len(s)))
	if len(s) > 0 {
		e.write([]byte(s))
	}
}

func (e *encoder) writeHeader(id byte, name string) {
	e.putByte(id)
	if id != IDEnd {
		e.putString(name)
	}
}

// writeTag encodes a full named tag: header followed by payload.
func (e *encoder) writeTag(t Tag) {
	e.writeHeader(t.ID(), t.Name())
	t.encode(e)
}

// writeElem encodes an unnamed list element: payload only.
func (e *encoder) writeElem(t Tag) {
	t.encode(e)
}

// encodeArray writes a length-prefixed sequence of fixed-width elements,
// shared by ByteArray/IntArray/LongArray so each only supplies its element
// width via writeElem.
func encodeArray[T any](e *encoder, values []T, writeElem func(*encoder, T)) {
	e.putInt32(int32(len(values)))
	for _, v := range values {
		writeElem(e, v)
	}
}

// Encode writes root as a standalone NBT stream: one named top-level
// Compound tag, per spec. Encoding is incremental — it never buffers the
// decoded tree, it only walks it while writing directly to w.
func Encode(w io.Writer, root *CompoundTag) error {
	e := newEncoder(w)
	e.writeTag(root)
	return e.err
}

// decoder reads NBT binary data from an io.Reader in big-endian format.
type decoder struct {
	r io.Reader
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: r}
}

func (d *decoder) read(buf []byte) error {
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return nil
}

func (d *decoder) getByte() (byte, error) {
	var b [1]byte
	if err := d.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) getUint16() (uint16, error) {
	var b [2]byte
	if err := d.read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (d *decoder) getInt32() (int32, error) {
	var b [4]byte
	if err := d.read(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (d *decoder) getInt64() (int64, error) {
	var b [8]byte
	if err := d.read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func (d *decoder) getFloat32() (float32, error) {
	v, err := d.getInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (d *decoder) getFloat64() (float64, error) {
	v, err := d.getInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (d *decoder) getString() (string, error) {
	n, err := d.getUint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := d.read(buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrMalformedData)
	}
	return string(buf), nil
}

// decodeArray reads a length-prefixed sequence of fixed-width elements.
func decodeArray[T any](d *decoder, readElem func(*decoder) (T, error)) ([]T, error) {
	n, err := d.getInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative array length %d", ErrMalformedData, n)
	}
	out := make([]T, n)
	for i := range out {
		v, err := readElem(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readHeader reads a tag's type id and, unless it is End, its name.
func (d *decoder) readHeader() (id byte, name string, err error) {
	id, err = d.getByte()
	if err != nil || id == IDEnd {
		return id, "", err
	}
	name, err = d.getString()
	return id, name, err
}

// readPayload decodes the payload for a tag of the given id and name; the
// header (id + name) must already have been consumed.
func (d *decoder) readPayload(id byte, name string) (Tag, error) {
	switch id {
	case IDByte:
		b, err := d.getByte()
		if err != nil {
			return nil, err
		}
		return &ByteTag{name: name, value: int8(b)}, nil
	case IDShort:
		v, err := d.getUint16()
		if err != nil {
			return nil, err
		}
		return &ShortTag{name: name, value: int16(v)}, nil
	case IDInt:
		v, err := d.getInt32()
		if err != nil {
			return nil, err
		}
		return &IntTag{name: name, value: v}, nil
	case IDLong:
		v, err := d.getInt64()
		if err != nil {
			return nil, err
		}
		return &LongTag{name: name, value: v}, nil
	case IDFloat:
		v, err := d.getFloat32()
		if err != nil {
			return nil, err
		}
		return &FloatTag{name: name, value: v}, nil
	case IDDouble:
		v, err := d.getFloat64()
		if err != nil {
			return nil, err
		}
		return &DoubleTag{name: name, value: v}, nil
	case IDByteArray:
		vs, err := decodeArray(d, func(d *decoder) (int8, error) {
			b, err := d.getByte()
			return int8(b), err
		})
		if err != nil {
			return nil, err
		}
		return &ByteArrayTag{name: name, values: vs}, nil
	case IDString:
		v, err := d.getString()
		if err != nil {
			return nil, err
		}
		return &StringTag{name: name, value: v}, nil
	case IDList:
		return d.readListPayload(name)
	case IDCompound:
		return d.readCompoundPayload(name)
	case IDIntArray:
		vs, err := decodeArray(d, (*decoder).getInt32)
		if err != nil {
			return nil, err
		}
		return &IntArrayTag{name: name, values: vs}, nil
	case IDLongArray:
		vs, err := decodeArray(d, (*decoder).getInt64)
		if err != nil {
			return nil, err
		}
		return &LongArrayTag{name: name, values: vs}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag id %d", ErrMalformedData, id)
	}
}

func (d *decoder) readListPayload(name string) (Tag, error) {
	elemType, err := d.getByte()
	if err != nil {
		return nil, err
	}
	length, err := d.getInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative list length %d", ErrMalformedData, length)
	}
	if elemType == IDEnd && length != 0 {
		return nil, fmt.Errorf("%w: list declares element type End with nonzero length %d", ErrMalformedData, length)
	}

	list := &ListTag{name: name, elemType: elemType}
	list.items = make([]Tag, length)
	for i := 0; i < int(length); i++ {
		item, err := d.readPayload(elemType, "")
		if err != nil {
			return nil, err
		}
		list.items[i] = item
	}
	return list, nil
}

func (d *decoder) readCompoundPayload(name string) (*CompoundTag, error) {
	c := &CompoundTag{name: name}
	for {
		id, tagName, err := d.readHeader()
		if err != nil {
			return nil, err
		}
		if id == IDEnd {
			break
		}
		tag, err := d.readPayload(id, tagName)
		if err != nil {
			return nil, err
		}
		// A malformed file may repeat a name; tolerate it the way a real
		// parser must (it can only observe the bytes as they come),
		// keeping the later value at the earlier tag's position.
		_ = c.Add(tag, true)
	}
	return c, nil
}

// Decode reads a standalone NBT stream: one named top-level Compound tag.
func Decode(r io.Reader) (*CompoundTag, error) {
	d := newDecoder(r)
	id, name, err := d.readHeader()
	if err != nil {
		return nil, err
	}
	if id != IDCompound {
		return nil, fmt.Errorf("%w: expected root compound tag, got id %d", ErrMalformedData, id)
	}
	return d.readCompoundPayload(name)
}
