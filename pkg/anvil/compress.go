package anvil

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/go-theft-craft/nbt/pkg/nbt"
)

// Compression identifies the scheme a chunk's payload is stored
// under, matching the .mca on-disk compression byte.
type Compression byte

const (
	// CompressionGzip is compression id 1.
	CompressionGzip Compression = 1
	// CompressionZlib is compression id 2 (the default Minecraft uses).
	CompressionZlib Compression = 2
	// CompressionNone is compression id 3: the payload is stored raw.
	CompressionNone Compression = 3
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionNone:
		return "none"
	default:
		return fmt.Sprintf("compression(%d)", byte(c))
	}
}

// compress encodes a chunk's root compound tag and compresses it per c.
func compress(root *nbt.CompoundTag, c Compression) ([]byte, error) {
	var raw bytes.Buffer
	if err := nbt.Encode(&raw, root); err != nil {
		return nil, fmt.Errorf("encode chunk nbt: %w", err)
	}

	var out bytes.Buffer
	switch c {
	case CompressionGzip:
		w := gzip.NewWriter(&out)
		if _, err := w.Write(raw.Bytes()); err != nil {
			return nil, fmt.Errorf("gzip compress chunk: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close gzip writer: %w", err)
		}
	case CompressionZlib:
		w := zlib.NewWriter(&out)
		if _, err := w.Write(raw.Bytes()); err != nil {
			return nil, fmt.Errorf("zlib compress chunk: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close zlib writer: %w", err)
		}
	case CompressionNone:
		return raw.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression id %d", nbt.ErrInvalidArgument, c)
	}
	return out.Bytes(), nil
}

// decompress reverses compress and decodes the resulting NBT stream's
// root compound tag.
func decompress(data []byte, c Compression) (*nbt.CompoundTag, error) {
	var r io.Reader
	switch c {
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip header: %v", nbt.ErrMalformedData, err)
		}
		defer gr.Close()
		r = gr
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib header: %v", nbt.ErrMalformedData, err)
		}
		defer zr.Close()
		r = zr
	case CompressionNone:
		r = bytes.NewReader(data)
	default:
		return nil, fmt.Errorf("%w: unknown compression id %d", nbt.ErrMalformedData, c)
	}

	root, err := nbt.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode chunk nbt: %w", err)
	}
	return root, nil
}
