package anvil

import (
	"testing"

	"github.com/go-theft-craft/nbt/pkg/nbt"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionGzip, CompressionZlib, CompressionNone} {
		root := nbt.NewCompound("")
		tag := nbt.NewLong("value", 12345)
		if err := root.Add(tag, false); err != nil {
			t.Fatalf("%s: add: %v", c, err)
		}

		data, err := compress(root, c)
		if err != nil {
			t.Fatalf("%s: compress: %v", c, err)
		}
		decoded, err := decompress(data, c)
		if err != nil {
			t.Fatalf("%s: decompress: %v", c, err)
		}
		if !decoded.Equal(root) {
			t.Fatalf("%s: round trip mismatch", c)
		}
	}
}

func TestCompressRejectsUnknownScheme(t *testing.T) {
	root := nbt.NewCompound("")
	if _, err := compress(root, Compression(99)); err == nil {
		t.Fatal("expected error for unknown compression scheme")
	}
}

func TestDecompressRejectsCorruptGzipHeader(t *testing.T) {
	if _, err := decompress([]byte{0x00, 0x01, 0x02}, CompressionGzip); err == nil {
		t.Fatal("expected error for corrupt gzip header")
	}
}
