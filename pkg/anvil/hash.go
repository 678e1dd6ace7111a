package anvil

import (
	"bytes"

	"github.com/cespare/xxhash/v2"

	"github.com/go-theft-craft/nbt/pkg/nbt"
)

// chunkDigest returns a content hash of a chunk's encoded NBT form plus
// the compression scheme it would be saved under, so Region.SaveChunk
// can skip rewriting a slot whose bytes would be unchanged. Grounded on
// the xxhash-based identity hashing used by the broader example pack
// for fast, non-cryptographic content IDs.
func chunkDigest(root *nbt.CompoundTag, compression Compression) (uint64, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(compression))
	if err := nbt.Encode(&buf, root); err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf.Bytes()), nil
}
