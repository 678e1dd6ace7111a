// Package anvil implements the Region file container: a 32x32 grid of
// chunk slots backed by a single .mca file, each slot an independently
// compressed NBT stream addressed through a sector-aligned header.
package anvil

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-theft-craft/nbt/pkg/nbt"
)

const (
	gridSize      = 32
	slotCount     = gridSize * gridSize
	sectorSize    = 4096
	headerSectors = 2 // location table + timestamp table, one sector each
)

// Option configures a Region at Open time.
type Option func(*Region)

// WithLogger attaches a logger used for slot-level diagnostics. A nil
// logger (the default) disables logging entirely.
func WithLogger(log *slog.Logger) Option {
	return func(r *Region) { r.log = log }
}

// Region holds the in-memory state of one .mca file: the location and
// timestamp tables, and whichever chunk slots have been loaded or set.
type Region struct {
	f    *os.File
	path string
	log  *slog.Logger

	locations  [slotCount]uint32
	timestamps [slotCount]uint32
	chunks     [slotCount]*nbt.CompoundTag
	digests    [slotCount]uint64
	hasDigest  [slotCount]bool
}

func slotIndex(x, z int) int {
	return (x & (gridSize - 1)) + (z&(gridSize-1))*gridSize
}

func (r *Region) logger() *slog.Logger {
	if r.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.log
}

// Open opens the region file at path, creating it with a zeroed 8KiB
// header if it does not already exist.
func Open(path string, opts ...Option) (*Region, error) {
	r := &Region{path: path}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			r.logger().Error("create region file failed", "path", path, "error", err)
			return nil, fmt.Errorf("create region file: %w", err)
		}
		if _, err := f.Write(make([]byte, headerSectors*sectorSize)); err != nil {
			f.Close()
			r.logger().Error("write empty region header failed", "path", path, "error", err)
			return nil, fmt.Errorf("write empty region header: %w", err)
		}
		r.f = f
		r.logger().Debug("created region file", "path", path)
		return r, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		r.logger().Error("open region file failed", "path", path, "error", err)
		return nil, fmt.Errorf("open region file: %w", err)
	}
	r.f = f
	if err := r.loadHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file handle.
func (r *Region) Close() error {
	return r.f.Close()
}

func (r *Region) loadHeader() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		r.logger().Error("seek region header failed", "path", r.path, "error", err)
		return fmt.Errorf("seek region header: %w", err)
	}
	var locBuf [sectorSize]byte
	if _, err := io.ReadFull(r.f, locBuf[:]); err != nil {
		r.logger().Error("read location table failed", "path", r.path, "error", err)
		return fmt.Errorf("%w: read location table: %v", nbt.ErrMalformedData, err)
	}
	var tsBuf [sectorSize]byte
	if _, err := io.ReadFull(r.f, tsBuf[:]); err != nil {
		r.logger().Error("read timestamp table failed", "path", r.path, "error", err)
		return fmt.Errorf("%w: read timestamp table: %v", nbt.ErrMalformedData, err)
	}
	for i := 0; i < slotCount; i++ {
		r.locations[i] = binary.BigEndian.Uint32(locBuf[i*4 : i*4+4])
		r.timestamps[i] = binary.BigEndian.Uint32(tsBuf[i*4 : i*4+4])
	}
	return nil
}

func extractLoc(location uint32) (offsetSectors uint32, sizeSectors uint32) {
	return location >> 8, location & 0xFF
}

// Chunk returns the in-memory chunk at (x, z), or nil if absent.
func (r *Region) Chunk(x, z int) *nbt.CompoundTag {
	return r.chunks[slotIndex(x, z)]
}

// SetChunk places chunk into memory at (x, z). It does not touch the
// file on disk; call SaveChunk to persist it.
func (r *Region) SetChunk(x, z int, chunk *nbt.CompoundTag) {
	r.chunks[slotIndex(x, z)] = chunk
}

// UnloadChunk drops the in-memory chunk at (x, z) without touching disk.
func (r *Region) UnloadChunk(x, z int) {
	idx := slotIndex(x, z)
	r.chunks[idx] = nil
	r.hasDigest[idx] = false
}

// LoadChunk reads the chunk at (x, z) from disk into memory and
// returns it. Returns nil, nil if the slot is empty.
func (r *Region) LoadChunk(x, z int) (*nbt.CompoundTag, error) {
	idx := slotIndex(x, z)
	if r.locations[idx] == 0 {
		return nil, nil
	}

	offset, _ := extractLoc(r.locations[idx])
	if _, err := r.f.Seek(int64(offset)*sectorSize, io.SeekStart); err != nil {
		r.logger().Error("seek chunk failed", "x", x, "z", z, "error", err)
		return nil, fmt.Errorf("seek chunk (%d,%d): %w", x, z, err)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r.f, lenBuf[:]); err != nil {
		r.logger().Error("read chunk length failed", "x", x, "z", z, "error", err)
		return nil, fmt.Errorf("%w: read chunk length (%d,%d): %v", nbt.ErrMalformedData, x, z, err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length == 0 {
		return nil, fmt.Errorf("%w: chunk (%d,%d) declares zero length", nbt.ErrMalformedData, x, z)
	}

	var compByte [1]byte
	if _, err := io.ReadFull(r.f, compByte[:]); err != nil {
		r.logger().Error("read chunk compression byte failed", "x", x, "z", z, "error", err)
		return nil, fmt.Errorf("%w: read chunk compression byte (%d,%d): %v", nbt.ErrMalformedData, x, z, err)
	}
	compression := Compression(compByte[0])

	data := make([]byte, length-1)
	if _, err := io.ReadFull(r.f, data); err != nil {
		r.logger().Error("read chunk payload failed", "x", x, "z", z, "error", err)
		return nil, fmt.Errorf("%w: read chunk payload (%d,%d): %v", nbt.ErrMalformedData, x, z, err)
	}

	outer, err := decompress(data, compression)
	if err != nil {
		r.logger().Error("decode chunk failed", "x", x, "z", z, "error", err)
		return nil, fmt.Errorf("decode chunk (%d,%d): %w", x, z, err)
	}
	inner := outer.Get("")
	root, ok := inner.(*nbt.CompoundTag)
	if !ok {
		err := fmt.Errorf("%w: chunk (%d,%d) wrapper has no compound child named \"\"", nbt.ErrMalformedData, x, z)
		r.logger().Error("decode chunk failed", "x", x, "z", z, "error", err)
		return nil, err
	}

	r.chunks[idx] = root
	if digest, err := chunkDigest(root, compression); err == nil {
		r.digests[idx] = digest
		r.hasDigest[idx] = true
	}
	r.logger().Debug("loaded chunk", "x", x, "z", z, "sectors", r.locations[idx]&0xFF)
	return root, nil
}

// SaveChunk writes the in-memory chunk at (x, z) to disk using the
// given compression, resizing and splicing the file as needed. A nil
// in-memory chunk is a no-op, matching LoadChunk's semantics.
func (r *Region) SaveChunk(x, z int, compression Compression) error {
	idx := slotIndex(x, z)
	root := r.chunks[idx]
	if root == nil {
		return nil
	}

	digest, err := chunkDigest(root, compression)
	if err != nil {
		return fmt.Errorf("hash chunk (%d,%d): %w", x, z, err)
	}
	if r.locations[idx] != 0 && r.hasDigest[idx] && r.digests[idx] == digest {
		r.logger().Debug("skipped unchanged chunk", "x", x, "z", z)
		return nil
	}

	outer := nbt.NewCompound("")
	if err := outer.Add(nbt.Rename(root, ""), true); err != nil {
		return fmt.Errorf("wrap chunk (%d,%d): %w", x, z, err)
	}
	compressed, err := compress(outer, compression)
	if err != nil {
		r.logger().Error("compress chunk failed", "x", x, "z", z, "error", err)
		return fmt.Errorf("compress chunk (%d,%d): %w", x, z, err)
	}

	payloadLen := uint32(len(compressed)) + 1 // +1 for the compression byte
	totalLen := 4 + payloadLen                // +4 for the length field itself
	sectors := (totalLen + sectorSize - 1) / sectorSize
	padded := make([]byte, sectors*sectorSize)
	binary.BigEndian.PutUint32(padded[0:4], payloadLen)
	padded[4] = byte(compression)
	copy(padded[5:], compressed)

	if r.locations[idx] == 0 {
		if err := r.initChunk(idx); err != nil {
			r.logger().Error("init chunk slot failed", "x", x, "z", z, "error", err)
			return fmt.Errorf("init chunk slot (%d,%d): %w", x, z, err)
		}
	}

	offset, oldSize := extractLoc(r.locations[idx])
	if err := r.spliceAt(int64(offset)*sectorSize, int64(oldSize)*sectorSize, padded); err != nil {
		r.logger().Error("write chunk failed", "x", x, "z", z, "error", err)
		return fmt.Errorf("write chunk (%d,%d): %w", x, z, err)
	}
	if err := r.resizeChunk(idx, sectors); err != nil {
		r.logger().Error("update chunk header failed", "x", x, "z", z, "error", err)
		return fmt.Errorf("update chunk header (%d,%d): %w", x, z, err)
	}

	r.digests[idx] = digest
	r.hasDigest[idx] = true
	r.logger().Debug("saved chunk", "x", x, "z", z, "sectors", sectors, "compression", compression)
	return nil
}

// DeleteChunk removes the chunk at (x, z) from disk and frees its
// slot. It is a no-op if the slot is already empty.
func (r *Region) DeleteChunk(x, z int) error {
	idx := slotIndex(x, z)
	if r.locations[idx] == 0 {
		return nil
	}

	offset, oldSize := extractLoc(r.locations[idx])
	if err := r.spliceAt(int64(offset)*sectorSize, int64(oldSize)*sectorSize, nil); err != nil {
		r.logger().Error("delete chunk failed", "x", x, "z", z, "error", err)
		return fmt.Errorf("delete chunk (%d,%d): %w", x, z, err)
	}
	if err := r.resizeChunk(idx, 0); err != nil {
		r.logger().Error("clear chunk header failed", "x", x, "z", z, "error", err)
		return fmt.Errorf("clear chunk header (%d,%d): %w", x, z, err)
	}

	r.chunks[idx] = nil
	r.hasDigest[idx] = false
	r.logger().Debug("deleted chunk", "x", x, "z", z)
	return nil
}

// initChunk assigns a fresh slot at the current end of the file,
// padding the file to a sector boundary first if it isn't already
// aligned (every prior write is padded, but a defensively-aligned
// end-of-file avoids silently truncating a partial sector into the
// new slot's offset).
func (r *Region) initChunk(idx int) error {
	end, err := r.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if rem := end % sectorSize; rem != 0 {
		pad := sectorSize - rem
		if _, err := r.f.Write(make([]byte, pad)); err != nil {
			return err
		}
		end += pad
	}
	r.locations[idx] = uint32(end/sectorSize) << 8
	return nil
}

// spliceAt replaces the oldLen bytes at offset with replacement,
// shifting every following byte in the file by the size difference.
// This is the disk-level half of a chunk resize: the in-memory and
// on-disk header tables are fixed up separately by resizeChunk.
func (r *Region) spliceAt(offset, oldLen int64, replacement []byte) error {
	if _, err := r.f.Seek(offset+oldLen, io.SeekStart); err != nil {
		return err
	}
	after, err := io.ReadAll(r.f)
	if err != nil {
		return err
	}

	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if len(replacement) > 0 {
		if _, err := r.f.Write(replacement); err != nil {
			return err
		}
	}
	if len(after) > 0 {
		if _, err := r.f.Write(after); err != nil {
			return err
		}
	}
	return r.f.Truncate(offset + int64(len(replacement)) + int64(len(after)))
}

// resizeChunk records the new sector count for slot idx, rewrites its
// header entry, and shifts the recorded offset of every slot that lies
// after it by the size delta — the splice moved their bytes on disk, so
// their location table entries must move with them.
func (r *Region) resizeChunk(idx int, sectors uint32) error {
	offset, oldSize := extractLoc(r.locations[idx])
	if sectors > 0 {
		r.locations[idx] = (offset << 8) | (sectors & 0xFF)
	} else {
		r.locations[idx] = 0
	}
	r.timestamps[idx] = uint32(time.Now().Unix())

	if err := r.writeLocationEntry(idx); err != nil {
		return err
	}
	if err := r.writeTimestampEntry(idx); err != nil {
		return err
	}

	delta := int64(sectors) - int64(oldSize)
	if delta == 0 {
		return nil
	}
	for i := 0; i < slotCount; i++ {
		curOffset, curSize := extractLoc(r.locations[i])
		if curOffset > offset {
			r.locations[i] = uint32(int64(curOffset)+delta)<<8 | uint32(curSize)
			if err := r.writeLocationEntry(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Region) writeLocationEntry(idx int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], r.locations[idx])
	_, err := r.f.WriteAt(buf[:], int64(idx*4))
	return err
}

func (r *Region) writeTimestampEntry(idx int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], r.timestamps[idx])
	_, err := r.f.WriteAt(buf[:], int64(sectorSize+idx*4))
	return err
}

// LoadAll loads every present chunk slot into memory.
func (r *Region) LoadAll() error {
	for z := 0; z < gridSize; z++ {
		for x := 0; x < gridSize; x++ {
			if _, err := r.LoadChunk(x, z); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveAll persists every in-memory chunk slot using the given compression.
func (r *Region) SaveAll(compression Compression) error {
	for z := 0; z < gridSize; z++ {
		for x := 0; x < gridSize; x++ {
			if err := r.SaveChunk(x, z, compression); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnloadAll drops every in-memory chunk without touching disk.
func (r *Region) UnloadAll() {
	for i := range r.chunks {
		r.chunks[i] = nil
		r.hasDigest[i] = false
	}
}

// ForEachChunk invokes fn for every slot with a non-nil in-memory
// chunk, in row-major (z outer, x inner) order. It never touches disk;
// call LoadAll or LoadChunk first to populate slots from a file.
func (r *Region) ForEachChunk(fn func(x, z int, chunk *nbt.CompoundTag)) error {
	for z := 0; z < gridSize; z++ {
		for x := 0; x < gridSize; x++ {
			idx := slotIndex(x, z)
			if chunk := r.chunks[idx]; chunk != nil {
				fn(x, z, chunk)
			}
		}
	}
	return nil
}
