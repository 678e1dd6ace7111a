package nbt

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Mode selects how Open prepares a File's backing path.
type Mode int

const (
	// ModeCreate opens path for writing, starting from an empty root
	// compound and overwriting any existing contents on Save.
	ModeCreate Mode = iota
	// ModeLoad opens path for reading and loads its root compound
	// immediately. Returns an error if path does not exist.
	ModeLoad
	// ModeModify loads path's root compound if it exists, or starts
	// from an empty root if it does not.
	ModeModify
)

// FileOption configures a File at Open time.
type FileOption func(*File)

// WithLogger attaches a logger used for load/save diagnostics. A nil
// logger (the default) disables logging entirely.
func WithLogger(log *slog.Logger) FileOption {
	return func(f *File) { f.log = log }
}

// WithoutGzip disables gzip framing, storing the NBT stream raw.
func WithoutGzip() FileOption {
	return func(f *File) { f.gzip = false }
}

// File wraps a single standalone NBT stream on disk: one root
// Compound tag, optionally gzip-framed, written atomically via a
// temp-file-and-rename so a crash mid-Save never corrupts the
// existing file.
type File struct {
	path string
	root *CompoundTag
	gzip bool
	log  *slog.Logger
}

func (f *File) logger() *slog.Logger {
	if f.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.log
}

// Open prepares a File at path under the given mode. See Mode for the
// semantics of each value.
func Open(path string, mode Mode, opts ...FileOption) (*File, error) {
	f := &File{path: path, gzip: true, root: NewCompound("")}
	for _, opt := range opts {
		opt(f)
	}

	switch mode {
	case ModeCreate:
		return f, nil
	case ModeLoad:
		if err := f.Load(); err != nil {
			return nil, err
		}
		return f, nil
	case ModeModify:
		info, err := os.Stat(path)
		if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
			return f, nil
		}
		if err := f.Load(); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unknown file mode %d", ErrInvalidArgument, mode)
	}
}

// Root returns the file's root compound tag.
func (f *File) Root() *CompoundTag { return f.root }

// SetRoot replaces the file's root compound tag.
func (f *File) SetRoot(root *CompoundTag) { f.root = root }

// Load reads path and replaces the in-memory root compound with its
// contents.
func (f *File) Load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.logger().Error("read nbt file failed", "path", f.path, "error", err)
		return fmt.Errorf("read nbt file: %w", err)
	}

	var r io.Reader = bytes.NewReader(data)
	if f.gzip {
		gr, err := gzip.NewReader(r)
		if err != nil {
			f.logger().Error("read nbt file failed", "path", f.path, "error", err)
			return fmt.Errorf("%w: gzip header: %v", ErrMalformedData, err)
		}
		defer gr.Close()
		r = gr
	}

	root, err := Decode(r)
	if err != nil {
		f.logger().Error("decode nbt file failed", "path", f.path, "error", err)
		return fmt.Errorf("decode nbt file %s: %w", f.path, err)
	}
	f.root = root
	f.logger().Debug("loaded nbt file", "path", f.path)
	return nil
}

// Save encodes the root compound tag and writes it to path
// atomically, via a temp file followed by a rename.
func (f *File) Save() error {
	var buf bytes.Buffer
	var w io.Writer = &buf
	var gw *gzip.Writer
	if f.gzip {
		gw = gzip.NewWriter(&buf)
		w = gw
	}
	if err := Encode(w, f.root); err != nil {
		f.logger().Error("encode nbt file failed", "path", f.path, "error", err)
		return fmt.Errorf("encode nbt file: %w", err)
	}
	if gw != nil {
		if err := gw.Close(); err != nil {
			f.logger().Error("close gzip writer failed", "path", f.path, "error", err)
			return fmt.Errorf("close gzip writer: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		f.logger().Error("write temp nbt file failed", "path", tmp, "error", err)
		return fmt.Errorf("write temp nbt file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		f.logger().Error("rename temp nbt file failed", "path", f.path, "error", err)
		return fmt.Errorf("rename temp nbt file: %w", err)
	}
	f.logger().Debug("saved nbt file", "path", f.path)
	return nil
}

// CopyTo saves a deep copy of this file's root compound tag to a new
// path and returns the resulting File.
func (f *File) CopyTo(path string) (*File, error) {
	dst := &File{path: path, gzip: f.gzip, log: f.log, root: f.root.Clone().(*CompoundTag)}
	if err := dst.Save(); err != nil {
		return nil, err
	}
	return dst, nil
}
