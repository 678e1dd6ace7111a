package nbt

import "errors"

// Error kinds surfaced by this package, per the error handling design:
// propagated to the caller of the top-level operation, never retried
// internally. I/O failures are not wrapped in a bespoke kind — the
// underlying *fs.PathError / *os.LinkError already carries that
// information through Go's standard %w wrapping.
var (
	// ErrValueConstraint is returned when a scalar value is outside the
	// range its tag variant allows.
	ErrValueConstraint = errors.New("nbt: value out of range for tag type")
	// ErrTypeMismatch is returned on a List insertion of a wrongly-typed
	// element, or a Merge/Update between tags of differing variants.
	ErrTypeMismatch = errors.New("nbt: tag type mismatch")
	// ErrDuplicateName is returned by Compound.Add when a tag with the same
	// name already exists and replace is false.
	ErrDuplicateName = errors.New("nbt: duplicate tag name")
	// ErrMalformedData is returned when decoding encounters a violation of
	// the wire format: truncated input, an unknown tag id, invalid UTF-8,
	// an unknown compression id, or a declared length exceeding the
	// remaining bytes.
	ErrMalformedData = errors.New("nbt: malformed data")
	// ErrInvalidArgument is returned for an unknown open mode or an
	// unknown compression selector. Query and Contains do not validate
	// their templates and return no error for them: a template value of
	// an unsupported type does not match any tag.
	ErrInvalidArgument = errors.New("nbt: invalid argument")
	// ErrNotFound is returned by indexed access into a Compound for an
	// absent name.
	ErrNotFound = errors.New("nbt: tag not found")
)
