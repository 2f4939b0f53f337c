package codec

import "errors"

var (
	// ErrCorruptStamp signals a buffer that does not decode to a
	// well-formed stamp: truncated or trailing bytes, reserved header
	// bits, or length fields overrunning the buffer.
	ErrCorruptStamp = errors.New("codec: corrupt serialised stamp")
	// ErrIncompatibleVersion signals a buffer written by a different
	// major version of the implementation.
	ErrIncompatibleVersion = errors.New("codec: incompatible serialised version")
	// ErrUnsupportedCounterSize signals a serialised counter wider than
	// the implementation's counter type.
	ErrUnsupportedCounterSize = errors.New("codec: unsupported counter size")
)
