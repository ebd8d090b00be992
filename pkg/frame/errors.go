package frame

import "errors"

// ErrFrameTooShort is returned by Decode when the buffer cannot contain the
// declared header and body.
var ErrFrameTooShort = errors.New("frame: buffer too short")

// ErrBadMagic is returned by Decode when the storage header pattern does
// not match the expected "DLT\x01" sequence.
var ErrBadMagic = errors.New("frame: bad storage magic")
