// Package frame implements the DLT-style wire framing: pure encode/decode
// of a log record into its on-wire byte layout. No I/O lives here.
package frame

// idLen is the fixed width of every identifier on the wire: app id,
// context id, and ECU id are each space-padded (zero-padded) to 4 bytes,
// truncated if the caller supplies more.
const idLen = 4

// AppId is a 4-byte, zero-padded application identifier.
type AppId [idLen]byte

// ContextId is a 4-byte, zero-padded context identifier.
type ContextId [idLen]byte

// EcuId is a 4-byte, zero-padded ECU identifier.
type EcuId [idLen]byte

// NewAppId pads or truncates s to a fixed 4-byte AppId.
func NewAppId(s string) AppId { return AppId(padID(s)) }

// NewContextId pads or truncates s to a fixed 4-byte ContextId.
func NewContextId(s string) ContextId { return ContextId(padID(s)) }

// NewEcuId pads or truncates s to a fixed 4-byte EcuId.
func NewEcuId(s string) EcuId { return EcuId(padID(s)) }

func padID(s string) [idLen]byte {
	var out [idLen]byte
	n := copy(out[:], s)
	_ = n // remaining bytes stay zero-padded
	return out
}

// String renders the identifier with trailing zero bytes stripped.
func (a AppId) String() string { return trimZero(a[:]) }

// String renders the identifier with trailing zero bytes stripped.
func (c ContextId) String() string { return trimZero(c[:]) }

// String renders the identifier with trailing zero bytes stripped.
func (e EcuId) String() string { return trimZero(e[:]) }

func trimZero(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return string(b[:i])
}
