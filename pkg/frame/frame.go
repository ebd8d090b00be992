package frame

import (
	"encoding/binary"
	"time"
)

// LogLevel is the ordered severity enumeration carried on extended headers
// and used by the facade to route an emitted record to a ring.
type LogLevel byte

const (
	LevelFatal   LogLevel = 1
	LevelError   LogLevel = 2
	LevelWarn    LogLevel = 3
	LevelInfo    LogLevel = 4
	LevelDebug   LogLevel = 5
	LevelVerbose LogLevel = 6
)

// storageMagic is the literal 4-byte pattern that opens every frame.
var storageMagic = [4]byte{'D', 'L', 'T', 0x01}

const (
	storageHeaderLen  = 16
	standardHeaderLen = 4
	extendedHeaderLen = 10

	// htypExtended is set when an extended header follows the standard
	// header; bit 0 of the header-type byte carries this flag.
	htypExtended byte = 0x35
	htypPlain    byte = 0x21

	// msinVerboseLogInfo is the only message-info value this library
	// emits: verbose, log, info.
	msinVerboseLogInfo byte = 0x01

	// typeStringLE is the verbose argument type descriptor for a UTF-8
	// string payload.
	typeStringLE uint32 = 0x21000000 // little-endian encoding of 0x00 0x00 0x00 0x21
)

// Frame is the decoded, in-memory representation of one on-wire record.
// Sec, Usec, Ecu, Mcnt, App, Ctx and Payload round-trip through
// Encode/Decode; Encode ignores Htyp, Extended, Msin and Noar and always
// writes 0x35, an extended header, 0x01 and 1, which Decode reads back.
type Frame struct {
	Sec   uint32
	Usec  uint32
	Ecu   EcuId
	Mcnt  byte
	Htyp  byte
	Extended bool
	Msin  byte
	Noar  byte
	App   AppId
	Ctx   ContextId
	Payload string
}

// Encode serializes f into its on-wire byte layout. Encoding is total: it
// never fails given a well-formed Frame. Extended is always emitted (the
// library only produces verbose/log/info records), matching Htyp 0x35.
func Encode(f Frame) []byte {
	bodyLen := extendedHeaderLen + payloadLen(f.Payload)
	total := storageHeaderLen + standardHeaderLen + bodyLen

	buf := make([]byte, total)

	// Storage header.
	copy(buf[0:4], storageMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], f.Sec)
	binary.LittleEndian.PutUint32(buf[8:12], f.Usec)
	copy(buf[12:16], f.Ecu[:])

	// Standard header.
	buf[16] = htypExtended
	buf[17] = f.Mcnt
	// len covers everything after the storage header: standard + extended + payload.
	binary.LittleEndian.PutUint16(buf[18:20], uint16(standardHeaderLen+bodyLen))

	// Extended header.
	off := storageHeaderLen + standardHeaderLen
	buf[off] = msinVerboseLogInfo
	buf[off+1] = 1 // noar: one string argument
	copy(buf[off+2:off+6], f.App[:])
	copy(buf[off+6:off+10], f.Ctx[:])

	// Payload: 4-byte type descriptor, u16 length (incl. trailing null),
	// UTF-8 bytes, trailing null.
	poff := off + extendedHeaderLen
	binary.LittleEndian.PutUint32(buf[poff:poff+4], typeStringLE)
	strBytes := []byte(f.Payload)
	strLen := uint16(len(strBytes) + 1)
	binary.LittleEndian.PutUint16(buf[poff+4:poff+6], strLen)
	copy(buf[poff+6:poff+6+len(strBytes)], strBytes)
	buf[poff+6+len(strBytes)] = 0x00

	return buf
}

func payloadLen(s string) int {
	// type descriptor (4) + strlen field (2) + bytes + trailing null (1)
	return 4 + 2 + len(s) + 1
}

// Decode parses buf into a Frame. It fails with ErrBadMagic when the
// storage pattern mismatches, and ErrFrameTooShort when buf cannot contain
// the declared header and body.
func Decode(buf []byte) (Frame, error) {
	var f Frame
	if len(buf) < storageHeaderLen+standardHeaderLen {
		return f, ErrFrameTooShort
	}
	if buf[0] != storageMagic[0] || buf[1] != storageMagic[1] || buf[2] != storageMagic[2] || buf[3] != storageMagic[3] {
		return f, ErrBadMagic
	}
	f.Sec = binary.LittleEndian.Uint32(buf[4:8])
	f.Usec = binary.LittleEndian.Uint32(buf[8:12])
	copy(f.Ecu[:], buf[12:16])

	f.Htyp = buf[16]
	f.Mcnt = buf[17]
	declaredLen := binary.LittleEndian.Uint16(buf[18:20])
	f.Extended = f.Htyp&0x01 != 0

	need := storageHeaderLen + int(declaredLen)
	if len(buf) < need {
		return f, ErrFrameTooShort
	}
	if f.Extended && len(buf) < 30 {
		return f, ErrFrameTooShort
	}

	off := storageHeaderLen + standardHeaderLen
	if f.Extended {
		if len(buf) < off+extendedHeaderLen {
			return f, ErrFrameTooShort
		}
		f.Msin = buf[off]
		f.Noar = buf[off+1]
		copy(f.App[:], buf[off+2:off+6])
		copy(f.Ctx[:], buf[off+6:off+10])
		off += extendedHeaderLen
	}

	if len(buf) < off+6 {
		return f, ErrFrameTooShort
	}
	strLen := int(binary.LittleEndian.Uint16(buf[off+4 : off+6]))
	pstart := off + 6
	if len(buf) < pstart+strLen {
		return f, ErrFrameTooShort
	}
	if strLen > 0 {
		f.Payload = string(buf[pstart : pstart+strLen-1])
	}

	return f, nil
}

// Now returns the wall-clock seconds/microseconds pair used to stamp the
// storage header of a freshly encoded frame.
func Now() (sec, usec uint32) {
	t := time.Now()
	return uint32(t.Unix()), uint32(t.Nanosecond() / 1000)
}
