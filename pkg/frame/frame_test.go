package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := Frame{
		Sec:      1700000000,
		Usec:     123456,
		Ecu:      NewEcuId("ECU1"),
		Mcnt:     7,
		Extended: true,
		Noar:     1,
		App:      NewAppId("LOG"),
		Ctx:      NewContextId("TEST"),
		Payload:  "0 Hello",
	}

	wire := Encode(f)
	got, err := Decode(wire)
	require.NoError(t, err)

	assert.Equal(t, f.Sec, got.Sec)
	assert.Equal(t, f.Usec, got.Usec)
	assert.Equal(t, f.Ecu, got.Ecu)
	assert.Equal(t, f.Mcnt, got.Mcnt)
	assert.Equal(t, byte(0x35), got.Htyp)
	assert.True(t, got.Extended)
	assert.Equal(t, f.Noar, got.Noar)
	assert.Equal(t, f.App, got.App)
	assert.Equal(t, f.Ctx, got.Ctx)
	assert.Equal(t, f.Payload, got.Payload)
}

func TestEncodeEmptyPayload(t *testing.T) {
	f := Frame{Ecu: NewEcuId("ECU1"), Extended: true, Noar: 1, App: NewAppId("A"), Ctx: NewContextId("C"), Payload: ""}
	wire := Encode(f)
	got, err := Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, "", got.Payload)
}

func TestDecodeBadMagic(t *testing.T) {
	buf := make([]byte, 20)
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeTooShort(t *testing.T) {
	_, err := Decode([]byte{'D', 'L', 'T', 0x01})
	assert.ErrorIs(t, err, ErrFrameTooShort)
}

func TestIdPaddingAndTruncation(t *testing.T) {
	assert.Equal(t, "AB", NewAppId("AB").String())
	assert.Equal(t, "WXYZ", NewAppId("WXYZLONG").String())
}

func TestDecodeKnownWireBytes(t *testing.T) {
	f := Frame{
		Ecu:      NewEcuId("ECU1"),
		Extended: true,
		Noar:     1,
		App:      NewAppId("LOG"),
		Ctx:      NewContextId("TEST"),
		Payload:  "0 Hello",
	}
	wire := Encode(f)
	// storage(16) + standard(4) + extended(10) + payload(4 type + 2 len + 7 bytes + 1 null)
	assert.Equal(t, 44, len(wire))

	got, err := Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, byte(0x35), got.Htyp)
	assert.Equal(t, byte(1), got.Noar)
	assert.Equal(t, "0 Hello", got.Payload)
}
