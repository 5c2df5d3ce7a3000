package rdb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructModuleNameRoundTrip(t *testing.T) {
	name := constructModuleName(jsonModuleID)
	require.Equal(t, "ReJSON-RL", name)
}

func TestModuleVersion(t *testing.T) {
	require.Equal(t, uint64(2), moduleVersion(jsonModuleID|2))
}

func TestReadJSONV3PlainString(t *testing.T) {
	data := []byte{
		byte(moduleOpCodeString), 0x02, 'h', 'i', // "hi"
		byte(moduleOpCodeEOF),
	}
	r := readerOver(t, data)
	doc, err := r.readJSON(jsonModuleV3)
	require.NoError(t, err)
	require.Equal(t, "hi", doc)
}

// encodeLen renders n the way readLen decodes it, matching the 6-bit/
// 14-bit/32-bit tag scheme. Every value used by these module fixtures fits
// in 14 bits.
func encodeLen(n uint64) []byte {
	if n < 64 {
		return []byte{byte(n)}
	}
	if n < 16384 {
		return []byte{len14Bit | byte(n>>8), byte(n)}
	}
	panic("encodeLen: fixture value too large for this helper")
}

func uintField(v uint64) []byte {
	out := []byte{byte(moduleOpCodeUInt)}
	return append(out, encodeLen(v)...)
}

func TestReadJSONV0Integer(t *testing.T) {
	var data []byte
	data = append(data, uintField(jsonModuleV0NodeInteger)...)
	data = append(data, uintField(42)...)
	data = append(data, byte(moduleOpCodeEOF))
	r := readerOver(t, data)
	doc, err := r.readJSON(jsonModuleV0)
	require.NoError(t, err)
	require.Equal(t, "42", doc)
}

func TestReadJSONV0Array(t *testing.T) {
	var data []byte
	data = append(data, uintField(jsonModuleV0NodeArray)...)
	data = append(data, uintField(2)...) // two elements
	data = append(data, uintField(jsonModuleV0NodeInteger)...)
	data = append(data, uintField(1)...)
	data = append(data, uintField(jsonModuleV0NodeInteger)...)
	data = append(data, uintField(2)...)
	data = append(data, byte(moduleOpCodeEOF))
	r := readerOver(t, data)
	doc, err := r.readJSON(jsonModuleV0)
	require.NoError(t, err)
	require.Equal(t, "[1,2]", doc)
}

func TestSkipModuleOpaque(t *testing.T) {
	data := []byte{
		byte(moduleOpCodeSInt), 5,
		byte(moduleOpCodeString), 0x03, 'f', 'o', 'o',
		byte(moduleOpCodeEOF),
	}
	r := readerOver(t, data)
	require.NoError(t, r.skipModuleOpaque())
}

func TestReadModule2UnknownModuleSkipped(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(len64Bit)
	idBytes := make([]byte, 8)
	for i := 0; i < 8; i++ {
		idBytes[7-i] = byte(0x01) // an id distinct from jsonModuleID
	}
	buf.Write(idBytes)
	buf.WriteByte(byte(moduleOpCodeEOF))

	r := readerOver(t, buf.Bytes())
	name, _, doc, understood, err := r.readModule2()
	require.NoError(t, err)
	require.False(t, understood)
	require.Empty(t, doc)
	require.NotEmpty(t, name)
}
