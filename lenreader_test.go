package rdb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func readerOver(t *testing.T, data []byte) *valueReader {
	t.Helper()
	return newValueReader(newStreamSource(bytes.NewReader(data)), defaultSanityCaps())
}

func TestReadLen6Bit(t *testing.T) {
	r := readerOver(t, []byte{0x0A})
	n, special, err := r.readLen()
	require.NoError(t, err)
	require.False(t, special)
	require.Equal(t, uint64(10), n)
}

func TestReadLen14Bit(t *testing.T) {
	// top two bits 01, remaining 14 bits = 0x0123
	r := readerOver(t, []byte{0b01000001, 0x23})
	n, special, err := r.readLen()
	require.NoError(t, err)
	require.False(t, special)
	require.Equal(t, uint64(0x0123), n)
}

func TestReadLen32Bit(t *testing.T) {
	r := readerOver(t, []byte{len32Bit, 0x00, 0x01, 0x00, 0x00})
	n, special, err := r.readLen()
	require.NoError(t, err)
	require.False(t, special)
	require.Equal(t, uint64(0x00010000), n)
}

func TestReadLen64Bit(t *testing.T) {
	r := readerOver(t, []byte{len64Bit, 0, 0, 0, 0, 0, 0, 0, 1})
	n, special, err := r.readLen()
	require.NoError(t, err)
	require.False(t, special)
	require.Equal(t, uint64(1), n)
}

func TestReadLenSpecialEncoding(t *testing.T) {
	r := readerOver(t, []byte{byte(0b11000000 | lenEncodingInt8)})
	n, special, err := r.readLen()
	require.NoError(t, err)
	require.True(t, special)
	require.Equal(t, uint64(lenEncodingInt8), n)
}

func TestReadStringRaw(t *testing.T) {
	r := readerOver(t, append([]byte{0x05}, "hello"...))
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestReadStringInt8(t *testing.T) {
	r := readerOver(t, []byte{byte(0b11000000 | lenEncodingInt8), 0xFF}) // -1
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "-1", s)
}

func TestReadStringInt16(t *testing.T) {
	r := readerOver(t, []byte{byte(0b11000000 | lenEncodingInt16), 0x2C, 0x01}) // 300 LE
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "300", s)
}

func TestReadStringInt32(t *testing.T) {
	r := readerOver(t, []byte{byte(0b11000000 | lenEncodingInt32), 0x00, 0x00, 0x01, 0x00}) // 65536 LE
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "65536", s)
}

func TestReadStringLZF(t *testing.T) {
	// "aaaaaaaaaa" (10 bytes) compressed as a single literal run of 10.
	comp := []byte{9} // literal run length-1 = 9 -> 10 literal bytes follow
	comp = append(comp, []byte("aaaaaaaaaa")...)
	data := []byte{byte(0b11000000 | lenEncodingLZF)}
	data = append(data, byte(len(comp))) // compressed length (6-bit)
	data = append(data, 10)              // original length (6-bit)
	data = append(data, comp...)
	r := readerOver(t, data)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "aaaaaaaaaa", s)
}

func TestReadStringSanityCapExceeded(t *testing.T) {
	r := newValueReader(newStreamSource(bytes.NewReader([]byte{0x05, 'h', 'e', 'l', 'l', 'o'})), sanityCaps{MaxEntrySize: 2})
	_, err := r.ReadString()
	require.ErrorIs(t, err, ErrSanityCapExceeded)
}

func TestReadDoubleValueSpecials(t *testing.T) {
	r := readerOver(t, []byte{255})
	v, err := r.readDoubleValue()
	require.NoError(t, err)
	require.Equal(t, negInf, v)

	r = readerOver(t, []byte{254})
	v, err = r.readDoubleValue()
	require.NoError(t, err)
	require.Equal(t, posInf, v)
}

func TestReadDoubleValueASCII(t *testing.T) {
	raw := []byte("3.5")
	r := readerOver(t, append([]byte{byte(len(raw))}, raw...))
	v, err := r.readDoubleValue()
	require.NoError(t, err)
	require.Equal(t, 3.5, v)
}
