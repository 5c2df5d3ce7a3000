package rdb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildValidFixture(t *testing.T) []byte {
	t.Helper()
	f := newFixture("0011")
	f.byte(0xFE).len6(0) // SELECTDB 0
	f.byte(byte(TypeString)).str("foo").str("bar")
	f.byte(0xFF)
	body := f.buf.Bytes()

	crc := updateCRC(0, body)
	footer := make([]byte, 8)
	v := crc
	for i := 0; i < 8; i++ {
		footer[i] = byte(v)
		v >>= 8
	}
	return append(body, footer...)
}

func TestVerifyFileValidChecksum(t *testing.T) {
	data := buildValidFixture(t)
	result, err := VerifyFile(bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, uint16(11), result.Version)
	require.Equal(t, int64(len(data)), result.Bytes)
	require.Equal(t, int64(len(data)-crcLen), result.Offset)
}

func TestVerifyFileReportsMismatch(t *testing.T) {
	data := buildValidFixture(t)
	data[len(data)-1] ^= 0xFF // corrupt one footer byte

	result, err := VerifyFile(bytes.NewReader(data))
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, int64(len(data)-crcLen), result.Offset)
}

func TestVerifyFileAllZeroFooterIsOK(t *testing.T) {
	f := newFixture("0011")
	f.byte(0xFE).len6(0)
	f.byte(byte(TypeString)).str("foo").str("bar")
	data := f.finishNoChecksum()

	result, err := VerifyFile(bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, result.OK)
}

func TestVerifyFileRejectsBadMagic(t *testing.T) {
	data := append([]byte("NOTREDIS"), 0xFF)
	data = append(data, make([]byte, 8)...)
	_, err := VerifyFile(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestVerifyFileRejectsTruncated(t *testing.T) {
	data := buildValidFixture(t)
	_, err := VerifyFile(bytes.NewReader(data[:len(data)-3]))
	require.Error(t, err)
}
