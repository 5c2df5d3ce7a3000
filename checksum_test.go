package rdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyChecksumAllZeroFooterAlwaysValid(t *testing.T) {
	require.True(t, verifyChecksum(0x1234, make([]byte, 8)))
}

func TestVerifyChecksumMatches(t *testing.T) {
	crc := updateCRC(0, []byte("hello"))
	footer := make([]byte, 8)
	v := crc
	for i := 0; i < 8; i++ {
		footer[i] = byte(v)
		v >>= 8
	}
	require.True(t, verifyChecksum(crc, footer))
}

func TestVerifyChecksumMismatch(t *testing.T) {
	footer := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.False(t, verifyChecksum(0, footer))
}

func TestVerifyChecksumWrongLength(t *testing.T) {
	require.False(t, verifyChecksum(0, []byte{1, 2, 3}))
}

func TestUpdateCRCIncremental(t *testing.T) {
	whole := updateCRC(0, []byte("hello world"))
	split := updateCRC(updateCRC(0, []byte("hello ")), []byte("world"))
	require.Equal(t, whole, split)
}

func TestUpdateCRCKnownValue(t *testing.T) {
	require.Equal(t, uint64(0), updateCRC(0, []byte{}))
	require.Equal(t, uint64(816497613141667909), updateCRC(0, []byte{1, 2, 3, 4, 44, 42, 252}))
}
