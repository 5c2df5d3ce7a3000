package rdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseZiplistString(t *testing.T) {
	blob := make([]byte, 10) // zlbytes/zltail/zllen headers, unused by the parser
	blob = append(blob, 0)   // prevlen
	blob = append(blob, 0x02, 'a', 'b')
	blob = append(blob, ziplistEnd)
	out, err := parseZiplist(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"ab"}, out)
}

func TestParseZiplistInt8(t *testing.T) {
	blob := make([]byte, 10)
	blob = append(blob, 0)
	blob = append(blob, ziplistEncInt8, 5)
	blob = append(blob, ziplistEnd)
	out, err := parseZiplist(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"5"}, out)
}

func TestParseZiplistTruncated(t *testing.T) {
	blob := make([]byte, 10)
	blob = append(blob, 0, 0x02, 'a') // claims a 2-byte string, only 1 present, no terminator
	_, err := parseZiplist(blob)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseListpackString(t *testing.T) {
	blob := make([]byte, 6) // total-bytes/num-elements headers, unused by the parser
	blob = append(blob, listpackEnc6bitStrLen|1, 'x', 0x00)
	blob = append(blob, listpackEnd)
	out, err := parseListpack(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, out)
}

func TestParseListpackUint7(t *testing.T) {
	blob := make([]byte, 6)
	blob = append(blob, 42, 0x00) // uint7 value 42, 1-byte backlen
	blob = append(blob, listpackEnd)
	out, err := parseListpack(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"42"}, out)
}

func TestParseIntsetInt16(t *testing.T) {
	blob := []byte{
		2, 0, 0, 0, // encoding = int16
		1, 0, 0, 0, // length = 1
		7, 0, // value = 7 LE
	}
	out, err := parseIntset(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, out)
}

func TestParseIntsetNegative(t *testing.T) {
	blob := []byte{
		2, 0, 0, 0,
		1, 0, 0, 0,
		0xFF, 0xFF, // -1 LE int16
	}
	out, err := parseIntset(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"-1"}, out)
}

func TestParseZipmapPair(t *testing.T) {
	blob := []byte{1, 1, 'f', 1, 0, 'v', zipmapEnd}
	out, err := parseZipmap(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"f", "v"}, out)
}

func TestParseZipmapMalformed(t *testing.T) {
	blob := []byte{1, 5, 'f'} // key length 5 but only 1 byte follows, no terminator
	_, err := parseZipmap(blob)
	require.ErrorIs(t, err, ErrMalformed)
}
