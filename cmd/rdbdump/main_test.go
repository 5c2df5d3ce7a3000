package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	rdb "github.com/upstash/rdbdump"
)

func TestSplitNonEmpty(t *testing.T) {
	require.Nil(t, splitNonEmpty(""))
	require.Equal(t, []string{"1", "2"}, splitNonEmpty("1, 2"))
	require.Equal(t, []string{"a"}, splitNonEmpty("a,,"))
}

func TestParseValueType(t *testing.T) {
	vt, ok := parseValueType("Hash")
	require.True(t, ok)
	require.Equal(t, rdb.ValueHash, vt)

	_, ok = parseValueType("bogus")
	require.False(t, ok)
}

func TestParseFilterEmptyMeansNil(t *testing.T) {
	f, err := parseFilter("", "")
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestParseFilterInvalidDatabase(t *testing.T) {
	_, err := parseFilter("not-a-number", "")
	require.Error(t, err)
}

func TestParseFilterInvalidType(t *testing.T) {
	_, err := parseFilter("", "bogus")
	require.Error(t, err)
}

func TestParseFilterBuildsRestriction(t *testing.T) {
	f, err := parseFilter("0,1", "hash")
	require.NoError(t, err)
	require.NotNil(t, f)
	require.True(t, f.Database(0))
	require.False(t, f.Database(2))
	require.True(t, f.Key(rdb.KeyInfo{ValueType: rdb.ValueHash}))
	require.False(t, f.Key(rdb.KeyInfo{ValueType: rdb.ValueString}))
}

func TestNewFormatterUnknown(t *testing.T) {
	_, _, err := newFormatter("bogus", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewFormatterKnownKinds(t *testing.T) {
	for _, kind := range []string{"json", "plain", "protocol"} {
		sink, flush, err := newFormatter(kind, &bytes.Buffer{})
		require.NoError(t, err)
		require.NotNil(t, sink)
		require.NoError(t, flush())
	}
}

func minimalRDB() []byte {
	var b bytes.Buffer
	b.WriteString("REDIS0011")
	b.WriteByte(0xFE) // SELECTDB
	b.WriteByte(0x00) // db 0
	b.WriteByte(0x00) // TypeString
	b.WriteByte(0x03) // key length 3
	b.WriteString("foo")
	b.WriteByte(0x03) // value length 3
	b.WriteString("bar")
	b.WriteByte(0xFF) // EOF
	b.Write(make([]byte, 8))
	return b.Bytes()
}

func TestRunDecodesFileToOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dump.rdb")
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(in, minimalRDB(), 0o644))

	code := run([]string{"-format", "json", "-output", out, in})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"foo":{"type":"string","value":"bar"}`)
}

func TestRunVerifyReportsOK(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dump.rdb")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, minimalRDB(), 0o644))

	code := run([]string{"-verify", "-output", out, in})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "OK version=11")
}

func TestRunReportsMissingFile(t *testing.T) {
	code := run([]string{filepath.Join(t.TempDir(), "missing.rdb")})
	require.Equal(t, 1, code)
}

func TestRunRejectsBadFlags(t *testing.T) {
	code := run([]string{"-format", "bogus"})
	require.Equal(t, 2, code)
}
