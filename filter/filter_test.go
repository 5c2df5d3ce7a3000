package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	rdb "github.com/upstash/rdbdump"
	"github.com/upstash/rdbdump/filter"
)

func TestKeepAcceptsEverything(t *testing.T) {
	var k filter.Keep
	require.True(t, k.Database(7))
	require.True(t, k.Key(rdb.KeyInfo{Key: "anything"}))
}

func TestSimpleDatabaseRestriction(t *testing.T) {
	s := filter.NewSimple([]uint64{1, 2}, nil)
	require.True(t, s.Database(1))
	require.True(t, s.Database(2))
	require.False(t, s.Database(3))
	require.True(t, s.Key(rdb.KeyInfo{}))
}

func TestSimpleTypeRestriction(t *testing.T) {
	s := filter.NewSimple(nil, []rdb.ValueType{rdb.ValueHash})
	require.True(t, s.Database(99)) // no database restriction configured
	require.True(t, s.Key(rdb.KeyInfo{ValueType: rdb.ValueHash}))
	require.False(t, s.Key(rdb.KeyInfo{ValueType: rdb.ValueString}))
}

func TestSimpleEmptyMeansUnrestricted(t *testing.T) {
	s := &filter.Simple{}
	require.True(t, s.Database(5))
	require.True(t, s.Key(rdb.KeyInfo{ValueType: rdb.ValueSet}))
}

func TestFuncDelegatesAndDefaultsOpen(t *testing.T) {
	f := filter.Func{KeyFunc: func(info rdb.KeyInfo) bool { return info.Key == "keep" }}
	require.True(t, f.Database(0)) // no DatabaseFunc set -> keep everything
	require.True(t, f.Key(rdb.KeyInfo{Key: "keep"}))
	require.False(t, f.Key(rdb.KeyInfo{Key: "drop"}))
}
