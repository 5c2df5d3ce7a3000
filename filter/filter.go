// Package filter provides concrete rdb.Filter implementations deciding
// which databases and keys a decode pass should keep.
package filter

import "github.com/upstash/rdbdump"

// Keep accepts everything; it is the filter Decode uses when none is
// configured, exposed here for callers that want to wrap or compose it
// explicitly.
type Keep struct{}

func (Keep) Database(db uint64) bool    { return true }
func (Keep) Key(info rdb.KeyInfo) bool  { return true }

// Simple restricts a decode to an allow-list of databases and/or key
// types. A nil or empty list means "no restriction" for that dimension.
// Grounded on the reference implementation's own filter::Simple, which
// offers the same two allow-lists plus an optional key-name glob (Func
// covers the glob case, composed by the caller).
type Simple struct {
	Databases map[uint64]bool
	Types     map[rdb.ValueType]bool
}

// NewSimple builds a Simple filter from slices, for convenience at call
// sites that already have a []uint64/[]rdb.ValueType (e.g. parsed from CLI
// flags) rather than a pre-built map.
func NewSimple(databases []uint64, types []rdb.ValueType) *Simple {
	s := &Simple{}
	if len(databases) > 0 {
		s.Databases = make(map[uint64]bool, len(databases))
		for _, db := range databases {
			s.Databases[db] = true
		}
	}
	if len(types) > 0 {
		s.Types = make(map[rdb.ValueType]bool, len(types))
		for _, t := range types {
			s.Types[t] = true
		}
	}
	return s
}

func (s *Simple) Database(db uint64) bool {
	if len(s.Databases) == 0 {
		return true
	}
	return s.Databases[db]
}

func (s *Simple) Key(info rdb.KeyInfo) bool {
	if len(s.Types) == 0 {
		return true
	}
	return s.Types[info.ValueType]
}

// Func adapts two plain functions into an rdb.Filter, for callers that
// want ad hoc logic (a key-name glob, a size threshold) without declaring
// a named type.
type Func struct {
	DatabaseFunc func(db uint64) bool
	KeyFunc      func(info rdb.KeyInfo) bool
}

func (f Func) Database(db uint64) bool {
	if f.DatabaseFunc == nil {
		return true
	}
	return f.DatabaseFunc(db)
}

func (f Func) Key(info rdb.KeyInfo) bool {
	if f.KeyFunc == nil {
		return true
	}
	return f.KeyFunc(info)
}

var (
	_ rdb.Filter = Keep{}
	_ rdb.Filter = &Simple{}
	_ rdb.Filter = Func{}
)
