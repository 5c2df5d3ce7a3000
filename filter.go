package rdb

// Filter decides, before any value body is read, whether a database or a
// key should be decoded at all. Decode always calls Database for a
// SELECTDB record and, if that database is kept, calls Key for every key
// header read in it. A rejected database causes every key in it to be
// skipped without a single Key call; a rejected key is skipped without any
// of its value bytes reaching the Sink.
//
// Implementations live in the rdb/filter subpackage; Filter is declared
// here so the core decoder does not import its own subpackage.
type Filter interface {
	// Database reports whether keys in database db should be decoded.
	Database(db uint64) bool

	// Key reports whether the given key should be decoded, given its
	// database, name and wire type — but before any of its value bytes
	// have been consumed.
	Key(info KeyInfo) bool
}

// keepAllFilter is the default Filter used when Options.Filter is nil: it
// accepts every database and every key.
type keepAllFilter struct{}

func (keepAllFilter) Database(db uint64) bool  { return true }
func (keepAllFilter) Key(info KeyInfo) bool    { return true }

var _ Filter = keepAllFilter{}
