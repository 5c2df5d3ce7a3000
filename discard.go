package rdb

// discardSink is a Sink that does nothing. The decoder substitutes it for
// the caller's Sink whenever a Filter rejects a database or a key, so the
// value body is still walked (the decoder must advance past it to find the
// next record) but none of its bytes are ever copied out to the caller.
type discardSink struct{}

func (discardSink) StartStream(version uint16) error                            { return nil }
func (discardSink) EndStream(checksumOK *bool, decodeErr error) error           { return nil }
func (discardSink) StartDatabase(db uint64, sizeHint, expiresHint uint64) error { return nil }
func (discardSink) EndDatabase(db uint64) error                                 { return nil }
func (discardSink) Aux(key, value string) error                                 { return nil }
func (discardSink) StartKey(info KeyInfo) error                                 { return nil }
func (discardSink) EndKey(info KeyInfo) error                                   { return nil }
func (discardSink) String(value string) error                                   { return nil }
func (discardSink) ListItem(value string) error                                 { return nil }
func (discardSink) SetItem(value string) error                                  { return nil }
func (discardSink) HashItem(field, value string, ttl int64) error               { return nil }
func (discardSink) ZsetItem(member string, score float64) error                 { return nil }
func (discardSink) StreamMeta(meta StreamMeta) error                            { return nil }
func (discardSink) StreamEntry(entry StreamEntry) error                         { return nil }
func (discardSink) StreamGroup(group StreamConsumerGroup) error                 { return nil }
func (discardSink) Module(moduleName string, moduleVersion uint64, doc string, understood bool) error {
	return nil
}

var _ Sink = discardSink{}
