package rdb

import "unsafe"

// bytesToString converts a []byte to a string without copying. The caller
// must not mutate b for as long as the returned string is alive.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// stringToBytes converts a string to a []byte without copying. The returned
// slice must never be mutated.
func stringToBytes(s string) []byte {
	if len(s) == 0 {
		return emptyBytes
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

var emptyBytes = []byte{}
