package rdb

import (
	"hash/crc64"
	"math/bits"
)

// poly is the CRC-64 polynomial Redis/Valkey uses for the trailing RDB
// checksum: the "Jones" variant, not the ISO or ECMA polynomial that
// hash/crc64 ships constants for.
const poly uint64 = 0xAD93D23594C935A9

var crcTable = buildCrc64Table()

// buildCrc64Table constructs a CRC-64/Jones table compatible with Redis's
// own bit convention, by reflecting each table entry the way Redis's
// byte-at-a-time implementation does.
func buildCrc64Table() *crc64.Table {
	table := new(crc64.Table)
	for i := 0; i < 256; i++ {
		var bit, crc uint64
		for j := uint8(1); j&0xFF != 0; j <<= 1 {
			bit = crc & 0x8000000000000000
			if uint8(i)&j != 0 {
				if bit == 0 {
					bit = 1
				} else {
					bit = 0
				}
			}
			crc <<= 1
			if bit != 0 {
				crc ^= poly
			}
		}
		table[i] = bits.Reverse64(crc)
	}
	return table
}

// updateCRC folds payload into the running crc, matching Redis's
// crc64(crc, buf, len) convention. hash/crc64.Update applies its own
// pre/post bitwise complement (correct for ISO/ECMA CRC-64, whose Init and
// XorOut are all-ones), but the Jones variant Redis uses has Init=XorOut=0.
// XOR-ing the crc in and the result out cancels that complement back out.
func updateCRC(crc uint64, payload []byte) uint64 {
	return ^crc64.Update(^crc, crcTable, payload)
}

// verifyChecksum reports whether the trailing 8-byte little-endian CRC-64
// in footer matches the running crc computed over everything preceding it.
// A footer of all zero bytes means the writer opted out of checksumming
// (permitted by the format for version >= 5) and is treated as valid.
func verifyChecksum(crc uint64, footer []byte) bool {
	if len(footer) != 8 {
		return false
	}
	var want uint64
	for i := 7; i >= 0; i-- {
		want = (want << 8) | uint64(footer[i])
	}
	if want == 0 {
		return true
	}
	return want == crc
}
