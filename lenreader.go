package rdb

import "encoding/binary"

// valueReader decodes RDB length prefixes, strings and every collection
// value shape on top of a byteSource. It holds no position state of its
// own beyond what the underlying byteSource tracks.
type valueReader struct {
	src  byteSource
	caps sanityCaps
}

func newValueReader(src byteSource, caps sanityCaps) *valueReader {
	return &valueReader{src: src, caps: caps}
}

// readLen reads an RDB length prefix. If the prefix instead encodes a
// special value (one of the integer or LZF encodings), special is true and
// val holds the raw encoding selector (one of lenEncodingInt8/16/32/LZF)
// rather than a length.
func (r *valueReader) readLen() (val uint64, special bool, err error) {
	b, err := r.src.Get(1)
	if err != nil {
		return 0, false, err
	}
	first := b[0]
	switch first & 0b11000000 {
	case len6Bit:
		return uint64(first & 0b00111111), false, nil
	case len14Bit:
		b2, err := r.src.Get(1)
		if err != nil {
			return 0, false, err
		}
		return uint64(first&0b00111111)<<8 | uint64(b2[0]), false, nil
	case len32Or64Bit:
		if first == len32Bit {
			b4, err := r.src.Get(4)
			if err != nil {
				return 0, false, err
			}
			return uint64(binary.BigEndian.Uint32(b4)), false, nil
		}
		if first == len64Bit {
			b8, err := r.src.Get(8)
			if err != nil {
				return 0, false, err
			}
			return binary.BigEndian.Uint64(b8), false, nil
		}
		return 0, false, ErrMalformed
	case lenEncodedValue:
		return uint64(first & 0b00111111), true, nil
	}
	return 0, false, ErrMalformed
}

// checkLen enforces the configured sanity cap on a just-read length.
func (r *valueReader) checkLen(n uint64, limit uint64) error {
	if limit != 0 && n > limit {
		return ErrSanityCapExceeded
	}
	return nil
}

// ReadString reads a length-or-special-encoded string: a raw byte run, one
// of the three integer encodings rendered back to its decimal text form, or
// an LZF-compressed run that is decompressed before being returned.
func (r *valueReader) ReadString() (string, error) {
	n, special, err := r.readLen()
	if err != nil {
		return "", err
	}
	if !special {
		if err := r.checkLen(n, r.caps.MaxEntrySize); err != nil {
			return "", err
		}
		b, err := r.src.Get(int(n))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch n {
	case lenEncodingInt8:
		b, err := r.src.Get(1)
		if err != nil {
			return "", err
		}
		return itoa(int64(int8(b[0]))), nil
	case lenEncodingInt16:
		b, err := r.src.Get(2)
		if err != nil {
			return "", err
		}
		return itoa(int64(int16(binary.LittleEndian.Uint16(b)))), nil
	case lenEncodingInt32:
		b, err := r.src.Get(4)
		if err != nil {
			return "", err
		}
		return itoa(int64(int32(binary.LittleEndian.Uint32(b)))), nil
	case lenEncodingLZF:
		compLen, _, err := r.readLen()
		if err != nil {
			return "", err
		}
		origLen, _, err := r.readLen()
		if err != nil {
			return "", err
		}
		if err := r.checkLen(origLen, r.caps.MaxEntrySize); err != nil {
			return "", err
		}
		comp, err := r.src.Get(int(compLen))
		if err != nil {
			return "", err
		}
		out, err := decompressLZF(comp, int(origLen))
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", ErrMalformed
	}
}


func (r *valueReader) readFloat64LE() (float64, error) {
	b, err := r.src.Get(8)
	if err != nil {
		return 0, err
	}
	return float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readDoubleValue reads the RDB "old style" ASCII-encoded zset score: a
// length byte (255/254/253 meaning -inf/+inf/NaN, anything else the byte
// length of an ASCII float) followed by that many ASCII bytes.
func (r *valueReader) readDoubleValue() (float64, error) {
	b, err := r.src.Get(1)
	if err != nil {
		return 0, err
	}
	switch b[0] {
	case 255:
		return negInf, nil
	case 254:
		return posInf, nil
	case 253:
		return nan, nil
	default:
		raw, err := r.src.Get(int(b[0]))
		if err != nil {
			return 0, err
		}
		return parseFloatASCII(raw)
	}
}
