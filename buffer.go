package rdb

import (
	"bufio"
	"io"
)

// byteSource is the minimal forward-only byte reader every decode pass runs
// on. Get(n) returns exactly n bytes or an error; the returned slice is only
// guaranteed valid until the next call to Get on the same byteSource.
type byteSource interface {
	Get(n int) ([]byte, error)
	Pos() int64
}

// streamSource reads from an io.Reader exactly once, forward-only. It is
// the byteSource backing both file and stdin input: neither needs to be
// seekable. It maintains a running CRC-64 over every byte handed out via
// Get, since the trailing checksum footer is read through ReadFooter
// instead, which does not feed the running sum.
type streamSource struct {
	r    *bufio.Reader
	pos  int64
	crc  uint64
	scratch []byte
}

func newStreamSource(r io.Reader) *streamSource {
	return &streamSource{r: bufio.NewReaderSize(r, 64*1024)}
}

func (s *streamSource) Get(n int) ([]byte, error) {
	if n == 0 {
		return emptyBytes, nil
	}
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	buf := s.scratch[:n]
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	s.crc = updateCRC(s.crc, buf)
	s.pos += int64(n)
	return buf, nil
}

// ReadFooter reads the final n bytes of the stream without feeding them
// into the running checksum, since the footer is the checksum itself.
func (s *streamSource) ReadFooter(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	s.pos += int64(n)
	return buf, nil
}

func (s *streamSource) Pos() int64 { return s.pos }

func (s *streamSource) CRC() uint64 { return s.crc }
