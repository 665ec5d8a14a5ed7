/*
   Copyright The GzipDecompressor Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package bitreader provides unaligned, least-significant-bit-first reads
// over a byte stream, plus the byte-alignment dance DEFLATE needs around
// stored blocks.
package bitreader

import (
	"bufio"
	"errors"
	"io"
)

// ErrUnexpectedEOF is returned when the underlying source is exhausted
// mid-read. It is the stdlib io.ErrUnexpectedEOF itself, so callers can
// match on either with errors.Is.
var ErrUnexpectedEOF = io.ErrUnexpectedEOF

// Reader is the minimal interface BitReader needs from its source.
type Reader interface {
	io.Reader
	io.ByteReader
}

// BitReader wraps a byte source and serves unaligned bit reads,
// least-significant-bit-first within each source byte.
type BitReader struct {
	src  Reader
	buf  *bufio.Reader
	bits uint64
	n    uint
}

// New wraps r. If r does not already implement Reader (ReadByte), it is
// buffered so ReadByte becomes available without losing bytes across the
// boundary operations.
func New(r io.Reader) *BitReader {
	br := &BitReader{}
	br.reset(r)
	return br
}

func (br *BitReader) reset(r io.Reader) {
	if rr, ok := r.(Reader); ok {
		br.src = rr
		br.buf = nil
		return
	}
	br.buf = bufio.NewReader(r)
	br.src = br.buf
}

// ReadBits returns the next n bits (1 <= n <= 32) as a little-endian
// integer: within each source byte bits are consumed least-significant
// first, and later bytes occupy more-significant positions of the result.
func (br *BitReader) ReadBits(n uint) (uint32, error) {
	if n < 1 || n > 32 {
		panic("bitreader: ReadBits: n out of range")
	}
	for br.n < n {
		c, err := br.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		br.bits |= uint64(c) << br.n
		br.n += 8
	}
	v := uint32(br.bits & ((1 << n) - 1))
	br.bits >>= n
	br.n -= n
	return v, nil
}

// BorrowReaderFromBoundary discards any buffered partial byte and returns
// the underlying byte source positioned at the next byte boundary. Used
// before stored blocks, whose LEN/NLEN/data are byte-aligned.
func (br *BitReader) BorrowReaderFromBoundary() Reader {
	br.bits = 0
	br.n = 0
	return br.src
}

// ReturnReaderToBoundary re-attaches the byte source after a caller is
// done reading through the reader handed out by BorrowReaderFromBoundary.
// It is a no-op beyond the type-level acknowledgement that bit reads may
// resume: BitReader never buffers past the byte the caller read from, so
// there is nothing to reconcile.
func (br *BitReader) ReturnReaderToBoundary() {}
