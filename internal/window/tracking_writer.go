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

// Package window provides the output side of DEFLATE decompression: a
// writer that tracks a running CRC-32 and total size the way the gzip
// trailer requires, backed by a 32 KiB history buffer so LZ77
// back-references can be resolved without holding the whole output in
// memory.
package window

import (
	"hash"
	"hash/crc32"
	"io"

	"github.com/Darisishe/GzipDecompressor/internal/gzerr"
)

// HistorySize is the maximum distance DEFLATE back-references can name,
// fixed by RFC 1951 to 32 KiB.
const HistorySize = 32768

// TrackingWriter is an io.Writer that forwards bytes to dst while
// maintaining a CRC-32 checksum, a total byte count, and a sliding window
// of the most recent HistorySize bytes for WritePrevious to copy from.
type TrackingWriter struct {
	dst  io.Writer
	crc  hash.Hash32
	size uint32

	hist [HistorySize]byte
	pos  int
	full bool
}

// New returns a TrackingWriter forwarding to dst.
func New(dst io.Writer) *TrackingWriter {
	return &TrackingWriter{dst: dst, crc: crc32.NewIEEE()}
}

// Write implements io.Writer: every byte is appended to dst, folded into
// the CRC, counted toward Size, and recorded in the history ring.
func (w *TrackingWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := w.dst.Write(p); err != nil {
		return 0, err
	}
	w.crc.Write(p)
	w.size += uint32(len(p))
	for _, b := range p {
		w.hist[w.pos] = b
		w.pos++
		if w.pos == HistorySize {
			w.pos = 0
			w.full = true
		}
	}
	return len(p), nil
}

// available reports how many distinct bytes of history are currently
// resolvable, capped at HistorySize.
func (w *TrackingWriter) available() int {
	if w.full {
		return HistorySize
	}
	return w.pos
}

// WritePrevious emits length bytes copied from dist bytes back in the
// output stream. Distance may be smaller than length: DEFLATE's
// run-length back-references rely on reading bytes that were themselves
// just written by this same call, so each byte is copied individually
// through Write rather than in one bulk slice copy.
func (w *TrackingWriter) WritePrevious(dist, length int) error {
	if dist <= 0 || dist > HistorySize || dist > w.available() {
		return &gzerr.InvalidDistanceError{Distance: dist, Available: w.available()}
	}
	var one [1]byte
	for i := 0; i < length; i++ {
		srcPos := w.pos - dist
		if srcPos < 0 {
			srcPos += HistorySize
		}
		one[0] = w.hist[srcPos]
		if _, err := w.Write(one[:]); err != nil {
			return err
		}
	}
	return nil
}

// CRC32 returns the IEEE CRC-32 of every byte written so far.
func (w *TrackingWriter) CRC32() uint32 {
	return w.crc.Sum32()
}

// Size returns the total byte count written so far, truncated to 32 bits
// the way gzip's ISIZE trailer field is.
func (w *TrackingWriter) Size() uint32 {
	return w.size
}
