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

// Package gzipframe parses the gzip container (RFC 1952) around a single
// DEFLATE member: the header with its optional extra/name/comment fields
// and CRC-16 self-check, and the trailer's CRC-32/ISIZE fields.
package gzipframe

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/Darisishe/GzipDecompressor/internal/gzerr"
)

const (
	id1       = 0x1f
	id2       = 0x8b
	cmDeflate = 8

	flagText    = 1 << 0
	flagHCRC    = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
)

// Header holds the fields of a gzip member header that survive past
// parsing; the fixed ID/CM bytes are validated but not kept since callers
// never need them again.
type Header struct {
	MTIME   uint32
	XFL     byte
	OS      byte
	Name    string
	Comment string
	Extra   []byte
}

// ReadHeader parses one gzip member header from r, including any
// FEXTRA/FNAME/FCOMMENT fields the flag byte advertises, and verifies the
// optional FHCRC field against a CRC-16 (low 16 bits of the IEEE CRC-32)
// of every header byte read before it.
func ReadHeader(r io.Reader) (*Header, error) {
	var headerBuf bytes.Buffer
	tee := io.TeeReader(r, &headerBuf)

	var fixed [10]byte
	if _, err := io.ReadFull(tee, fixed[:]); err != nil {
		return nil, wrapEOF(err)
	}
	if fixed[0] != id1 || fixed[1] != id2 {
		return nil, gzerr.ErrWrongIDValues
	}
	if fixed[2] != cmDeflate {
		return nil, gzerr.ErrUnsupportedCompressionMethod
	}
	flg := fixed[3]

	h := &Header{
		MTIME: binary.LittleEndian.Uint32(fixed[4:8]),
		XFL:   fixed[8],
		OS:    fixed[9],
	}

	if flg&flagExtra != 0 {
		var xlenBuf [2]byte
		if _, err := io.ReadFull(tee, xlenBuf[:]); err != nil {
			return nil, wrapEOF(err)
		}
		xlen := binary.LittleEndian.Uint16(xlenBuf[:])
		extra := make([]byte, xlen)
		if _, err := io.ReadFull(tee, extra); err != nil {
			return nil, wrapEOF(err)
		}
		h.Extra = extra
	}
	if flg&flagName != 0 {
		s, err := readCString(tee)
		if err != nil {
			return nil, err
		}
		h.Name = s
	}
	if flg&flagComment != 0 {
		s, err := readCString(tee)
		if err != nil {
			return nil, err
		}
		h.Comment = s
	}
	if flg&flagHCRC != 0 {
		var crcBuf [2]byte
		if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
			return nil, wrapEOF(err)
		}
		want := binary.LittleEndian.Uint16(crcBuf[:])
		got := uint16(crc32.ChecksumIEEE(headerBuf.Bytes()))
		if want != got {
			return nil, gzerr.ErrHeaderCRC16Mismatch
		}
	}

	return h, nil
}

func readCString(r io.Reader) (string, error) {
	var buf []byte
	var one [1]byte
	for {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return "", wrapEOF(err)
		}
		if one[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, one[0])
	}
}

// CheckTrailer reads a gzip trailer (CRC-32 then ISIZE, both little-endian)
// from r and verifies it against the checksum and size actually produced
// by decompression.
func CheckTrailer(r io.Reader, gotCRC32, gotSize uint32) error {
	var trailer [8]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return wrapEOF(err)
	}
	wantCRC32 := binary.LittleEndian.Uint32(trailer[0:4])
	wantSize := binary.LittleEndian.Uint32(trailer[4:8])

	if wantCRC32 != gotCRC32 {
		return gzerr.ErrCrc32Mismatch
	}
	if wantSize != gotSize {
		return gzerr.ErrLengthMismatch
	}
	return nil
}

func wrapEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
