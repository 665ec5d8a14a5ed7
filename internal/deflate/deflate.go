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

// Package deflate implements RFC 1951 DEFLATE decompression: the three
// block types (stored, fixed Huffman, dynamic Huffman), their trailing
// literal/length/distance symbol stream, and the code-length alphabet
// dynamic blocks use to describe their own Huffman tables.
package deflate

import (
	"io"

	"github.com/Darisishe/GzipDecompressor/internal/bitreader"
	"github.com/Darisishe/GzipDecompressor/internal/gzerr"
	"github.com/Darisishe/GzipDecompressor/internal/huffman"
	"github.com/Darisishe/GzipDecompressor/internal/window"
)

// BlockStat is reported to an optional observer once per decoded block,
// letting callers (e.g. metrics) count block types without the decoder
// itself depending on any reporting library.
type BlockStat struct {
	Type  int // 0 stored, 1 fixed, 2 dynamic
	Final bool
}

// DefaultCopyBufferSize is used by Decode when copyBufferSize is 0.
const DefaultCopyBufferSize = 32 * 1024

// Decode reads DEFLATE blocks from br until the final block is consumed,
// writing decompressed output through w. onBlock, if non-nil, is called
// once per block with its type and final flag. copyBufferSize bounds the
// chunk size used to stream a stored block's verbatim payload; 0 selects
// DefaultCopyBufferSize.
func Decode(br *bitreader.BitReader, w *window.TrackingWriter, onBlock func(BlockStat), copyBufferSize int) error {
	if copyBufferSize <= 0 {
		copyBufferSize = DefaultCopyBufferSize
	}
	for {
		finalBit, err := br.ReadBits(1)
		if err != nil {
			return err
		}
		btype, err := br.ReadBits(2)
		if err != nil {
			return err
		}
		final := finalBit == 1

		switch btype {
		case 0:
			if err := decodeStored(br, w, copyBufferSize); err != nil {
				return err
			}
		case 1:
			if err := decodeHuffman(br, w, fixedLiteralCoding, fixedDistanceCoding); err != nil {
				return err
			}
		case 2:
			litCoding, distCoding, err := readDynamicTables(br)
			if err != nil {
				return err
			}
			if err := decodeHuffman(br, w, litCoding, distCoding); err != nil {
				return err
			}
		default:
			return gzerr.ErrUnsupportedBlockType
		}

		if onBlock != nil {
			onBlock(BlockStat{Type: int(btype), Final: final})
		}
		if final {
			return nil
		}
	}
}

func decodeStored(br *bitreader.BitReader, w *window.TrackingWriter, copyBufferSize int) error {
	src := br.BorrowReaderFromBoundary()
	defer br.ReturnReaderToBoundary()

	var lenBuf [4]byte
	if _, err := io.ReadFull(src, lenBuf[:]); err != nil {
		return io.ErrUnexpectedEOF
	}
	length := int(lenBuf[0]) | int(lenBuf[1])<<8
	nlen := int(lenBuf[2]) | int(lenBuf[3])<<8
	if length != ^nlen&0xFFFF {
		return gzerr.ErrNlenMismatch
	}

	if copyBufferSize > length {
		copyBufferSize = length
	}
	if copyBufferSize <= 0 {
		copyBufferSize = 1
	}
	buf := make([]byte, copyBufferSize)
	for remaining := length; remaining > 0; {
		chunk := buf
		if remaining < len(chunk) {
			chunk = chunk[:remaining]
		}
		if _, err := io.ReadFull(src, chunk); err != nil {
			return io.ErrUnexpectedEOF
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		remaining -= len(chunk)
	}
	return nil
}

func readDynamicTables(br *bitreader.BitReader) (lit, dist *huffman.Coding, err error) {
	hlit, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := br.ReadBits(4)
	if err != nil {
		return nil, nil, err
	}

	numLit := int(hlit) + 257
	numDist := int(hdist) + 1
	numCLen := int(hclen) + 4

	clLengths := make([]int, 19)
	for i := 0; i < numCLen; i++ {
		v, err := br.ReadBits(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}

	clCoding, err := huffman.FromLengths(clLengths)
	if err != nil {
		return nil, nil, err
	}

	allLengths, err := readCodeLengths(br, clCoding, numLit+numDist)
	if err != nil {
		return nil, nil, err
	}

	litCoding, err := huffman.FromLengths(allLengths[:numLit])
	if err != nil {
		return nil, nil, err
	}
	distCoding, err := huffman.FromLengths(allLengths[numLit:])
	if err != nil {
		return nil, nil, err
	}
	return litCoding, distCoding, nil
}

// readCodeLengths decodes a run of `total` code lengths through the
// code-length alphabet, expanding the three repeat operators: 16 repeats
// the previous length 3-6 times, 17 inserts 3-10 zero lengths, 18 inserts
// 11-138 zero lengths.
func readCodeLengths(br *bitreader.BitReader, coding *huffman.Coding, total int) ([]int, error) {
	lengths := make([]int, 0, total)
	var prev int
	havePrev := false
	for len(lengths) < total {
		sym, err := coding.ReadSymbol(br)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < 16:
			lengths = append(lengths, sym)
			prev = sym
			havePrev = true
		case sym == 16:
			if !havePrev {
				return nil, &gzerr.CorruptInputError{Reason: "repeat-previous code length with no previous length"}
			}
			extra, err := br.ReadBits(2)
			if err != nil {
				return nil, err
			}
			count := int(extra) + 3
			for i := 0; i < count; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			extra, err := br.ReadBits(3)
			if err != nil {
				return nil, err
			}
			count := int(extra) + 3
			for i := 0; i < count; i++ {
				lengths = append(lengths, 0)
			}
			prev = 0
			havePrev = true
		case sym == 18:
			extra, err := br.ReadBits(7)
			if err != nil {
				return nil, err
			}
			count := int(extra) + 11
			for i := 0; i < count; i++ {
				lengths = append(lengths, 0)
			}
			prev = 0
			havePrev = true
		default:
			return nil, &gzerr.CorruptInputError{Reason: "invalid code-length alphabet symbol"}
		}
	}
	if len(lengths) != total {
		return nil, &gzerr.CorruptInputError{Reason: "code-length run overshot requested total"}
	}
	return lengths, nil
}

func decodeHuffman(br *bitreader.BitReader, w *window.TrackingWriter, lit, dist *huffman.Coding) error {
	for {
		sym, err := lit.ReadSymbol(br)
		if err != nil {
			return err
		}
		switch {
		case sym < endOfBlock:
			if _, err := w.Write([]byte{byte(sym)}); err != nil {
				return err
			}
		case sym == endOfBlock:
			return nil
		case sym <= lastLength:
			idx := sym - firstLength
			var extra uint32
			if n := lengthExtraBits[idx]; n > 0 {
				if extra, err = br.ReadBits(n); err != nil {
					return err
				}
			}
			length := lengthBase[idx] + int(extra)

			distSym, err := dist.ReadSymbol(br)
			if err != nil {
				return err
			}
			if distSym >= len(distBase) {
				return &gzerr.CorruptInputError{Reason: "distance symbol out of range"}
			}
			var distExtra uint32
			if n := distExtraBits[distSym]; n > 0 {
				if distExtra, err = br.ReadBits(n); err != nil {
					return err
				}
			}
			distance := distBase[distSym] + int(distExtra)

			if err := w.WritePrevious(distance, length); err != nil {
				return err
			}
		default:
			return &gzerr.CorruptInputError{Reason: "invalid literal/length symbol"}
		}
	}
}
