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

// Package huffman builds and decodes canonical Huffman codes per RFC 1951
// §3.2.2, the way DEFLATE's three alphabets (tree-code, literal/length,
// distance) are all described: a per-symbol code-length array in, a table
// that maps bit sequences back to symbols out.
package huffman

import (
	"github.com/Darisishe/GzipDecompressor/internal/bitreader"
	"github.com/Darisishe/GzipDecompressor/internal/gzerr"
)

const maxBits = 15

// key identifies a Huffman code by its accumulated value and length; two
// codes of different lengths never collide even if their low bits match,
// since length is part of the key.
type key struct {
	bits uint16
	len  uint8
}

// Coding is a canonical Huffman decoder for one alphabet. The decoded
// symbol is always a small non-negative int — which RFC 1951 literal,
// length, distance, or tree-code operator it denotes is up to the caller.
type Coding struct {
	table map[key]int
}

// FromLengths builds a Coding from a per-symbol code-length array, following
// RFC 1951 §3.2.2: count codes of each length, derive the first code for
// each length, then assign consecutive codes to symbols in ascending
// symbol order. Symbols with length 0 take no code.
//
// A single symbol with length 1 (the minimal legal "incomplete" code) is
// accepted, matching DEFLATE's tolerance for an unused distance alphabet;
// over-subscribed length sets (more codes claimed than the Kraft budget
// allows) are rejected.
func FromLengths(lengths []int) (*Coding, error) {
	var maxLen int
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen > maxBits {
		return nil, &gzerr.CorruptInputError{Reason: "huffman code length exceeds 15 bits"}
	}

	var count [maxBits + 1]int
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}

	code := 0
	var nextCode [maxBits + 1]int
	for l := 1; l <= maxBits; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}

	table := make(map[key]int, len(lengths))
	for symbol, l := range lengths {
		if l == 0 {
			continue
		}
		code := nextCode[l]
		if code >= (1 << uint(l)) {
			return nil, &gzerr.CorruptInputError{Reason: "over-subscribed huffman code lengths"}
		}
		table[key{bits: uint16(code), len: uint8(l)}] = symbol
		nextCode[l] = code + 1
	}

	return &Coding{table: table}, nil
}

// ReadSymbol decodes one symbol from br. Bits accumulate MSB-first
// relative to the growing code value: each additional bit shifts the
// accumulator left and ORs in the new bit, the DEFLATE convention that
// differs from BitReader's own LSB-first numeric reads. Fails with a
// CorruptInputError if 15 bits are consumed without a match.
func (c *Coding) ReadSymbol(br *bitreader.BitReader) (int, error) {
	var bits uint16
	var length uint8
	for length < maxBits {
		bit, err := br.ReadBits(1)
		if err != nil {
			return 0, err
		}
		bits = (bits << 1) | uint16(bit)
		length++
		if symbol, ok := c.table[key{bits: bits, len: length}]; ok {
			return symbol, nil
		}
	}
	return 0, &gzerr.CorruptInputError{Reason: "no huffman code matched after 15 bits"}
}
