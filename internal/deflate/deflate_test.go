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

package deflate_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"go.uber.org/goleak"

	"github.com/Darisishe/GzipDecompressor/internal/bitreader"
	"github.com/Darisishe/GzipDecompressor/internal/deflate"
	"github.com/Darisishe/GzipDecompressor/internal/window"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestDecodeStoredBlock hand-builds a single BFINAL=1, BTYPE=0 stored
// block, since that format needs no Huffman table and is easy to verify
// byte for byte.
func TestDecodeStoredBlock(t *testing.T) {
	payload := []byte("hello")
	length := len(payload)
	nlen := (^length) & 0xFFFF

	var raw bytes.Buffer
	raw.WriteByte(0x01) // BFINAL=1, BTYPE=0, padding zero bits
	raw.WriteByte(byte(length))
	raw.WriteByte(byte(length >> 8))
	raw.WriteByte(byte(nlen))
	raw.WriteByte(byte(nlen >> 8))
	raw.Write(payload)

	var out bytes.Buffer
	w := window.New(&out)
	br := bitreader.New(bytes.NewReader(raw.Bytes()))
	if err := deflate.Decode(br, w, nil, 0); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("out = %q, want %q", out.String(), "hello")
	}
}

// TestDecodeStoredBlockNlenMismatch corrupts NLEN and checks it's rejected.
func TestDecodeStoredBlockNlenMismatch(t *testing.T) {
	var raw bytes.Buffer
	raw.WriteByte(0x01)
	raw.WriteByte(0x05)
	raw.WriteByte(0x00)
	raw.WriteByte(0x00) // wrong NLEN
	raw.WriteByte(0x00)
	raw.WriteString("hello")

	var out bytes.Buffer
	w := window.New(&out)
	br := bitreader.New(bytes.NewReader(raw.Bytes()))
	if err := deflate.Decode(br, w, nil, 0); err == nil {
		t.Fatal("Decode: expected nlen mismatch error")
	}
}

// bitWriter packs bits least-significant-bit-first within each byte,
// mirroring bitreader.BitReader.ReadBits so hand-built bitstreams line up
// with what the decoder expects.
type bitWriter struct {
	buf   []byte
	cur   byte
	nbits uint
}

func (w *bitWriter) writeBits(v uint32, n uint) {
	for i := uint(0); i < n; i++ {
		bit := byte((v >> i) & 1)
		w.cur |= bit << w.nbits
		w.nbits++
		if w.nbits == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

// writeHuffmanCode pushes the bits of a canonical Huffman code one at a
// time, most-significant bit first, matching how huffman.Coding.ReadSymbol
// accumulates single-bit ReadBits(1) calls into a code value.
func (w *bitWriter) writeHuffmanCode(code uint32, length uint) {
	for i := int(length) - 1; i >= 0; i-- {
		w.writeBits((code>>uint(i))&1, 1)
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nbits > 0 {
		return append(append([]byte{}, w.buf...), w.cur)
	}
	return w.buf
}

// TestDecodeDynamicRepeatPreviousWithNoPrevious builds a minimal dynamic
// block whose code-length alphabet maps symbol 16 (repeat previous 3-6
// times) to the single bit "1", with no code length decoded before it, and
// checks that it is rejected instead of silently repeating a zero length.
func TestDecodeDynamicRepeatPreviousWithNoPrevious(t *testing.T) {
	var w bitWriter
	w.writeBits(1, 1) // BFINAL=1
	w.writeBits(2, 2) // BTYPE=2 (dynamic Huffman)
	w.writeBits(0, 5) // HLIT=0  -> 257 literal/length codes
	w.writeBits(0, 5) // HDIST=0 -> 1 distance code
	w.writeBits(4, 4) // HCLEN=4 -> 8 code-length codes follow

	// codeLengthOrder[0..7] = 16,17,18,0,8,7,9,6. Give symbol 16 and
	// symbol 0 a 1-bit code each (lengths 1,0,0,1,0,0,0,0); canonical
	// assignment in ascending symbol order makes symbol 0 code "0" and
	// symbol 16 code "1".
	clLengths := []uint32{1, 0, 0, 1, 0, 0, 0, 0}
	for _, l := range clLengths {
		w.writeBits(l, 3)
	}

	// First (and only) code-length symbol: Huffman code "1" decodes to
	// symbol 16 with no previous length established yet.
	w.writeHuffmanCode(1, 1)

	var out bytes.Buffer
	ww := window.New(&out)
	br := bitreader.New(bytes.NewReader(w.bytes()))
	err := deflate.Decode(br, ww, nil, 0)
	if err == nil {
		t.Fatal("Decode: expected an error for operator 16 with no previous length")
	}
	if !strings.Contains(err.Error(), "previous") {
		t.Errorf("Decode error = %q, want it to mention the missing previous length", err.Error())
	}
}

// TestDecodeRoundTrip uses klauspost/compress/flate purely as a reference
// encoder to produce real fixed/dynamic Huffman streams, then checks our
// decoder reproduces the original bytes exactly.
func TestDecodeRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":           []byte{},
		"single-byte":     []byte("A"),
		"short-literal":   []byte("hello, world"),
		"long-repeat":     bytes.Repeat([]byte("ab"), 500),
		"run-length":      bytes.Repeat([]byte{0x7A}, 10000),
		"mixed":           []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)),
	}

	for name, input := range cases {
		for _, level := range []int{flate.NoCompression, flate.BestSpeed, flate.DefaultCompression, flate.BestCompression} {
			t.Run(name, func(t *testing.T) {
				var compressed bytes.Buffer
				fw, err := flate.NewWriter(&compressed, level)
				if err != nil {
					t.Fatalf("flate.NewWriter: %v", err)
				}
				if _, err := fw.Write(input); err != nil {
					t.Fatalf("Write: %v", err)
				}
				if err := fw.Close(); err != nil {
					t.Fatalf("Close: %v", err)
				}

				var out bytes.Buffer
				w := window.New(&out)
				br := bitreader.New(bytes.NewReader(compressed.Bytes()))
				if err := deflate.Decode(br, w, nil, 0); err != nil {
					t.Fatalf("Decode: %v", err)
				}
				if !bytes.Equal(out.Bytes(), input) {
					t.Errorf("round trip mismatch for %q at level %d: got %d bytes, want %d", name, level, out.Len(), len(input))
				}
			})
		}
	}
}
