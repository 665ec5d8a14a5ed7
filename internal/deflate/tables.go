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

package deflate

import "github.com/Darisishe/GzipDecompressor/internal/huffman"

// lengthBase and lengthExtraBits give, for length symbol i (0-indexed from
// literal/length code 257), the smallest length it encodes and how many
// extra bits follow to add to that base. RFC 1951 §3.2.5.
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtraBits give the same for the 30 distance codes.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtraBits = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order in which HCLEN code-length-alphabet lengths
// appear in a dynamic Huffman block header. RFC 1951 §3.2.7.
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5,
	11, 4, 12, 3, 13, 2, 14, 1, 15,
}

const (
	endOfBlock  = 256
	firstLength = 257
	lastLength  = 285
)

// fixedLiteralCoding and fixedDistanceCoding implement the fixed Huffman
// codes of RFC 1951 §3.2.6, built once and reused for every fixed block.
var (
	fixedLiteralCoding  *huffman.Coding
	fixedDistanceCoding *huffman.Coding
)

func init() {
	litLengths := make([]int, 288)
	for i := 0; i <= 143; i++ {
		litLengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		litLengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		litLengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		litLengths[i] = 8
	}
	var err error
	fixedLiteralCoding, err = huffman.FromLengths(litLengths)
	if err != nil {
		panic("deflate: invalid fixed literal/length table: " + err.Error())
	}

	distLengths := make([]int, 30)
	for i := range distLengths {
		distLengths[i] = 5
	}
	fixedDistanceCoding, err = huffman.FromLengths(distLengths)
	if err != nil {
		panic("deflate: invalid fixed distance table: " + err.Error())
	}
}
