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

// Package gzd decompresses a single gzip member into its original bytes,
// the top-level orchestration tying the bit reader, DEFLATE state
// machine, and history-tracking writer together around the gzip
// container's header and trailer.
package gzd

import (
	"context"
	"fmt"
	"io"

	"github.com/containerd/log"

	"github.com/Darisishe/GzipDecompressor/internal/bitreader"
	"github.com/Darisishe/GzipDecompressor/internal/deflate"
	"github.com/Darisishe/GzipDecompressor/internal/gzipframe"
	"github.com/Darisishe/GzipDecompressor/internal/metrics"
	"github.com/Darisishe/GzipDecompressor/internal/window"
)

// Decompress reads exactly one gzip member from src, decodes its DEFLATE
// payload, and writes the original bytes to dst. Trailing bytes after the
// member's trailer are not checked, matching the single-member scope of
// this decoder; the buffered bit reader may already have read some of them
// from src. mc, if non-nil, receives block and
// byte counters as decoding proceeds; pass nil to skip metrics entirely.
// copyBufferSize bounds the chunk size used to stream a stored block's
// verbatim payload; 0 selects deflate.DefaultCopyBufferSize.
func Decompress(ctx context.Context, src io.Reader, dst io.Writer, mc *metrics.Collector, copyBufferSize int) error {
	logger := log.G(ctx)

	logger.Info("decompression started")

	header, err := gzipframe.ReadHeader(src)
	if err != nil {
		logger.WithError(err).Error("unable to read gzip member header")
		return fmt.Errorf("reading gzip header: %w", err)
	}
	logger.WithField("name", header.Name).WithField("mtime", header.MTIME).Debug("gzip member header parsed")

	w := window.New(dst)
	br := bitreader.New(countingReader{r: src, mc: mc})

	logger.Info("processing deflate stream")
	onBlock := func(stat deflate.BlockStat) {
		logger.WithField("type", stat.Type).WithField("final", stat.Final).Debug("deflate block decoded")
		if mc == nil {
			return
		}
		switch stat.Type {
		case 0:
			mc.BlocksByType.WithLabelValues(metrics.BlockTypeStored).Inc()
		case 1:
			mc.BlocksByType.WithLabelValues(metrics.BlockTypeFixed).Inc()
		case 2:
			mc.BlocksByType.WithLabelValues(metrics.BlockTypeDynamic).Inc()
			mc.TablesBuilt.Add(2)
		}
	}
	if err := deflate.Decode(br, w, onBlock, copyBufferSize); err != nil {
		logger.WithError(err).Error("failure while decoding deflate stream")
		return fmt.Errorf("decoding deflate stream: %w", err)
	}
	logger.Info("deflate stream decoded successfully")

	if mc != nil {
		mc.UncompressedBytes.Add(float64(w.Size()))
	}

	logger.Info("checking gzip trailer")
	trailerSrc := br.BorrowReaderFromBoundary()
	if err := gzipframe.CheckTrailer(trailerSrc, w.CRC32(), w.Size()); err != nil {
		logger.WithError(err).Error("gzip trailer check failed")
		return fmt.Errorf("checking gzip trailer: %w", err)
	}

	logger.Info("member decompressed successfully")
	return nil
}

// countingReader tallies bytes pulled off the wire for the compressed-
// bytes-consumed metric, without otherwise altering read behavior.
type countingReader struct {
	r  io.Reader
	mc *metrics.Collector
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if c.mc != nil && n > 0 {
		c.mc.CompressedBytes.Add(float64(n))
	}
	return n, err
}
