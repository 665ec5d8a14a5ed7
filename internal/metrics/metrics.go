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

// Package metrics exposes decoder-internal counters through the
// prometheus client, the way the teacher exposes its filesystem I/O
// counters, rendered to plain text rather than served over HTTP since
// this is a one-shot CLI rather than a long-running process.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector holds every counter a single Decompress call updates.
type Collector struct {
	registry *prometheus.Registry

	CompressedBytes   prometheus.Counter
	UncompressedBytes prometheus.Counter
	BlocksByType      *prometheus.CounterVec
	TablesBuilt       prometheus.Counter
}

// BlockTypeLabel names the deflate block kinds BlocksByType is keyed by.
const (
	BlockTypeStored  = "stored"
	BlockTypeFixed   = "fixed"
	BlockTypeDynamic = "dynamic"
)

// New returns a Collector registered against its own private registry, so
// creating one never collides with global prometheus state (relevant
// since a CLI invocation may run many times in one process during tests).
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		CompressedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gzd_compressed_bytes_total",
			Help: "Total bytes read from the input after the gzip member header, including the trailer and any bytes buffered ahead.",
		}),
		UncompressedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gzd_uncompressed_bytes_total",
			Help: "Total decompressed bytes written to output.",
		}),
		BlocksByType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gzd_deflate_blocks_total",
			Help: "DEFLATE blocks decoded, by block type.",
		}, []string{"type"}),
		TablesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gzd_huffman_tables_built_total",
			Help: "Literal/length and distance Huffman tables built for dynamic blocks, two per block (fixed blocks reuse tables built at init; each dynamic block's code-length table is not counted).",
		}),
	}
	reg.MustRegister(c.CompressedBytes, c.UncompressedBytes, c.BlocksByType, c.TablesBuilt)
	return c
}

// WriteText renders every registered metric as Prometheus text exposition
// format to w, the offline equivalent of the `/metrics` endpoint the
// teacher's longer-lived services serve.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
