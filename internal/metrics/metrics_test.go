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

package metrics_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/Darisishe/GzipDecompressor/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWriteTextIncludesUpdatedCounters(t *testing.T) {
	c := metrics.New()
	c.CompressedBytes.Add(42)
	c.UncompressedBytes.Add(100)
	c.BlocksByType.WithLabelValues(metrics.BlockTypeDynamic).Inc()
	c.TablesBuilt.Inc()

	var buf bytes.Buffer
	if err := c.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"gzd_compressed_bytes_total 42",
		"gzd_uncompressed_bytes_total 100",
		`gzd_deflate_blocks_total{type="dynamic"} 1`,
		"gzd_huffman_tables_built_total 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText output missing %q; got:\n%s", want, out)
		}
	}
}
