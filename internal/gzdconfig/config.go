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

// Package gzdconfig loads the optional TOML configuration file the CLI
// accepts via --config. It carries only ambient knobs with no bearing on
// decoded bytes: everything that changes output semantics lives in the
// gzip/DEFLATE layers themselves, never here.
package gzdconfig

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultLogLevel is used when the config file omits log_level and
	// --verbosity is not passed.
	DefaultLogLevel = "info"
	// DefaultCopyBufferSize sizes the internal buffer used when streaming
	// stored blocks. Back-reference copies do not use it.
	DefaultCopyBufferSize = 32 * 1024
)

// Config holds ambient knobs read from an optional TOML file.
type Config struct {
	LogLevel       string `toml:"log_level"`
	CopyBufferSize int    `toml:"copy_buffer_size"`
	EmitMetrics    bool   `toml:"emit_metrics"`
}

// Default returns a Config populated with this package's defaults.
func Default() Config {
	return Config{
		LogLevel:       DefaultLogLevel,
		CopyBufferSize: DefaultCopyBufferSize,
	}
}

// Load reads and parses the TOML file at path, starting from Default()
// so any field the file omits keeps its default value. A missing file is
// not an error: Default() is returned unchanged, matching the teacher's
// own tolerance for an absent config at its default path.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
