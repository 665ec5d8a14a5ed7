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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	gzd "github.com/Darisishe/GzipDecompressor"
	"github.com/Darisishe/GzipDecompressor/internal/gzdconfig"
	"github.com/Darisishe/GzipDecompressor/internal/metrics"
)

const (
	verbosityFlag = "verbosity"
	configFlag    = "config"
	metricsFlag   = "metrics"
	inputFlag     = "input"
	outputFlag    = "output"
)

// verbosityToLevel maps the three CLI verbosity levels onto logrus levels.
func verbosityToLevel(v int64) logrus.Level {
	switch v {
	case 1:
		return logrus.WarnLevel
	case 3:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func main() {
	app := &cli.Command{
		Name:  "gzd",
		Usage: "decompress a single gzip member from stdin (or --input) to stdout (or --output)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "decompress",
				Aliases:  []string{"d"},
				Usage:    "decompress mode (the only supported mode)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  verbosityFlag,
				Usage: "log verbosity: 1=warn, 2=info, 3=debug",
				Value: 2,
			},
			&cli.StringFlag{
				Name:  configFlag,
				Usage: "path to an optional TOML configuration file",
			},
			&cli.BoolFlag{
				Name:  metricsFlag,
				Usage: "print a decoder metrics summary to stderr after completion",
			},
			&cli.StringFlag{
				Name:  inputFlag,
				Usage: "input file path; defaults to stdin when omitted or \"-\"",
			},
			&cli.StringFlag{
				Name:  outputFlag,
				Usage: "output file path; defaults to stdout when omitted or \"-\"",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gzd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := gzdconfig.Load(cmd.String(configFlag))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := verbosityToLevel(cmd.Int(verbosityFlag))
	if !cmd.IsSet(verbosityFlag) {
		level, err = logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("config log_level: %w", err)
		}
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	ctx = log.WithLogger(ctx, log.L)

	in, closeIn, err := openInput(cmd.String(inputFlag))
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd.String(outputFlag))
	if err != nil {
		return err
	}
	defer closeOut()

	var mc *metrics.Collector
	wantMetrics := cmd.Bool(metricsFlag) || cfg.EmitMetrics || level == logrus.DebugLevel
	if wantMetrics {
		mc = metrics.New()
	}

	if err := gzd.Decompress(ctx, in, out, mc, cfg.CopyBufferSize); err != nil {
		return err
	}

	if mc != nil {
		if err := mc.WriteText(os.Stderr); err != nil {
			log.G(ctx).WithError(err).Warn("failed to render metrics summary")
		}
	}
	return nil
}

func openInput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input %q: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output %q: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
