// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errDiagnostics is returned when some file had errors. The diagnostics
// themselves have already been printed.
var errDiagnostics = errors.New("errors were reported")

type rootCommand struct {
	stdout, stderr io.Writer
	logger         *logrus.Logger

	configPath string
	flags      config
	cfg        config
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &rootCommand{
		stdout: stdout,
		stderr: stderr,
		logger: logrus.New(),
		flags:  defaultConfig(),
	}
	c.logger.SetOutput(stderr)

	cmd := &cobra.Command{
		Use:   "uastdump [flags] FILE...",
		Short: "Print the syntax trees of source files",
		Long: `uastdump parses each FILE and prints its syntax tree, one node per line,
with the stable ID of every node. Diagnostics are printed to stderr.

Settings may also be given in a TOML file with --config; flags take
precedence over the file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.dump(cmd.Context(), args)
			if err != nil && !errors.Is(err, errDiagnostics) {
				fmt.Fprintf(c.stderr, "uastdump: %v\n", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.configPath, "config", "", "read settings from this TOML file")
	flags.StringVar(&c.flags.Format, "format", c.flags.Format, "output format (text|yaml)")
	flags.BoolVar(&c.flags.Spans, "spans", false, "include the source span of each node")
	flags.StringVar(&c.flags.Color, "color", c.flags.Color, "colorize diagnostics (auto|on|off)")
	flags.BoolVar(&c.flags.Compact, "compact", false, "print one line per diagnostic")
	flags.BoolVar(&c.flags.Reparse, "reparse", false, "parse every file a second time and report whether its tree was kept")
	flags.IntVarP(&c.flags.Parallelism, "parallelism", "j", 0, "maximum number of files parsed at once; 0 means GOMAXPROCS")
	flags.StringVar(&c.flags.Log.Level, "log-level", c.flags.Log.Level, "log level (debug|info|warning|error)")
	flags.StringVar(&c.flags.Log.Format, "log-format", c.flags.Log.Format, "log format (text|json)")
	return cmd
}

// configure merges the config file and flags into c.cfg, and sets up logging.
func (c *rootCommand) configure(cmd *cobra.Command) error {
	cfg := defaultConfig()
	if c.configPath != "" {
		if err := loadConfig(c.configPath, &cfg); err != nil {
			fmt.Fprintf(c.stderr, "uastdump: %v\n", err)
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = c.flags.Format
	}
	if flags.Changed("spans") {
		cfg.Spans = c.flags.Spans
	}
	if flags.Changed("color") {
		cfg.Color = c.flags.Color
	}
	if flags.Changed("compact") {
		cfg.Compact = c.flags.Compact
	}
	if flags.Changed("reparse") {
		cfg.Reparse = c.flags.Reparse
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = c.flags.Parallelism
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.flags.Log.Level
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = c.flags.Log.Format
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(c.stderr, "uastdump: %v\n", err)
		return err
	}
	c.cfg = cfg

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	c.logger.SetLevel(level)
	switch cfg.Log.Format {
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		c.logger.SetFormatter(&logrus.TextFormatter{DisableColors: !c.colorize()})
	}
	c.logger.WithField("config", c.configPath).Debug("configured")
	return nil
}

func (c *rootCommand) colorize() bool {
	switch c.cfg.Color {
	case "on":
		return true
	case "off":
		return false
	default:
		return !color.NoColor
	}
}
