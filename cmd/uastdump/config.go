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
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// config is the contents of a uastdump.toml file. Every field can also be
// set by the flag of the same name, which takes precedence.
type config struct {
	Format      string    `toml:"format"`
	Spans       bool      `toml:"spans"`
	Color       string    `toml:"color"`
	Compact     bool      `toml:"compact"`
	Reparse     bool      `toml:"reparse"`
	Parallelism int       `toml:"parallelism"`
	Log         logConfig `toml:"log"`
}

type logConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func defaultConfig() config {
	return config{
		Format: "text",
		Color:  "auto",
		Log: logConfig{
			Level:  "warning",
			Format: "text",
		},
	}
}

// loadConfig decodes the TOML file at path over cfg. Unknown keys are an
// error, so that typos do not go unnoticed.
func loadConfig(path string, cfg *config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

var (
	formats    = []string{"text", "yaml"}
	colors     = []string{"auto", "on", "off"}
	logFormats = []string{"text", "json"}
)

func (c *config) validate() error {
	var errs []error
	check := func(name, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("invalid %s %q, expected one of %s", name, value, strings.Join(allowed, ", ")))
		}
	}
	check("format", c.Format, formats)
	check("color", c.Color, colors)
	check("log format", c.Log.Format, logFormats)
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("invalid parallelism %d", c.Parallelism))
	}
	return errors.Join(errs...)
}
