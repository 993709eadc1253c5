// Copyright 2024 The uztadh/P Authors
// This file is part of uztadh/P.
//
// uztadh/P is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// uztadh/P is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with uztadh/P. If not, see <http://www.gnu.org/licenses/>.

// Package config enumerates the scheduler's configuration surface (spec
// §6.3) and loads it from TOML, the way cmd/gprobe/config.go does for
// ProbeChain's node configuration.
package config

import (
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// Options is every row of spec §6.3, plus the two resource caps.
type Options struct {
	UseReceiverQueueSemantics bool `toml:",omitempty"`
	UseBagSemantics           bool `toml:",omitempty"`
	UseSleepSets              bool `toml:",omitempty"`
	UseFilters                bool `toml:",omitempty"`
	UseStateCaching           bool `toml:",omitempty"`
	UseBacktrack              bool `toml:",omitempty"`
	IsDpor                    bool `toml:",omitempty"`

	MaxStepBound     int `toml:",omitempty"`
	MaxInternalSteps int `toml:",omitempty"`

	CollectStats int `toml:",omitempty"` // 0-4
	Verbosity    int `toml:",omitempty"` // 0-5

	MemLimitMB    int `toml:",omitempty"` // 0 = unlimited
	TimeLimitSecs int `toml:",omitempty"` // 0 = unlimited
}

// Default mirrors the source's conservative defaults: reductions off, a
// generous step bound, one internal step per dispatch, info-level logging.
func Default() Options {
	return Options{
		MaxStepBound:     10000,
		MaxInternalSteps: 1,
		CollectStats:     1,
		Verbosity:        2,
	}
}

// tomlSettings mirrors cmd/gprobe/config.go: TOML keys match Go field names
// exactly, and unknown fields are a hard error rather than silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) {
			link = fmt.Sprintf(" (see the Options struct in internal/config)")
		}
		return fmt.Errorf("field %q is not defined in %s%s", field, rt.String(), link)
	},
}

// Load reads a TOML configuration file into a copy of Default().
func Load(path string) (Options, error) {
	opts := Default()
	f, err := os.Open(path)
	if err != nil {
		return opts, err
	}
	defer f.Close()
	if err := tomlSettings.NewDecoder(f).Decode(&opts); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

// Dump renders opts back to TOML, for a dumpconfig-style CLI command.
func Dump(opts Options) (string, error) {
	out, err := tomlSettings.Marshal(&opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
