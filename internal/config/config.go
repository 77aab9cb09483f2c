// Package config loads aurexgen settings from defaults, aurexgen.toml, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = "aurexgen.toml"

// EnvPrefix prefixes environment overrides, e.g. AUREXGEN_OUT_DIR.
const EnvPrefix = "AUREXGEN"

// Config is the resolved configuration of one invocation.
type Config struct {
	// ManifestDir is the crate root the build runs in. Empty means the
	// directory of the nearest Cargo.toml.
	ManifestDir string `mapstructure:"manifest_dir"`
	// TargetDir overrides cargo's target directory; CARGO_TARGET_DIR is
	// honoured as well.
	TargetDir string `mapstructure:"target_dir"`
	LibName   string `mapstructure:"lib_name"`
	// OutDir receives the bindings. Relative paths are resolved against
	// ManifestDir.
	OutDir string `mapstructure:"out_dir"`

	Cargo     string   `mapstructure:"cargo"`
	Features  []string `mapstructure:"features"`
	Locked    bool     `mapstructure:"locked"`
	BuildArgs string   `mapstructure:"build_args"`
	// Env holds KEY=VALUE entries set for every cargo invocation, e.g.
	// "RUSTFLAGS=-C target-cpu=native".
	Env []string `mapstructure:"env"`

	BindgenBin  string `mapstructure:"bindgen_bin"`
	BindgenArgs string `mapstructure:"bindgen_args"`

	// Timeout bounds each external invocation. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`
	// Languages is an optional allow-list of target languages.
	Languages       []string `mapstructure:"languages"`
	MinCargoVersion string   `mapstructure:"min_cargo_version"`

	Verbose bool      `mapstructure:"verbose"`
	Log     LogConfig `mapstructure:"log"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// BuildArgList splits BuildArgs with shell quoting rules.
func (c *Config) BuildArgList() ([]string, error) {
	args, err := shellquote.Split(c.BuildArgs)
	if err != nil {
		return nil, errors.WrapConfig(err, "invalid build_args")
	}
	return args, nil
}

// EnvMap parses Env. Keys keep their case.
func (c *Config) EnvMap() (map[string]string, error) {
	m := make(map[string]string, len(c.Env))
	for _, kv := range c.Env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, errors.WrapConfig(errors.Newf("env entry %q is not KEY=VALUE", kv), "invalid env")
		}
		m[k] = v
	}
	return m, nil
}

// BindgenArgList splits BindgenArgs with shell quoting rules.
func (c *Config) BindgenArgList() ([]string, error) {
	args, err := shellquote.Split(c.BindgenArgs)
	if err != nil {
		return nil, errors.WrapConfig(err, "invalid bindgen_args")
	}
	return args, nil
}
