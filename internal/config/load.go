package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/mod/semver"

	"github.com/aurex-audio/aurexgen/internal/env"
	"github.com/aurex-audio/aurexgen/internal/errors"
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"manifest-dir": "manifest_dir",
	"out-dir":      "out_dir",
	"cargo":        "cargo",
	"features":     "features",
	"locked":       "locked",
	"timeout":      "timeout",
	"verbose":      "verbose",
	"log-json":     "log.json",
	"log-level":    "log.level",
}

// Options selects the sources Load reads.
type Options struct {
	// File is an explicit configuration file. Empty searches for FileName
	// from WorkDir upwards.
	File string
	// WorkDir defaults to the process working directory.
	WorkDir string
	// Flags are bound with the highest precedence. Only flags the user set
	// override other sources.
	Flags *pflag.FlagSet
}

// Load reads the configuration and resolves paths to absolute form.
func Load(opts Options) (*Config, error) {
	wd := opts.WorkDir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return nil, errors.WrapConfig(err, "failed to get working directory")
		}
	}

	v := newViper()
	if err := bindFlags(v, opts.Flags); err != nil {
		return nil, err
	}

	file := opts.File
	if file == "" {
		found, err := env.FindUp(wd, FileName)
		if err != nil && !errors.Is(err, env.ErrNotFound) {
			return nil, errors.WrapConfig(err, "failed to search for "+FileName)
		}
		file = found
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfig(err, "failed to read config file "+file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, errors.WrapConfig(err, "failed to unmarshal config")
	}
	cfg.File = file

	if err := cfg.resolve(wd); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.DecodeHookFuncType(stringToDurationHook),
	mapstructure.StringToSliceHookFunc(","),
)

// stringToDurationHook only accepts durations written as strings. A bare
// TOML integer would otherwise decode as nanoseconds.
func stringToDurationHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Duration(0)) || from == to {
		return data, nil
	}
	if from.Kind() != reflect.String {
		return nil, errors.Newf(`duration %v has no unit, write it as a string such as "10m"`, data)
	}
	return time.ParseDuration(data.(string))
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// cargo's own variable wins over the default but not over ours.
	_ = v.BindEnv("target_dir", EnvPrefix+"_TARGET_DIR", "CARGO_TARGET_DIR")
	SetDefaults(v)
	return v
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.WrapConfig(err, "failed to bind flag --"+name)
		}
	}
	return nil
}

func (c *Config) resolve(wd string) error {
	if c.ManifestDir == "" {
		root, err := env.ProjectRoot(wd)
		if err != nil {
			return errors.WrapConfig(err, "failed to locate "+env.ManifestFile)
		}
		c.ManifestDir = root
	} else if !filepath.IsAbs(c.ManifestDir) {
		c.ManifestDir = filepath.Join(wd, c.ManifestDir)
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(c.ManifestDir, c.OutDir)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.LibName == "":
		return errors.WrapConfig(errors.New("lib_name is empty"), "invalid config")
	case c.OutDir == "":
		return errors.WrapConfig(errors.New("out_dir is empty"), "invalid config")
	case c.Cargo == "":
		return errors.WrapConfig(errors.New("cargo is empty"), "invalid config")
	case c.BindgenBin == "":
		return errors.WrapConfig(errors.New("bindgen_bin is empty"), "invalid config")
	case c.Timeout < 0:
		return errors.WrapConfig(errors.Newf("timeout %s is negative", c.Timeout), "invalid config")
	}
	if c.MinCargoVersion != "" && !semver.IsValid("v"+strings.TrimPrefix(c.MinCargoVersion, "v")) {
		return errors.WrapConfig(errors.Newf("min_cargo_version %q is not a semantic version", c.MinCargoVersion), "invalid config")
	}
	if _, err := c.BuildArgList(); err != nil {
		return err
	}
	if _, err := c.BindgenArgList(); err != nil {
		return err
	}
	if _, err := c.EnvMap(); err != nil {
		return err
	}
	return nil
}
