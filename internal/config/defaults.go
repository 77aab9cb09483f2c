package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Crate layout
	v.SetDefault("manifest_dir", "")
	v.SetDefault("target_dir", "")
	v.SetDefault("lib_name", "libaurex")
	v.SetDefault("out_dir", "out")

	// Release build
	v.SetDefault("cargo", "cargo")
	v.SetDefault("features", []string{})
	v.SetDefault("locked", false)
	v.SetDefault("build_args", "")
	v.SetDefault("env", []string{})

	// Bindings generator
	v.SetDefault("bindgen_bin", "uniffi-bindgen")
	v.SetDefault("bindgen_args", "")

	v.SetDefault("timeout", "0s")
	v.SetDefault("languages", []string{})
	v.SetDefault("min_cargo_version", "1.70.0") // uniffi 0.25+ needs rust 1.70

	v.SetDefault("verbose", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
}
