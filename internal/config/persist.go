package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

const fileHeader = `# aurexgen configuration.
# Every key can be overridden with an AUREXGEN_<KEY> environment variable
# (log.level becomes AUREXGEN_LOG_LEVEL) or the matching command line flag.

`

// WriteDefault writes a configuration file holding the default settings.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.WithHint(errors.Newf("%s already exists", path), "edit it or remove it first")
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", path)
	}

	v := viper.New()
	SetDefaults(v)
	data, err := toml.Marshal(v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "failed to encode defaults")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := f.WriteString(fileHeader); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}
