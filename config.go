package dephoist

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// ConfigName is the config file dephoist looks for in the working
// directory, following in golang-dep's Gopkg.toml footsteps.
const ConfigName = ".dephoist.toml"

// FileConfig is the subset of Options that can be pinned in a project's
// .dephoist.toml so a team shares the same defaults instead of relying on
// everyone setting the same flags or environment variables.
type FileConfig struct {
	DebugLevel int  `toml:"debug_level"`
	SelfCheck  bool `toml:"self_check"`
}

// ReadConfig parses a .dephoist.toml stream. A missing or empty file is not
// an error; callers get the zero FileConfig and fall back to their own
// defaults.
func ReadConfig(r io.Reader) (FileConfig, error) {
	var cfg FileConfig
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if len(buf) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing "+ConfigName+" as TOML")
	}
	return cfg, nil
}

// LoadConfig reads ConfigName out of dir. A missing file is not an error.
func LoadConfig(dir string) (FileConfig, error) {
	f, err := os.Open(dir + string(os.PathSeparator) + ConfigName)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, errors.Wrapf(err, "opening %s", ConfigName)
	}
	defer f.Close()
	return ReadConfig(f)
}
