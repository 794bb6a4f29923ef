package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phanxgames/arbor"
)

// Config is the CLI configuration. It is read from
// $HOME/.config/arbor/config.yaml (or --config) and ARBOR_* environment
// variables, e.g. ARBOR_SORTABLE_MAX_LEVELS=3.
type Config struct {
	Window   WindowConfig         `mapstructure:"window"`
	Sortable arbor.SortableConfig `mapstructure:"sortable"`
}

// WindowConfig sizes the view window.
type WindowConfig struct {
	Width   int  `mapstructure:"width"`
	Height  int  `mapstructure:"height"`
	ShowFPS bool `mapstructure:"show_fps"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 640)
	v.SetDefault("window.height", 480)
	v.SetDefault("window.show_fps", false)
	v.SetDefault("sortable.nest", true)
	v.SetDefault("sortable.connect_groups", true)
	v.SetDefault("sortable.max_levels", 0)
	v.SetDefault("sortable.settle_duration", 0.15)
}

func defaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// flagKeys maps command flags onto config keys. A flag only overrides the
// config when it was set on the command line.
var flagKeys = map[string]string{
	"width":      "window.width",
	"height":     "window.height",
	"fps":        "window.show_fps",
	"max-levels": "sortable.max_levels",
	"nest":       "sortable.nest",
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing default file is not an error.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "arbor"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ARBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
