package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// TIMESHIFT_SERVER_PORT or TIMESHIFT_PLUGINS_CONTROL_AUTH_SECRET.
const EnvPrefix = "TIMESHIFT"

// LoadConfig reads configuration from path (YAML) when given, otherwise
// from timeshift.yaml in the working directory or /etc/timeshift if
// present. Environment variables override file values.
func LoadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("timeshift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/timeshift")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "7700")
	v.SetDefault("database.path", "timeshift.db")
	v.SetDefault("plugins.control.enabled", true)
	v.SetDefault("plugins.control.initial_offset", "0s")
	v.SetDefault("plugins.control.auth_secret", "")
	v.SetDefault("plugins.control.watch_interval", "1s")
	v.SetDefault("plugins.control.watch_rate", 10)
	v.SetDefault("plugins.journal.enabled", true)
	v.SetDefault("plugins.journal.list_limit", 100)
}
