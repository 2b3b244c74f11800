package helpers

import (
	"github.com/Jeffail/gabs"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// config Saves the bot-config
var config *gabs.Container

// EnvOverrides are settings that may come from the environment instead of config.json
type EnvOverrides struct {
	ConfigPath    string `env:"PANELS_CONFIG" envDefault:"config.json"`
	Token         string `env:"DISCORD_BOT_TOKEN"`
	MetricsListen string `env:"PANELS_METRICS_LISTEN"`
	RestListen    string `env:"PANELS_REST_LISTEN"`
}

// LoadEnv reads the environment overrides
func LoadEnv() (overrides EnvOverrides, err error) {
	err = env.Parse(&overrides)
	return overrides, errors.Wrap(err, "parsing environment")
}

// LoadConfig loads the config from $path into $config
func LoadConfig(path string) {
	json, err := gabs.ParseJSONFile(path)
	if err != nil {
		panic(errors.Wrapf(err, "reading config %s", path))
	}

	config = json
}

// ApplyEnv writes the non empty overrides over the loaded config
func ApplyEnv(overrides EnvOverrides) {
	set := func(value, path string) {
		if value == "" {
			return
		}
		_, err := config.SetP(value, path)
		Relax(err)
	}
	set(overrides.Token, "discord.token")
	set(overrides.MetricsListen, "metrics.listen")
	set(overrides.RestListen, "rest.listen")
}

// SetConfig replaces the config, used by tests
func SetConfig(c *gabs.Container) {
	config = c
}

// ConfigString returns the string at $path or $fallback if it is missing or empty
func ConfigString(path, fallback string) string {
	if config == nil || !config.ExistsP(path) {
		return fallback
	}
	value, ok := config.Path(path).Data().(string)
	if !ok || value == "" {
		return fallback
	}
	return value
}

// ConfigBool returns the bool at $path or $fallback if it is missing
func ConfigBool(path string, fallback bool) bool {
	if config == nil || !config.ExistsP(path) {
		return fallback
	}
	value, ok := config.Path(path).Data().(bool)
	if !ok {
		return fallback
	}
	return value
}

// ConfigStrings returns the string list at $path
func ConfigStrings(path string) (values []string) {
	if config == nil || !config.ExistsP(path) {
		return nil
	}
	items, ok := config.Path(path).Data().([]interface{})
	if !ok {
		return nil
	}
	for _, item := range items {
		if value, ok := item.(string); ok && value != "" {
			values = append(values, value)
		}
	}
	return values
}

// GetPrefix returns the command prefix, "_" unless bot.prefix says otherwise
func GetPrefix() string {
	return ConfigString("bot.prefix", "_")
}
