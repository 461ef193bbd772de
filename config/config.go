// Package config loads CLI and engine settings from an optional YAML file.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Settings is the full configuration tree. Every field has a working
// default; a config file only overrides.
type Settings struct {
	Solver struct {
		YieldGuess  float64 `mapstructure:"yield_guess"`
		SpreadGuess float64 `mapstructure:"spread_guess"`
	} `mapstructure:"solver"`
	CreditVaR struct {
		Simulations int     `mapstructure:"simulations"`
		Confidence  float64 `mapstructure:"confidence"`
	} `mapstructure:"credit_var"`
	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`
}

// Load reads settings from path, or from $DEPOLIB_CONFIG when path is empty.
// With neither present, defaults are returned.
func Load(path string) (Settings, error) {
	settings := defaults()

	if path == "" {
		path = os.Getenv("DEPOLIB_CONFIG")
	}
	if path == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, err
	}
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func defaults() Settings {
	var s Settings
	s.Solver.YieldGuess = 0.05
	s.Solver.SpreadGuess = 0.01
	s.CreditVaR.Simulations = 10000
	s.CreditVaR.Confidence = 0.99
	s.Log.Level = "info"
	return s
}
