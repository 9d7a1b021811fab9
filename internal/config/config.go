// Package config loads runtime configuration for bpsrmon, merging a
// config file, environment variables and flags via viper.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// GA holds the tunable genetic-algorithm parameters from spec.md §4.10.
type GA struct {
	PopulationSize   int     `mapstructure:"population_size"`
	Generations      int     `mapstructure:"generations"`
	TournamentSize   int     `mapstructure:"tournament_size"`
	CrossoverRate    float64 `mapstructure:"crossover_rate"`
	MutationRate     float64 `mapstructure:"mutation_rate"`
	ElitismRate      float64 `mapstructure:"elitism_rate"`
	LocalSearchRate  float64 `mapstructure:"local_search_rate"`
	NumCampaigns     int     `mapstructure:"num_campaigns"`
	TopN             int     `mapstructure:"top_n"`
}

// Config is the process-wide configuration surface.
type Config struct {
	Debug         bool   `mapstructure:"debug"`
	InterfaceName string `mapstructure:"interface"`
	MetricsAddr   string `mapstructure:"metrics_addr"`
	GA            GA     `mapstructure:"ga"`
}

// Default returns the built-in defaults, matching spec.md §4.10.
func Default() Config {
	return Config{
		Debug:         false,
		InterfaceName: "",
		MetricsAddr:   ":9480",
		GA: GA{
			PopulationSize:  150,
			Generations:     50,
			TournamentSize:  5,
			CrossoverRate:   0.8,
			MutationRate:    0.1,
			ElitismRate:     0.1,
			LocalSearchRate: 0.3,
			NumCampaigns:    0, // 0 means "derive from runtime.NumCPU()-1"
			TopN:            40,
		},
	}
}

// Load reads an optional config file at path (if non-empty), overlays
// BPSRMON_*-prefixed environment variables, and returns the merged
// configuration starting from Default().
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("BPSRMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("interface", cfg.InterfaceName)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("ga.population_size", cfg.GA.PopulationSize)
	v.SetDefault("ga.generations", cfg.GA.Generations)
	v.SetDefault("ga.tournament_size", cfg.GA.TournamentSize)
	v.SetDefault("ga.crossover_rate", cfg.GA.CrossoverRate)
	v.SetDefault("ga.mutation_rate", cfg.GA.MutationRate)
	v.SetDefault("ga.elitism_rate", cfg.GA.ElitismRate)
	v.SetDefault("ga.local_search_rate", cfg.GA.LocalSearchRate)
	v.SetDefault("ga.num_campaigns", cfg.GA.NumCampaigns)
	v.SetDefault("ga.top_n", cfg.GA.TopN)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
