// Package config loads KittyCore's runtime configuration: ambient settings
// (environment, logging) plus the tunable parameters of the three
// evolutionary subsystems (pheromone memory, agent factory, prompt engine).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the KittyCore core.
type Config struct {
	Environment string       `mapstructure:"environment"`
	LogLevel    string       `mapstructure:"log_level"`
	LogFormat   string       `mapstructure:"log_format"`
	StateDir    string       `mapstructure:"state_dir"`
	Pheromone   PheromoneConfig `mapstructure:"pheromone"`
	Agents      AgentsConfig    `mapstructure:"agents"`
	Prompts     PromptsConfig   `mapstructure:"prompts"`
}

// PheromoneConfig tunes the ant-colony reinforcement store.
type PheromoneConfig struct {
	EvaporationRate    float64       `mapstructure:"evaporation_rate"`
	ReinforcementFactor float64      `mapstructure:"reinforcement_factor"`
	MinStrength        float64       `mapstructure:"min_strength"`
	ExpiryDays         int           `mapstructure:"expiry_days"`
	InitialStrength    float64       `mapstructure:"initial_strength"`
}

// ExpiryDuration returns ExpiryDays as a time.Duration.
func (p PheromoneConfig) ExpiryDuration() time.Duration {
	return time.Duration(p.ExpiryDays) * 24 * time.Hour
}

// AgentsConfig tunes the evolutionary agent factory.
type AgentsConfig struct {
	MaxPopulation      int           `mapstructure:"max_population"`
	MinPopulation      int           `mapstructure:"min_population"`
	MutationRate       float64       `mapstructure:"mutation_rate"`
	CrossoverRate      float64       `mapstructure:"crossover_rate"`
	RetirementAgeDays  int           `mapstructure:"retirement_age_days"`
	EventHistoryLimit  int           `mapstructure:"event_history_limit"`
}

// PromptsConfig tunes the prompt evolution engine.
type PromptsConfig struct {
	MaxPopulation         int     `mapstructure:"max_population"`
	MinPopulation         int     `mapstructure:"min_population"`
	MutationRate          float64 `mapstructure:"mutation_rate"`
	CrossoverRate         float64 `mapstructure:"crossover_rate"`
	PerformanceHistoryLimit int   `mapstructure:"performance_history_limit"`
}

// Load reads configuration from an optional YAML file and environment
// variables, falling back to Default's values.
func Load() (*Config, error) {
	viper.SetConfigName("kittycore")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in defaults without touching viper or the
// filesystem — used by components constructed directly (e.g. in tests).
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		LogFormat:   "json",
		StateDir:    "kittycore_state",
		Pheromone: PheromoneConfig{
			EvaporationRate:     0.1,
			ReinforcementFactor: 1.5,
			MinStrength:         0.1,
			ExpiryDays:          7,
			InitialStrength:     0.5,
		},
		Agents: AgentsConfig{
			MaxPopulation:     20,
			MinPopulation:     5,
			MutationRate:      0.1,
			CrossoverRate:     0.3,
			RetirementAgeDays: 30,
			EventHistoryLimit: 1000,
		},
		Prompts: PromptsConfig{
			MaxPopulation:           50,
			MinPopulation:           10,
			MutationRate:            0.15,
			CrossoverRate:           0.25,
			PerformanceHistoryLimit: 500,
		},
	}
}

func setDefaults() {
	d := Default()

	viper.SetDefault("environment", d.Environment)
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("log_format", d.LogFormat)
	viper.SetDefault("state_dir", d.StateDir)

	viper.SetDefault("pheromone.evaporation_rate", d.Pheromone.EvaporationRate)
	viper.SetDefault("pheromone.reinforcement_factor", d.Pheromone.ReinforcementFactor)
	viper.SetDefault("pheromone.min_strength", d.Pheromone.MinStrength)
	viper.SetDefault("pheromone.expiry_days", d.Pheromone.ExpiryDays)
	viper.SetDefault("pheromone.initial_strength", d.Pheromone.InitialStrength)

	viper.SetDefault("agents.max_population", d.Agents.MaxPopulation)
	viper.SetDefault("agents.min_population", d.Agents.MinPopulation)
	viper.SetDefault("agents.mutation_rate", d.Agents.MutationRate)
	viper.SetDefault("agents.crossover_rate", d.Agents.CrossoverRate)
	viper.SetDefault("agents.retirement_age_days", d.Agents.RetirementAgeDays)
	viper.SetDefault("agents.event_history_limit", d.Agents.EventHistoryLimit)

	viper.SetDefault("prompts.max_population", d.Prompts.MaxPopulation)
	viper.SetDefault("prompts.min_population", d.Prompts.MinPopulation)
	viper.SetDefault("prompts.mutation_rate", d.Prompts.MutationRate)
	viper.SetDefault("prompts.crossover_rate", d.Prompts.CrossoverRate)
	viper.SetDefault("prompts.performance_history_limit", d.Prompts.PerformanceHistoryLimit)
}

// validate clamps out-of-range values rather than rejecting the config
// outright.
func validate(cfg *Config) error {
	if cfg.Pheromone.MinStrength <= 0 || cfg.Pheromone.MinStrength >= 1 {
		cfg.Pheromone.MinStrength = 0.1
	}
	if cfg.Pheromone.EvaporationRate <= 0 || cfg.Pheromone.EvaporationRate >= 1 {
		cfg.Pheromone.EvaporationRate = 0.1
	}
	if cfg.Agents.MinPopulation < 1 {
		cfg.Agents.MinPopulation = 1
	}
	if cfg.Agents.MaxPopulation < cfg.Agents.MinPopulation {
		cfg.Agents.MaxPopulation = cfg.Agents.MinPopulation
	}
	if cfg.Prompts.MinPopulation < 1 {
		cfg.Prompts.MinPopulation = 1
	}
	if cfg.Prompts.MaxPopulation < cfg.Prompts.MinPopulation {
		cfg.Prompts.MaxPopulation = cfg.Prompts.MinPopulation
	}
	return nil
}
