package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOps       = "i"
	DefaultRun       = "v"
	DefaultInputTime = "m"
	DefaultGravity   = "72"
	DefaultOutDir    = "."
	DefaultDataDir   = ".sgp4check"
	DefaultScenario  = "molniya"

	// manual grid in minutes since epoch, matching DefaultInputTime
	DefaultManualStart = "-1440"
	DefaultManualStop  = "1440"
	DefaultManualStep  = "60"
)

type Config struct {
	OpsMode   string       `yaml:"ops_mode"`
	RunMode   string       `yaml:"run_mode"`
	InputTime string       `yaml:"input_time"`
	Gravity   string       `yaml:"gravity"`
	Catalog   string       `yaml:"catalog"`
	OutDir    string       `yaml:"out_dir"`
	DataDir   string       `yaml:"data_dir"`
	Scenario  string       `yaml:"scenario"`
	Manual    ManualConfig `yaml:"manual"`
}

// ManualConfig holds the manual-mode grid as typed by the user. Start and
// stop are read according to the input-time mode; step is always minutes.
type ManualConfig struct {
	Start string `yaml:"start"`
	Stop  string `yaml:"stop"`
	Step  string `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		OpsMode:   DefaultOps,
		RunMode:   DefaultRun,
		InputTime: DefaultInputTime,
		Gravity:   DefaultGravity,
		OutDir:    DefaultOutDir,
		DataDir:   DefaultDataDir,
		Scenario:  DefaultScenario,
		Manual: ManualConfig{
			Start: DefaultManualStart,
			Stop:  DefaultManualStop,
			Step:  DefaultManualStep,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Tokens returns the raw resolver input carried by c.
func (c *Config) Tokens() Tokens {
	return Tokens{
		Ops:       c.OpsMode,
		Run:       c.RunMode,
		InputTime: c.InputTime,
		Gravity:   c.Gravity,
	}
}
