// Package config reads training run configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerSpec describes a single dense layer of the network.
type LayerSpec struct {
	Size       int    `yaml:"size"`
	Activation string `yaml:"activation"`
}

// Config captures the runtime knobs for a training run.
type Config struct {
	TrainingFile   string      `yaml:"training_file"`
	ValidationFile string      `yaml:"validation_file"`
	TestingFile    string      `yaml:"testing_file"`
	NetworkFile    string      `yaml:"network_file"`
	InputSize      int         `yaml:"input_size"`
	Normalization  float64     `yaml:"normalization"`
	Layers         []LayerSpec `yaml:"layers"`
	CostFunction   string      `yaml:"cost_function"`
	Optimizer      string      `yaml:"optimizer"`
	Epochs         int         `yaml:"epochs"`
	BatchSize      int         `yaml:"batch_size"`
	LearningRate   float64     `yaml:"learning_rate"`
	Regularization float64     `yaml:"regularization"`
	TrueRandom     bool        `yaml:"true_random"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	TrainingFile   string
	ValidationFile string
	TestingFile    string
	Epochs         int
	BatchSize      int
}

// Load reads a Config from YAML and fills in defaults. Validation is left
// to the caller so overrides can be applied first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Normalization == 0 {
		c.Normalization = 255
	}
	if c.CostFunction == "" {
		c.CostFunction = "crossentropy"
	}
	if c.Optimizer == "" {
		c.Optimizer = "stochastic"
	}
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.TrainingFile != "" {
		c.TrainingFile = o.TrainingFile
	}
	if o.ValidationFile != "" {
		c.ValidationFile = o.ValidationFile
	}
	if o.TestingFile != "" {
		c.TestingFile = o.TestingFile
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.TrainingFile == "" {
		return errors.New("training_file must be set")
	}
	if c.ValidationFile == "" {
		return errors.New("validation_file must be set")
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("input_size must be > 0 (got %d)", c.InputSize)
	}
	if len(c.Layers) == 0 && c.NetworkFile == "" {
		return errors.New("either layers or network_file must be set")
	}
	for i, layer := range c.Layers {
		if layer.Size <= 0 {
			return fmt.Errorf("layers[%d]: size must be > 0 (got %d)", i, layer.Size)
		}
		if layer.Activation == "" {
			return fmt.Errorf("layers[%d]: activation must be set", i)
		}
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be > 0 (got %v)", c.LearningRate)
	}
	if c.Regularization < 0 {
		return fmt.Errorf("regularization must be >= 0 (got %v)", c.Regularization)
	}
	return nil
}
