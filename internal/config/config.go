// Package config loads the optional settled.yaml processing configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Disputable policy values.
const (
	DisputableAll      = "all"
	DisputableDeposits = "deposits"
)

// Config represents the top-level settled.yaml configuration.
type Config struct {
	Policy   PolicyConfig   `yaml:"policy"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
}

// PolicyConfig controls the discretionary corners of the state machine.
type PolicyConfig struct {
	// Disputable selects which registered transaction kinds a dispute may
	// reference: "all" or "deposits".
	Disputable string `yaml:"disputable"`

	// StrictClient rejects dispute/resolve/chargeback records whose client
	// field does not match the referenced transaction's owner.
	StrictClient bool `yaml:"strict_client"`
}

// PipelineConfig sizes the producer/consumer pipeline.
type PipelineConfig struct {
	// Buffer is the transport channel capacity.
	Buffer int `yaml:"buffer"`

	// Workers is the number of engine consumers; transactions are sharded
	// by client id so one client is never processed concurrently.
	Workers int `yaml:"workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Places is the number of fractional digits in rendered amounts.
	Places int32 `yaml:"places"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			Disputable:   DisputableAll,
			StrictClient: true,
		},
		Pipeline: PipelineConfig{
			Buffer:  100,
			Workers: 1,
		},
		Output: OutputConfig{
			Places: 4,
		},
	}
}

// Load reads a settled.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Policy.Disputable {
	case DisputableAll, DisputableDeposits:
	default:
		return fmt.Errorf("policy.disputable must be %q or %q, got %q",
			DisputableAll, DisputableDeposits, c.Policy.Disputable)
	}
	if c.Pipeline.Buffer < 1 {
		return fmt.Errorf("pipeline.buffer must be at least 1, got %d", c.Pipeline.Buffer)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	// Shards route by the record's client id; a relaxed-policy dispute may
	// mutate another client's account on another shard, losing per-client
	// serialization.
	if c.Pipeline.Workers > 1 && !c.Policy.StrictClient {
		return fmt.Errorf("pipeline.workers > 1 requires policy.strict_client")
	}
	if c.Output.Places < 1 {
		return fmt.Errorf("output.places must be at least 1, got %d", c.Output.Places)
	}
	return nil
}
