package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements Provider for YAML configuration files.
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file.
func (y *YAMLProvider) LoadConfig() (*Data, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into a temporary struct with YAML tags
	var yamlConfig struct {
		HTTP struct {
			ListenAddr string `yaml:"listen_addr"`
		} `yaml:"http"`
		Database struct {
			Enabled          bool   `yaml:"enabled"`
			ConnectionString string `yaml:"connection_string"`
		} `yaml:"database"`
		Analysis struct {
			ToleranceDeg   float64 `yaml:"tolerance_deg"`
			MinMembers     int     `yaml:"min_members"`
			DefaultDataset string  `yaml:"default_dataset"`
		} `yaml:"analysis"`
	}

	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config := &Data{
		HTTP: HTTPData{
			ListenAddr: yamlConfig.HTTP.ListenAddr,
		},
		Database: DatabaseData{
			Enabled:          yamlConfig.Database.Enabled,
			ConnectionString: yamlConfig.Database.ConnectionString,
		},
		Analysis: AnalysisData{
			ToleranceDeg:   yamlConfig.Analysis.ToleranceDeg,
			MinMembers:     yamlConfig.Analysis.MinMembers,
			DefaultDataset: yamlConfig.Analysis.DefaultDataset,
		},
	}
	applyDefaults(config)
	return config, nil
}

// IsReadOnly returns true; YAML configs are not updated at runtime.
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers.
func (y *YAMLProvider) Close() error {
	return nil
}
