// Package config provides configuration loading for the rockrating service
// from YAML files or SQLite databases behind a common provider interface.
package config

// Provider is the interface all configuration backends implement.
type Provider interface {
	// LoadConfig loads the complete configuration
	LoadConfig() (*Data, error)

	// IsReadOnly reports whether the backend can accept updates
	IsReadOnly() bool

	// Close releases any resources held by the provider
	Close() error
}

// Data represents the complete configuration structure.
type Data struct {
	HTTP     HTTPData     `json:"http"`
	Database DatabaseData `json:"database,omitempty"`
	Analysis AnalysisData `json:"analysis,omitempty"`
}

// HTTPData holds the REST server configuration.
type HTTPData struct {
	ListenAddr string `json:"listen_addr"`
}

// DatabaseData holds the results database configuration. When disabled,
// scored reports are served from memory only and never persisted.
type DatabaseData struct {
	Enabled          bool   `json:"enabled"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// AnalysisData holds the analysis defaults: family clustering parameters and
// the survey file loaded at startup.
type AnalysisData struct {
	ToleranceDeg   float64 `json:"tolerance_deg"`
	MinMembers     int     `json:"min_members"`
	DefaultDataset string  `json:"default_dataset,omitempty"`
}

// applyDefaults fills unset fields with the standard values so both backends
// normalize identically.
func applyDefaults(d *Data) {
	if d.HTTP.ListenAddr == "" {
		d.HTTP.ListenAddr = ":8090"
	}
	if d.Analysis.ToleranceDeg == 0 {
		d.Analysis.ToleranceDeg = 15
	}
	if d.Analysis.MinMembers == 0 {
		d.Analysis.MinMembers = 3
	}
}
