// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the row store implementation: memory, csv, sqlite.
	StoreBackend string `koanf:"store_backend"`

	// DataDir is the directory holding CSV table files (csv backend).
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file path (sqlite backend).
	SQLitePath string `koanf:"sqlite_path"`

	// GoalScore is the display threshold the progress view is clamped against.
	GoalScore int `koanf:"goal_score"`

	// AdminToken gates mutating endpoints. Empty disables the gate (dev only).
	AdminToken string `koanf:"admin_token"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		StoreBackend: "csv",
		DataDir:      "data",
		SQLitePath:   "outfitchart.db",
		GoalScore:    500,
		AdminToken:   "",
	}
}
