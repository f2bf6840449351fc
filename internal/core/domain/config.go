package domain

// Config is the tool configuration persisted between runs.
type Config struct {
	// BaseURL is the annotation server's base URL.
	BaseURL string `toml:"base_url"`

	// APIToken authenticates against the annotation server.
	APIToken string `toml:"api_token"`

	// Database is the path to the SQLite database holding local tables and
	// link metadata.
	Database string `toml:"database"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}
