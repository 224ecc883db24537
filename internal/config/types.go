package config

// ResolverConfig contains iterative resolver settings.
type ResolverConfig struct {
	RootServer  string `json:"root_server"`  // IP the delegation walk starts from
	Timeout     string `json:"timeout"`      // Per-query timeout (e.g. "3s")
	MaxDepth    int    `json:"max_depth"`    // Query budget per resolution
	HistoryPath string `json:"history_path"` // SQLite resolution log; empty disables
}

// FileServerConfig contains static file server settings.
type FileServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	StaticRoot     string   `json:"static_root"`
	AllowedHosts   []string `json:"allowed_hosts,omitempty"`
	EnableListings bool     `json:"enable_listings"`
}

// EchoConfig contains echo server settings.
type EchoConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `json:"level"`
	Structured       bool              `json:"structured"`
	StructuredFormat string            `json:"structured_format"`
	IncludePID       bool              `json:"include_pid"`
	ExtraFields      map[string]string `json:"extra_fields,omitempty"`
}

// Config is the root configuration structure shared by the tools.
type Config struct {
	Resolver   ResolverConfig   `json:"resolver"`
	FileServer FileServerConfig `json:"file_server"`
	Echo       EchoConfig       `json:"echo"`
	Logging    LoggingConfig    `json:"logging"`
}
