package config

// BactoolConfig is the top-level configuration structure for bactool.
type BactoolConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Reload   ReloadConfig   `yaml:"reload"`
	LogLevel string         `yaml:"logLevel,omitempty"`
}

// DatabaseConfig selects the backing store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`    // file path for sqlite, connection URL for postgres
}

// OutputConfig controls where generated daemon configuration is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Header    bool   `yaml:"header"` // prefix generated files with a do-not-edit header
}

// ReloadConfig names the systemd unit reloaded after a daemon's
// configuration changed. An empty unit disables reloading for that daemon.
type ReloadConfig struct {
	Director string `yaml:"director,omitempty"`
	Client   string `yaml:"client,omitempty"`
	Storage  string `yaml:"storage,omitempty"`
}

// Unit returns the unit configured for an entity kind.
func (r ReloadConfig) Unit(kind string) string {
	switch kind {
	case "director", "catalog", "messages":
		return r.Director
	case "client":
		return r.Client
	case "storage":
		return r.Storage
	}
	return ""
}
