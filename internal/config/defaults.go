package config

import "path/filepath"

const (
	// DriverSQLite is the default database driver.
	DriverSQLite = "sqlite"
	// DriverPostgres selects a Postgres server.
	DriverPostgres = "postgres"

	defaultDatabaseFile = "bactool.db"
	defaultOutputDir    = "/etc/bacula"
)

// GetDefaultConfig returns the defaults for a configuration directory.
func GetDefaultConfig(configPath string) BactoolConfig {
	return BactoolConfig{
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(configPath, defaultDatabaseFile),
		},
		Output: OutputConfig{
			Directory: defaultOutputDir,
			Header:    true,
		},
		Reload: ReloadConfig{
			Director: "bacula-dir.service",
			Client:   "bacula-fd.service",
			Storage:  "bacula-sd.service",
		},
		LogLevel: "info",
	}
}
