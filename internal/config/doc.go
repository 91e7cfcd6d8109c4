// Package config provides configuration management for bactool.
//
// Configuration is read from a single directory, ~/.config/bactool by
// default or the directory given with --config-path. The directory holds
// config.yaml; a missing file means built-in defaults.
//
// # Configuration File
//
//	database:
//	  driver: sqlite        # sqlite or postgres
//	  dsn: ~/.config/bactool/bactool.db
//	output:
//	  directory: /etc/bacula
//	  header: true
//	reload:
//	  director: bacula-dir.service
//	  client: bacula-fd.service
//	  storage: bacula-sd.service
//	logLevel: info
//
// A leading "~/" in paths is expanded to the user's home directory.
//
// # Errors
//
// Problems found in a file are reported as ConfigurationError values that
// carry the file, line and suggestions for fixing them. The same type is
// used for errors in imported Bacula configuration files.
package config
