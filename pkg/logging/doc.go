// Package logging provides the structured logging used by every bactool
// subsystem.
//
// It is a thin layer over Go's standard slog package: each entry carries a
// subsystem attribute and messages are formatted printf-style.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Import", "Imported %d resources from %s", n, path)
//	logging.Debug("Store", "exec %s", statement)
//	logging.Error("Store", err, "Failed to persist %s", name)
//
// # Subsystems
//
//   - **Config**: configuration file loading
//   - **Store**: SQL statements sent to the backing store
//   - **Record**: field persistence and reference resolution
//   - **Grammar**: directive parsing
//   - **Import**: resource block routing
//   - **Render**: template rendering and generated files
//   - **Watch**: filesystem watching
//   - **Daemon**: systemd unit reloads
//
// Messages logged before InitForCLI is called are dropped, except warnings
// and errors which are written to stderr.
package logging
