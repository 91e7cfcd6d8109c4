// Package cli holds the pieces shared by bactool's commands: the common
// flag set, opening a session against the configured store, progress
// spinners and consistent success, warning and error messages.
//
// A Session bundles the loaded configuration, the open store and the entity
// registry built on it. Commands open one session per invocation and close
// it when they return.
package cli
