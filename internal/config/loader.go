package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bactool/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/bactool"
	configFileName = "config.yaml"
)

var osUserHomeDir = os.UserHomeDir

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := osUserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath over the defaults and
// validates the result.
func LoadConfig(configPath string) (BactoolConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig(configPath)

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return BactoolConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return BactoolConfig{}, fromYAMLError(configFilePath, err)
	}

	config.Database.DSN = expandHome(config.Database.DSN)
	config.Output.Directory = expandHome(config.Output.Directory)

	if errs := Validate(config); errs.HasErrors() {
		return BactoolConfig{}, NewConfigurationErrorWithDetails(configFilePath, "validation",
			errs.Error(), "", errs.Suggestions())
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := osUserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// fromYAMLError turns a yaml decoding error into a ConfigurationError,
// keeping the line number yaml reports.
func fromYAMLError(path string, err error) ConfigurationError {
	ce := NewConfigurationError(path, "parse", err.Error())
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		ce.Message = te.Errors[0]
		ce.LineNumber = lineFromYAML(te.Errors[0])
	} else {
		ce.LineNumber = lineFromYAML(err.Error())
	}
	ce.Suggestions = []string{"Check the YAML syntax of " + filepath.Base(path)}
	return ce
}

// lineFromYAML extracts N from the "line N:" yaml puts in its messages.
func lineFromYAML(msg string) int {
	_, after, ok := strings.Cut(msg, "line ")
	if !ok {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(after, "%d", &n); err != nil {
		return 0
	}
	return n
}
