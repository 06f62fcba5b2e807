package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"custodian/pkg/logging"
)

const (
	userConfigDir  = ".config/custodian"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns ~/.config/custodian.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// validates the result.
func LoadConfig(configPath string) (CustodianConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return CustodianConfig{}, NewConfigurationError(configFilePath, "io", "cannot read configuration file", err.Error())
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return CustodianConfig{}, NewConfigurationError(configFilePath, "parse", "malformed configuration file", err.Error())
	}

	if errs := Validate(config); errs.HasErrors() {
		return CustodianConfig{}, NewConfigurationError(configFilePath, "validation", errs.Error(), "")
	}

	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return config, nil
}
