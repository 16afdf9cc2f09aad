package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadSecrets loads sensitive configuration from environment or files
func LoadSecrets(config *Config) error {
	if valkeyPassword := os.Getenv("VALKEY_PASSWORD"); valkeyPassword != "" {
		config.Cache.Password = valkeyPassword
	} else if passwordFile := os.Getenv("VALKEY_PASSWORD_FILE"); passwordFile != "" {
		password, err := os.ReadFile(passwordFile)
		if err != nil {
			return fmt.Errorf("failed to read Valkey password file: %w", err)
		}
		config.Cache.Password = strings.TrimSpace(string(password))
	}

	if config.IsProduction() && len(config.Cache.Nodes) > 1 && config.Cache.Password == "" {
		return fmt.Errorf("Valkey password is required for a production cluster")
	}

	return nil
}
