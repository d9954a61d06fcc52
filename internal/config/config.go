// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	RPCURL         string
	WSURL          string
	SuiConfigDir   string
	KeystorePath   string
	Address        string
	PackageID      string
	FaucetObjectID string
	GasBudget      uint64
	DatabasePath   string
	LogPath        string
	LogLevel       string
	Notifications  bool
}

var objectIDRe = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// Load reads configuration from .env files, the Sui CLI client.yaml and
// environment variables. Environment variables win over client.yaml.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	suiDir := getEnvString("SUI_CONFIG_DIR", getDefaultSuiConfigDir())

	var defaultRPC, defaultKeystore, defaultAddress string
	if client := LoadSuiClientConfig(filepath.Join(suiDir, ClientConfigFile)); client != nil {
		defaultRPC = client.ActiveRPC()
		defaultKeystore = client.KeystorePath
		defaultAddress = client.ActiveAddress
	}
	if defaultRPC == "" {
		defaultRPC = DefaultRPCURL
	}
	if defaultKeystore == "" {
		defaultKeystore = filepath.Join(suiDir, KeystoreFile)
	}

	cfg := &Config{
		RPCURL:         getEnvString("SUI_RPC_URL", defaultRPC),
		WSURL:          getEnvString("SUI_WS_URL", ""),
		SuiConfigDir:   suiDir,
		KeystorePath:   getEnvString("SUI_KEYSTORE_PATH", defaultKeystore),
		Address:        getEnvString("SUI_ADDRESS", defaultAddress),
		PackageID:      getEnvString("FAUCET_PACKAGE_ID", DefaultPackageID),
		FaucetObjectID: getEnvString("FAUCET_OBJECT_ID", DefaultFaucetObjectID),
		GasBudget:      getEnvUint("GAS_BUDGET", DefaultGasBudget),
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		LogPath:        getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:       getEnvString("LOG_LEVEL", "info"),
		Notifications:  getEnvBool("NOTIFICATIONS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks identifiers and required fields.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("SUI_RPC_URL is required")
	}
	if !objectIDRe.MatchString(c.PackageID) {
		return fmt.Errorf("FAUCET_PACKAGE_ID %q is not a 0x-prefixed hex id", c.PackageID)
	}
	if !objectIDRe.MatchString(c.FaucetObjectID) {
		return fmt.Errorf("FAUCET_OBJECT_ID %q is not a 0x-prefixed hex id", c.FaucetObjectID)
	}
	if c.Address != "" && !objectIDRe.MatchString(c.Address) {
		return fmt.Errorf("SUI_ADDRESS %q is not a 0x-prefixed hex address", c.Address)
	}
	if c.GasBudget == 0 {
		return fmt.Errorf("GAS_BUDGET must be positive")
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "sui-faucet-tui", ".env"),
			filepath.Join(home, ".sui", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultSuiConfigDir returns the Sui CLI configuration directory.
func getDefaultSuiConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sui_config"
	}
	return filepath.Join(home, ".sui", "sui_config")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "faucet.db"
	}
	return filepath.Join(home, ".config", "sui-faucet-tui", "faucet.db")
}

// getDefaultLogPath returns the default log file path.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "faucet.log"
	}
	return filepath.Join(home, ".config", "sui-faucet-tui", "faucet.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvUint retrieves an unsigned integer environment variable or returns the default.
func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(strings.ReplaceAll(value, "_", ""), 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
