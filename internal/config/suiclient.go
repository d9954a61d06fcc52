package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// File names inside the Sui CLI configuration directory.
const (
	ClientConfigFile = "client.yaml"
	KeystoreFile     = "sui.keystore"
)

// SuiEnv is one entry of the envs list in client.yaml.
type SuiEnv struct {
	Alias string `yaml:"alias"`
	RPC   string `yaml:"rpc"`
	WS    string `yaml:"ws"`
}

// SuiClientConfig is the subset of the Sui CLI client.yaml we care about.
type SuiClientConfig struct {
	KeystorePath  string
	Envs          []SuiEnv
	ActiveEnv     string
	ActiveAddress string
}

type suiClientFile struct {
	Keystore struct {
		File string `yaml:"File"`
	} `yaml:"keystore"`
	Envs          []SuiEnv `yaml:"envs"`
	ActiveEnv     string   `yaml:"active_env"`
	ActiveAddress string   `yaml:"active_address"`
}

// ActiveRPC returns the RPC URL of the active environment, or "".
func (c *SuiClientConfig) ActiveRPC() string {
	if c == nil {
		return ""
	}
	for _, env := range c.Envs {
		if env.Alias == c.ActiveEnv {
			return env.RPC
		}
	}
	return ""
}

// LoadSuiClientConfig reads client.yaml. Returns nil when the file is missing
// or unreadable.
func LoadSuiClientConfig(path string) *SuiClientConfig {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return parseSuiClientConfig(content)
}

func parseSuiClientConfig(content []byte) *SuiClientConfig {
	var f suiClientFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil
	}

	if f.Keystore.File == "" && f.ActiveAddress == "" && len(f.Envs) == 0 {
		return nil
	}

	return &SuiClientConfig{
		KeystorePath:  f.Keystore.File,
		Envs:          f.Envs,
		ActiveEnv:     f.ActiveEnv,
		ActiveAddress: f.ActiveAddress,
	}
}
