package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points every lookup location at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	t.Setenv("HOME", tmpDir)
	t.Setenv("SUI_CONFIG_DIR", filepath.Join(tmpDir, "sui_config"))
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "data", "faucet.db"))
	for _, key := range []string{
		"SUI_RPC_URL", "SUI_WS_URL", "SUI_KEYSTORE_PATH", "SUI_ADDRESS",
		"FAUCET_PACKAGE_ID", "FAUCET_OBJECT_ID", "GAS_BUDGET", "NOTIFICATIONS",
	} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}

	if got := getEnvString("NON_EXISTENT_FAUCET_KEY", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvUint(t *testing.T) {
	key := "TEST_ENV_UINT"

	tests := []struct {
		name   string
		envVal string
		want   uint64
	}{
		{"Plain", "5000", 5000},
		{"Underscores", "10_000_000", 10_000_000},
		{"Negative", "-1", 7},
		{"Garbage", "abc", 7},
		{"Empty", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvUint(key, 7); got != tt.want {
				t.Errorf("getEnvUint() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	t.Setenv(key, "false")
	if getEnvBool(key, true) {
		t.Error("getEnvBool() = true, want false")
	}

	t.Setenv(key, "nope")
	if !getEnvBool(key, true) {
		t.Error("getEnvBool() should fall back to default on garbage")
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Fatal("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestParseSuiClientConfig(t *testing.T) {
	content := `
keystore:
  File: /home/user/.sui/sui_config/sui.keystore
envs:
  - alias: devnet
    rpc: "https://fullnode.devnet.sui.io:443"
    ws: ~
  - alias: testnet
    rpc: "https://fullnode.testnet.sui.io:443"
    ws: ~
active_env: testnet
active_address: "0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e"
`
	cfg := parseSuiClientConfig([]byte(content))
	if cfg == nil {
		t.Fatal("parseSuiClientConfig returned nil")
	}
	if cfg.KeystorePath != "/home/user/.sui/sui_config/sui.keystore" {
		t.Errorf("KeystorePath = %q", cfg.KeystorePath)
	}
	if cfg.ActiveRPC() != "https://fullnode.testnet.sui.io:443" {
		t.Errorf("ActiveRPC() = %q", cfg.ActiveRPC())
	}
	if cfg.ActiveAddress != "0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e" {
		t.Errorf("ActiveAddress = %q", cfg.ActiveAddress)
	}
}

func TestParseSuiClientConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", ""},
		{"Garbage", "::: not yaml :::"},
		{"Unrelated", "foo: bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSuiClientConfig([]byte(tt.content)); got != nil {
				t.Errorf("parseSuiClientConfig() should return nil for %s", tt.name)
			}
		})
	}
}

func TestActiveRPC_NoMatch(t *testing.T) {
	var nilCfg *SuiClientConfig
	if nilCfg.ActiveRPC() != "" {
		t.Error("nil config should have empty ActiveRPC")
	}

	cfg := &SuiClientConfig{ActiveEnv: "mainnet", Envs: []SuiEnv{{Alias: "testnet", RPC: "x"}}}
	if cfg.ActiveRPC() != "" {
		t.Error("ActiveRPC should be empty when active env is not listed")
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RPCURL != DefaultRPCURL {
		t.Errorf("RPCURL = %q, want %q", cfg.RPCURL, DefaultRPCURL)
	}
	if cfg.PackageID != DefaultPackageID {
		t.Errorf("PackageID = %q", cfg.PackageID)
	}
	if cfg.FaucetObjectID != DefaultFaucetObjectID {
		t.Errorf("FaucetObjectID = %q", cfg.FaucetObjectID)
	}
	if cfg.GasBudget != DefaultGasBudget {
		t.Errorf("GasBudget = %d", cfg.GasBudget)
	}
	if cfg.KeystorePath != filepath.Join(tmpDir, "sui_config", KeystoreFile) {
		t.Errorf("KeystorePath = %q", cfg.KeystorePath)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "data")); err != nil {
		t.Error("database directory was not created")
	}
}

func TestLoad_FromClientYAML(t *testing.T) {
	tmpDir := isolate(t)

	suiDir := filepath.Join(tmpDir, "sui_config")
	if err := os.MkdirAll(suiDir, 0o750); err != nil {
		t.Fatal(err)
	}
	content := `
keystore:
  File: /keys/sui.keystore
envs:
  - alias: local
    rpc: "http://127.0.0.1:9000"
active_env: local
active_address: "0xabc"
`
	if err := os.WriteFile(filepath.Join(suiDir, ClientConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.RPCURL != "http://127.0.0.1:9000" {
		t.Errorf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.KeystorePath != "/keys/sui.keystore" {
		t.Errorf("KeystorePath = %q", cfg.KeystorePath)
	}
	if cfg.Address != "0xabc" {
		t.Errorf("Address = %q", cfg.Address)
	}

	// Environment overrides client.yaml
	t.Setenv("SUI_RPC_URL", "http://override:9000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.RPCURL != "http://override:9000" {
		t.Errorf("RPCURL = %q, want override", cfg.RPCURL)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)
	os.Unsetenv("FAUCET_OBJECT_ID")

	content := "FAUCET_OBJECT_ID=0x1234\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.FaucetObjectID != "0x1234" {
		t.Errorf("FaucetObjectID = %q, want 0x1234", cfg.FaucetObjectID)
	}
	os.Unsetenv("FAUCET_OBJECT_ID")
}

func TestLoad_InvalidIDs(t *testing.T) {
	isolate(t)
	t.Setenv("FAUCET_PACKAGE_ID", "not-hex")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on a malformed package id")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		RPCURL:         DefaultRPCURL,
		PackageID:      DefaultPackageID,
		FaucetObjectID: DefaultFaucetObjectID,
		GasBudget:      1,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"NoRPC", func(c *Config) { c.RPCURL = "" }},
		{"BadFaucet", func(c *Config) { c.FaucetObjectID = "dab9" }},
		{"BadAddress", func(c *Config) { c.Address = "0xzz" }},
		{"ZeroBudget", func(c *Config) { c.GasBudget = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
