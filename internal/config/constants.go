// Package config contains everything related to configuration
package config

import "time"

// Fixed faucet parameters. These mirror the deployed Move program and are not
// configurable at runtime.
const (
	// ClockObjectID is the shared on-chain clock object.
	ClockObjectID = "0x6"
	// ClockInitialSharedVersion is the version at which 0x6 became shared.
	ClockInitialSharedVersion uint64 = 1

	// ClaimAmount is the number of SUI handed out per claim.
	ClaimAmount = 10
	// CooldownHours is the wait between two claims from one address.
	CooldownHours = 24
	// Cooldown is CooldownHours as a duration.
	Cooldown = CooldownHours * time.Hour

	// RefreshInterval is the stats polling period while a wallet is connected.
	RefreshInterval = 10 * time.Second
	// SettleDelay is the wait before re-fetching after a submitted transaction.
	SettleDelay = 2 * time.Second

	// MistPerSui is the number of smallest units in one SUI.
	MistPerSui = 1_000_000_000

	// FaucetModule is the Move module exposing the faucet entry points.
	FaucetModule = "faucet"
)

// Defaults for the deployed faucet. Overridable through the environment.
const (
	DefaultPackageID      = "0xec19251f25823e9b5e65dc5f9083433eb2dae55be421e866d30aa0c7170cf1b5"
	DefaultFaucetObjectID = "0xdab98545a6dea43786a6e4b733a6a92f08553d4fb3061a8711f0a6b3ac41b36e"
	DefaultRPCURL         = "https://fullnode.testnet.sui.io:443"

	// DefaultGasBudget is 0.01 SUI.
	DefaultGasBudget uint64 = 10_000_000
)
