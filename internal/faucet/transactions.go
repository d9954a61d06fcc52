package faucet

import (
	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// Move entry points of the faucet module.
const (
	fnClaim         = "claim"
	fnDeposit       = "deposit"
	fnLastClaimTime = "get_last_claim_time"
)

// Target identifies the deployed faucet.
type Target struct {
	Package              sui.Address
	Faucet               sui.Address
	InitialSharedVersion uint64
}

func clockArg() sui.CallArg {
	return sui.SharedObjectArg(sui.MustParseAddress(config.ClockObjectID), config.ClockInitialSharedVersion, false)
}

// BuildClaim returns faucet::claim(&mut Faucet, &Clock).
func BuildClaim(t Target) sui.ProgrammableTransaction {
	b := sui.NewBuilder()
	faucet := b.Input(sui.SharedObjectArg(t.Faucet, t.InitialSharedVersion, true))
	clock := b.Input(clockArg())
	b.MoveCall(t.Package, config.FaucetModule, fnClaim, faucet, clock)
	return b.Build()
}

// BuildDeposit splits mist off the gas coin and passes it to
// faucet::deposit(&mut Faucet, Coin<SUI>).
func BuildDeposit(t Target, mist uint64) sui.ProgrammableTransaction {
	b := sui.NewBuilder()
	amount := b.Input(sui.PureU64(mist))
	faucet := b.Input(sui.SharedObjectArg(t.Faucet, t.InitialSharedVersion, true))
	coin := b.SplitCoins(sui.GasCoin(), amount)
	b.MoveCall(t.Package, config.FaucetModule, fnDeposit, faucet, coin.At(0))
	return b.Build()
}

// BuildLastClaimInspect returns faucet::get_last_claim_time(&Faucet, address)
// for dev-inspect.
func BuildLastClaimInspect(t Target, user sui.Address) sui.ProgrammableTransaction {
	b := sui.NewBuilder()
	faucet := b.Input(sui.SharedObjectArg(t.Faucet, t.InitialSharedVersion, false))
	addr := b.Input(sui.PureAddress(user))
	b.MoveCall(t.Package, config.FaucetModule, fnLastClaimTime, faucet, addr)
	return b.Build()
}
