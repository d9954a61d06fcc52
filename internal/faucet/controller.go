package faucet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// User-facing messages.
const (
	MsgFetchFailedPrefix = "Failed to fetch faucet stats: "
	MsgUnknownError      = "Unknown error"
	MsgFaucetNotFound    = "Faucet object not found"
	MsgInvalidFaucetType = "Invalid faucet object type"
	MsgClaimFailed       = "Failed to claim tokens"
	MsgDepositFailed     = "Failed to deposit tokens"
	MsgInvalidAmount     = "Please enter a valid amount"
	MsgNotConnected      = "Connect a wallet first"
)

// ClaimSuccessMessage is shown after an accepted claim.
func ClaimSuccessMessage(digest string) string {
	return fmt.Sprintf("Successfully claimed %d SUI! Digest: %s", config.ClaimAmount, digest)
}

// DepositSuccessMessage is shown after an accepted deposit, echoing the
// amount as entered.
func DepositSuccessMessage(amount string) string {
	return fmt.Sprintf("Successfully deposited %s SUI!", amount)
}

// Ledger is the read side of the node API used by the controller.
type Ledger interface {
	GetObject(ctx context.Context, id string, opts sui.ObjectDataOptions) (*sui.ObjectResponse, error)
	DevInspectTransactionBlock(ctx context.Context, sender string, txKind sui.ProgrammableTransaction) (*sui.DevInspectResults, error)
}

// Executor signs and submits transactions for the connected address.
type Executor interface {
	Address() string
	SignAndExecute(ctx context.Context, pt sui.ProgrammableTransaction, spend uint64) (*sui.TransactionBlockResponse, error)
}

// ActionKind names a write operation.
type ActionKind string

const (
	ActionClaim   ActionKind = "claim"
	ActionDeposit ActionKind = "deposit"
)

// ActionResult describes an accepted transaction.
type ActionResult struct {
	Kind       ActionKind
	Address    string
	Digest     string
	AmountMist uint64
	Message    string
}

// Controller reads faucet state and builds faucet transactions.
type Controller struct {
	ledger    Ledger
	target    Target
	faucetID  string
	sharedVer atomic.Uint64
	now       func() time.Time
}

// NewController creates a controller for the faucet at faucetID in package
// packageID.
func NewController(ledger Ledger, packageID, faucetID string) (*Controller, error) {
	pkg, err := sui.ParseAddress(packageID)
	if err != nil {
		return nil, fmt.Errorf("package id: %w", err)
	}
	fid, err := sui.ParseAddress(faucetID)
	if err != nil {
		return nil, fmt.Errorf("faucet id: %w", err)
	}
	return &Controller{
		ledger:   ledger,
		target:   Target{Package: pkg, Faucet: fid},
		faucetID: fid.String(),
		now:      time.Now,
	}, nil
}

// FaucetID returns the canonical faucet object id.
func (c *Controller) FaucetID() string {
	return c.faucetID
}

// PackageID returns the canonical package id.
func (c *Controller) PackageID() string {
	return c.target.Package.String()
}

// RefreshStats reads the faucet, the ledger clock and the caller's last
// claim, and derives a new snapshot. Only faucet read failures are returned.
func (c *Controller) RefreshStats(ctx context.Context, address string) (FaucetStats, error) {
	raw, err := c.readFaucet(ctx)
	if err != nil {
		return FaucetStats{}, &Error{
			Kind: KindOf(err),
			Op:   "refresh",
			Msg:  MsgFetchFailedPrefix + Message(err, MsgUnknownError),
			Err:  err,
		}
	}

	now, source := c.ledgerTime(ctx)

	last, err := c.LastClaimTime(ctx, address)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// A cancelled lookup says nothing about the claim history.
		return FaucetStats{}, &Error{Kind: KindNetwork, Op: "refresh", Msg: MsgFetchFailedPrefix + ctxErr.Error(), Err: ctxErr}
	}
	if err != nil {
		logger.Debug("No prior claim", "address", address, "reason", err)
		last = 0
	}

	stats := NewStats(raw, last, now, source)
	logger.Debug("Faucet stats refreshed",
		"balance", stats.Balance, "last_claim", last, "can_claim", stats.CanClaim, "clock", source)
	return stats, nil
}

func (c *Controller) readFaucet(ctx context.Context) (uint64, error) {
	resp, err := c.ledger.GetObject(ctx, c.faucetID, sui.ObjectDataOptions{
		ShowContent: true,
		ShowType:    true,
		ShowOwner:   true,
	})
	if err != nil {
		return 0, &Error{Kind: KindNetwork, Op: "get_object", Err: err}
	}
	if resp == nil || resp.Data == nil {
		var cause error
		if resp != nil && resp.Error != nil {
			cause = resp.Error
		}
		return 0, &Error{Kind: KindNotFound, Op: "get_object", Msg: MsgFaucetNotFound, Err: cause}
	}
	if !resp.Data.Content.IsMoveObject() {
		return 0, &Error{Kind: KindTypeMismatch, Op: "get_object", Msg: MsgInvalidFaucetType}
	}

	if v, ok := resp.Data.SharedVersion(); ok {
		c.sharedVer.Store(v)
	}

	bal, err := parseBalanceField(resp.Data.Content.Fields["balance"])
	if err != nil {
		return 0, &Error{Kind: KindTypeMismatch, Op: "get_object", Msg: MsgInvalidFaucetType, Err: err}
	}
	return bal, nil
}

// parseBalanceField accepts "123", 123, {"value": "123"} or
// {"fields": {"value": "123"}}. A missing field is zero.
func parseBalanceField(raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if v, err := sui.ParseUint64(raw); err == nil {
		return v, nil
	}

	var nested struct {
		Value  json.RawMessage `json:"value"`
		Fields *struct {
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return 0, fmt.Errorf("balance field: %w", err)
	}
	switch {
	case len(nested.Value) > 0:
		return sui.ParseUint64(nested.Value)
	case nested.Fields != nil && len(nested.Fields.Value) > 0:
		return sui.ParseUint64(nested.Fields.Value)
	}
	return 0, fmt.Errorf("balance field has unexpected shape: %s", string(raw))
}

// ledgerTime reads the on-chain clock, falling back to local time.
func (c *Controller) ledgerTime(ctx context.Context) (int64, ClockSource) {
	local := c.now().UnixMilli()

	resp, err := c.ledger.GetObject(ctx, config.ClockObjectID, sui.ObjectDataOptions{ShowContent: true})
	if err != nil {
		logger.Debug("Clock fetch failed, using local time", "error", err)
		return local, ClockLocal
	}
	if resp == nil || resp.Data == nil || !resp.Data.Content.IsMoveObject() {
		return local, ClockLocal
	}

	ts, err := sui.ParseUint64(resp.Data.Content.Fields["timestamp_ms"])
	if err != nil || ts > uint64(1<<63-1) {
		logger.Debug("Clock timestamp unreadable, using local time", "error", err)
		return local, ClockLocal
	}
	return int64(ts), ClockLedger
}

// LastClaimTime simulates get_last_claim_time for address. Any failure is a
// KindNoPriorClaim error.
func (c *Controller) LastClaimTime(ctx context.Context, address string) (int64, error) {
	user, err := sui.ParseAddress(address)
	if err != nil {
		return 0, newError(KindNoPriorClaim, "inspect", err, "invalid address %q", address)
	}

	target, err := c.resolveTarget(ctx)
	if err != nil {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Err: err}
	}

	res, err := c.ledger.DevInspectTransactionBlock(ctx, user.String(), BuildLastClaimInspect(target, user))
	if err != nil {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Err: err}
	}
	if res != nil && res.Error != "" {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Msg: res.Error}
	}

	rv, ok := res.FirstReturnValue()
	if !ok {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Msg: "no return value"}
	}
	v, err := sui.DecodeU64(rv.Bytes)
	if err != nil {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Err: err}
	}
	if v > math.MaxInt64 {
		return 0, &Error{Kind: KindNoPriorClaim, Op: "inspect", Msg: fmt.Sprintf("claim time %d out of range", v)}
	}
	return int64(v), nil
}

// resolveTarget returns the faucet target with its initial shared version,
// reading the object if the version is not known yet.
func (c *Controller) resolveTarget(ctx context.Context) (Target, error) {
	t := c.target
	if v := c.sharedVer.Load(); v != 0 {
		t.InitialSharedVersion = v
		return t, nil
	}

	resp, err := c.ledger.GetObject(ctx, c.faucetID, sui.ObjectDataOptions{ShowOwner: true})
	if err != nil {
		return t, &Error{Kind: KindNetwork, Op: "get_object", Err: err}
	}
	if resp == nil || resp.Data == nil {
		return t, &Error{Kind: KindNotFound, Op: "get_object", Msg: MsgFaucetNotFound}
	}
	v, ok := resp.Data.SharedVersion()
	if !ok {
		return t, &Error{Kind: KindTypeMismatch, Op: "get_object", Msg: "faucet object is not shared"}
	}
	c.sharedVer.Store(v)
	t.InitialSharedVersion = v
	return t, nil
}

// Claim submits faucet::claim. Eligibility is not checked here; the Move
// program enforces the cooldown.
func (c *Controller) Claim(ctx context.Context, exec Executor) (ActionResult, error) {
	if exec == nil {
		return ActionResult{}, &Error{Kind: KindNotConnected, Op: "claim", Msg: MsgNotConnected}
	}

	target, err := c.resolveTarget(ctx)
	if err != nil {
		return ActionResult{}, actionError("claim", err, MsgClaimFailed)
	}

	resp, err := exec.SignAndExecute(ctx, BuildClaim(target), 0)
	if err := submissionError("claim", resp, err, MsgClaimFailed); err != nil {
		return ActionResult{}, err
	}

	logger.Info("Claim submitted", "address", exec.Address(), "digest", resp.Digest)
	return ActionResult{
		Kind:       ActionClaim,
		Address:    exec.Address(),
		Digest:     resp.Digest,
		AmountMist: uint64(config.ClaimAmount) * config.MistPerSui,
		Message:    ClaimSuccessMessage(resp.Digest),
	}, nil
}

// Deposit validates amount (in SUI) and submits faucet::deposit. Invalid
// amounts never reach the network.
func (c *Controller) Deposit(ctx context.Context, exec Executor, amount string) (ActionResult, error) {
	if exec == nil {
		return ActionResult{}, &Error{Kind: KindNotConnected, Op: "deposit", Msg: MsgNotConnected}
	}

	mist, err := ParseDepositAmount(amount)
	if err != nil {
		return ActionResult{}, err
	}

	target, err := c.resolveTarget(ctx)
	if err != nil {
		return ActionResult{}, actionError("deposit", err, MsgDepositFailed)
	}

	resp, err := exec.SignAndExecute(ctx, BuildDeposit(target, mist), mist)
	if err := submissionError("deposit", resp, err, MsgDepositFailed); err != nil {
		return ActionResult{}, err
	}

	logger.Info("Deposit submitted", "address", exec.Address(), "mist", mist, "digest", resp.Digest)
	return ActionResult{
		Kind:       ActionDeposit,
		Address:    exec.Address(),
		Digest:     resp.Digest,
		AmountMist: mist,
		Message:    DepositSuccessMessage(amount),
	}, nil
}

func actionError(op string, err error, fallback string) error {
	kind := KindOf(err)
	if kind == KindUnknown {
		kind = KindSubmissionRejected
	}
	return &Error{Kind: kind, Op: op, Msg: Message(err, fallback), Err: err}
}

// submissionError turns a failed or rejected execution into an *Error.
func submissionError(op string, resp *sui.TransactionBlockResponse, err error, fallback string) error {
	if err != nil {
		var rpcErr *sui.RPCError
		if errors.As(err, &rpcErr) {
			msg := rpcErr.Message
			if msg == "" {
				msg = fallback
			}
			return &Error{Kind: KindSubmissionRejected, Op: op, Msg: msg, Err: err}
		}
		return actionError(op, err, fallback)
	}
	if resp == nil {
		return &Error{Kind: KindSubmissionRejected, Op: op, Msg: fallback}
	}
	if !resp.Succeeded() {
		msg := fallback
		if resp.Effects != nil && resp.Effects.Status.Error != "" {
			msg = resp.Effects.Status.Error
		}
		return &Error{Kind: KindSubmissionRejected, Op: op, Msg: msg}
	}
	return nil
}

// FormatLastClaim renders a last-claim timestamp for display.
func FormatLastClaim(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
