package sui

import (
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// DigestLength is the byte length of object and transaction digests.
const DigestLength = 32

// ArgumentKind enumerates the Argument variants.
type ArgumentKind uint8

// Argument variants, in BCS tag order.
const (
	ArgGasCoin ArgumentKind = iota
	ArgInput
	ArgResult
	ArgNestedResult
)

// Argument refers to a transaction input or the result of an earlier command.
type Argument struct {
	Kind   ArgumentKind
	Index  uint16
	Nested uint16
}

// GasCoin refers to the coin paying for gas.
func GasCoin() Argument { return Argument{Kind: ArgGasCoin} }

// Input refers to the i-th transaction input.
func Input(i uint16) Argument { return Argument{Kind: ArgInput, Index: i} }

// Result refers to the whole result of command i.
func Result(i uint16) Argument { return Argument{Kind: ArgResult, Index: i} }

// NestedResult refers to value j of the result of command i.
func NestedResult(i, j uint16) Argument {
	return Argument{Kind: ArgNestedResult, Index: i, Nested: j}
}

// At narrows a Result to one of its values.
func (a Argument) At(j uint16) Argument {
	return NestedResult(a.Index, j)
}

// MarshalBCS implements Marshaler.
func (a Argument) MarshalBCS(e *Encoder) {
	e.WriteVariant(int(a.Kind))
	switch a.Kind {
	case ArgInput, ArgResult:
		e.WriteU16(a.Index)
	case ArgNestedResult:
		e.WriteU16(a.Index)
		e.WriteU16(a.Nested)
	}
}

// ObjectRef pins an owned object at a version.
type ObjectRef struct {
	ObjectID Address
	Version  uint64
	Digest   [DigestLength]byte
}

// NewObjectRef builds a reference from RPC fields. The digest is base58.
func NewObjectRef(id string, version uint64, digest string) (ObjectRef, error) {
	var ref ObjectRef

	addr, err := ParseAddress(id)
	if err != nil {
		return ref, err
	}

	raw, err := base58.Decode(digest)
	if err != nil {
		return ref, fmt.Errorf("decode digest %q: %w", digest, err)
	}
	if len(raw) != DigestLength {
		return ref, fmt.Errorf("digest %q has %d bytes, want %d", digest, len(raw), DigestLength)
	}

	ref.ObjectID = addr
	ref.Version = version
	copy(ref.Digest[:], raw)
	return ref, nil
}

// MarshalBCS implements Marshaler.
func (r ObjectRef) MarshalBCS(e *Encoder) {
	e.WriteAddress(r.ObjectID)
	e.WriteU64(r.Version)
	e.WriteBytes(r.Digest[:])
}

// CallArg is a transaction input: pure bytes or an object.
type CallArg struct {
	Pure []byte

	ImmOrOwned *ObjectRef

	Shared *SharedObject
}

// SharedObject references a shared object by its initial shared version.
type SharedObject struct {
	ObjectID             Address
	InitialSharedVersion uint64
	Mutable              bool
}

// PureBytes wraps already-encoded bytes.
func PureBytes(b []byte) CallArg { return CallArg{Pure: b} }

// PureU64 is a pure u64 input.
func PureU64(v uint64) CallArg { return CallArg{Pure: EncodeU64(v)} }

// PureAddress is a pure address input.
func PureAddress(a Address) CallArg {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return CallArg{Pure: b}
}

// SharedObjectArg is a shared object input.
func SharedObjectArg(id Address, initialSharedVersion uint64, mutable bool) CallArg {
	return CallArg{Shared: &SharedObject{
		ObjectID:             id,
		InitialSharedVersion: initialSharedVersion,
		Mutable:              mutable,
	}}
}

// OwnedObjectArg is an owned or immutable object input.
func OwnedObjectArg(ref ObjectRef) CallArg {
	return CallArg{ImmOrOwned: &ref}
}

// MarshalBCS implements Marshaler.
func (c CallArg) MarshalBCS(e *Encoder) {
	switch {
	case c.ImmOrOwned != nil:
		e.WriteVariant(1) // Object
		e.WriteVariant(0) // ImmOrOwnedObject
		c.ImmOrOwned.MarshalBCS(e)
	case c.Shared != nil:
		e.WriteVariant(1) // Object
		e.WriteVariant(1) // SharedObject
		e.WriteAddress(c.Shared.ObjectID)
		e.WriteU64(c.Shared.InitialSharedVersion)
		e.WriteBool(c.Shared.Mutable)
	default:
		e.WriteVariant(0)
		e.WriteBytes(c.Pure)
	}
}

// MoveCall invokes a public Move function.
type MoveCall struct {
	Package   Address
	Module    string
	Function  string
	Arguments []Argument
}

// SplitCoins splits amounts off a coin.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

// Command is one step of a programmable transaction.
type Command struct {
	MoveCall   *MoveCall
	SplitCoins *SplitCoins
}

// MarshalBCS implements Marshaler. Generic type arguments are not supported;
// the faucet entry points take none.
func (c Command) MarshalBCS(e *Encoder) {
	switch {
	case c.MoveCall != nil:
		e.WriteVariant(0)
		e.WriteAddress(c.MoveCall.Package)
		e.WriteString(c.MoveCall.Module)
		e.WriteString(c.MoveCall.Function)
		e.WriteULEB128(0)
		WriteVector(e, c.MoveCall.Arguments)
	case c.SplitCoins != nil:
		e.WriteVariant(2)
		c.SplitCoins.Coin.MarshalBCS(e)
		WriteVector(e, c.SplitCoins.Amounts)
	}
}

// ProgrammableTransaction is a list of inputs and the commands using them.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// MarshalBCS implements Marshaler.
func (p ProgrammableTransaction) MarshalBCS(e *Encoder) {
	WriteVector(e, p.Inputs)
	WriteVector(e, p.Commands)
}

// KindBytes returns the TransactionKind encoding used by dev-inspect.
func (p ProgrammableTransaction) KindBytes() []byte {
	e := NewEncoder()
	e.WriteVariant(0) // ProgrammableTransaction
	p.MarshalBCS(e)
	return e.Bytes()
}

// KindBase64 is KindBytes, base64 encoded.
func (p ProgrammableTransaction) KindBase64() string {
	return base64.StdEncoding.EncodeToString(p.KindBytes())
}

// GasData describes who pays for a transaction and how much.
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// MarshalBCS implements Marshaler.
func (g GasData) MarshalBCS(e *Encoder) {
	WriteVector(e, g.Payment)
	e.WriteAddress(g.Owner)
	e.WriteU64(g.Price)
	e.WriteU64(g.Budget)
}

// TransactionData is a complete, unsigned V1 transaction with no expiration.
type TransactionData struct {
	Kind   ProgrammableTransaction
	Sender Address
	Gas    GasData
}

// MarshalBCS implements Marshaler.
func (t TransactionData) MarshalBCS(e *Encoder) {
	e.WriteVariant(0) // V1
	e.WriteVariant(0) // ProgrammableTransaction
	t.Kind.MarshalBCS(e)
	e.WriteAddress(t.Sender)
	t.Gas.MarshalBCS(e)
	e.WriteVariant(0) // TransactionExpiration::None
}

// Builder assembles a ProgrammableTransaction.
type Builder struct {
	inputs   []CallArg
	commands []Command
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Input adds an input and returns a reference to it.
func (b *Builder) Input(arg CallArg) Argument {
	b.inputs = append(b.inputs, arg)
	return Input(uint16(len(b.inputs) - 1))
}

// MoveCall appends a Move call and returns its result.
func (b *Builder) MoveCall(pkg Address, module, function string, args ...Argument) Argument {
	b.commands = append(b.commands, Command{MoveCall: &MoveCall{
		Package:   pkg,
		Module:    module,
		Function:  function,
		Arguments: args,
	}})
	return Result(uint16(len(b.commands) - 1))
}

// SplitCoins appends a split and returns its result.
func (b *Builder) SplitCoins(coin Argument, amounts ...Argument) Argument {
	b.commands = append(b.commands, Command{SplitCoins: &SplitCoins{
		Coin:    coin,
		Amounts: amounts,
	}})
	return Result(uint16(len(b.commands) - 1))
}

// Build returns the assembled transaction.
func (b *Builder) Build() ProgrammableTransaction {
	return ProgrammableTransaction{
		Inputs:   append([]CallArg(nil), b.inputs...),
		Commands: append([]Command(nil), b.commands...),
	}
}
