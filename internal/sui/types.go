package sui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SuiCoinType is the fully qualified type of the gas coin.
const SuiCoinType = "0x2::sui::SUI"

// ObjectDataOptions selects which parts of an object the node returns.
type ObjectDataOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
}

// ObjectResponse is the result of sui_getObject.
type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectError is returned in place of data for missing or deleted objects.
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

func (e *ObjectError) Error() string {
	if e.ObjectID != "" {
		return fmt.Sprintf("object %s: %s", e.ObjectID, e.Code)
	}
	return e.Code
}

// ObjectData is the object payload of sui_getObject.
type ObjectData struct {
	ObjectID string          `json:"objectId"`
	Version  Uint64String    `json:"version"`
	Digest   string          `json:"digest"`
	Type     string          `json:"type,omitempty"`
	Owner    json.RawMessage `json:"owner,omitempty"`
	Content  *ObjectContent  `json:"content,omitempty"`
}

// ObjectContent is the parsed Move content of an object.
type ObjectContent struct {
	DataType string                     `json:"dataType"`
	Type     string                     `json:"type,omitempty"`
	Fields   map[string]json.RawMessage `json:"fields,omitempty"`
}

// IsMoveObject reports whether the content is a Move object (not a package).
func (c *ObjectContent) IsMoveObject() bool {
	return c != nil && c.DataType == "moveObject"
}

// SharedVersion returns the initial shared version when the object is shared.
func (d *ObjectData) SharedVersion() (uint64, bool) {
	if d == nil || len(d.Owner) == 0 {
		return 0, false
	}

	var owner struct {
		Shared *struct {
			InitialSharedVersion json.RawMessage `json:"initial_shared_version"`
		} `json:"Shared"`
	}
	if err := json.Unmarshal(d.Owner, &owner); err != nil || owner.Shared == nil {
		return 0, false
	}

	v, err := ParseUint64(owner.Shared.InitialSharedVersion)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Uint64String decodes u64 values the node sends either as JSON strings or
// numbers.
type Uint64String uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint64String) UnmarshalJSON(b []byte) error {
	v, err := ParseUint64(b)
	if err != nil {
		return err
	}
	*u = Uint64String(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// ParseUint64 decodes a raw JSON string or number as u64.
func ParseUint64(raw json.RawMessage) (uint64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("empty value")
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse u64 %q: %w", s, err)
	}
	return v, nil
}

// DevInspectResults is the result of sui_devInspectTransactionBlock.
type DevInspectResults struct {
	Effects json.RawMessage   `json:"effects,omitempty"`
	Error   string            `json:"error,omitempty"`
	Results []ExecutionResult `json:"results,omitempty"`
}

// ExecutionResult holds the values returned by one command.
type ExecutionResult struct {
	ReturnValues []ReturnValue `json:"returnValues,omitempty"`
}

// ReturnValue is a BCS-encoded Move value with its type, sent as
// [[byte, ...], "type"].
type ReturnValue struct {
	Bytes []byte
	Type  string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ReturnValue) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("return value: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("return value: want 2 elements, got %d", len(pair))
	}

	var ints []int
	if err := json.Unmarshal(pair[0], &ints); err != nil {
		return fmt.Errorf("return value bytes: %w", err)
	}
	r.Bytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("return value byte %d out of range", v)
		}
		r.Bytes[i] = byte(v)
	}

	return json.Unmarshal(pair[1], &r.Type)
}

// FirstReturnValue returns results[0].returnValues[0], if present.
func (d *DevInspectResults) FirstReturnValue() (ReturnValue, bool) {
	if d == nil || len(d.Results) == 0 || len(d.Results[0].ReturnValues) == 0 {
		return ReturnValue{}, false
	}
	return d.Results[0].ReturnValues[0], true
}

// ExecuteOptions selects what sui_executeTransactionBlock returns.
type ExecuteOptions struct {
	ShowEffects bool `json:"showEffects,omitempty"`
	ShowEvents  bool `json:"showEvents,omitempty"`
}

// RequestType controls how long execution waits.
type RequestType string

// Execution request types.
const (
	WaitForEffectsCert    RequestType = "WaitForEffectsCert"
	WaitForLocalExecution RequestType = "WaitForLocalExecution"
)

// TransactionBlockResponse is the result of sui_executeTransactionBlock.
type TransactionBlockResponse struct {
	Digest  string              `json:"digest"`
	Effects *TransactionEffects `json:"effects,omitempty"`
}

// TransactionEffects carries the execution status.
type TransactionEffects struct {
	Status ExecutionStatus `json:"status"`
}

// ExecutionStatus is "success" or "failure" with an error message.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether the transaction executed successfully. A response
// without effects is treated as accepted.
func (r *TransactionBlockResponse) Succeeded() bool {
	if r == nil {
		return false
	}
	if r.Effects == nil {
		return true
	}
	return r.Effects.Status.Status == "success"
}

// Coin is one coin object owned by an address.
type Coin struct {
	CoinType     string       `json:"coinType"`
	CoinObjectID string       `json:"coinObjectId"`
	Version      Uint64String `json:"version"`
	Digest       string       `json:"digest"`
	Balance      Uint64String `json:"balance"`
}

// Ref converts the coin to an ObjectRef for gas payment.
func (c Coin) Ref() (ObjectRef, error) {
	return NewObjectRef(c.CoinObjectID, uint64(c.Version), c.Digest)
}

// CoinPage is one page of suix_getCoins.
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor,omitempty"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Balance is the result of suix_getBalance.
type Balance struct {
	CoinType        string       `json:"coinType"`
	CoinObjectCount int          `json:"coinObjectCount"`
	TotalBalance    Uint64String `json:"totalBalance"`
}

// EventFilter selects events for suix_subscribeEvent.
type EventFilter struct {
	MoveEventModule *MoveModule `json:"MoveEventModule,omitempty"`
	Sender          string      `json:"Sender,omitempty"`
}

// MoveModule names a module by package and module name.
type MoveModule struct {
	Package string `json:"package"`
	Module  string `json:"module"`
}

// EventID identifies an event within a transaction.
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event is a Move event emitted by a transaction.
type Event struct {
	ID                EventID         `json:"id"`
	PackageID         string          `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            string          `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson,omitempty"`
	TimestampMs       string          `json:"timestampMs,omitempty"`
}
