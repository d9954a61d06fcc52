package sui

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encoder writes values in Binary Canonical Serialization.
type Encoder struct {
	buf bytes.Buffer
}

// Marshaler is implemented by types that know their own BCS layout.
type Marshaler interface {
	MarshalBCS(e *Encoder)
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteU8 writes a single byte.
func (e *Encoder) WriteU8(v uint8) {
	e.buf.WriteByte(v)
}

// WriteU16 writes a little-endian u16.
func (e *Encoder) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

// WriteU64 writes a little-endian u64.
func (e *Encoder) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteBool writes 0x01 or 0x00.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf.WriteByte(1)
		return
	}
	e.buf.WriteByte(0)
}

// WriteULEB128 writes v as an unsigned LEB128 integer. Used for lengths and
// enum variant tags.
func (e *Encoder) WriteULEB128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			e.buf.WriteByte(b)
			return
		}
		e.buf.WriteByte(b | 0x80)
	}
}

// WriteFixed writes raw bytes with no length prefix.
func (e *Encoder) WriteFixed(b []byte) {
	e.buf.Write(b)
}

// WriteBytes writes a length-prefixed byte vector.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteULEB128(uint64(len(b)))
	e.buf.Write(b)
}

// WriteString writes a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteAddress writes the 32 address bytes.
func (e *Encoder) WriteAddress(a Address) {
	e.buf.Write(a[:])
}

// WriteVariant writes an enum tag.
func (e *Encoder) WriteVariant(tag int) {
	e.WriteULEB128(uint64(tag))
}

// Write encodes a Marshaler.
func (e *Encoder) Write(m Marshaler) {
	m.MarshalBCS(e)
}

// WriteVector writes a length-prefixed sequence of n items.
func WriteVector[T Marshaler](e *Encoder, items []T) {
	e.WriteULEB128(uint64(len(items)))
	for _, it := range items {
		it.MarshalBCS(e)
	}
}

// Marshal encodes m into a fresh byte slice.
func Marshal(m Marshaler) []byte {
	e := NewEncoder()
	m.MarshalBCS(e)
	return e.Bytes()
}

// EncodeU64 returns the 8-byte little-endian encoding of v.
func EncodeU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// DecodeU64 reads a little-endian u64 from the first 8 bytes of b.
func DecodeU64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("u64 needs 8 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint64(b[:8]), nil
}
