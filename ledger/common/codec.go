// Package common holds the low-level, stable byte encoding primitives
// shared by the MST's wire format. The primitives are deliberately
// dumb: fixed-width integers and length-prefixed byte strings, nothing
// that requires a schema registry or reflection.
package common

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodingDecodingVersion is bumped whenever the wire format changes in
// a way that is not backward compatible. Decoders refuse to decode a
// version newer than they know about.
const EncodingDecodingVersion = uint16(0)

// SchemaCode tags the top-level entity a blob of bytes decodes to, so an
// IndexEntry can never be mistaken for a leaf payload even though both
// are stored under content-addressed keys in the same KV store.
type SchemaCode uint8

const (
	// SchemaIndexEntry tags an encoded IndexEntry (path or leaf-layer node).
	SchemaIndexEntry SchemaCode = iota
	// SchemaLeafValue tags a raw, caller-supplied leaf payload.
	SchemaLeafValue
	schemaUnknown
)

func (s SchemaCode) String() string {
	switch s {
	case SchemaIndexEntry:
		return "IndexEntry"
	case SchemaLeafValue:
		return "LeafValue"
	default:
		return "Unknown"
	}
}

// CheckVersion reads and validates the encoding/decoding version prefix,
// returning the remaining bytes.
func CheckVersion(input []byte) (rest []byte, err error) {
	version, rest, err := ReadUint16(input)
	if err != nil {
		return rest, fmt.Errorf("cannot read encoding version: %w", err)
	}
	if version > EncodingDecodingVersion {
		return rest, fmt.Errorf("unsupported encoding version %d (max known %d)", version, EncodingDecodingVersion)
	}
	return rest, nil
}

// CheckSchema reads and validates the schema code prefix against the
// expected one, returning the remaining bytes.
func CheckSchema(input []byte, expected SchemaCode) (rest []byte, err error) {
	code, rest, err := ReadUint8(input)
	if err != nil {
		return rest, fmt.Errorf("cannot read schema code: %w", err)
	}
	got := SchemaCode(code)
	if got >= schemaUnknown {
		return rest, fmt.Errorf("unknown schema code %d", code)
	}
	if got != expected {
		return rest, fmt.Errorf("unexpected schema %s, wanted %s", got, expected)
	}
	return rest, nil
}

// AppendUint8 appends a single byte.
func AppendUint8(input []byte, value uint8) []byte {
	return append(input, byte(value))
}

// AppendInt64 appends a fixed-width, big-endian int64.
func AppendInt64(input []byte, value int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	return append(input, buf...)
}

// AppendUint32 appends a fixed-width, big-endian uint32.
func AppendUint32(input []byte, value uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, value)
	return append(input, buf...)
}

// AppendUint16 appends a fixed-width, big-endian uint16.
func AppendUint16(input []byte, value uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, value)
	return append(input, buf...)
}

// AppendShortData length-prefixes (uint16) and appends data shorter than 64KB.
func AppendShortData(input []byte, data []byte) []byte {
	if len(data) > math.MaxUint16 {
		panic(fmt.Sprintf("short data too long: %d bytes", len(data)))
	}
	input = append(input, 0, 0)
	binary.BigEndian.PutUint16(input[len(input)-2:], uint16(len(data)))
	return append(input, data...)
}

// ReadUint8 reads a single byte.
func ReadUint8(input []byte) (value uint8, rest []byte, err error) {
	if len(input) < 1 {
		return 0, input, fmt.Errorf("input too short (%d bytes) to read a uint8", len(input))
	}
	return input[0], input[1:], nil
}

// ReadInt64 reads a fixed-width, big-endian int64.
func ReadInt64(input []byte) (value int64, rest []byte, err error) {
	if len(input) < 8 {
		return 0, input, fmt.Errorf("input too short (%d bytes) to read an int64", len(input))
	}
	return int64(binary.BigEndian.Uint64(input[:8])), input[8:], nil
}

// ReadUint32 reads a fixed-width, big-endian uint32.
func ReadUint32(input []byte) (value uint32, rest []byte, err error) {
	if len(input) < 4 {
		return 0, input, fmt.Errorf("input too short (%d bytes) to read a uint32", len(input))
	}
	return binary.BigEndian.Uint32(input[:4]), input[4:], nil
}

// ReadUint16 reads a fixed-width, big-endian uint16.
func ReadUint16(input []byte) (value uint16, rest []byte, err error) {
	if len(input) < 2 {
		return 0, input, fmt.Errorf("input too short (%d bytes) to read a uint16", len(input))
	}
	return binary.BigEndian.Uint16(input[:2]), input[2:], nil
}

// ReadShortData reads a uint16 length-prefixed byte string.
func ReadShortData(input []byte) (data []byte, rest []byte, err error) {
	size, rest, err := ReadUint16(input)
	if err != nil {
		return nil, rest, err
	}
	if len(rest) < int(size) {
		return nil, rest, fmt.Errorf("input too short (%d bytes) to read %d-byte payload", len(rest), size)
	}
	return rest[:size], rest[size:], nil
}
