package cell

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// RecordKey identifies a record in the primary store. Keys compare byte-wise.
//
// Keys built with KeyFromInt64 keep numeric order only for non-negative
// integers: the two's complement sign bit makes negative keys sort after
// every non-negative one.
type RecordKey struct {
	b string
}

func KeyFromInt64(n int64) RecordKey {
	return RecordKey{b: string(binary.BigEndian.AppendUint64(nil, uint64(n)))}
}

func KeyFromBytes(b []byte) RecordKey {
	return RecordKey{b: string(b)}
}

// Bytes returns a copy of the key bytes.
func (k RecordKey) Bytes() []byte {
	return []byte(k.b)
}

// Int64 decodes a key produced by KeyFromInt64.
func (k RecordKey) Int64() (int64, bool) {
	if len(k.b) != 8 {
		return 0, false
	}
	return int64(binary.BigEndian.Uint64([]byte(k.b))), true
}

func (k RecordKey) Compare(other RecordKey) int {
	return bytes.Compare([]byte(k.b), []byte(other.b))
}

func (k RecordKey) Equal(other RecordKey) bool {
	return k.b == other.b
}

func (k RecordKey) String() string {
	if n, ok := k.Int64(); ok {
		return strconv.FormatInt(n, 10)
	}
	return "0x" + hex.EncodeToString([]byte(k.b))
}
