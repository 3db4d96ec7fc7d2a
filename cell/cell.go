package cell

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
)

// Kind is the variant tag of a Cell. The declaration order is the cross
// variant order: every Text sorts before every Integer.
type Kind uint8

const (
	KindText Kind = iota
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

var ErrInvalidCell = errors.New("invalid cell")

// Cell is the content of one column: a text value or a 64-bit signed integer.
// The zero value is an empty Text.
type Cell struct {
	kind    Kind
	text    string
	integer int64
}

func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

func Integer(n int64) Cell {
	return Cell{kind: KindInteger, integer: n}
}

func (c Cell) Kind() Kind {
	return c.kind
}

func (c Cell) AsText() (string, bool) {
	return c.text, c.kind == KindText
}

func (c Cell) AsInteger() (int64, bool) {
	return c.integer, c.kind == KindInteger
}

// Compare orders by Kind first, then by value: byte-wise for text, numeric
// for integers.
func Compare(a, b Cell) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	if a.kind == KindInteger {
		return cmp.Compare(a.integer, b.integer)
	}
	return strings.Compare(a.text, b.text)
}

func Less(a, b Cell) bool {
	return Compare(a, b) < 0
}

func (c Cell) Equal(other Cell) bool {
	return Compare(c, other) == 0
}

// Bytes returns the canonical encoding: UTF-8 for text, 8 bytes big endian
// two's complement for integers.
func (c Cell) Bytes() []byte {
	if c.kind == KindInteger {
		return binary.BigEndian.AppendUint64(nil, uint64(c.integer))
	}
	return []byte(c.text)
}

func (c Cell) String() string {
	if c.kind == KindInteger {
		return strconv.FormatInt(c.integer, 10)
	}
	return strconv.Quote(c.text)
}

type cellJSON struct {
	Text    *string `json:"text,omitzero"`
	Integer *int64  `json:"integer,omitzero"`
}

func (c Cell) MarshalJSON() ([]byte, error) {
	wire := cellJSON{}
	switch c.kind {
	case KindText:
		wire.Text = &c.text
	case KindInteger:
		wire.Integer = &c.integer
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidCell, c.kind)
	}
	return json.Marshal(wire)
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	wire := cellJSON{}
	err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCell, err)
	}

	switch {
	case wire.Text != nil && wire.Integer != nil:
		return fmt.Errorf("%w: both text and integer are set", ErrInvalidCell)
	case wire.Text != nil:
		*c = Text(*wire.Text)
	case wire.Integer != nil:
		*c = Integer(*wire.Integer)
	default:
		return fmt.Errorf("%w: empty cell", ErrInvalidCell)
	}

	return nil
}
