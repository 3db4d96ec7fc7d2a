package cell

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Record is the two column payload stored under a RecordKey.
type Record struct {
	str Cell
	num Cell
}

func NewRecord(stringCol, numberCol Cell) Record {
	return Record{str: stringCol, num: numberCol}
}

func (r Record) StringCol() Cell {
	return r.str
}

func (r Record) NumberCol() Cell {
	return r.num
}

func (r Record) Equal(other Record) bool {
	return r.str.Equal(other.str) && r.num.Equal(other.num)
}

func (r Record) String() string {
	return fmt.Sprintf("(%s, %s)", r.str, r.num)
}

type recordJSON struct {
	String *Cell `json:"string"`
	Number *Cell `json:"number"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		String: &r.str,
		Number: &r.num,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	wire := recordJSON{}
	err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true))
	if err != nil {
		return err
	}
	if wire.String == nil || wire.Number == nil {
		return fmt.Errorf("%w: record needs both string and number columns", ErrInvalidCell)
	}

	*r = NewRecord(*wire.String, *wire.Number)
	return nil
}
