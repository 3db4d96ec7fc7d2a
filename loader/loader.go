package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/fulldump/colindex/cell"
)

var ErrInvalidRecord = errors.New("invalid record")

// Read decodes a JSON lines batch and calls f for every record, in order.
// Each line looks like {"key":0,"string":"String Z","number":4}; blank lines
// are skipped.
func Read(r io.Reader, f func(key cell.RecordKey, record cell.Record) error) error {

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large lines
	const maxCapacity = 16 * 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		key, record, err := ParseRecord(data)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		err = f(key, record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	return nil
}

// ParseRecord decodes one {"key":..,"string":..,"number":..} object.
func ParseRecord(data []byte) (cell.RecordKey, cell.Record, error) {

	if !gjson.ValidBytes(data) {
		return cell.RecordKey{}, cell.Record{}, fmt.Errorf("%w: malformed json", ErrInvalidRecord)
	}

	fields := gjson.GetManyBytes(data, "key", "string", "number")

	key, err := parseInteger("key", fields[0])
	if err != nil {
		return cell.RecordKey{}, cell.Record{}, err
	}

	str, err := ParseCell("string", fields[1])
	if err != nil {
		return cell.RecordKey{}, cell.Record{}, err
	}

	num, err := ParseCell("number", fields[2])
	if err != nil {
		return cell.RecordKey{}, cell.Record{}, err
	}

	return cell.KeyFromInt64(key), cell.NewRecord(str, num), nil
}

// ParseCell maps a JSON string to a Text cell and a JSON integer to an
// Integer cell.
func ParseCell(field string, value gjson.Result) (cell.Cell, error) {
	switch value.Type {
	case gjson.String:
		return cell.Text(value.Str), nil
	case gjson.Number:
		n, err := parseInteger(field, value)
		if err != nil {
			return cell.Cell{}, err
		}
		return cell.Integer(n), nil
	case gjson.Null:
		if !value.Exists() {
			return cell.Cell{}, fmt.Errorf("%w: field '%s' is mandatory", ErrInvalidRecord, field)
		}
	}
	return cell.Cell{}, fmt.Errorf("%w: field '%s' must be a string or an integer", ErrInvalidRecord, field)
}

func parseInteger(field string, value gjson.Result) (int64, error) {
	if !value.Exists() {
		return 0, fmt.Errorf("%w: field '%s' is mandatory", ErrInvalidRecord, field)
	}
	if value.Type != gjson.Number {
		return 0, fmt.Errorf("%w: field '%s' must be an integer", ErrInvalidRecord, field)
	}
	n, err := strconv.ParseInt(value.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field '%s' must be an integer: %s", ErrInvalidRecord, field, value.Raw)
	}
	return n, nil
}
