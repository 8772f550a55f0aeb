package models

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// NullInt is a nullable integer column. On input it accepts JSON numbers, numeric strings
// such as "12" or "12,00" (spreadsheet exports), empty strings and null.
type NullInt struct {
	sql.NullInt64
}

// NewNullInt returns a valid NullInt.
func NewNullInt(v int64) NullInt {
	return NullInt{sql.NullInt64{Int64: v, Valid: true}}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*n = NullInt{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if raw == "" {
			*n = NullInt{}
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		*n = NewNullInt(v)
		return nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%q is out of range", raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%q is not an integer", raw)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("%q is out of range", raw)
	}
	*n = NewNullInt(int64(f))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return []byte(strconv.FormatInt(n.Int64, 10)), nil
}

// Text returns the decimal form or "" when NULL.
func (n NullInt) Text() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

// NullText is a nullable free-text column. On input it accepts strings, numbers (kept in
// their literal form) and null.
type NullText struct {
	sql.NullString
}

// NewNullText returns a valid NullText.
func NewNullText(v string) NullText {
	return NullText{sql.NullString{String: v, Valid: true}}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, jsonNull):
		*n = NullText{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NewNullText(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected text, got %s", data)
	}
	*n = NewNullText(num.String())
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullText) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.String)
}

// Text returns the value or "" when NULL.
func (n NullText) Text() string {
	if !n.Valid {
		return ""
	}
	return n.String
}
