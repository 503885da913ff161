package models

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind discriminates the closed set of scalar kinds a result cell can
// hold. The kind is decided once at the data-access boundary so the renderer
// formats over a total function instead of probing runtime types.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueTimestamp
	ValueInteger
)

// Value is a tagged scalar from a query result.
type Value struct {
	Kind    ValueKind
	Text    string
	Number  float64
	Integer int64
	Time    time.Time
}

// TextValue wraps a string.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// NumberValue wraps a fractional numeric scalar.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }

// IntegerValue wraps an integer scalar. Integers keep their own kind so
// counts and identifiers above 2^53 never lose precision to a float64.
func IntegerValue(n int64) Value { return Value{Kind: ValueInteger, Integer: n} }

// TimestampValue wraps a date or timestamp.
func TimestampValue(t time.Time) Value { return Value{Kind: ValueTimestamp, Time: t} }

// ValueOf converts a driver scalar into a tagged Value. Unknown types fall
// back to their natural string form as text.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return TextValue("")
	case string:
		return TextValue(x)
	case []byte:
		return TextValue(string(x))
	case bool:
		return TextValue(strconv.FormatBool(x))
	case int:
		return IntegerValue(int64(x))
	case int16:
		return IntegerValue(int64(x))
	case int32:
		return IntegerValue(int64(x))
	case int64:
		return IntegerValue(x)
	case float32:
		return NumberValue(float64(x))
	case float64:
		return NumberValue(x)
	case time.Time:
		return TimestampValue(x)
	default:
		return TextValue(fmt.Sprintf("%v", x))
	}
}

// String renders the value for the text table. Timestamps render as
// YYYY-MM-DD when the time of day is midnight, otherwise as
// YYYY-MM-DD HH:MM:SS. Fractional numbers use their shortest exact decimal
// form; integers render in full.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueInteger:
		return strconv.FormatInt(v.Integer, 10)
	case ValueTimestamp:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return v.Text
	}
}
