package entity

import (
	"strconv"
)

// ValueKind tags what a resolved attribute holds.
type ValueKind int

const (
	NumberValue ValueKind = iota
	StringValue
	QuantityValue
)

// Value is the scalar produced by resolving an attribute path.
// Quantity values keep the unit tag found in the model (may be empty, meaning
// the internal base unit).
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Unit string
}

func Number(v float64) Value { return Value{Kind: NumberValue, Num: v} }

func String(s string) Value { return Value{Kind: StringValue, Str: s} }

func QuantityOf(v float64, unit string) Value {
	return Value{Kind: QuantityValue, Num: v, Unit: unit}
}

// IsNumeric reports whether the value can take part in a numeric sum.
func (v Value) IsNumeric() bool {
	return v.Kind == NumberValue || v.Kind == QuantityValue
}

// IsZero mirrors the "falsy" check used when seeding a running sum.
func (v Value) IsZero() bool {
	if v.Kind == StringValue {
		return v.Str == ""
	}
	return v.Num == 0
}

// Quantity interprets the value in dim. Untagged numbers are read in the
// internal base unit of dim.
func (v Value) Quantity(dim Dimension) (Quantity, error) {
	if v.Kind == QuantityValue && v.Unit != "" {
		u, err := ParseUnit(v.Unit)
		if err != nil {
			return Quantity{}, err
		}
		return Quantity{Value: v.Num, Unit: u}, nil
	}
	return Quantity{Value: v.Num, Unit: BaseUnit(dim)}, nil
}

// String renders the value the way a spreadsheet cell shows it.
func (v Value) String() string {
	if v.Kind == StringValue {
		return v.Str
	}
	return FormatNumber(v.Num)
}

// FormatNumber renders a float with the shortest exact representation.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatFixed renders a float with a fixed number of decimals.
func FormatFixed(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}
