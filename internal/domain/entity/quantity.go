package entity

import (
	"fmt"
	"strings"

	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Dimension classifies a unit. Conversions are only legal inside one dimension.
type Dimension int

const (
	Dimensionless Dimension = iota
	Length
	Area
	Volume
	Angle
)

func (d Dimension) String() string {
	switch d {
	case Length:
		return "length"
	case Area:
		return "area"
	case Volume:
		return "volume"
	case Angle:
		return "angle"
	default:
		return "dimensionless"
	}
}

// Fatores para a unidade base de comprimento do modelo (mm).
var lengthFactors = map[string]float64{
	"nm":   1e-6,
	"um":   1e-3,
	"µm":   1e-3,
	"mm":   1,
	"cm":   10,
	"dm":   100,
	"m":    1000,
	"km":   1e6,
	"thou": 0.0254,
	"mil":  0.0254,
	"in":   25.4,
	"\"":   25.4,
	"ft":   304.8,
	"'":    304.8,
	"yd":   914.4,
	"mi":   1609344,
}

// Unit is a parsed unit symbol. Factor converts a magnitude in this unit into
// the model's internal base unit of the same dimension (mm, mm^2, mm^3, deg).
type Unit struct {
	Symbol string
	Dim    Dimension
	Factor float64
}

// BaseUnit returns the internal unit raw model numbers are expressed in.
func BaseUnit(dim Dimension) Unit {
	switch dim {
	case Length:
		return Unit{Symbol: "mm", Dim: Length, Factor: 1}
	case Area:
		return Unit{Symbol: "mm^2", Dim: Area, Factor: 1}
	case Volume:
		return Unit{Symbol: "mm^3", Dim: Volume, Factor: 1}
	case Angle:
		return Unit{Symbol: "deg", Dim: Angle, Factor: 1}
	default:
		return Unit{Dim: Dimensionless, Factor: 1}
	}
}

// NormalizeUnit canonicalizes exponent notation: "m2", "m²" and "m^2" all
// become "m^2".
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	unit = strings.ReplaceAll(unit, "^", "")
	unit = strings.ReplaceAll(unit, "2", "^2")
	unit = strings.ReplaceAll(unit, "3", "^3")
	unit = strings.ReplaceAll(unit, "²", "^2")
	unit = strings.ReplaceAll(unit, "³", "^3")
	return unit
}

// SniffDimension infers the dimension of a normalized unit by substring, the
// same way schedules always have: "2" is an area, "3" a volume, "deg" an angle
// and anything else a length.
func SniffDimension(normalized string) Dimension {
	switch {
	case normalized == "":
		return Dimensionless
	case strings.Contains(normalized, "2"):
		return Area
	case strings.Contains(normalized, "3"):
		return Volume
	case strings.Contains(normalized, "deg"):
		return Angle
	default:
		return Length
	}
}

// ParseUnit normalizes and parses a unit symbol. The parsed dimension must agree
// with the sniffed one.
func ParseUnit(raw string) (Unit, error) {
	symbol := NormalizeUnit(raw)
	if symbol == "" {
		return BaseUnit(Dimensionless), nil
	}
	dim := SniffDimension(symbol)

	var factor float64
	switch dim {
	case Area, Volume:
		exp := "^2"
		if dim == Volume {
			exp = "^3"
		}
		base, ok := lengthFactors[strings.TrimSuffix(symbol, exp)]
		if !ok || !strings.HasSuffix(symbol, exp) {
			return Unit{}, fmt.Errorf("%w: %s", types.ErrUnknownUnit, raw)
		}
		factor = base * base
		if dim == Volume {
			factor *= base
		}
	case Angle:
		if symbol != "deg" {
			return Unit{}, fmt.Errorf("%w: %s", types.ErrUnknownUnit, raw)
		}
		factor = 1
	default:
		f, ok := lengthFactors[symbol]
		if !ok {
			return Unit{}, fmt.Errorf("%w: %s", types.ErrUnknownUnit, raw)
		}
		factor = f
	}

	return Unit{Symbol: symbol, Dim: dim, Factor: factor}, nil
}

// Quantity is a magnitude tagged with its unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// ValueAs converts the quantity into target.
func (q Quantity) ValueAs(target Unit) (float64, error) {
	if q.Unit.Dim != target.Dim {
		return 0, fmt.Errorf("%w: %s to %s", types.ErrIncompatibleUnits, q.Unit.Dim, target.Dim)
	}
	return q.Value * q.Unit.Factor / target.Factor, nil
}
