package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Detail is one per-record line of a detailed result.
type Detail struct {
	Label string
	Value string
	Unit  string
}

// Result is what one operation contributes to the report.
type Result struct {
	Count     bool
	Total     string
	Unit      string
	HasTotal  bool
	Details   []Detail
	Separator bool
	Warnings  []error
}

// IsCount reports whether a value expression asks for a record count.
func IsCount(valueExpr string) bool {
	return strings.EqualFold(strings.TrimSpace(valueExpr), "COUNT")
}

// Aggregate counts records or sums the values found at valueExpr, converting
// them into unit when one is given. Records that fail to resolve contribute
// nothing; their errors are returned as warnings.
func Aggregate(records []entity.AttributeSource, valueExpr, unit string, detailed bool, decimals int) Result {
	if IsCount(valueExpr) {
		return Result{
			Count:     true,
			Total:     strconv.Itoa(len(records)),
			HasTotal:  true,
			Separator: detailed,
		}
	}

	foreign := len(records) > 0 && records[0].Kind() == entity.ForeignRecord
	if foreign {
		return aggregateForeign(records, strings.TrimSpace(valueExpr), detailed)
	}
	return aggregateNative(records, valueExpr, unit, detailed, decimals)
}

func aggregateNative(records []entity.AttributeSource, valueExpr, unit string, detailed bool, decimals int) Result {
	var res Result

	var target *entity.Unit
	if strings.TrimSpace(unit) != "" {
		u, err := entity.ParseUnit(unit)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
		} else {
			target = &u
		}
	}

	var sum accumulator
	for _, rec := range records {
		v, err := Resolve(rec, valueExpr)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}

		d := Detail{Label: rec.DisplayLabel()}
		if target != nil {
			conv, err := convert(v, *target)
			if err != nil {
				res.Warnings = append(res.Warnings, err)
				continue
			}
			v = entity.Number(conv)
			d.Value = entity.FormatFixed(conv, decimals)
			d.Unit = target.Symbol
		} else {
			v = toBase(v)
			d.Value = v.String()
		}

		if err := sum.add(v); err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}
		if detailed {
			res.Details = append(res.Details, d)
		}
	}

	res.HasTotal = true
	switch {
	case target != nil:
		res.Total = entity.FormatFixed(sum.value().Num, decimals)
		res.Unit = target.Symbol
	default:
		res.Total = sum.value().String()
	}
	return res
}

// aggregateForeign sums numeric attributes of IFC elements. Non-numeric
// values are listed in details but not summed, and a zero total is omitted.
func aggregateForeign(records []entity.AttributeSource, attr string, detailed bool) Result {
	var (
		res   Result
		total float64
	)
	for _, rec := range records {
		v, err := Resolve(rec, attr)
		if err != nil {
			continue
		}
		if detailed {
			res.Details = append(res.Details, Detail{Label: rec.DisplayLabel(), Value: v.String()})
		}
		if n, ok := numeric(v); ok {
			total += n
		}
	}
	if total != 0 {
		res.HasTotal = true
		res.Total = entity.FormatNumber(total)
	}
	return res
}

func convert(v entity.Value, target entity.Unit) (float64, error) {
	if v.Kind == entity.StringValue {
		n, ok := numeric(v)
		if !ok {
			return 0, fmt.Errorf("%w: non-numeric value %q", types.ErrIncompatibleUnits, v.Str)
		}
		v = entity.Number(n)
	}
	q, err := v.Quantity(target.Dim)
	if err != nil {
		return 0, err
	}
	return q.ValueAs(target)
}

// toBase expresses a unit-tagged quantity in the internal base unit.
func toBase(v entity.Value) entity.Value {
	if v.Kind != entity.QuantityValue || v.Unit == "" {
		return v
	}
	u, err := entity.ParseUnit(v.Unit)
	if err != nil {
		return entity.Number(v.Num)
	}
	return entity.Number(v.Num * u.Factor)
}

// numeric accepts numbers and unsigned decimal strings such as "12.5".
func numeric(v entity.Value) (float64, bool) {
	if v.IsNumeric() {
		return v.Num, true
	}
	s := v.Str
	if s == "" || !isDigits(strings.Replace(s, ".", "", 1)) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// accumulator keeps a running sum. The first non-zero value seeds it; numbers
// add and strings concatenate.
type accumulator struct {
	sum entity.Value
	set bool
}

func (a *accumulator) add(v entity.Value) error {
	if !a.set || a.sum.IsZero() {
		a.sum, a.set = v, true
		return nil
	}
	switch {
	case a.sum.Kind == entity.StringValue && v.Kind == entity.StringValue:
		a.sum.Str += v.Str
	case a.sum.IsNumeric() && v.IsNumeric():
		a.sum = entity.Number(a.sum.Num + v.Num)
	default:
		return types.ErrMixedValueTypes
	}
	return nil
}

func (a *accumulator) value() entity.Value {
	if !a.set {
		return entity.Number(0)
	}
	return a.sum
}
