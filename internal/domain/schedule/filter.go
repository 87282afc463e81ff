package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Clause is one "key:value" term of a filter, optionally negated with "!".
type Clause struct {
	Key     string
	Value   string
	Negated bool
}

// Filter is a conjunction of clauses.
type Filter []Clause

// ParseFilter splits a ";"-separated filter expression. Blank clauses are
// ignored; malformed ones are skipped and reported in the returned error, the
// remaining clauses are still usable.
func ParseFilter(expr string) (Filter, error) {
	var (
		f    Filter
		errs []error
	)
	for _, raw := range strings.Split(expr, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, value, found := strings.Cut(raw, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !found || key == "" || key == "!" {
			errs = append(errs, fmt.Errorf("%w: %q", types.ErrMalformedFilter, raw))
			continue
		}
		c := Clause{Key: key, Value: value}
		if strings.HasPrefix(key, "!") {
			c.Negated = true
			c.Key = key[1:]
		}
		f = append(f, c)
	}
	return f, errors.Join(errs...)
}

// Match reports whether rec passes every clause. Native objects use
// case-insensitive substring matching; foreign elements use exact equality and
// is_a class tests.
func Match(rec entity.AttributeSource, f Filter) bool {
	switch r := rec.(type) {
	case *entity.Object:
		return matchObject(r, f)
	case *entity.Element:
		return matchElement(r, f)
	default:
		return false
	}
}

func matchObject(o *entity.Object, f Filter) bool {
	names := o.PropertyNames()
	for _, c := range f {
		prop := strings.ToUpper(c.Key)
		if prop == "TYPE" {
			prop = "IFCTYPE"
		}
		want := strings.ToUpper(c.Value)

		var (
			got   string
			found bool
		)
		for _, n := range names {
			if strings.ToUpper(n) == prop {
				raw, _ := o.Property(n)
				got, found = strings.ToUpper(entity.Stringify(raw)), true
				break
			}
		}

		if c.Negated {
			if found && strings.Contains(got, want) {
				return false
			}
			continue
		}
		if !found || !strings.Contains(got, want) {
			return false
		}
	}
	return true
}

func matchElement(e *entity.Element, f Filter) bool {
	for _, c := range f {
		var ok bool
		switch strings.ToUpper(c.Key) {
		case "CLASS", "IFCCLASS", "IFCTYPE":
			ok = e.IsA(ifcClassName(c.Value))
		default:
			raw, found := e.Attribute(c.Key)
			if !found {
				// Atributo ausente: só reprova cláusulas positivas.
				if !c.Negated {
					return false
				}
				continue
			}
			ok = elementValueEquals(raw, c.Value)
		}
		if ok == c.Negated {
			return false
		}
	}
	return true
}

// ifcClassName turns "wall" or "Wall Standard Case" into an IFC class name.
func ifcClassName(v string) string {
	if !strings.HasPrefix(strings.ToUpper(v), "IFC") {
		v = "Ifc" + v
	}
	return strings.ReplaceAll(v, " ", "")
}

func elementValueEquals(raw any, want string) bool {
	if ref, ok := raw.(entity.Reference); ok && strings.HasPrefix(want, "#") {
		id, err := strconv.Atoi(want[1:])
		return err == nil && ref.ID == id
	}
	return entity.Stringify(raw) == want
}
