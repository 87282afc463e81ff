package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// RecordKind identifies which variant of AttributeSource a record is.
type RecordKind int

const (
	NativeRecord RecordKind = iota
	ForeignRecord
)

// AttributeSource is anything the schedule pipeline can read values from.
type AttributeSource interface {
	Kind() RecordKind
	DisplayLabel() string
	ResolvePath(path string) (Value, error)
}

// Object é um objeto nativo do documento CAD: um conjunto de propriedades,
// algumas aninhadas, algumas com unidade ({"Value": 3000, "Unit": "mm"}).
type Object struct {
	Props map[string]any
}

// NewObject cria um Object a partir do mapa de propriedades.
func NewObject(props map[string]any) *Object {
	if props == nil {
		props = map[string]any{}
	}
	return &Object{Props: props}
}

func (o *Object) Kind() RecordKind { return NativeRecord }

func (o *Object) Name() string   { return o.stringProp("Name") }
func (o *Object) Label() string  { return o.stringProp("Label") }
func (o *Object) TypeID() string { return o.stringProp("TypeId") }

// Type is the scripted object type (Wall, Array, Schedule...).
func (o *Object) Type() string { return o.stringProp("Type") }

// DisplayLabel returns "Name (Label)".
func (o *Object) DisplayLabel() string {
	return o.Name() + " (" + o.Label() + ")"
}

// IfcClass returns the first of IfcType, IfcRole or IfcClass the object
// carries, even when that one is empty.
func (o *Object) IfcClass() string {
	for _, key := range []string{"IfcType", "IfcRole", "IfcClass"} {
		if _, ok := o.Props[key]; ok {
			return o.stringProp(key)
		}
	}
	return ""
}

// IsGroup reports a plain document group.
func (o *Object) IsGroup() bool {
	return o.TypeID() == "App::DocumentObjectGroup"
}

// StepID returns the id of the IFC entity this object mirrors, if any.
func (o *Object) StepID() (int, bool) {
	v, ok := o.Props["StepId"]
	if !ok {
		return 0, false
	}
	n, ok := toFloat(v)
	return int(n), ok
}

func (o *Object) Group() []string  { return o.stringList("Group") }
func (o *Object) InList() []string { return o.stringList("InList") }

// Count is the element count of an Array object.
func (o *Object) Count() int {
	n, _ := toFloat(o.Props["Count"])
	return int(n)
}

// PropertyNames returns the object's property names, sorted.
func (o *Object) PropertyNames() []string {
	names := make([]string, 0, len(o.Props))
	for k := range o.Props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Property looks a property up by its exact name.
func (o *Object) Property(name string) (any, bool) {
	v, ok := o.Props[name]
	return v, ok
}

// ResolvePath walks a dotted path through nested properties. A leading
// lower-case member (old-style "obj.Length") is dropped.
func (o *Object) ResolvePath(path string) (Value, error) {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return Value{}, fmt.Errorf("%w: %s.%s", types.ErrUnresolvableAttribute, o.Name(), path)
	}

	x := jp.R()
	for _, s := range segs {
		x = x.C(s)
	}
	results := x.Get(o.Props)
	if len(results) == 0 {
		return Value{}, fmt.Errorf("%w: %s.%s", types.ErrUnresolvableAttribute, o.Name(), strings.Join(segs, "."))
	}
	v, ok := toValue(results[0])
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", types.ErrUnresolvableAttribute, o.Name(), strings.Join(segs, "."))
	}
	return v, nil
}

// SplitPath splits a value expression into attribute segments.
func SplitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	segs := strings.Split(path, ".")
	if first := []rune(segs[0]); len(first) > 0 && unicode.IsLower(first[0]) {
		segs = segs[1:]
	}
	return segs
}

func (o *Object) stringProp(key string) string {
	if s, ok := o.Props[key].(string); ok {
		return s
	}
	return ""
}

func (o *Object) stringList(key string) []string {
	switch l := o.Props[key].(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, v := range l {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Reference points at another IFC entity by its step id.
type Reference struct {
	ID int
}

func (r Reference) String() string { return "#" + strconv.Itoa(r.ID) }

// Element é um registro estrangeiro vindo de um arquivo IFC.
type Element struct {
	ID         int
	Class      string
	Supertypes []string
	Name       string
	Attributes map[string]any
}

func (e *Element) Kind() RecordKind { return ForeignRecord }

// DisplayLabel returns "#<id><Name>".
func (e *Element) DisplayLabel() string {
	return "#" + strconv.Itoa(e.ID) + e.Name
}

// IsA tests the class or any supertype, case-insensitively.
func (e *Element) IsA(class string) bool {
	if strings.EqualFold(e.Class, class) {
		return true
	}
	for _, s := range e.Supertypes {
		if strings.EqualFold(s, class) {
			return true
		}
	}
	return false
}

// Attribute looks up an attribute by exact name. Name is always available.
func (e *Element) Attribute(name string) (any, bool) {
	if name == "Name" {
		return e.Name, true
	}
	v, ok := e.Attributes[name]
	return v, ok
}

// ResolvePath resolves a single attribute name. Aggregates of one item are
// unwrapped and empty aggregates become "".
func (e *Element) ResolvePath(path string) (Value, error) {
	raw, ok := e.Attribute(path)
	if !ok {
		return Value{}, fmt.Errorf("%w: #%d.%s", types.ErrUnresolvableAttribute, e.ID, path)
	}
	if l, isList := raw.([]any); isList {
		switch len(l) {
		case 0:
			raw = ""
		case 1:
			raw = l[0]
		}
	}
	if ref, isRef := raw.(Reference); isRef {
		return String(ref.String()), nil
	}
	v, ok := toValue(raw)
	if !ok {
		return Value{}, fmt.Errorf("%w: #%d.%s", types.ErrUnresolvableAttribute, e.ID, path)
	}
	return v, nil
}

func toValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return Value{}, false
	case string:
		return String(v), true
	case bool:
		if v {
			return String("True"), true
		}
		return String("False"), true
	case map[string]any:
		inner, ok := v["Value"]
		if !ok {
			return String(oj.JSON(v, &oj.Options{Sort: true})), true
		}
		n, ok := toFloat(inner)
		if !ok {
			return Value{}, false
		}
		unit, _ := v["Unit"].(string)
		return QuantityOf(n, unit), true
	case []any:
		return String(oj.JSON(v)), true
	}
	if n, ok := toFloat(raw); ok {
		return Number(n), true
	}
	return String(fmt.Sprint(raw)), true
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Stringify renders a raw property the way filters compare it.
func Stringify(raw any) string {
	if ref, ok := raw.(Reference); ok {
		return ref.String()
	}
	v, ok := toValue(raw)
	if !ok {
		return ""
	}
	return v.String()
}
