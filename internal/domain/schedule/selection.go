package schedule

import (
	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// Tipos que agrupam outros objetos e são substituídos pelo seu conteúdo.
var containerTypes = map[string]bool{
	"Project":      true,
	"Site":         true,
	"Building":     true,
	"Floor":        true,
	"BuildingPart": true,
}

// Selection is the working set of one operation row.
type Selection struct {
	Objects  []*entity.Object
	Foreign  bool
	Elements []*entity.Element
}

// Records returns the selection as attribute sources, elements first when the
// selection targets the foreign file.
func (s Selection) Records() []entity.AttributeSource {
	if s.Foreign {
		out := make([]entity.AttributeSource, len(s.Elements))
		for i, e := range s.Elements {
			out[i] = e
		}
		return out
	}
	out := make([]entity.AttributeSource, len(s.Objects))
	for i, o := range s.Objects {
		out[i] = o
	}
	return out
}

// Select builds the object set for refs: named objects (missing names are
// dropped), or the whole document when refs is empty. Groups are expanded,
// array members repeated and schedules removed. When the document carries an
// IFC file and no objects were named, the selection switches to its elements.
func Select(doc *entity.Document, refs []string) Selection {
	var (
		sel  Selection
		objs []*entity.Object
	)

	if len(refs) > 0 {
		for _, name := range refs {
			if o, ok := doc.Object(name); ok {
				objs = append(objs, o)
			}
		}
	} else {
		sel.Foreign = doc.HasForeign()
		objs = doc.Objects
	}

	if len(objs) == 1 {
		if _, ok := objs[0].StepID(); ok && doc.HasForeign() {
			sel.Foreign = true
		}
		if objs[0].IsGroup() {
			objs = members(doc, objs[0])
		}
	}

	objs = groupContents(doc, objs)
	objs = expandArrays(doc, objs)

	kept := objs[:0:0]
	for _, o := range objs {
		if o.Type() == "Schedule" || o.TypeID() == "Spreadsheet::Sheet" {
			continue
		}
		kept = append(kept, o)
	}
	sel.Objects = kept

	if sel.Foreign {
		sel.Elements = doc.Foreign.Elements
	}
	return sel
}

// Apply narrows the selection with a filter.
func (s Selection) Apply(f Filter) Selection {
	if len(f) == 0 {
		return s
	}
	out := Selection{Foreign: s.Foreign}
	if s.Foreign {
		for _, e := range s.Elements {
			if Match(e, f) {
				out.Elements = append(out.Elements, e)
			}
		}
		return out
	}
	for _, o := range s.Objects {
		if Match(o, f) {
			out.Objects = append(out.Objects, o)
		}
	}
	return out
}

func members(doc *entity.Document, group *entity.Object) []*entity.Object {
	var out []*entity.Object
	for _, name := range group.Group() {
		if o, ok := doc.Object(name); ok {
			out = append(out, o)
		}
	}
	return out
}

// groupContents replaces groups and building containers by their (recursive)
// contents, keeping the first occurrence of each object.
func groupContents(doc *entity.Document, objs []*entity.Object) []*entity.Object {
	seen := make(map[*entity.Object]bool)
	var out []*entity.Object

	var walk func(o *entity.Object)
	walk = func(o *entity.Object) {
		if o.IsGroup() || containerTypes[o.Type()] {
			if seen[o] {
				return
			}
			seen[o] = true
			for _, m := range members(doc, o) {
				walk(m)
			}
			return
		}
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}

	for _, o := range objs {
		walk(o)
	}
	return out
}

// expandArrays drops objects without an IFC class (the array objects
// themselves) and repeats each element once per array copy.
func expandArrays(doc *entity.Document, objs []*entity.Object) []*entity.Object {
	var out []*entity.Object
	for _, o := range objs {
		if o.IfcClass() == "" {
			continue
		}
		out = append(out, o)
		for i := 1; i < arrayCount(doc, o); i++ {
			out = append(out, o)
		}
	}
	return out
}

func arrayCount(doc *entity.Document, o *entity.Object) int {
	n := 0
	for _, parent := range o.InList() {
		if p, ok := doc.Object(parent); ok && p.Type() == "Array" {
			n += p.Count()
		}
	}
	return n
}
