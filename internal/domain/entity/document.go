package entity

// ForeignFile holds the IFC elements a document was loaded from, if any.
type ForeignFile struct {
	Schema   string
	Elements []*Element
}

// Document is the object registry schedules are evaluated against.
type Document struct {
	Name    string
	Objects []*Object
	Foreign *ForeignFile

	index map[string]*Object
}

// NewDocument indexes objects by Name. Later duplicates win.
func NewDocument(name string, objects []*Object, foreign *ForeignFile) *Document {
	d := &Document{
		Name:    name,
		Objects: objects,
		Foreign: foreign,
		index:   make(map[string]*Object, len(objects)),
	}
	for _, o := range objects {
		d.index[o.Name()] = o
	}
	return d
}

// Object returns the object with the given internal name.
func (d *Document) Object(name string) (*Object, bool) {
	o, ok := d.index[name]
	return o, ok
}

// HasForeign reports whether the document carries IFC elements.
func (d *Document) HasForeign() bool {
	return d.Foreign != nil && len(d.Foreign.Elements) > 0
}
