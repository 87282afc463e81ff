package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

func wall() *Object {
	return NewObject(map[string]any{
		"Name":    "Wall",
		"Label":   "Exterior wall",
		"IfcType": "Wall",
		"Height":  3000,
		"Length":  map[string]any{"Value": 4.5, "Unit": "m"},
		"Shape": map[string]any{
			"Volume": map[string]any{"Value": 2.7e9},
			"Faces":  []any{"f1", "f2"},
		},
		"Material": "Concrete",
		"Group":    []any{"a", 3, "b"},
	})
}

func TestObject_ResolvePath(t *testing.T) {
	o := wall()

	tests := []struct {
		path string
		want Value
	}{
		{"Height", Number(3000)},
		{"Length", QuantityOf(4.5, "m")},
		{"Shape.Volume", QuantityOf(2.7e9, "")},
		{"obj.Height", Number(3000)},
		{"Material", String("Concrete")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := o.ResolvePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestObject_ResolvePath_Missing(t *testing.T) {
	o := wall()
	for _, path := range []string{"Width", "Shape.Area", "", "obj"} {
		_, err := o.ResolvePath(path)
		assert.ErrorIs(t, err, types.ErrUnresolvableAttribute, path)
	}
}

func TestObject_Accessors(t *testing.T) {
	o := wall()

	assert.Equal(t, "Wall (Exterior wall)", o.DisplayLabel())
	assert.Equal(t, "Wall", o.IfcClass())
	assert.Equal(t, []string{"a", "b"}, o.Group())
	assert.False(t, o.IsGroup())

	_, ok := o.StepID()
	assert.False(t, ok)

	role := NewObject(map[string]any{"IfcRole": "Beam"})
	assert.Equal(t, "Beam", role.IfcClass())

	// an empty IfcType still shadows IfcRole
	blank := NewObject(map[string]any{"IfcType": "", "IfcRole": "Beam"})
	assert.Equal(t, "", blank.IfcClass())
}

func TestElement_ResolvePath(t *testing.T) {
	e := &Element{
		ID:         12,
		Class:      "IfcWall",
		Supertypes: []string{"IfcBuiltElement", "IfcProduct"},
		Name:       "W1",
		Attributes: map[string]any{
			"OverallHeight": 3.0,
			"Tag":           []any{"A-12"},
			"Empty":         []any{},
			"ObjectType":    Reference{ID: 45},
		},
	}

	v, err := e.ResolvePath("OverallHeight")
	require.NoError(t, err)
	assert.Equal(t, Number(3), v)

	v, err = e.ResolvePath("Tag")
	require.NoError(t, err)
	assert.Equal(t, String("A-12"), v)

	v, err = e.ResolvePath("Empty")
	require.NoError(t, err)
	assert.Equal(t, String(""), v)

	v, err = e.ResolvePath("ObjectType")
	require.NoError(t, err)
	assert.Equal(t, String("#45"), v)

	v, err = e.ResolvePath("Name")
	require.NoError(t, err)
	assert.Equal(t, String("W1"), v)

	_, err = e.ResolvePath("Width")
	assert.ErrorIs(t, err, types.ErrUnresolvableAttribute)

	assert.True(t, e.IsA("ifcproduct"))
	assert.False(t, e.IsA("IfcSlab"))
	assert.Equal(t, "#12W1", e.DisplayLabel())
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "#3", Stringify(Reference{ID: 3}))
	assert.Equal(t, "True", Stringify(true))
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "", Stringify(nil))
}
