package schedule

import (
	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// buildingDoc has five IFC-classified objects (two walls), a schedule and a
// group holding one wall and the slab.
func buildingDoc() *entity.Document {
	objs := []*entity.Object{
		entity.NewObject(map[string]any{
			"Name": "Wall", "Label": "W1", "IfcType": "Wall",
			"Length":   map[string]any{"Value": 4.0, "Unit": "m"},
			"Area":     2_500_000.0,
			"Material": "Brick",
		}),
		entity.NewObject(map[string]any{
			"Name": "Wall001", "Label": "W2", "IfcType": "Wall",
			"Length":   3000,
			"Area":     map[string]any{"Value": 1.5, "Unit": "m^2"},
			"Material": "Block",
		}),
		entity.NewObject(map[string]any{"Name": "Slab", "Label": "S1", "IfcType": "Slab", "Material": "Concrete"}),
		entity.NewObject(map[string]any{"Name": "Door", "Label": "D1", "IfcType": "Door"}),
		entity.NewObject(map[string]any{"Name": "Column", "Label": "C1", "IfcType": "Column"}),
		entity.NewObject(map[string]any{"Name": "Schedule", "Label": "Schedule", "Type": "Schedule"}),
		entity.NewObject(map[string]any{
			"Name": "Group", "Label": "Group", "TypeId": "App::DocumentObjectGroup",
			"Group": []any{"Wall", "Slab"},
		}),
	}
	return entity.NewDocument("building", objs, nil)
}

func ifcDoc() *entity.Document {
	elements := []*entity.Element{
		{ID: 12, Class: "IfcWall", Supertypes: []string{"IfcBuiltElement", "IfcProduct"}, Name: "W1",
			Attributes: map[string]any{"OverallHeight": 3.0, "Tag": "A-12", "ObjectType": entity.Reference{ID: 45}}},
		{ID: 13, Class: "IfcWall", Supertypes: []string{"IfcBuiltElement", "IfcProduct"}, Name: "W2",
			Attributes: map[string]any{"OverallHeight": 2.5, "Tag": "A-13"}},
		{ID: 20, Class: "IfcSlab", Supertypes: []string{"IfcBuiltElement", "IfcProduct"}, Name: "S1",
			Attributes: map[string]any{"OverallHeight": "n/a", "Tag": "B-1"}},
	}
	objs := []*entity.Object{
		entity.NewObject(map[string]any{"Name": "IfcWall12", "Label": "W1", "IfcType": "Wall", "StepId": 12}),
	}
	return entity.NewDocument("ifc", objs, &entity.ForeignFile{Schema: "IFC4", Elements: elements})
}

func objectNames(objs []*entity.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name()
	}
	return out
}
