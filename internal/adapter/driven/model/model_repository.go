package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// ModelRepositoryImpl lê exportações JSON/YAML do documento:
//
//	name: building
//	objects:
//	  - {Name: Wall, Label: W1, IfcType: Wall, Length: {Value: 4, Unit: m}}
//	ifc:
//	  schema: IFC4
//	  elements:
//	    - {id: 12, class: IfcWall, supertypes: [IfcProduct], name: W1,
//	       attributes: {OverallHeight: 3.0, ObjectType: {ref: 45}}}
type ModelRepositoryImpl struct{}

// NewModelRepository cria uma nova implementação do ModelRepository.
func NewModelRepository() repository.ModelRepository {
	return &ModelRepositoryImpl{}
}

// LoadModel carrega o documento em path.
func (r *ModelRepositoryImpl) LoadModel(path string) (*entity.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if raw, err = oj.Parse(data); err != nil {
			return nil, fmt.Errorf("error parsing JSON model: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("error parsing YAML model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model file format: %s", ext)
	}

	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: model root must be a mapping", types.ErrMalformedInput)
	}

	name, _ := root["name"].(string)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	objects, err := parseObjects(root["objects"])
	if err != nil {
		return nil, err
	}
	foreign, err := parseForeign(root["ifc"])
	if err != nil {
		return nil, err
	}

	return entity.NewDocument(name, objects, foreign), nil
}

func parseObjects(raw any) ([]*entity.Object, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: objects must be a list", types.ErrMalformedInput)
	}

	objects := make([]*entity.Object, 0, len(list))
	for i, item := range list {
		props, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: object %d is not a mapping", types.ErrMalformedInput, i)
		}
		if _, ok := props["Name"].(string); !ok {
			return nil, fmt.Errorf("%w: object %d has no Name", types.ErrMalformedInput, i)
		}
		objects = append(objects, entity.NewObject(props))
	}
	return objects, nil
}

func parseForeign(raw any) (*entity.ForeignFile, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: ifc must be a mapping", types.ErrMalformedInput)
	}

	ff := &entity.ForeignFile{}
	ff.Schema, _ = m["schema"].(string)

	list, _ := m["elements"].([]any)
	for i, item := range list {
		em, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: ifc element %d is not a mapping", types.ErrMalformedInput, i)
		}
		id, ok := toInt(em["id"])
		if !ok {
			return nil, fmt.Errorf("%w: ifc element %d has no id", types.ErrMalformedInput, i)
		}
		class, _ := em["class"].(string)
		if class == "" {
			return nil, fmt.Errorf("%w: ifc element #%d has no class", types.ErrMalformedInput, id)
		}

		e := &entity.Element{ID: id, Class: class, Attributes: map[string]any{}}
		e.Name, _ = em["name"].(string)
		if sup, ok := em["supertypes"].([]any); ok {
			for _, s := range sup {
				if str, ok := s.(string); ok {
					e.Supertypes = append(e.Supertypes, str)
				}
			}
		}
		if attrs, ok := em["attributes"].(map[string]any); ok {
			for k, v := range attrs {
				e.Attributes[k] = decodeRefs(v)
			}
		}
		ff.Elements = append(ff.Elements, e)
	}
	return ff, nil
}

// decodeRefs troca {"ref": n} por entity.Reference, inclusive dentro de listas.
func decodeRefs(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			if id, ok := toInt(t["ref"]); ok {
				return entity.Reference{ID: id}
			}
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = decodeRefs(item)
		}
		return out
	}
	return v
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int64(n)) {
			return int(n), true
		}
	}
	return 0, false
}
