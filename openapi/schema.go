package openapi

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/vitalvas/oasgen/typedesc"
)

const schemaRefPrefix = "#/components/schemas/"

// TypeSet is an insertion-ordered set of named types. The first type added
// under a name wins; later additions under the same name are ignored.
type TypeSet struct {
	names []string
	types map[string]*typedesc.Type
}

// NewTypeSet creates an empty type set.
func NewTypeSet() *TypeSet {
	return &TypeSet{types: make(map[string]*typedesc.Type)}
}

// Add registers t under name and reports whether the name was new.
func (s *TypeSet) Add(name string, t *typedesc.Type) bool {
	if _, ok := s.types[name]; ok {
		return false
	}
	s.names = append(s.names, name)
	s.types[name] = t
	return true
}

// Has reports whether name is registered.
func (s *TypeSet) Has(name string) bool {
	_, ok := s.types[name]
	return ok
}

// Get returns the type registered under name.
func (s *TypeSet) Get(name string) (*typedesc.Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Names returns the registered names in insertion order.
func (s *TypeSet) Names() []string {
	return s.names
}

// Len returns the number of registered names.
func (s *TypeSet) Len() int {
	return len(s.names)
}

// SchemaGenerator converts type descriptors to Schema objects. In linked
// mode object and enum types become $ref pointers and are recorded in the
// used set, so they can later be decomposed and expanded into the
// components section.
//
// See: https://spec.openapis.org/oas/v3.0.0#schema-object
// See: https://spec.openapis.org/oas/v3.0.0#components-object
type SchemaGenerator struct {
	interpretations []string
	logger          *slog.Logger
	used            *TypeSet
}

// NewSchemaGenerator creates a schema generator. A nil config is valid.
func NewSchemaGenerator(cfg *Config) *SchemaGenerator {
	if cfg == nil {
		cfg = &Config{}
	}
	return &SchemaGenerator{
		interpretations: cfg.EnableInterpretations,
		logger:          cfg.logger(),
		used:            NewTypeSet(),
	}
}

// Used returns the types referenced so far in linked mode.
func (g *SchemaGenerator) Used() *TypeSet {
	return g.used
}

// Generate builds the schema of t. With link set, object and enum types are
// emitted as references and registered in Used. A nil schema with a nil
// error means the type cannot be documented (a map with non-string keys).
func (g *SchemaGenerator) Generate(t *typedesc.Type, link bool) (*Schema, error) {
	return g.generate(t, link, g.used, nil)
}

// Expand builds the full schema of a component type. Nested object and enum
// types inside the expansion stay references. Registrations made during the
// expansion are not recorded in Used.
func (g *SchemaGenerator) Expand(t *typedesc.Type) (*Schema, error) {
	return g.generate(t, false, NewTypeSet(), nil)
}

func (g *SchemaGenerator) generate(t *typedesc.Type, link bool, used *TypeSet, prop *typedesc.Property) (*Schema, error) {
	if t == nil {
		return nil, ErrNilType
	}

	var (
		schema *Schema
		err    error
	)

	switch {
	case t.Kind == typedesc.KindObject:
		schema, err = g.objectSchema(t, link, used)
	case t.Kind.IsCollection():
		schema, err = g.collectionSchema(t, link, used)
	case t.Kind == typedesc.KindMap:
		if t.Key == nil || t.Value == nil {
			return nil, fmt.Errorf("%w: map key or value", ErrNilType)
		}
		if !t.HasStringKey() {
			g.logger.Debug("map with non-string keys is not documented", "type", t.String())
			return nil, nil
		}
		schema, err = g.mapSchema(t, link, used)
	case t.Kind == typedesc.KindEnum:
		schema, err = g.enumSchema(t, link, used)
	default:
		schema = primitiveSchema(t, prop)
	}
	if err != nil {
		return nil, err
	}

	if schema == nil {
		if target, ok := t.FindInterpretation(g.interpretations); ok {
			schema, err = g.generate(target, link, used, nil)
			if err != nil {
				return nil, fmt.Errorf("interpretation of %s: %w", t.String(), err)
			}
		}
	}

	if schema == nil {
		g.logger.Debug("no schema for type, using placeholder", "class", t.Class(), "name", t.Name)
		schema = &Schema{Type: t.Class(), Format: t.Name}
	}

	if prop != nil {
		if prop.Description != "" {
			schema.Description = prop.Description
		}
		if prop.Default != nil {
			schema.Default = prop.Default
		}
	}

	return schema, nil
}

func (g *SchemaGenerator) objectSchema(t *typedesc.Type, link bool, used *TypeSet) (*Schema, error) {
	if link {
		used.Add(t.Name, t)
		return &Schema{Ref: schemaRefPrefix + t.Name}, nil
	}

	schema := &Schema{
		Type:       "object",
		Properties: NewProperties(),
	}

	for _, p := range t.Properties {
		if p == nil || p.Type == nil {
			return nil, fmt.Errorf("%w: property of %s", ErrNilType, t.Name)
		}
		fieldSchema, err := g.generate(p.Type, true, used, p)
		if err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.Name, t.Name, err)
		}
		if fieldSchema == nil {
			continue
		}
		schema.Properties.Set(p.Name, fieldSchema)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	if schema.Properties.Len() == 0 {
		schema.Properties = nil
	}

	return schema, nil
}

func (g *SchemaGenerator) collectionSchema(t *typedesc.Type, link bool, used *TypeSet) (*Schema, error) {
	if t.Elem == nil {
		return nil, fmt.Errorf("%w: element of %s", ErrNilType, t.Kind)
	}
	items, err := g.generate(t.Elem, link, used, nil)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Type:        "array",
		Items:       items,
		UniqueItems: t.Kind == typedesc.KindSet,
	}, nil
}

func (g *SchemaGenerator) mapSchema(t *typedesc.Type, link bool, used *TypeSet) (*Schema, error) {
	value, err := g.generate(t.Value, link, used, nil)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Type:                 "object",
		AdditionalProperties: value,
	}, nil
}

func (g *SchemaGenerator) enumSchema(t *typedesc.Type, link bool, used *TypeSet) (*Schema, error) {
	if t.Repr == nil {
		return nil, fmt.Errorf("%w: representation of enum %s", ErrNilType, t.Name)
	}

	name := t.EnumSchemaName()
	if link {
		used.Add(name, t)
		return &Schema{Ref: schemaRefPrefix + name}, nil
	}

	schema, err := g.generate(t.Repr, false, used, nil)
	if err != nil {
		return nil, fmt.Errorf("enum %s: %w", name, err)
	}
	if schema == nil {
		schema = &Schema{}
	}
	schema.Enum = append([]any(nil), t.Values...)
	return schema, nil
}

// primitiveSchema returns the schema of a primitive type, or nil when the
// kind has no primitive mapping.
//
// See: https://spec.openapis.org/oas/v3.0.0#data-types
func primitiveSchema(t *typedesc.Type, prop *typedesc.Property) *Schema {
	switch t.Kind {
	case typedesc.KindString:
		s := &Schema{Type: "string"}
		if prop != nil {
			s.Pattern = prop.Pattern
		}
		return s
	case typedesc.KindBool:
		return &Schema{Type: "boolean"}
	case typedesc.KindInt8:
		return integerSchema(math.MinInt8, math.MaxInt8)
	case typedesc.KindUint8:
		return integerSchema(0, math.MaxUint8)
	case typedesc.KindInt16:
		return integerSchema(math.MinInt16, math.MaxInt16)
	case typedesc.KindUint16:
		return integerSchema(0, math.MaxUint16)
	case typedesc.KindInt32:
		return integerSchema(math.MinInt32, math.MaxInt32)
	case typedesc.KindUint32:
		return integerSchema(0, math.MaxUint32)
	case typedesc.KindInt64:
		return &Schema{Type: "integer", Format: "int64"}
	case typedesc.KindUint64:
		return &Schema{Type: "integer"}
	case typedesc.KindFloat32:
		return &Schema{Type: "number", Format: "float"}
	case typedesc.KindFloat64:
		return &Schema{Type: "number", Format: "double"}
	}
	return nil
}

func integerSchema(minimum, maximum float64) *Schema {
	return &Schema{Type: "integer", Minimum: &minimum, Maximum: &maximum}
}
