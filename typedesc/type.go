package typedesc

import "fmt"

// Kind is the class tag of a Type.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindObject
	KindList
	KindVector
	KindSet
	KindMap
	KindEnum
	KindOpaque
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindObject:  "object",
	KindList:    "list",
	KindVector:  "vector",
	KindSet:     "set",
	KindMap:     "map",
	KindEnum:    "enum",
	KindOpaque:  "opaque",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsPrimitive reports whether k is one of the scalar kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindString && k <= KindFloat64
}

// IsCollection reports whether k is a one-dimensional collection kind.
func (k Kind) IsCollection() bool {
	return k == KindList || k == KindVector || k == KindSet
}

// Type describes one data type. Only the fields relevant to Kind are set:
//
//	KindObject           Name, Properties
//	KindList/Vector/Set  Elem
//	KindMap              Key, Value
//	KindEnum             Name, Repr, Values
//	KindOpaque           ClassName, Name, Interpretations
//
// Types are built once, before document generation, and are never mutated
// by the generator. Name is the stable identity of object and enum types:
// two descriptors with the same Name produce the same component schema.
type Type struct {
	Kind Kind

	// Name is the qualifier of object, enum and opaque types.
	Name string

	// ClassName is the class identifier of opaque types. For every other
	// kind it is derived from Kind.
	ClassName string

	Properties []*Property

	Elem  *Type
	Key   *Type
	Value *Type

	Repr   *Type
	Values []any

	Interpretations []Interpretation
}

// Property is a named, ordered member of an object type.
type Property struct {
	Name        string
	Type        *Type
	Description string
	Pattern     string
	Required    bool

	// Default is the value a freshly constructed instance carries.
	// Nil means no default.
	Default any
}

// Interpretation maps an opaque type to another type for documentation.
// Interpretations are selected by Name from a caller-supplied whitelist.
type Interpretation struct {
	Name   string
	Target *Type
}

var (
	String  = &Type{Kind: KindString}
	Bool    = &Type{Kind: KindBool}
	Int8    = &Type{Kind: KindInt8}
	Uint8   = &Type{Kind: KindUint8}
	Int16   = &Type{Kind: KindInt16}
	Uint16  = &Type{Kind: KindUint16}
	Int32   = &Type{Kind: KindInt32}
	Uint32  = &Type{Kind: KindUint32}
	Int64   = &Type{Kind: KindInt64}
	Uint64  = &Type{Kind: KindUint64}
	Float32 = &Type{Kind: KindFloat32}
	Float64 = &Type{Kind: KindFloat64}

	// Binary marks a raw file upload. It has no schema branch of its own
	// and is documented as {type: string, format: binary}.
	Binary = &Type{Kind: KindOpaque, ClassName: "string", Name: "binary"}
)

// Class returns the class identifier of the type.
func (t *Type) Class() string {
	if t.Kind == KindOpaque {
		return t.ClassName
	}
	return t.Kind.String()
}

// NewObject creates an object type with the given properties. More
// properties may be added with AddProperty, which allows self-referential
// types to be declared.
func NewObject(name string, props ...*Property) *Type {
	return &Type{Kind: KindObject, Name: name, Properties: props}
}

// AddProperty appends a property and returns the type for chaining.
func (t *Type) AddProperty(p *Property) *Type {
	t.Properties = append(t.Properties, p)
	return t
}

// Field is shorthand for AddProperty(&Property{Name: name, Type: typ}).
func (t *Type) Field(name string, typ *Type) *Type {
	return t.AddProperty(&Property{Name: name, Type: typ})
}

// Property returns the property with the given name.
func (t *Type) Property(name string) (*Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ListOf creates an ordered list of elem.
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// VectorOf creates a contiguous vector of elem.
func VectorOf(elem *Type) *Type {
	return &Type{Kind: KindVector, Elem: elem}
}

// SetOf creates an unordered set of elem.
func SetOf(elem *Type) *Type {
	return &Type{Kind: KindSet, Elem: elem}
}

// MapOf creates a map from key to value.
func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// FieldsOf creates a string-keyed map of value.
func FieldsOf(value *Type) *Type {
	return MapOf(String, value)
}

// NewEnum creates an enum serialized through repr, with the interpreted
// constant values in declaration order.
func NewEnum(name string, repr *Type, values ...any) *Type {
	return &Type{Kind: KindEnum, Name: name, Repr: repr, Values: values}
}

// NewOpaque creates a type without a structural schema branch. It may be
// documented through one of its interpretations.
func NewOpaque(className, name string, interps ...Interpretation) *Type {
	return &Type{Kind: KindOpaque, ClassName: className, Name: name, Interpretations: interps}
}

// FindInterpretation returns the target of the first interpretation whose
// name appears in enabled, following the order of enabled.
func (t *Type) FindInterpretation(enabled []string) (*Type, bool) {
	for _, name := range enabled {
		for _, in := range t.Interpretations {
			if in.Name == name && in.Target != nil {
				return in.Target, true
			}
		}
	}
	return nil, false
}

// HasStringKey reports whether a map type is keyed by strings.
func (t *Type) HasStringKey() bool {
	return t.Kind == KindMap && t.Key != nil && t.Key.Kind == KindString
}

// EnumSchemaName returns the component name of an enum type. The
// representation class is part of the name so that enums sharing a
// qualifier but serialized differently do not collide.
func (t *Type) EnumSchemaName() string {
	if t.Repr == nil {
		return t.Name
	}
	return t.Name + "_" + t.Repr.Class()
}

// String renders the type as a type expression accepted by Parse.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindObject, KindEnum:
		return t.Name
	case KindOpaque:
		if t.Name != "" {
			return t.Name
		}
		return t.ClassName
	case KindList, KindVector, KindSet:
		return t.Kind.String() + "<" + t.Elem.String() + ">"
	case KindMap:
		return "map<" + t.Key.String() + "," + t.Value.String() + ">"
	}
	return t.Kind.String()
}
