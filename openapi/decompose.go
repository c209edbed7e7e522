package openapi

import "github.com/vitalvas/oasgen/typedesc"

// Decompose returns the closure of used under reachability: every object
// and enum type reachable through object properties, collection elements,
// string-keyed map values and enabled interpretations. A name already in
// the result is not visited again, which terminates cyclic type graphs.
func (g *SchemaGenerator) Decompose(used *TypeSet) *TypeSet {
	result := NewTypeSet()
	for _, name := range used.Names() {
		t, _ := used.Get(name)
		g.decompose(t, result)
		result.Add(name, t)
	}
	return result
}

func (g *SchemaGenerator) decompose(t *typedesc.Type, result *TypeSet) {
	if t == nil {
		return
	}

	switch {
	case t.Kind == typedesc.KindObject:
		if !result.Add(t.Name, t) {
			return
		}
		for _, p := range t.Properties {
			if p != nil {
				g.decompose(p.Type, result)
			}
		}
	case t.Kind.IsCollection():
		g.decompose(t.Elem, result)
	case t.Kind == typedesc.KindMap:
		if t.HasStringKey() {
			g.decompose(t.Value, result)
		}
	case t.Kind == typedesc.KindEnum:
		result.Add(t.EnumSchemaName(), t)
	case t.Kind == typedesc.KindOpaque:
		if target, ok := t.FindInterpretation(g.interpretations); ok {
			g.decompose(target, result)
		}
	}
}
