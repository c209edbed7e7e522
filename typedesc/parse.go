package typedesc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType is returned by Parse for a name that is neither a
	// builtin nor resolved by the lookup function.
	ErrUnknownType = errors.New("typedesc: unknown type")

	// ErrSyntax is returned by Parse for a malformed type expression.
	ErrSyntax = errors.New("typedesc: invalid type expression")
)

// LookupFunc resolves a named (object, enum or opaque) type.
type LookupFunc func(name string) (*Type, bool)

var builtins = map[string]*Type{
	"string":  String,
	"bool":    Bool,
	"boolean": Bool,
	"int8":    Int8,
	"uint8":   Uint8,
	"int16":   Int16,
	"uint16":  Uint16,
	"int32":   Int32,
	"uint32":  Uint32,
	"int64":   Int64,
	"uint64":  Uint64,
	"float32": Float32,
	"float64": Float64,
	"binary":  Binary,
}

// Builtin returns the primitive type registered under name.
func Builtin(name string) (*Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

var containers = map[string]bool{
	"list":   true,
	"vector": true,
	"set":    true,
	"fields": true,
	"map":    true,
}

// Reserved reports whether name cannot be used for a named type: it is a
// builtin, or a container keyword in any case.
func Reserved(name string) bool {
	if _, ok := builtins[name]; ok {
		return true
	}
	return containers[strings.ToLower(name)]
}

// Parse builds a Type from a type expression such as
//
//	string
//	list<User>
//	set<int32>
//	map<string,list<Task>>
//	fields<Task>            // map<string,Task>
//
// Named types are resolved through lookup, which may be nil.
func Parse(expr string, lookup LookupFunc) (*Type, error) {
	p := &parser{src: expr, lookup: lookup}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrSyntax, p.src[p.pos:], p.pos, expr)
	}
	return t, nil
}

type parser struct {
	src    string
	pos    int
	lookup LookupFunc
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) params(n int) ([]*Type, error) {
	if !p.consume('<') {
		return nil, fmt.Errorf("%w: expected '<' at offset %d in %q", ErrSyntax, p.pos, p.src)
	}
	out := make([]*Type, 0, n)
	for i := range n {
		if i > 0 && !p.consume(',') {
			return nil, fmt.Errorf("%w: expected ',' at offset %d in %q", ErrSyntax, p.pos, p.src)
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if !p.consume('>') {
		return nil, fmt.Errorf("%w: expected '>' at offset %d in %q", ErrSyntax, p.pos, p.src)
	}
	return out, nil
}

func (p *parser) parseType() (*Type, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("%w: missing type name at offset %d in %q", ErrSyntax, p.pos, p.src)
	}

	switch strings.ToLower(name) {
	case "list", "vector", "set", "fields":
		args, err := p.params(1)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(name) {
		case "list":
			return ListOf(args[0]), nil
		case "vector":
			return VectorOf(args[0]), nil
		case "set":
			return SetOf(args[0]), nil
		default:
			return FieldsOf(args[0]), nil
		}
	case "map":
		args, err := p.params(2)
		if err != nil {
			return nil, err
		}
		return MapOf(args[0], args[1]), nil
	}

	if t, ok := builtins[name]; ok {
		return t, nil
	}
	if p.lookup != nil {
		if t, ok := p.lookup(name); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
