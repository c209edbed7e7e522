package openapi

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config configures document generation.
type Config struct {
	// EnableInterpretations lists the interpretation names that may be used
	// to document opaque types, in order of preference.
	EnableInterpretations []string

	// Logger receives debug diagnostics about skipped endpoints and
	// undocumentable types. Nil discards them.
	Logger *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Generator assembles OpenAPI documents from endpoint descriptions. A
// Generator holds no per-document state and may be reused.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// NewGenerator creates a generator. A nil config is valid.
func NewGenerator(cfg *Config) *Generator {
	g := &Generator{logger: cfg.logger()}
	if cfg != nil {
		g.cfg = *cfg
	}
	return g
}

// Generate builds the document for the given endpoints.
//
// Hidden endpoints and endpoints with an empty path are skipped. Paths
// without a leading slash get one, and endpoints sharing a path share a
// PathItem. Every object and enum type referenced by an operation, and every
// type reachable from those, is emitted once under components/schemas.
// Only the security schemes referenced by operations are emitted.
//
// Generation fails on a nil type, on an endpoint whose authorization flag
// disagrees with its security requirements, and on a reference to a
// security scheme missing from info.
//
// See: https://spec.openapis.org/oas/v3.0.0#openapi-object
func (g *Generator) Generate(info *DocumentInfo, endpoints []*Endpoint) (*Document, error) {
	if info == nil {
		return nil, ErrNilDocumentInfo
	}

	schemas := NewSchemaGenerator(&g.cfg)
	schemes := newSchemeSet()

	doc := &Document{
		OpenAPI: Version,
		Info:    &Info{},
		Servers: info.Servers,
		Paths:   make(map[string]*PathItem),
	}
	if info.Header != nil {
		header := *info.Header
		doc.Info = &header
	}

	for i, e := range endpoints {
		if e == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilEndpoint, i)
		}
		if e.Hide {
			g.logger.Debug("skipping hidden endpoint", "name", e.Name, "path", e.Path)
			continue
		}
		if e.Path == "" {
			g.logger.Debug("skipping endpoint with empty path", "name", e.Name)
			continue
		}

		path := e.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if !supportedMethod(e.Method) {
			g.logger.Debug("skipping endpoint with unsupported method", "name", e.Name, "method", e.Method, "path", path)
			continue
		}

		op, err := buildOperation(schemas, e, schemes)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q (%s %s): %w", e.Name, e.Method, path, err)
		}

		pathItem, ok := doc.Paths[path]
		if !ok {
			pathItem = &PathItem{}
		}

		if assignOperation(pathItem, e.Method, op) {
			g.logger.Warn("operation replaced by a later endpoint", "name", e.Name, "method", e.Method, "path", path)
		}
		doc.Paths[path] = pathItem
	}

	components, err := g.buildComponents(schemas, schemes, info.SecuritySchemes)
	if err != nil {
		return nil, err
	}
	doc.Components = components

	return doc, nil
}

// buildComponents expands every reachable named type and copies the used
// security schemes. It returns nil when there is nothing to emit.
//
// See: https://spec.openapis.org/oas/v3.0.0#components-object
func (g *Generator) buildComponents(gen *SchemaGenerator, schemes *schemeSet, registry map[string]*SecurityScheme) (*Components, error) {
	comp := &Components{}

	decomposed := gen.Decompose(gen.Used())
	if decomposed.Len() > 0 {
		comp.Schemas = make(map[string]*Schema, decomposed.Len())
		for _, name := range decomposed.Names() {
			t, _ := decomposed.Get(name)
			schema, err := gen.Expand(t)
			if err != nil {
				return nil, fmt.Errorf("component schema %q: %w", name, err)
			}
			if schema == nil {
				continue
			}
			comp.Schemas[name] = schema
		}
	}

	if len(schemes.names) > 0 {
		comp.SecuritySchemes = make(map[string]*SecurityScheme, len(schemes.names))
		for _, name := range schemes.names {
			scheme, ok := registry[name]
			if !ok || scheme == nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSecurityScheme, name)
			}
			comp.SecuritySchemes[name] = copySecurityScheme(scheme)
		}
	}

	if len(comp.Schemas) == 0 && len(comp.SecuritySchemes) == 0 {
		return nil, nil
	}
	return comp, nil
}
