package manifest

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vitalvas/oasgen/openapi"
	"github.com/vitalvas/oasgen/typedesc"
)

// ErrDuplicateType is returned when a name is declared by more than one
// type.
var ErrDuplicateType = errors.New("manifest: duplicate type name")

// Registry is a compiled manifest: the document info and the endpoints
// ready for openapi.Generator, plus the named types they refer to.
type Registry struct {
	Info      *openapi.DocumentInfo
	Endpoints []*openapi.Endpoint
	Types     map[string]*typedesc.Type
}

// Lookup resolves a named type.
func (r *Registry) Lookup(name string) (*typedesc.Type, bool) {
	t, ok := r.Types[name]
	return t, ok
}

// Compile resolves every type expression in the manifest and builds the
// endpoints. Objects may refer to themselves and to each other.
func (m *Manifest) Compile() (*Registry, error) {
	r := &Registry{Types: make(map[string]*typedesc.Type)}

	if err := r.declareTypes(&m.Types); err != nil {
		return nil, err
	}
	if err := r.defineTypes(&m.Types); err != nil {
		return nil, err
	}

	r.Info = m.documentInfo()

	for i := range m.Endpoints {
		e, err := r.endpoint(nil, &m.Endpoints[i])
		if err != nil {
			return nil, err
		}
		r.Endpoints = append(r.Endpoints, e)
	}

	for i := range m.Groups {
		endpoints, err := r.group(&m.Groups[i])
		if err != nil {
			return nil, err
		}
		r.Endpoints = append(r.Endpoints, endpoints...)
	}

	return r, nil
}

// declareTypes creates every named type without its members so that
// member expressions can refer to any of them.
func (r *Registry) declareTypes(types *Types) error {
	add := func(name string, t *typedesc.Type) error {
		if typedesc.Reserved(name) {
			return fmt.Errorf("%w: %q shadows a builtin type or container keyword", ErrDuplicateType, name)
		}
		if _, ok := r.Types[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}
		r.Types[name] = t
		return nil
	}

	for _, name := range sortedKeys(types.Objects) {
		if err := add(name, typedesc.NewObject(name)); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(types.Enums) {
		def := types.Enums[name]
		repr, ok := typedesc.Builtin(def.Repr)
		if !ok || !repr.Kind.IsPrimitive() {
			return fmt.Errorf("manifest: enum %q: representation %q is not a primitive type", name, def.Repr)
		}
		if err := add(name, typedesc.NewEnum(name, repr, def.Values...)); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(types.Opaques) {
		if err := add(name, typedesc.NewOpaque(types.Opaques[name].Class, name)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) defineTypes(types *Types) error {
	for _, name := range sortedKeys(types.Objects) {
		obj := r.Types[name]
		for _, p := range types.Objects[name].Properties {
			typ, err := r.parse(p.Type)
			if err != nil {
				return fmt.Errorf("manifest: object %q property %q: %w", name, p.Name, err)
			}
			obj.AddProperty(&typedesc.Property{
				Name:        p.Name,
				Type:        typ,
				Description: p.Description,
				Pattern:     p.Pattern,
				Required:    p.Required,
				Default:     p.Default,
			})
		}
	}

	for _, name := range sortedKeys(types.Opaques) {
		opaque := r.Types[name]
		interps := types.Opaques[name].Interpretations
		for _, interp := range sortedKeys(interps) {
			target, err := r.parse(interps[interp])
			if err != nil {
				return fmt.Errorf("manifest: opaque %q interpretation %q: %w", name, interp, err)
			}
			opaque.Interpretations = append(opaque.Interpretations, typedesc.Interpretation{Name: interp, Target: target})
		}
	}

	return nil
}

func (r *Registry) parse(expr string) (*typedesc.Type, error) {
	return typedesc.Parse(expr, r.Lookup)
}

// parseOptional returns nil for an empty expression.
func (r *Registry) parseOptional(expr string) (*typedesc.Type, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	return r.parse(expr)
}

func (m *Manifest) documentInfo() *openapi.DocumentInfo {
	b := openapi.NewDocumentInfoBuilder().
		Title(m.Info.Title).
		Description(m.Info.Description).
		Version(m.Info.Version).
		TermsOfService(m.Info.TermsOfService)

	if c := m.Info.Contact; c != nil {
		b.Contact(c.Name, c.URL, c.Email)
	}
	if l := m.Info.License; l != nil {
		b.License(l.Name, l.URL)
	}

	for _, s := range m.Servers {
		if len(s.Variables) == 0 {
			b.Server(s.URL, s.Description)
			continue
		}
		vars := make(map[string]*openapi.ServerVariable, len(s.Variables))
		for name, v := range s.Variables {
			vars[name] = &openapi.ServerVariable{Enum: v.Enum, Default: v.Default, Description: v.Description}
		}
		b.ServerWithVariables(s.URL, s.Description, vars)
	}

	for _, name := range sortedKeys(m.SecuritySchemes) {
		b.SecurityScheme(name, m.SecuritySchemes[name].scheme())
	}

	return b.Build()
}

func (s *SecurityScheme) scheme() *openapi.SecurityScheme {
	out := &openapi.SecurityScheme{
		Type:             s.Type,
		Description:      s.Description,
		Name:             s.Name,
		In:               s.In,
		Scheme:           s.Scheme,
		BearerFormat:     s.BearerFormat,
		OpenIDConnectURL: s.OpenIDConnectURL,
	}
	if s.Flows != nil {
		out.Flows = &openapi.OAuthFlows{
			Implicit:          s.Flows.Implicit.flow(),
			Password:          s.Flows.Password.flow(),
			ClientCredentials: s.Flows.ClientCredentials.flow(),
			AuthorizationCode: s.Flows.AuthorizationCode.flow(),
		}
	}
	return out
}

func (f *OAuthFlow) flow() *openapi.OAuthFlow {
	if f == nil {
		return nil
	}
	scopes := f.Scopes
	if scopes == nil {
		scopes = map[string]string{}
	}
	return &openapi.OAuthFlow{
		AuthorizationURL: f.AuthorizationURL,
		TokenURL:         f.TokenURL,
		RefreshURL:       f.RefreshURL,
		Scopes:           scopes,
	}
}

func (r *Registry) group(g *Group) ([]*openapi.Endpoint, error) {
	eg := openapi.NewEndpointGroup(g.Prefix).Tags(g.Tags...)

	for _, h := range g.Headers {
		typ, err := r.parse(h.Type)
		if err != nil {
			return nil, fmt.Errorf("manifest: group %q header %q: %w", g.Prefix, h.Name, err)
		}
		eg.Header(h.Name, typ, h.Description)
	}
	for _, resp := range g.Responses {
		typ, err := r.parseOptional(resp.Type)
		if err != nil {
			return nil, fmt.Errorf("manifest: group %q response %d: %w", g.Prefix, resp.Status, err)
		}
		eg.Response(resp.Status, resp.ContentType, typ, resp.Description)
	}
	for _, sec := range g.Security {
		eg.Security(sec.Scheme, sec.Scopes...)
	}

	for i := range g.Endpoints {
		if _, err := r.endpoint(eg, &g.Endpoints[i]); err != nil {
			return nil, err
		}
	}
	return eg.Endpoints(), nil
}

// endpoint converts a declaration. When eg is non-nil the endpoint is
// created inside the group.
func (r *Registry) endpoint(eg *openapi.EndpointGroup, d *Endpoint) (*openapi.Endpoint, error) {
	method := strings.ToUpper(d.Method)

	var e *openapi.Endpoint
	if eg != nil {
		e = eg.Endpoint(method, d.Path, d.Name)
	} else {
		e = openapi.NewEndpoint(method, d.Path, d.Name)
	}

	e.WithSummary(d.Summary).WithDescription(d.Description).WithTags(d.Tags...)
	if d.Hidden {
		e.Hidden()
	}

	wrap := func(what string, err error) error {
		return fmt.Errorf("manifest: endpoint %q %s: %w", d.Name, what, err)
	}

	var err error
	if e.Headers, err = r.params(e.Headers, d.Headers, false); err != nil {
		return nil, wrap("header", err)
	}
	if e.PathParams, err = r.params(e.PathParams, d.PathParams, true); err != nil {
		return nil, wrap("path parameter", err)
	}
	if e.QueryParams, err = r.params(e.QueryParams, d.QueryParams, false); err != nil {
		return nil, wrap("query parameter", err)
	}

	if b := d.Body; b != nil {
		typ, err := r.parseOptional(b.Type)
		if err != nil {
			return nil, wrap("body", err)
		}
		e.Body = &openapi.Body{
			Type:        typ,
			Description: b.Description,
			Required:    b.Required,
			Examples:    examples(b.Examples),
		}
		e.BodyContentType = b.ContentType
	}

	for _, c := range d.Consumes {
		typ, err := r.parse(c.Type)
		if err != nil {
			return nil, wrap(fmt.Sprintf("content %q", c.ContentType), err)
		}
		e.Consumes = append(e.Consumes, &openapi.ContentHint{
			ContentType: c.ContentType,
			Type:        typ,
			Examples:    examples(c.Examples),
		})
	}

	for _, resp := range d.Responses {
		typ, err := r.parseOptional(resp.Type)
		if err != nil {
			return nil, wrap(fmt.Sprintf("response %d", resp.Status), err)
		}
		e.Responses = append(e.Responses, &openapi.ResponseHint{
			Status:      resp.Status,
			Description: resp.Description,
			ContentType: resp.ContentType,
			Type:        typ,
			Examples:    examples(resp.Examples),
		})
	}

	for _, sec := range d.Security {
		e.Security(sec.Scheme, sec.Scopes...)
	}

	return e, nil
}

func (r *Registry) params(dst []*openapi.Param, decls []Param, required bool) ([]*openapi.Param, error) {
	for _, p := range decls {
		typ, err := r.parse(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p.Name, err)
		}
		dst = append(dst, &openapi.Param{
			Name:        p.Name,
			Type:        typ,
			Description: p.Description,
			Required:    required || p.Required,
			Deprecated:  p.Deprecated,
			Examples:    examples(p.Examples),
		})
	}
	return dst, nil
}

func examples(decls []Example) []*openapi.NamedExample {
	if len(decls) == 0 {
		return nil
	}
	out := make([]*openapi.NamedExample, 0, len(decls))
	for _, ex := range decls {
		out = append(out, &openapi.NamedExample{Name: ex.Name, Summary: ex.Summary, Value: ex.Value})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
