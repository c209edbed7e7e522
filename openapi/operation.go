package openapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitalvas/oasgen/typedesc"
)

const (
	defaultResponseStatus      = "200"
	defaultResponseDescription = "success"

	contentTypeJSON  = "application/json"
	contentTypePlain = "text/plain"
)

// schemeSet collects security scheme names in first-use order.
type schemeSet struct {
	names []string
	seen  map[string]struct{}
}

func newSchemeSet() *schemeSet {
	return &schemeSet{seen: make(map[string]struct{})}
}

func (s *schemeSet) add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

// buildOperation converts an endpoint into an Operation Object. Schemas are
// built in linked mode, so every object and enum type they mention ends up
// in the generator's used set.
//
// See: https://spec.openapis.org/oas/v3.0.0#operation-object
func buildOperation(gen *SchemaGenerator, e *Endpoint, schemes *schemeSet) (*Operation, error) {
	op := &Operation{
		OperationID: e.Name,
		Summary:     e.Summary,
		Description: e.Description,
		Tags:        e.Tags,
	}

	responses, err := buildResponses(gen, e.Responses)
	if err != nil {
		return nil, err
	}
	op.Responses = responses

	op.RequestBody, err = buildRequestBody(gen, e)
	if err != nil {
		return nil, err
	}

	op.Parameters, err = buildParameters(gen, e)
	if err != nil {
		return nil, err
	}

	op.Security, err = buildSecurity(e, schemes)
	if err != nil {
		return nil, err
	}

	return op, nil
}

// supportedMethod reports whether method names one of the operation slots
// of a path item, ignoring case.
func supportedMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
		http.MethodOptions, http.MethodHead, http.MethodPatch, http.MethodTrace:
		return true
	}
	return false
}

// assignOperation attaches op to the slot of the given method and reports
// whether an existing operation was replaced. Unsupported methods are
// ignored.
func assignOperation(pathItem *PathItem, method string, op *Operation) (replaced bool) {
	var slot **Operation
	switch strings.ToUpper(method) {
	case http.MethodGet:
		slot = &pathItem.Get
	case http.MethodPut:
		slot = &pathItem.Put
	case http.MethodPost:
		slot = &pathItem.Post
	case http.MethodDelete:
		slot = &pathItem.Delete
	case http.MethodOptions:
		slot = &pathItem.Options
	case http.MethodHead:
		slot = &pathItem.Head
	case http.MethodPatch:
		slot = &pathItem.Patch
	case http.MethodTrace:
		slot = &pathItem.Trace
	default:
		return false
	}
	replaced = *slot != nil
	*slot = op
	return replaced
}

// buildResponses returns one response per declared hint, or the synthesized
// "200" success response when none are declared.
//
// See: https://spec.openapis.org/oas/v3.0.0#responses-object
func buildResponses(gen *SchemaGenerator, hints []*ResponseHint) (map[string]*Response, error) {
	if len(hints) == 0 {
		return map[string]*Response{
			defaultResponseStatus: {Description: defaultResponseDescription},
		}, nil
	}

	responses := make(map[string]*Response, len(hints))
	for _, hint := range hints {
		if hint == nil {
			continue
		}
		key := strconv.Itoa(hint.Status)
		resp := &Response{Description: responseDescription(hint)}
		if hint.Type != nil {
			mt, err := buildMediaType(gen, hint.Type, hint.Examples)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", key, err)
			}
			resp.Content = map[string]*MediaType{
				contentTypeFor(hint.ContentType, hint.Type, gen.interpretations): mt,
			}
		}
		responses[key] = resp
	}
	return responses, nil
}

// responseDescription prefers the declared description, then the status
// text of the code, then the code itself.
func responseDescription(hint *ResponseHint) string {
	if hint.Description != "" {
		return hint.Description
	}
	if text := http.StatusText(hint.Status); text != "" {
		return text
	}
	return strconv.Itoa(hint.Status)
}

// buildRequestBody returns nil when the endpoint declares neither a body
// type nor consumed content types.
//
// See: https://spec.openapis.org/oas/v3.0.0#request-body-object
func buildRequestBody(gen *SchemaGenerator, e *Endpoint) (*RequestBody, error) {
	rb := &RequestBody{Content: make(map[string]*MediaType)}

	var bodyExamples []*NamedExample
	if e.Body != nil {
		rb.Description = e.Body.Description
		rb.Required = e.Body.Required
		bodyExamples = e.Body.Examples
	}

	if len(e.Consumes) > 0 {
		for _, hint := range e.Consumes {
			if hint == nil {
				continue
			}
			if hint.Type == nil {
				return nil, fmt.Errorf("request body %s: %w", hint.ContentType, ErrNilType)
			}
			examples := hint.Examples
			if len(examples) == 0 {
				examples = bodyExamples
			}
			mt, err := buildMediaType(gen, hint.Type, examples)
			if err != nil {
				return nil, fmt.Errorf("request body %s: %w", hint.ContentType, err)
			}
			rb.Content[contentTypeFor(hint.ContentType, hint.Type, gen.interpretations)] = mt
		}
	} else if e.Body != nil && e.Body.Type != nil {
		mt, err := buildMediaType(gen, e.Body.Type, bodyExamples)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		rb.Content[contentTypeFor(e.BodyContentType, e.Body.Type, gen.interpretations)] = mt
	}

	if len(rb.Content) == 0 {
		return nil, nil
	}
	return rb, nil
}

func buildMediaType(gen *SchemaGenerator, t *typedesc.Type, examples []*NamedExample) (*MediaType, error) {
	schema, err := gen.Generate(t, true)
	if err != nil {
		return nil, err
	}
	return &MediaType{Schema: schema, Examples: buildExamples(examples)}, nil
}

// contentTypeFor returns override when set. Otherwise structured types are
// documented as JSON and everything else as plain text.
func contentTypeFor(override string, t *typedesc.Type, interpretations []string) string {
	if override != "" {
		return override
	}
	if t.Kind == typedesc.KindOpaque {
		if target, ok := t.FindInterpretation(interpretations); ok {
			t = target
		}
	}
	if t.Kind == typedesc.KindObject || t.Kind == typedesc.KindMap || t.Kind.IsCollection() {
		return contentTypeJSON
	}
	return contentTypePlain
}

func buildExamples(examples []*NamedExample) map[string]*Example {
	if len(examples) == 0 {
		return nil
	}
	out := make(map[string]*Example, len(examples))
	for _, ex := range examples {
		if ex == nil {
			continue
		}
		out[ex.Name] = &Example{Summary: ex.Summary, Value: ex.Value}
	}
	return out
}

// buildParameters emits header, path and query parameters in that order.
// The Authorization header is left out; it is covered by security.
//
// See: https://spec.openapis.org/oas/v3.0.0#parameter-object
func buildParameters(gen *SchemaGenerator, e *Endpoint) ([]*Parameter, error) {
	var params []*Parameter

	groups := []struct {
		in     string
		params []*Param
	}{
		{"header", e.Headers},
		{"path", e.PathParams},
		{"query", e.QueryParams},
	}

	for _, group := range groups {
		for _, p := range group.params {
			if p == nil {
				continue
			}
			if group.in == "header" && strings.EqualFold(p.Name, AuthorizationHeader) {
				continue
			}
			param := &Parameter{
				Name:        p.Name,
				In:          group.in,
				Description: p.Description,
				Required:    p.Required,
				Deprecated:  p.Deprecated,
				Examples:    buildExamples(p.Examples),
			}
			schema, err := gen.Generate(p.Type, true)
			if err != nil {
				return nil, fmt.Errorf("%s parameter %q: %w", group.in, p.Name, err)
			}
			param.Schema = schema
			params = append(params, param)
		}
	}

	return params, nil
}

// buildSecurity checks that the authorization flag agrees with the declared
// requirements and records every referenced scheme.
//
// See: https://spec.openapis.org/oas/v3.0.0#security-requirement-object
func buildSecurity(e *Endpoint, schemes *schemeSet) ([]SecurityRequirement, error) {
	hasRequirements := false
	for _, req := range e.SecurityRequirements {
		if req != nil {
			hasRequirements = true
			break
		}
	}
	if hasRequirements && !e.Authorization {
		return nil, ErrSecurityWithoutAuthorization
	}
	if e.Authorization && !hasRequirements {
		return nil, ErrAuthorizationWithoutSecurity
	}

	var security []SecurityRequirement
	for _, req := range e.SecurityRequirements {
		if req == nil {
			continue
		}
		scopes := req.Scopes
		if scopes == nil {
			scopes = []string{}
		}
		schemes.add(req.Scheme)
		security = append(security, SecurityRequirement{req.Scheme: scopes})
	}
	return security, nil
}
