package openapi

import (
	"strings"

	"github.com/vitalvas/oasgen/typedesc"
)

// EndpointGroup creates endpoints that share a path prefix and default
// metadata. Defaults are copied into each endpoint when it is created;
// changing the group afterwards does not affect endpoints already made.
type EndpointGroup struct {
	prefix    string
	tags      []string
	headers   []*Param
	responses []*ResponseHint
	security  []*SecurityRequirementRef
	endpoints []*Endpoint
}

// NewEndpointGroup creates a group whose endpoint paths are joined under
// prefix.
func NewEndpointGroup(prefix string) *EndpointGroup {
	return &EndpointGroup{prefix: strings.TrimRight(prefix, "/")}
}

// Tags appends tags inherited by every endpoint of the group.
func (g *EndpointGroup) Tags(tags ...string) *EndpointGroup {
	g.tags = append(g.tags, tags...)
	return g
}

// Header adds a header parameter inherited by every endpoint of the group.
func (g *EndpointGroup) Header(name string, typ *typedesc.Type, description string) *EndpointGroup {
	g.headers = append(g.headers, &Param{Name: name, Type: typ, Description: description})
	return g
}

// Response adds a response inherited by every endpoint of the group. An
// endpoint declaring the same status keeps its own.
func (g *EndpointGroup) Response(status int, contentType string, typ *typedesc.Type, description string) *EndpointGroup {
	g.responses = append(g.responses, &ResponseHint{
		Status:      status,
		Description: description,
		ContentType: contentType,
		Type:        typ,
	})
	return g
}

// Security adds a security requirement inherited by every endpoint of the
// group. Endpoints of a secured group are authorized.
func (g *EndpointGroup) Security(scheme string, scopes ...string) *EndpointGroup {
	g.security = append(g.security, &SecurityRequirementRef{Scheme: scheme, Scopes: scopes})
	return g
}

// Endpoint creates an endpoint under the group prefix with the group
// defaults applied, and records it in the group.
func (g *EndpointGroup) Endpoint(method, path, name string) *Endpoint {
	e := NewEndpoint(method, joinPath(g.prefix, path), name)
	e.Tags = append(e.Tags, g.tags...)
	e.Headers = append(e.Headers, g.headers...)
	for _, req := range g.security {
		e.Security(req.Scheme, req.Scopes...)
	}
	g.endpoints = append(g.endpoints, e)
	return e
}

// Endpoints returns the endpoints of the group with the group responses
// merged in. Responses declared by an endpoint take precedence.
func (g *EndpointGroup) Endpoints() []*Endpoint {
	for _, e := range g.endpoints {
		e.Responses = mergeResponses(g.responses, e.Responses)
	}
	return g.endpoints
}

// mergeResponses appends the group responses whose status the endpoint
// does not declare itself.
func mergeResponses(group, own []*ResponseHint) []*ResponseHint {
	if len(group) == 0 {
		return own
	}

	declared := make(map[int]struct{}, len(own))
	for _, r := range own {
		if r != nil {
			declared[r.Status] = struct{}{}
		}
	}

	merged := own
	for _, r := range group {
		if _, ok := declared[r.Status]; !ok {
			merged = append(merged, r)
			declared[r.Status] = struct{}{}
		}
	}
	return merged
}

func joinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" || path == "/" {
		return prefix
	}
	return prefix + "/" + strings.TrimLeft(path, "/")
}
