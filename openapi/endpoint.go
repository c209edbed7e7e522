package openapi

import (
	"github.com/vitalvas/oasgen/typedesc"
)

// AuthorizationHeader is the header carrying credentials. It is documented
// through the operation's security requirements, never as a parameter.
const AuthorizationHeader = "Authorization"

// Endpoint describes one registered route for documentation purposes.
//
// Headers, PathParams and QueryParams keep declaration order. Either Body or
// Consumes describes the request payload; when Consumes is non-empty it wins
// and Body only contributes description, required flag and fallback examples.
type Endpoint struct {
	Name        string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string

	Headers     []*Param
	PathParams  []*Param
	QueryParams []*Param

	Body *Body

	// BodyContentType overrides the inferred content type of Body.
	BodyContentType string

	Consumes  []*ContentHint
	Responses []*ResponseHint

	// Hide excludes the endpoint from the document.
	Hide bool

	// Authorization marks an endpoint that requires credentials. It must be
	// set exactly when SecurityRequirements is non-empty.
	Authorization        bool
	SecurityRequirements []*SecurityRequirementRef
}

// Param is a header, path or query parameter.
type Param struct {
	Name        string
	Type        *typedesc.Type
	Description string
	Required    bool
	Deprecated  bool
	Examples    []*NamedExample
}

// Body is a single request body declaration.
type Body struct {
	Name        string
	Type        *typedesc.Type
	Description string
	Required    bool
	Examples    []*NamedExample
}

// ContentHint declares one accepted request content type.
type ContentHint struct {
	ContentType string
	Type        *typedesc.Type
	Examples    []*NamedExample
}

// ResponseHint declares one response of an endpoint. A nil Type produces a
// response without content.
type ResponseHint struct {
	Status      int
	Description string
	ContentType string
	Type        *typedesc.Type
	Examples    []*NamedExample
}

// NamedExample is an example value published under a name.
type NamedExample struct {
	Name    string
	Summary string
	Value   any
}

// SecurityRequirementRef references a security scheme by name. A nil Scopes
// slice is a bare requirement.
type SecurityRequirementRef struct {
	Scheme string
	Scopes []string
}

// NewEndpoint creates an endpoint for the given method and path. The name
// becomes the operationId.
func NewEndpoint(method, path, name string) *Endpoint {
	return &Endpoint{Name: name, Method: method, Path: path}
}

// WithSummary sets the operation summary.
func (e *Endpoint) WithSummary(s string) *Endpoint {
	e.Summary = s
	return e
}

// WithDescription sets the operation description.
func (e *Endpoint) WithDescription(d string) *Endpoint {
	e.Description = d
	return e
}

// WithTags adds one or more tags to the operation.
func (e *Endpoint) WithTags(tags ...string) *Endpoint {
	e.Tags = append(e.Tags, tags...)
	return e
}

// Header adds a header parameter.
func (e *Endpoint) Header(name string, typ *typedesc.Type, description string) *Endpoint {
	e.Headers = append(e.Headers, &Param{Name: name, Type: typ, Description: description})
	return e
}

// PathParam adds a required path parameter.
func (e *Endpoint) PathParam(name string, typ *typedesc.Type, description string) *Endpoint {
	e.PathParams = append(e.PathParams, &Param{Name: name, Type: typ, Description: description, Required: true})
	return e
}

// QueryParam adds a query parameter.
func (e *Endpoint) QueryParam(name string, typ *typedesc.Type, description string, required bool) *Endpoint {
	e.QueryParams = append(e.QueryParams, &Param{Name: name, Type: typ, Description: description, Required: required})
	return e
}

// WithBody sets the request body type. contentType may be empty to have it
// inferred from the type.
func (e *Endpoint) WithBody(typ *typedesc.Type, contentType string) *Endpoint {
	e.Body = &Body{Type: typ, Required: true}
	e.BodyContentType = contentType
	return e
}

// Consume declares an accepted request content type with its own schema.
func (e *Endpoint) Consume(contentType string, typ *typedesc.Type) *Endpoint {
	e.Consumes = append(e.Consumes, &ContentHint{ContentType: contentType, Type: typ})
	return e
}

// Response declares a response. Pass a nil type for a response without
// content and an empty description to use the status text.
func (e *Endpoint) Response(status int, contentType string, typ *typedesc.Type, description string) *Endpoint {
	e.Responses = append(e.Responses, &ResponseHint{
		Status:      status,
		Description: description,
		ContentType: contentType,
		Type:        typ,
	})
	return e
}

// Security adds a security requirement and marks the endpoint as authorized.
func (e *Endpoint) Security(scheme string, scopes ...string) *Endpoint {
	e.SecurityRequirements = append(e.SecurityRequirements, &SecurityRequirementRef{Scheme: scheme, Scopes: scopes})
	e.Authorization = true
	return e
}

// Hidden excludes the endpoint from the document.
func (e *Endpoint) Hidden() *Endpoint {
	e.Hide = true
	return e
}
