package openapi

import (
	"bytes"
	"encoding/json"
)

// Version is the OpenAPI Specification version of generated documents.
const Version = "3.0.0"

// Document represents the root of an OpenAPI v3.0.0 document.
//
// See: https://spec.openapis.org/oas/v3.0.0#openapi-object
type Document struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#info-object
type Info struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty"`
	License        *License `json:"license,omitempty"`
	Version        string   `json:"version"`
}

// Contact represents contact information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#contact-object
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#license-object
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.0.0#server-object
type Server struct {
	URL         string                     `json:"url"`
	Description string                     `json:"description,omitempty"`
	Variables   map[string]*ServerVariable `json:"variables,omitempty"`
}

// ServerVariable represents a server variable for URL template substitution.
//
// See: https://spec.openapis.org/oas/v3.0.0#server-variable-object
type ServerVariable struct {
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default"`
	Description string   `json:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.0.0#path-item-object
type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Options *Operation `json:"options,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
	Trace   *Operation `json:"trace,omitempty"`
}

// Operations returns the non-nil operations of the path item keyed by
// lowercase method name.
func (p *PathItem) Operations() map[string]*Operation {
	out := make(map[string]*Operation)
	for method, op := range map[string]*Operation{
		"get": p.Get, "put": p.Put, "post": p.Post, "delete": p.Delete,
		"options": p.Options, "head": p.Head, "patch": p.Patch, "trace": p.Trace,
	} {
		if op != nil {
			out[method] = op
		}
	}
	return out
}

// Operation describes a single API operation on a path.
//
// See: https://spec.openapis.org/oas/v3.0.0#operation-object
type Operation struct {
	Tags        []string              `json:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty"`
	Responses   map[string]*Response  `json:"responses"`
	Security    []SecurityRequirement `json:"security,omitempty"`
}

// Parameter describes a single operation parameter. The "in" field is one
// of "query", "header" or "path".
//
// See: https://spec.openapis.org/oas/v3.0.0#parameter-object
type Parameter struct {
	Name        string              `json:"name"`
	In          string              `json:"in"`
	Description string              `json:"description,omitempty"`
	Required    bool                `json:"required,omitempty"`
	Deprecated  bool                `json:"deprecated,omitempty"`
	Schema      *Schema             `json:"schema,omitempty"`
	Examples    map[string]*Example `json:"examples,omitempty"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.0#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content"`
}

// Response describes a single response from an API operation.
// The description field is REQUIRED.
//
// See: https://spec.openapis.org/oas/v3.0.0#response-object
type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// MediaType describes a media type with a schema and optional examples.
//
// See: https://spec.openapis.org/oas/v3.0.0#media-type-object
type MediaType struct {
	Schema   *Schema             `json:"schema,omitempty"`
	Examples map[string]*Example `json:"examples,omitempty"`
}

// Example represents a named example value.
//
// See: https://spec.openapis.org/oas/v3.0.0#example-object
type Example struct {
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Value       any    `json:"value,omitempty"`
}

// Schema represents an OpenAPI 3.0 Schema Object. Exactly one of the
// primitive fields, Properties, Items, AdditionalProperties or Ref is
// meaningfully populated, mirroring the kind of the described type.
//
// See: https://spec.openapis.org/oas/v3.0.0#schema-object
type Schema struct {
	Ref string `json:"$ref,omitempty"`

	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`

	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`

	Properties           *Properties `json:"properties,omitempty"`
	Required             []string    `json:"required,omitempty"`
	AdditionalProperties *Schema     `json:"additionalProperties,omitempty"`

	Items       *Schema `json:"items,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	Enum []any `json:"enum,omitempty"`
}

// Properties is an insertion-ordered map of property name to schema.
// It serializes as a JSON object whose keys keep declaration order.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties creates an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set adds or replaces a property. Replacing keeps the original position.
func (p *Properties) Set(name string, s *Schema) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = s
}

// Get returns the schema of the named property.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[name]
	return s, ok
}

// Keys returns the property names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// MarshalJSON encodes the properties as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	p.keys = nil
	p.values = make(map[string]*Schema)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return err
		}
		p.Set(key, &s)
	}
	_, err := dec.Token()
	return err
}

// Components holds the named, shared schemas and security schemes.
//
// See: https://spec.openapis.org/oas/v3.0.0#components-object
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation.
// Each key maps to a list of scope names (empty for schemes without scopes).
//
// See: https://spec.openapis.org/oas/v3.0.0#security-requirement-object
type SecurityRequirement map[string][]string

// SecurityScheme defines a security scheme used by API operations.
// The "type" field is one of "apiKey", "http", "oauth2" or "openIdConnect".
//
// See: https://spec.openapis.org/oas/v3.0.0#security-scheme-object
type SecurityScheme struct {
	Type             string      `json:"type"`
	Description      string      `json:"description,omitempty"`
	Name             string      `json:"name,omitempty"`
	In               string      `json:"in,omitempty"`
	Scheme           string      `json:"scheme,omitempty"`
	BearerFormat     string      `json:"bearerFormat,omitempty"`
	Flows            *OAuthFlows `json:"flows,omitempty"`
	OpenIDConnectURL string      `json:"openIdConnectUrl,omitempty"`
}

// OAuthFlows describes the available OAuth2 flows.
//
// See: https://spec.openapis.org/oas/v3.0.0#oauth-flows-object
type OAuthFlows struct {
	Implicit          *OAuthFlow `json:"implicit,omitempty"`
	Password          *OAuthFlow `json:"password,omitempty"`
	ClientCredentials *OAuthFlow `json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow `json:"authorizationCode,omitempty"`
}

// OAuthFlow describes a single OAuth2 flow configuration.
//
// See: https://spec.openapis.org/oas/v3.0.0#oauth-flow-object
type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes"`
}
