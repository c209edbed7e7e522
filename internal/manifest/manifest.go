// Package manifest reads the YAML description of an API used by the
// oasgen command: document info, named types and endpoints.
//
// A minimal manifest:
//
//	info:
//	  title: Pet Store
//	  version: 1.0.0
//	types:
//	  objects:
//	    Pet:
//	      properties:
//	        - {name: id, type: int64, required: true}
//	        - {name: tags, type: "set<string>"}
//	endpoints:
//	  - name: getPet
//	    method: GET
//	    path: /pets/{id}
//	    pathParams:
//	      - {name: id, type: int64}
//	    responses:
//	      - {status: 200, type: Pet}
package manifest

// Manifest is the decoded YAML document.
type Manifest struct {
	Info            Info                       `yaml:"info"`
	Servers         []Server                   `yaml:"servers" validate:"dive"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes" validate:"dive,required"`
	Settings        Settings                   `yaml:"settings"`
	Types           Types                      `yaml:"types"`
	Groups          []Group                    `yaml:"groups" validate:"dive"`
	Endpoints       []Endpoint                 `yaml:"endpoints" validate:"dive"`
}

type Info struct {
	Title          string   `yaml:"title" validate:"required"`
	Description    string   `yaml:"description"`
	Version        string   `yaml:"version" validate:"required"`
	TermsOfService string   `yaml:"termsOfService" validate:"omitempty,url"`
	Contact        *Contact `yaml:"contact"`
	License        *License `yaml:"license"`
}

type Contact struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url" validate:"omitempty,url"`
	Email string `yaml:"email" validate:"omitempty,email"`
}

type License struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"omitempty,url"`
}

type Server struct {
	URL         string                     `yaml:"url" validate:"required"`
	Description string                     `yaml:"description"`
	Variables   map[string]*ServerVariable `yaml:"variables" validate:"dive,required"`
}

type ServerVariable struct {
	Enum        []string `yaml:"enum"`
	Default     string   `yaml:"default" validate:"required"`
	Description string   `yaml:"description"`
}

type SecurityScheme struct {
	Type             string      `yaml:"type" validate:"required,oneof=apiKey http oauth2 openIdConnect"`
	Description      string      `yaml:"description"`
	Name             string      `yaml:"name" validate:"required_if=Type apiKey"`
	In               string      `yaml:"in" validate:"required_if=Type apiKey,omitempty,oneof=query header cookie"`
	Scheme           string      `yaml:"scheme" validate:"required_if=Type http"`
	BearerFormat     string      `yaml:"bearerFormat"`
	Flows            *OAuthFlows `yaml:"flows" validate:"required_if=Type oauth2"`
	OpenIDConnectURL string      `yaml:"openIdConnectUrl" validate:"required_if=Type openIdConnect,omitempty,url"`
}

type OAuthFlows struct {
	Implicit          *OAuthFlow `yaml:"implicit"`
	Password          *OAuthFlow `yaml:"password"`
	ClientCredentials *OAuthFlow `yaml:"clientCredentials"`
	AuthorizationCode *OAuthFlow `yaml:"authorizationCode"`
}

type OAuthFlow struct {
	AuthorizationURL string            `yaml:"authorizationUrl" validate:"omitempty,url"`
	TokenURL         string            `yaml:"tokenUrl" validate:"omitempty,url"`
	RefreshURL       string            `yaml:"refreshUrl" validate:"omitempty,url"`
	Scopes           map[string]string `yaml:"scopes"`
}

// Settings are generator defaults. Command line flags take precedence.
type Settings struct {
	Interpretations []string `yaml:"interpretations"`
	Format          string   `yaml:"format" validate:"omitempty,oneof=json yaml yml"`
	Pretty          bool     `yaml:"pretty"`
}

// Types declares the named types endpoints refer to. Names are shared
// across all three kinds.
type Types struct {
	Objects map[string]*Object `yaml:"objects" validate:"dive,required"`
	Enums   map[string]*Enum   `yaml:"enums" validate:"dive,required"`
	Opaques map[string]*Opaque `yaml:"opaques" validate:"dive,required"`
}

type Object struct {
	Properties []Property `yaml:"properties" validate:"dive"`
}

type Property struct {
	Name        string `yaml:"name" validate:"required"`
	Type        string `yaml:"type" validate:"required"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`
	Required    bool   `yaml:"required"`
	Default     any    `yaml:"default"`
}

type Enum struct {
	Repr   string `yaml:"repr" validate:"required"`
	Values []any  `yaml:"values" validate:"required,min=1"`
}

// Opaque is a type documented only through its interpretations, keyed by
// interpretation name with a type expression as value.
type Opaque struct {
	Class           string            `yaml:"class" validate:"required"`
	Interpretations map[string]string `yaml:"interpretations" validate:"dive,required"`
}

// Group applies a path prefix and shared metadata to its endpoints.
type Group struct {
	Prefix    string                `yaml:"prefix" validate:"required"`
	Tags      []string              `yaml:"tags"`
	Headers   []Param               `yaml:"headers" validate:"dive"`
	Responses []Response            `yaml:"responses" validate:"dive"`
	Security  []SecurityRequirement `yaml:"security" validate:"dive"`
	Endpoints []Endpoint            `yaml:"endpoints" validate:"dive"`
}

type Endpoint struct {
	Name        string                `yaml:"name" validate:"required"`
	Method      string                `yaml:"method" validate:"required"`
	Path        string                `yaml:"path"`
	Summary     string                `yaml:"summary"`
	Description string                `yaml:"description"`
	Tags        []string              `yaml:"tags"`
	Hidden      bool                  `yaml:"hidden"`
	Headers     []Param               `yaml:"headers" validate:"dive"`
	PathParams  []Param               `yaml:"pathParams" validate:"dive"`
	QueryParams []Param               `yaml:"queryParams" validate:"dive"`
	Body        *Body                 `yaml:"body"`
	Consumes    []Content             `yaml:"consumes" validate:"dive"`
	Responses   []Response            `yaml:"responses" validate:"dive"`
	Security    []SecurityRequirement `yaml:"security" validate:"dive"`
}

type Param struct {
	Name        string    `yaml:"name" validate:"required"`
	Type        string    `yaml:"type" validate:"required"`
	Description string    `yaml:"description"`
	Required    bool      `yaml:"required"`
	Deprecated  bool      `yaml:"deprecated"`
	Examples    []Example `yaml:"examples" validate:"dive"`
}

type Body struct {
	Type        string    `yaml:"type"`
	ContentType string    `yaml:"contentType"`
	Description string    `yaml:"description"`
	Required    bool      `yaml:"required"`
	Examples    []Example `yaml:"examples" validate:"dive"`
}

type Content struct {
	ContentType string    `yaml:"contentType" validate:"required"`
	Type        string    `yaml:"type" validate:"required"`
	Examples    []Example `yaml:"examples" validate:"dive"`
}

type Response struct {
	Status      int       `yaml:"status" validate:"required,gte=100,lte=599"`
	Description string    `yaml:"description"`
	ContentType string    `yaml:"contentType"`
	Type        string    `yaml:"type"`
	Examples    []Example `yaml:"examples" validate:"dive"`
}

type Example struct {
	Name    string `yaml:"name" validate:"required"`
	Summary string `yaml:"summary"`
	Value   any    `yaml:"value"`
}

type SecurityRequirement struct {
	Scheme string   `yaml:"scheme" validate:"required"`
	Scopes []string `yaml:"scopes"`
}
