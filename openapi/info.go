package openapi

// DocumentInfo carries the document-level metadata supplied by the caller:
// the info header, the server list and the registry of security schemes
// endpoints may refer to by name.
type DocumentInfo struct {
	Header          *Info
	Servers         []*Server
	SecuritySchemes map[string]*SecurityScheme
}

// DocumentInfoBuilder assembles a DocumentInfo fluently.
//
//	info := openapi.NewDocumentInfoBuilder().
//	    Title("Pet Store").
//	    Version("1.0").
//	    Server("http://localhost:8000", "local").
//	    SecurityScheme("basic_auth", openapi.BasicAuthSecurityScheme()).
//	    Build()
type DocumentInfoBuilder struct {
	info DocumentInfo
}

// NewDocumentInfoBuilder creates a builder with an empty header.
func NewDocumentInfoBuilder() *DocumentInfoBuilder {
	return &DocumentInfoBuilder{info: DocumentInfo{Header: &Info{}}}
}

// Title sets the API title.
func (b *DocumentInfoBuilder) Title(title string) *DocumentInfoBuilder {
	b.info.Header.Title = title
	return b
}

// Description sets the API description.
func (b *DocumentInfoBuilder) Description(description string) *DocumentInfoBuilder {
	b.info.Header.Description = description
	return b
}

// Version sets the API version.
func (b *DocumentInfoBuilder) Version(version string) *DocumentInfoBuilder {
	b.info.Header.Version = version
	return b
}

// TermsOfService sets the terms of service URL.
func (b *DocumentInfoBuilder) TermsOfService(url string) *DocumentInfoBuilder {
	b.info.Header.TermsOfService = url
	return b
}

// Contact sets the contact information.
func (b *DocumentInfoBuilder) Contact(name, url, email string) *DocumentInfoBuilder {
	b.info.Header.Contact = &Contact{Name: name, URL: url, Email: email}
	return b
}

// License sets the license information.
func (b *DocumentInfoBuilder) License(name, url string) *DocumentInfoBuilder {
	b.info.Header.License = &License{Name: name, URL: url}
	return b
}

// Server appends a server.
func (b *DocumentInfoBuilder) Server(url, description string) *DocumentInfoBuilder {
	b.info.Servers = append(b.info.Servers, &Server{URL: url, Description: description})
	return b
}

// ServerWithVariables appends a server whose URL is a template.
func (b *DocumentInfoBuilder) ServerWithVariables(url, description string, vars map[string]*ServerVariable) *DocumentInfoBuilder {
	b.info.Servers = append(b.info.Servers, &Server{URL: url, Description: description, Variables: vars})
	return b
}

// SecurityScheme registers a named security scheme.
func (b *DocumentInfoBuilder) SecurityScheme(name string, scheme *SecurityScheme) *DocumentInfoBuilder {
	if b.info.SecuritySchemes == nil {
		b.info.SecuritySchemes = make(map[string]*SecurityScheme)
	}
	b.info.SecuritySchemes[name] = scheme
	return b
}

// Build returns the assembled DocumentInfo.
func (b *DocumentInfoBuilder) Build() *DocumentInfo {
	info := b.info
	return &info
}

// BasicAuthSecurityScheme returns an HTTP Basic authentication scheme.
//
// See: https://spec.openapis.org/oas/v3.0.0#security-scheme-object
func BasicAuthSecurityScheme() *SecurityScheme {
	return &SecurityScheme{Type: "http", Scheme: "basic"}
}

// BearerAuthSecurityScheme returns an HTTP Bearer authentication scheme.
// The format is a hint such as "JWT" and may be empty.
//
// See: https://spec.openapis.org/oas/v3.0.0#security-scheme-object
func BearerAuthSecurityScheme(format string) *SecurityScheme {
	return &SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: format}
}

// copySecurityScheme returns a deep copy of s.
func copySecurityScheme(s *SecurityScheme) *SecurityScheme {
	out := *s
	if s.Flows != nil {
		out.Flows = &OAuthFlows{
			Implicit:          copyOAuthFlow(s.Flows.Implicit),
			Password:          copyOAuthFlow(s.Flows.Password),
			ClientCredentials: copyOAuthFlow(s.Flows.ClientCredentials),
			AuthorizationCode: copyOAuthFlow(s.Flows.AuthorizationCode),
		}
	}
	return &out
}

func copyOAuthFlow(f *OAuthFlow) *OAuthFlow {
	if f == nil {
		return nil
	}
	out := *f
	out.Scopes = make(map[string]string, len(f.Scopes))
	for scope, desc := range f.Scopes {
		out.Scopes[scope] = desc
	}
	return &out
}
