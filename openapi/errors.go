package openapi

import "errors"

var (
	// ErrNilType is returned when a schema is requested for a missing type
	// descriptor.
	ErrNilType = errors.New("openapi: type must not be nil")

	// ErrNilEndpoint is returned when the endpoint list contains a nil entry.
	ErrNilEndpoint = errors.New("openapi: endpoint must not be nil")

	// ErrNilDocumentInfo is returned when Generate is called without
	// document metadata.
	ErrNilDocumentInfo = errors.New("openapi: document info must not be nil")

	// ErrUnknownSecurityScheme is returned when an endpoint references a
	// security scheme name that is not defined in the document info.
	ErrUnknownSecurityScheme = errors.New("openapi: unknown security scheme")

	// ErrSecurityWithoutAuthorization is returned for an endpoint that
	// declares security requirements but is not flagged as authorized.
	ErrSecurityWithoutAuthorization = errors.New("openapi: endpoint has security requirements but is not an authorized endpoint")

	// ErrAuthorizationWithoutSecurity is returned for an authorized endpoint
	// that declares no security requirement.
	ErrAuthorizationWithoutSecurity = errors.New("openapi: authorized endpoint has no security requirements")
)
