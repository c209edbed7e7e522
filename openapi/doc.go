// Package openapi generates OpenAPI v3.0.0 documents from endpoint
// descriptions and typedesc type graphs.
//
// See: https://spec.openapis.org/oas/v3.0.0
//
// # Endpoints
//
// Each Endpoint describes one route: method, path, parameters, request body,
// responses and security requirements. Endpoints can be built field by field
// or with the chaining helpers:
//
//	user := typedesc.NewObject("User").
//	    Field("id", typedesc.Int64).
//	    Field("name", typedesc.String)
//
//	list := openapi.NewEndpoint(http.MethodGet, "/users", "listUsers").
//	    WithSummary("List users").
//	    WithTags("users").
//	    QueryParam("limit", typedesc.Int32, "page size", false).
//	    Response(http.StatusOK, "", typedesc.ListOf(user), "")
//
//	create := openapi.NewEndpoint(http.MethodPost, "/users", "createUser").
//	    WithBody(user, "").
//	    Response(http.StatusCreated, "", user, "").
//	    Security("basic_auth")
//
// An EndpointGroup applies a path prefix, tags, headers, responses and
// security requirements to every endpoint created through it.
//
// # Generating a Document
//
//	info := openapi.NewDocumentInfoBuilder().
//	    Title("Users API").
//	    Version("1.0.0").
//	    SecurityScheme("basic_auth", openapi.BasicAuthSecurityScheme()).
//	    Build()
//
//	doc, err := openapi.NewGenerator(nil).Generate(info, []*openapi.Endpoint{list, create})
//
// Object and enum types are emitted as $ref pointers in operations. After all
// operations are built, every referenced type and every named type reachable
// from it is expanded once under components/schemas. Inside an expansion,
// nested object and enum types stay references, so self-referential types
// produce finite output.
//
// Enum components are named "<Name>_<representation>", for example
// "Color_string", so enums sharing a name but not a wire form do not collide.
//
// # Schema Mapping
//
//	string                 {type: string}          pattern from the property
//	bool                   {type: boolean}
//	int8 ... uint32        {type: integer}         minimum and maximum of the range
//	int64                  {type: integer, format: int64}
//	uint64                 {type: integer}
//	float32                {type: number, format: float}
//	float64                {type: number, format: double}
//	list, vector           {type: array, items}
//	set                    {type: array, items, uniqueItems: true}
//	map<string,V>          {type: object, additionalProperties}
//	object                 $ref, or {type: object, properties, required}
//	enum                   $ref, or the representation schema with enum values
//
// Maps with non-string keys have no JSON representation and are left out:
// the property, parameter schema or body schema is omitted.
//
// Opaque types are documented through the first interpretation whose name is
// listed in Config.EnableInterpretations. Without one, a placeholder schema
// {type: <class>, format: <name>} is emitted; typedesc.Binary uses this to
// produce {type: string, format: binary}.
//
// # Errors
//
// Generate fails with a wrapped sentinel error naming the endpoint, type or
// scheme at fault:
//
//   - ErrNilType for a missing type descriptor
//   - ErrSecurityWithoutAuthorization and ErrAuthorizationWithoutSecurity
//     when the Authorization flag and security requirements disagree
//   - ErrUnknownSecurityScheme for a requirement naming a scheme absent from
//     DocumentInfo.SecuritySchemes
//
// Unsupported HTTP methods, hidden endpoints and endpoints with an empty path
// are skipped and reported to Config.Logger at debug level.
//
// # Serving
//
// Handler serves a document as JSON or YAML. The document is built on the
// first request and cached; a build failure turns into a 500 response.
//
//	mux.Handle("GET /api-docs/oas-3.0.0.json", openapi.Handler(build, openapi.FormatJSON))
package openapi
