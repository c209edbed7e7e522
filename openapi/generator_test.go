package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/oasgen/typedesc"
)

func testInfo() *DocumentInfo {
	return NewDocumentInfoBuilder().
		Title("Test API").
		Version("1.0.0").
		Description("test service").
		Server("http://localhost:8000", "local").
		SecurityScheme("basic_auth", BasicAuthSecurityScheme()).
		Build()
}

func petStore() []*Endpoint {
	status := typedesc.NewEnum("Status", typedesc.String, "available", "sold")
	owner := typedesc.NewObject("Owner").Field("name", typedesc.String)
	pet := typedesc.NewObject("Pet").
		AddProperty(&typedesc.Property{Name: "id", Type: typedesc.Int64, Required: true}).
		AddProperty(&typedesc.Property{Name: "name", Type: typedesc.String, Required: true}).
		Field("status", status).
		Field("owner", owner).
		Field("tags", typedesc.SetOf(typedesc.String))

	return []*Endpoint{
		NewEndpoint(http.MethodGet, "pets", "listPets").
			WithTags("pets").
			QueryParam("limit", typedesc.Int32, "page size", false).
			Response(http.StatusOK, "", typedesc.ListOf(pet), ""),
		NewEndpoint(http.MethodPost, "/pets", "createPet").
			WithTags("pets").
			Header("Authorization", typedesc.String, "").
			WithBody(pet, "").
			Response(http.StatusCreated, "", pet, "").
			Security("basic_auth"),
		NewEndpoint(http.MethodGet, "/pets/{id}", "getPet").
			PathParam("id", typedesc.Int64, "pet id").
			Response(http.StatusOK, "", pet, "").
			Response(http.StatusNotFound, "", nil, ""),
	}
}

func TestGenerate(t *testing.T) {
	doc, err := NewGenerator(nil).Generate(testInfo(), petStore())
	require.NoError(t, err)

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, "3.0.0", doc.OpenAPI)
		assert.Equal(t, "Test API", doc.Info.Title)
		assert.Equal(t, "test service", doc.Info.Description)
		require.Len(t, doc.Servers, 1)
		assert.Equal(t, "http://localhost:8000", doc.Servers[0].URL)
	})

	t.Run("paths grouped", func(t *testing.T) {
		require.Len(t, doc.Paths, 2)
		require.Contains(t, doc.Paths, "/pets")
		assert.NotNil(t, doc.Paths["/pets"].Get)
		assert.NotNil(t, doc.Paths["/pets"].Post)
		assert.NotNil(t, doc.Paths["/pets/{id}"].Get)
	})

	t.Run("components", func(t *testing.T) {
		require.NotNil(t, doc.Components)
		assert.Len(t, doc.Components.Schemas, 3)
		assert.Contains(t, doc.Components.Schemas, "Pet")
		assert.Contains(t, doc.Components.Schemas, "Owner")
		assert.Contains(t, doc.Components.Schemas, "Status_string")

		pet := doc.Components.Schemas["Pet"]
		assert.Equal(t, []string{"id", "name"}, pet.Required)
		owner, _ := pet.Properties.Get("owner")
		assert.Equal(t, "#/components/schemas/Owner", owner.Ref)

		status := doc.Components.Schemas["Status_string"]
		assert.Equal(t, []any{"available", "sold"}, status.Enum)
	})

	t.Run("security", func(t *testing.T) {
		post := doc.Paths["/pets"].Post
		assert.Equal(t, []SecurityRequirement{{"basic_auth": {}}}, post.Security)
		for _, p := range post.Parameters {
			assert.NotEqual(t, "Authorization", p.Name)
		}
		require.Contains(t, doc.Components.SecuritySchemes, "basic_auth")
		assert.Equal(t, "basic", doc.Components.SecuritySchemes["basic_auth"].Scheme)
	})

	t.Run("loads as OpenAPI 3.0", func(t *testing.T) {
		data, err := json.Marshal(doc)
		require.NoError(t, err)

		loaded, err := openapi3.NewLoader().LoadFromData(data)
		require.NoError(t, err)
		require.NoError(t, loaded.Validate(context.Background()))
		assert.NotNil(t, loaded.Paths.Find("/pets/{id}"))
	})
}

func TestGenerateSkips(t *testing.T) {
	endpoints := []*Endpoint{
		NewEndpoint(http.MethodGet, "users", "listUsers"),
		NewEndpoint(http.MethodPost, "/users", "createUser"),
		NewEndpoint(http.MethodGet, "", "empty"),
		NewEndpoint(http.MethodGet, "/hidden", "hidden").Hidden(),
		NewEndpoint("CONNECT", "/tunnel", "tunnel"),
	}

	doc, err := NewGenerator(nil).Generate(&DocumentInfo{}, endpoints)
	require.NoError(t, err)

	require.Len(t, doc.Paths, 1)
	users := doc.Paths["/users"]
	require.NotNil(t, users)
	assert.Equal(t, "listUsers", users.Get.OperationID)
	assert.Equal(t, "createUser", users.Post.OperationID)
	assert.Nil(t, doc.Components)
}

func TestGenerateDefaultResponse(t *testing.T) {
	doc, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{
		NewEndpoint(http.MethodGet, "/ping", "ping"),
	})
	require.NoError(t, err)

	responses := doc.Paths["/ping"].Get.Responses
	require.Len(t, responses, 1)
	assert.Equal(t, "success", responses["200"].Description)
	assert.Nil(t, responses["200"].Content)
}

func TestGenerateDuplicateMethod(t *testing.T) {
	doc, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{
		NewEndpoint(http.MethodGet, "/a", "first"),
		NewEndpoint("get", "a", "second"),
	})
	require.NoError(t, err)
	assert.Equal(t, "second", doc.Paths["/a"].Get.OperationID)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("nil info", func(t *testing.T) {
		_, err := NewGenerator(nil).Generate(nil, nil)
		assert.ErrorIs(t, err, ErrNilDocumentInfo)
	})

	t.Run("nil endpoint", func(t *testing.T) {
		_, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{nil})
		assert.ErrorIs(t, err, ErrNilEndpoint)
	})

	t.Run("unknown security scheme", func(t *testing.T) {
		info := &DocumentInfo{SecuritySchemes: map[string]*SecurityScheme{
			"basic_auth": BasicAuthSecurityScheme(),
		}}
		e := NewEndpoint(http.MethodGet, "/secret", "secret").Security("oauth2_x")

		_, err := NewGenerator(nil).Generate(info, []*Endpoint{e})
		assert.ErrorIs(t, err, ErrUnknownSecurityScheme)
		assert.Contains(t, err.Error(), "oauth2_x")
	})

	t.Run("nil registry", func(t *testing.T) {
		e := NewEndpoint(http.MethodGet, "/secret", "secret").Security("basic_auth")
		_, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{e})
		assert.ErrorIs(t, err, ErrUnknownSecurityScheme)
	})

	t.Run("authorization mismatch names endpoint", func(t *testing.T) {
		e := NewEndpoint(http.MethodGet, "/secret", "secret")
		e.Authorization = true

		_, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{e})
		assert.ErrorIs(t, err, ErrAuthorizationWithoutSecurity)
		assert.Contains(t, err.Error(), `"secret"`)
	})

	t.Run("nil response type", func(t *testing.T) {
		e := NewEndpoint(http.MethodGet, "/x", "x").
			Response(http.StatusOK, "", typedesc.ListOf(nil), "")
		_, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{e})
		assert.ErrorIs(t, err, ErrNilType)
	})

	t.Run("nil parameter type names endpoint", func(t *testing.T) {
		e := NewEndpoint(http.MethodGet, "/x", "x").QueryParam("q", nil, "", true)
		doc, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{e})
		require.ErrorIs(t, err, ErrNilType)
		assert.Nil(t, doc)
		assert.Contains(t, err.Error(), `endpoint "x"`)
	})

	t.Run("nil type found during expansion", func(t *testing.T) {
		broken := typedesc.NewObject("Broken").Field("x", nil)
		e := NewEndpoint(http.MethodGet, "/x", "x").Response(http.StatusOK, "", broken, "")

		_, err := NewGenerator(nil).Generate(&DocumentInfo{}, []*Endpoint{e})
		assert.ErrorIs(t, err, ErrNilType)
		assert.Contains(t, err.Error(), "Broken")
	})
}

func TestGenerateInterpretations(t *testing.T) {
	pointDto := typedesc.NewObject("PointDto").Field("x", typedesc.Int32).Field("y", typedesc.Int32)
	point := typedesc.NewOpaque("test::Point", "", typedesc.Interpretation{Name: "test", Target: pointDto})
	shape := typedesc.NewObject("Shape").Field("origin", point)

	endpoints := []*Endpoint{
		NewEndpoint(http.MethodGet, "/shape", "shape").Response(http.StatusOK, "", shape, ""),
	}

	gen := NewGenerator(&Config{EnableInterpretations: []string{"test"}})
	doc, err := gen.Generate(&DocumentInfo{}, endpoints)
	require.NoError(t, err)

	require.Contains(t, doc.Components.Schemas, "PointDto")
	origin, _ := doc.Components.Schemas["Shape"].Properties.Get("origin")
	assert.Equal(t, "#/components/schemas/PointDto", origin.Ref)
}

func TestGenerateReusable(t *testing.T) {
	gen := NewGenerator(nil)

	first, err := gen.Generate(testInfo(), petStore())
	require.NoError(t, err)

	second, err := gen.Generate(&DocumentInfo{}, []*Endpoint{NewEndpoint(http.MethodGet, "/ping", "ping")})
	require.NoError(t, err)

	assert.NotNil(t, first.Components)
	assert.Nil(t, second.Components)
}

func TestSecuritySchemeCopy(t *testing.T) {
	flows := &OAuthFlows{
		AuthorizationCode: &OAuthFlow{
			AuthorizationURL: "https://auth.example.com/authorize",
			TokenURL:         "https://auth.example.com/token",
			Scopes:           map[string]string{"read": "read access"},
		},
	}
	registry := map[string]*SecurityScheme{
		"oauth": {Type: "oauth2", Flows: flows},
	}
	e := NewEndpoint(http.MethodGet, "/x", "x").Security("oauth", "read")

	doc, err := NewGenerator(nil).Generate(&DocumentInfo{SecuritySchemes: registry}, []*Endpoint{e})
	require.NoError(t, err)

	got := doc.Components.SecuritySchemes["oauth"]
	require.NotNil(t, got.Flows.AuthorizationCode)
	assert.Equal(t, "https://auth.example.com/token", got.Flows.AuthorizationCode.TokenURL)
	assert.Nil(t, got.Flows.Implicit)

	got.Flows.AuthorizationCode.Scopes["write"] = "write access"
	assert.NotContains(t, flows.AuthorizationCode.Scopes, "write")
}
