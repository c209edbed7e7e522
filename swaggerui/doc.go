// Package swaggerui serves an OpenAPI document and a documentation UI on an
// http.ServeMux.
//
// With the default Paths the controller registers:
//
//	GET /api-docs/oas-3.0.0.json              document as JSON (?pretty=true to indent)
//	GET /api-docs/oas-3.0.0.yaml              document as YAML
//	GET /swagger/ui                           index.html
//	GET /swagger/ui/swagger-initializer.js    initializer pointing at the JSON route
//	GET /swagger/{filename}                   any other swagger-ui file
//
// The UI files come from a Resources set backed by an fs.FS holding the
// swagger-ui distribution. Files are loaded into memory when the set is
// created, or opened on every request in streaming mode. The placeholder
// %%API.JSON%% in swagger-initializer.js is replaced with the JSON route.
//
// Without Resources the UI path serves a single page that loads Swagger UI,
// RapiDoc or Redoc from a CDN.
//
//	ctrl, err := swaggerui.NewController(build, &swaggerui.Config{Resources: res})
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8000", ctrl.Handler())
package swaggerui
