package swaggerui

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
)

// DocsUI selects the page served at the UI path when no local resources
// are configured.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// ParseDocsUI parses "swagger", "rapidoc" or "redoc".
func ParseDocsUI(s string) (DocsUI, error) {
	switch strings.ToLower(s) {
	case "", "swagger", "swagger-ui":
		return DocsSwaggerUI, nil
	case "rapidoc":
		return DocsRapiDoc, nil
	case "redoc":
		return DocsRedoc, nil
	}
	return 0, fmt.Errorf("swaggerui: unknown docs UI %q", s)
}

func cdnPage(ui DocsUI, title, specURL string, config map[string]any) string {
	switch ui {
	case DocsRapiDoc:
		return rapidocTemplate(title, specURL)
	case DocsRedoc:
		return redocTemplate(title, specURL)
	default:
		return swaggerUITemplate(title, specURL, config)
	}
}

func swaggerUITemplate(title, specURL string, config map[string]any) string {
	var extra strings.Builder
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := json.Marshal(config[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&extra, ", %q: %s", k, v)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specURL, extra.String())
}

func rapidocTemplate(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specURL)
}

func redocTemplate(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specURL)
}
