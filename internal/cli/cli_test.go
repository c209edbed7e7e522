package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/oasgen/internal/manifest"
	"github.com/vitalvas/oasgen/swaggerui"
)

const testManifest = `
info:
  title: Items
  version: 1.0.0
settings:
  format: yaml
  interpretations: [iso8601]
types:
  objects:
    Item:
      properties:
        - {name: id, type: string, required: true}
        - {name: created, type: Stamp}
  opaques:
    Stamp:
      class: datetime
      interpretations:
        iso8601: string
endpoints:
  - name: listItems
    method: GET
    path: /items
    responses:
      - {status: 200, type: list<Item>}
  - name: internal
    method: GET
    path: /internal
    hidden: true
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootHelp(t *testing.T) {
	stdout, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "generate")
	assert.Contains(t, stdout, "serve")
}

func TestGenerateUsesManifestSettings(t *testing.T) {
	path := writeManifest(t, testManifest)

	stdout, _, err := execute(t, "generate", path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "3.0.0", doc["openapi"])

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/items")
	assert.NotContains(t, paths, "/internal")

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	item := schemas["Item"].(map[string]any)
	created := item["properties"].(map[string]any)["created"].(map[string]any)
	assert.Equal(t, "string", created["type"])
}

func TestGenerateFlagOverrides(t *testing.T) {
	path := writeManifest(t, testManifest)

	stdout, _, err := execute(t, "generate", path, "--format", "json", "--interpretations", "")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	item := schemas["Item"].(map[string]any)
	created := item["properties"].(map[string]any)["created"].(map[string]any)
	assert.Equal(t, "datetime", created["type"])
	assert.Equal(t, "Stamp", created["format"])
}

func TestGenerateOutputFile(t *testing.T) {
	path := writeManifest(t, testManifest)
	out := filepath.Join(t.TempDir(), "openapi.json")

	stdout, stderr, err := execute(t, "generate", path, "-f", "json", "--pretty", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "document written")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"openapi\": \"3.0.0\"")
}

func TestGenerateVerboseLogging(t *testing.T) {
	path := writeManifest(t, testManifest)

	_, stderr, err := execute(t, "--verbose", "generate", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipping hidden endpoint")

	_, stderr, err = execute(t, "generate", path)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "skipping hidden endpoint")
}

func TestGenerateErrors(t *testing.T) {
	path := writeManifest(t, testManifest)

	t.Run("missing manifest argument", func(t *testing.T) {
		_, _, err := execute(t, "generate")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, err := execute(t, "generate", path, "--format", "xml")
		require.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, err.Error(), `"xml"`)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := execute(t, "generate", path, "--unknown-flag")
		require.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, err.Error(), "unknown flag")
		assert.Contains(t, err.Error(), "Usage:")
	})

	t.Run("invalid manifest", func(t *testing.T) {
		bad := writeManifest(t, "info: {title: x}\n")
		_, _, err := execute(t, "generate", bad)
		assert.ErrorIs(t, err, manifest.ErrInvalid)
	})

	t.Run("generation error", func(t *testing.T) {
		bad := writeManifest(t, `
info: {title: x, version: "1"}
endpoints:
  - name: secret
    method: GET
    path: /secret
    security:
      - {scheme: missing}
`)
		_, _, err := execute(t, "generate", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})
}

func TestResolveGenerateConfig(t *testing.T) {
	settings := &manifest.Settings{Format: "YAML", Pretty: true, Interpretations: []string{"a", " b ", "a", ""}}

	cmd := newGenerateCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	cfg, err := resolveGenerateConfig(cmd.Flags(), "api.yaml", settings)
	require.NoError(t, err)
	assert.Equal(t, "api.yaml", cfg.Manifest)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, []string{"a", "b"}, cfg.Interpretations)

	cmd = newGenerateCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--pretty=false", "--interpretations", "c"}))
	cfg, err = resolveGenerateConfig(cmd.Flags(), "api.yaml", settings)
	require.NoError(t, err)
	assert.False(t, cfg.Pretty)
	assert.Equal(t, []string{"c"}, cfg.Interpretations)

	cmd = newGenerateCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	cfg, err = resolveGenerateConfig(cmd.Flags(), "api.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestResolveServeConfig(t *testing.T) {
	settings := &manifest.Settings{Interpretations: []string{"iso8601"}}

	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	cfg, err := resolveServeConfig(cmd.Flags(), "api.yaml", settings)
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "swagger", cfg.UI)
	assert.Equal(t, []string{"iso8601"}, cfg.Interpretations)

	cmd = newServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--addr", "127.0.0.1:9000", "--ui", "redoc", "--h2c", "--resources", "/srv/ui", "--streaming"}))
	cfg, err = resolveServeConfig(cmd.Flags(), "api.yaml", settings)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "redoc", cfg.UI)
	assert.True(t, cfg.H2C)
	assert.True(t, cfg.Streaming)
	assert.Equal(t, "/srv/ui", cfg.Resources)

	for _, args := range [][]string{
		{"--ui", "stoplight"},
		{"--streaming"},
		{"--addr", " "},
	} {
		cmd = newServeCmd()
		require.NoError(t, cmd.Flags().Parse(args))
		_, err = resolveServeConfig(cmd.Flags(), "api.yaml", settings)
		assert.ErrorIs(t, err, ErrUsage, args)
	}
}

func loadTestManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(testManifest))
	require.NoError(t, err)
	return m
}

func TestServeHandlerCDN(t *testing.T) {
	cfg := defaultServeConfig()
	cfg.UI = "rapidoc"
	h, err := newServeHandler(loadTestManifest(t), &cfg, newLogger(io.Discard, false))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-docs/oas-3.0.0.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/items"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/ui", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<rapi-doc")
	assert.Contains(t, w.Body.String(), "<title>Items</title>")
}

func TestServeHandlerResources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range swaggerui.DefaultFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("/* "+name+" */"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "swagger-initializer.js"), []byte(`url: "%%API.JSON%%"`), 0o600))

	cfg := defaultServeConfig()
	cfg.Resources = dir
	cfg.Streaming = true
	cfg.H2C = true
	h, err := newServeHandler(loadTestManifest(t), &cfg, newLogger(io.Discard, false))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/ui/swagger-initializer.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `url: "/api-docs/oas-3.0.0.json"`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/swagger-ui.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/css", w.Header().Get("Content-Type"))
}

func TestServeHandlerMissingResources(t *testing.T) {
	cfg := defaultServeConfig()
	cfg.Resources = t.TempDir()
	_, err := newServeHandler(loadTestManifest(t), &cfg, newLogger(io.Discard, false))
	assert.ErrorIs(t, err, swaggerui.ErrResourceNotFound)
}

func TestRunServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := defaultServeConfig()
	h, err := newServeHandler(loadTestManifest(t), &cfg, newLogger(io.Discard, false))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, ln, h, newLogger(io.Discard, false))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api-docs/oas-3.0.0.yaml")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "openapi: 3.0.0")

	cancel()
	assert.NoError(t, <-done)
}
