package swaggerui

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/vitalvas/oasgen/openapi"
)

// ErrNilBuildFunc is returned when NewController is called without a
// document source.
var ErrNilBuildFunc = errors.New("swaggerui: document build function must not be nil")

// InitializerPlaceholder is replaced with the JSON document path in
// swagger-initializer.js.
const InitializerPlaceholder = "%%API.JSON%%"

const (
	indexFile       = "index.html"
	initializerFile = "swagger-initializer.js"
	sniffLen        = 512
)

// Disabled as a path turns the route off.
const Disabled = "-"

// Paths holds the routes served by the controller. Empty fields take their
// default; Disabled turns a route off.
type Paths struct {
	APIJSON     string
	APIYAML     string
	UI          string
	Initializer string

	// UIResources must contain a {filename} wildcard.
	UIResources string
}

// DefaultPaths returns the default routes.
func DefaultPaths() Paths {
	return Paths{
		APIJSON:     "/api-docs/oas-3.0.0.json",
		APIYAML:     "/api-docs/oas-3.0.0.yaml",
		UI:          "/swagger/ui",
		Initializer: "/swagger/ui/swagger-initializer.js",
		UIResources: "/swagger/{filename}",
	}
}

func (p Paths) withDefaults() Paths {
	def := DefaultPaths()
	if p.APIJSON == "" {
		p.APIJSON = def.APIJSON
	}
	if p.APIYAML == "" {
		p.APIYAML = def.APIYAML
	}
	if p.UI == "" {
		p.UI = def.UI
	}
	if p.Initializer == "" {
		p.Initializer = def.Initializer
	}
	if p.UIResources == "" {
		p.UIResources = def.UIResources
	}
	return p
}

// Config configures a Controller.
type Config struct {
	Paths Paths

	// Resources holds a local swagger-ui distribution. When nil, the UI
	// path serves a page loading the selected UI from a CDN.
	Resources *Resources

	// UI selects the CDN page. Ignored when Resources is set.
	UI DocsUI

	// Title of the CDN page.
	Title string

	// SwaggerUIConfig adds SwaggerUIBundle options to the CDN page.
	SwaggerUIConfig map[string]any

	// CacheControl is sent with UI pages and files, e.g.
	// "public, max-age=86400". Document routes never carry it.
	CacheControl string

	Logger *slog.Logger
}

// Controller serves an OpenAPI document together with a documentation UI.
type Controller struct {
	paths     Paths
	resources *Resources
	ui        DocsUI
	title     string
	uiConfig  map[string]any
	cache     string
	build     func() (*openapi.Document, error)
	logger    *slog.Logger
}

// NewController creates a controller. The document is built by build once,
// on the first request to a document route.
func NewController(build openapi.BuildFunc, cfg *Config) (*Controller, error) {
	if build == nil {
		return nil, ErrNilBuildFunc
	}
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	title := cfg.Title
	if title == "" {
		title = "API documentation"
	}

	return &Controller{
		paths:     cfg.Paths.withDefaults(),
		resources: cfg.Resources,
		ui:        cfg.UI,
		title:     title,
		uiConfig:  cfg.SwaggerUIConfig,
		cache:     cfg.CacheControl,
		build:     sync.OnceValues[*openapi.Document, error](build),
		logger:    logger,
	}, nil
}

// Paths returns the effective routes.
func (c *Controller) Paths() Paths {
	return c.paths
}

// Register adds the controller routes to mux.
func (c *Controller) Register(mux *http.ServeMux) {
	if c.paths.APIJSON != Disabled {
		mux.Handle("GET "+c.paths.APIJSON, openapi.Handler(c.logged(openapi.FormatJSON), openapi.FormatJSON))
	}
	if c.paths.APIYAML != Disabled {
		mux.Handle("GET "+c.paths.APIYAML, openapi.Handler(c.logged(openapi.FormatYAML), openapi.FormatYAML))
	}

	if c.paths.UI == Disabled {
		return
	}

	if c.resources == nil {
		page := []byte(cdnPage(c.ui, c.title, c.specURL(), c.uiConfig))
		mux.HandleFunc("GET "+c.paths.UI, func(w http.ResponseWriter, _ *http.Request) {
			c.writeData(w, "text/html; charset=utf-8", page)
		})
		return
	}

	mux.HandleFunc("GET "+c.paths.UI, c.serveIndex)
	if c.paths.Initializer != Disabled {
		mux.HandleFunc("GET "+c.paths.Initializer, c.serveInitializer)
	}
	if c.paths.UIResources != Disabled {
		mux.HandleFunc("GET "+c.paths.UIResources, c.serveResource)
	}
}

// Handler returns the controller routes on a new mux wrapped in recovery,
// request ID and access log middleware.
func (c *Controller) Handler() http.Handler {
	mux := http.NewServeMux()
	c.Register(mux)
	return Chain(mux,
		RecoveryMiddleware(c.logger),
		RequestIDMiddleware(RequestIDConfig{TrustIncoming: true}),
		AccessLogMiddleware(c.logger),
	)
}

func (c *Controller) specURL() string {
	if c.paths.APIJSON != Disabled {
		return c.paths.APIJSON
	}
	return c.paths.APIYAML
}

func (c *Controller) logged(format openapi.Format) openapi.BuildFunc {
	return func() (*openapi.Document, error) {
		doc, err := c.build()
		if err != nil {
			c.logger.Error("failed to build OpenAPI document", slog.String("format", format.String()), slog.Any("error", err))
		}
		return doc, err
	}
}

func (c *Controller) serveIndex(w http.ResponseWriter, r *http.Request) {
	data, err := c.resources.Data(indexFile)
	if err != nil {
		c.notFound(w, r, indexFile, err)
		return
	}
	c.writeData(w, MIMEType(indexFile), data)
}

func (c *Controller) serveInitializer(w http.ResponseWriter, r *http.Request) {
	data, err := c.initializer()
	if err != nil {
		c.notFound(w, r, initializerFile, err)
		return
	}
	c.writeData(w, MIMEType(initializerFile), data)
}

func (c *Controller) initializer() ([]byte, error) {
	data, err := c.resources.Data(initializerFile)
	if err != nil {
		return nil, err
	}
	return bytes.ReplaceAll(data, []byte(InitializerPlaceholder), []byte(c.specURL())), nil
}

func (c *Controller) serveResource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == initializerFile {
		c.serveInitializer(w, r)
		return
	}

	rc, err := c.resources.Open(name)
	if err != nil {
		c.notFound(w, r, name, err)
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffLen)
	head, _ := br.Peek(sniffLen)

	w.Header().Set("Content-Type", detectMIMEType(name, head))
	c.setCacheControl(w)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		c.logger.Warn("failed to stream resource", slog.String("file", name), slog.Any("error", err))
	}
}

func (c *Controller) notFound(w http.ResponseWriter, r *http.Request, name string, err error) {
	c.logger.Debug("resource not found", slog.String("file", name), slog.Any("error", err))
	http.NotFound(w, r)
}

func (c *Controller) setCacheControl(w http.ResponseWriter) {
	if c.cache != "" {
		w.Header().Set("Cache-Control", c.cache)
	}
}

func (c *Controller) writeData(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	c.setCacheControl(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
