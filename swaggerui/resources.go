package swaggerui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

var (
	// ErrNoResourceFS is returned when ResourcesConfig.FS is nil.
	ErrNoResourceFS = errors.New("swaggerui: resource file system must not be nil")

	// ErrResourceNotFound is returned for a file that is not part of the
	// resource set.
	ErrResourceNotFound = errors.New("swaggerui: resource not found")
)

// DefaultFiles are the files of the swagger-ui distribution served by the
// controller.
var DefaultFiles = []string{
	"favicon-16x16.png",
	"favicon-32x32.png",
	"index.css",
	"index.html",
	"oauth2-redirect.html",
	"swagger-initializer.js",
	"swagger-ui-bundle.js",
	"swagger-ui-bundle.js.map",
	"swagger-ui-es-bundle-core.js",
	"swagger-ui-es-bundle-core.js.map",
	"swagger-ui-es-bundle.js",
	"swagger-ui-es-bundle.js.map",
	"swagger-ui-standalone-preset.js",
	"swagger-ui-standalone-preset.js.map",
	"swagger-ui.css",
	"swagger-ui.css.map",
	"swagger-ui.js",
	"swagger-ui.js.map",
}

// ResourcesConfig configures a resource set.
type ResourcesConfig struct {
	// FS holds the swagger-ui distribution. Required. Works with os.DirFS,
	// embed.FS and any fs.FS implementation.
	FS fs.FS

	// Streaming opens files on every request instead of loading them into
	// memory once.
	Streaming bool

	// Files lists the files to serve. Defaults to DefaultFiles.
	Files []string
}

// Resources is a fixed set of named static files. Every listed file must be
// present when the set is created.
type Resources struct {
	fsys      fs.FS
	streaming bool

	mu        sync.RWMutex
	names     map[string]struct{}
	overrides map[string][]byte
	cache     map[string][]byte
}

// NewResources checks that every listed file exists and, unless streaming,
// loads them into memory.
func NewResources(cfg ResourcesConfig) (*Resources, error) {
	if cfg.FS == nil {
		return nil, ErrNoResourceFS
	}

	files := cfg.Files
	if files == nil {
		files = DefaultFiles
	}

	r := &Resources{
		fsys:      cfg.FS,
		streaming: cfg.Streaming,
		names:     make(map[string]struct{}, len(files)),
		overrides: make(map[string][]byte),
		cache:     make(map[string][]byte),
	}

	for _, name := range files {
		if cfg.Streaming {
			if _, err := fs.Stat(cfg.FS, name); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, name, err)
			}
		} else {
			data, err := fs.ReadFile(cfg.FS, name)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, name, err)
			}
			r.cache[name] = data
		}
		r.names[name] = struct{}{}
	}

	return r, nil
}

// Streaming reports whether files are read on every request.
func (r *Resources) Streaming() bool {
	return r.streaming
}

// Has reports whether name is part of the set.
func (r *Resources) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok
}

// Override replaces the content of name, adding it to the set if needed.
// Overridden content is always served from memory.
func (r *Resources) Override(name string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = struct{}{}
	r.overrides[name] = data
}

// Open returns a reader for the content of name.
func (r *Resources) Open(name string) (io.ReadCloser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.names[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	if data, ok := r.overrides[name]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if data, ok := r.cache[name]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return r.fsys.Open(name)
}

// Data returns the full content of name.
func (r *Resources) Data(name string) ([]byte, error) {
	rc, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
