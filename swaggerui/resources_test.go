package swaggerui

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":             {Data: []byte("<html>index</html>")},
		"swagger-initializer.js": {Data: []byte(`window.ui = SwaggerUIBundle({url: "%%API.JSON%%"});`)},
		"swagger-ui.css":         {Data: []byte("body{}")},
		"swagger-ui.js.map":      {Data: []byte(`{"version":3,"sources":[]}`)},
		"favicon-16x16.png":      {Data: []byte("\x89PNG\r\n\x1a\n")},
		"notes.bin":              {Data: []byte("plain notes")},
	}
}

var testFiles = []string{
	"index.html",
	"swagger-initializer.js",
	"swagger-ui.css",
	"swagger-ui.js.map",
	"favicon-16x16.png",
	"notes.bin",
}

func TestNewResources(t *testing.T) {
	t.Run("nil fs", func(t *testing.T) {
		_, err := NewResources(ResourcesConfig{})
		assert.ErrorIs(t, err, ErrNoResourceFS)
	})

	t.Run("missing default file", func(t *testing.T) {
		_, err := NewResources(ResourcesConfig{FS: testFS()})
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("missing file in streaming mode", func(t *testing.T) {
		_, err := NewResources(ResourcesConfig{FS: testFS(), Streaming: true, Files: []string{"absent.js"}})
		assert.ErrorIs(t, err, ErrResourceNotFound)
		assert.Contains(t, err.Error(), "absent.js")
	})

	t.Run("listed files only", func(t *testing.T) {
		r, err := NewResources(ResourcesConfig{FS: testFS(), Files: []string{"index.html"}})
		require.NoError(t, err)
		assert.True(t, r.Has("index.html"))
		assert.False(t, r.Has("swagger-ui.css"))

		_, err = r.Data("swagger-ui.css")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestResourcesModes(t *testing.T) {
	for _, streaming := range []bool{false, true} {
		fsys := testFS()
		r, err := NewResources(ResourcesConfig{FS: fsys, Streaming: streaming, Files: testFiles})
		require.NoError(t, err)
		assert.Equal(t, streaming, r.Streaming())

		data, err := r.Data("index.html")
		require.NoError(t, err)
		assert.Equal(t, "<html>index</html>", string(data))

		fsys["index.html"] = &fstest.MapFile{Data: []byte("<html>changed</html>")}
		data, err = r.Data("index.html")
		require.NoError(t, err)
		if streaming {
			assert.Equal(t, "<html>changed</html>", string(data))
		} else {
			assert.Equal(t, "<html>index</html>", string(data))
		}
	}
}

func TestResourcesOverride(t *testing.T) {
	r, err := NewResources(ResourcesConfig{FS: testFS(), Streaming: true, Files: testFiles})
	require.NoError(t, err)

	r.Override("index.html", []byte("custom"))
	r.Override("extra.css", []byte("p{}"))

	rc, err := r.Open("index.html")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	assert.True(t, r.Has("extra.css"))
	data, err = r.Data("extra.css")
	require.NoError(t, err)
	assert.Equal(t, "p{}", string(data))
}

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		"index.html":     "text/html",
		"INDEX.HTML":     "text/html",
		"photo.jpg":      "image/jpeg",
		"photo.jpeg":     "image/jpeg",
		"icon.png":       "image/png",
		"anim.gif":       "image/gif",
		"style.css":      "text/css",
		"app.js":         "text/javascript",
		"feed.xml":       "text/xml",
		"bundle.js.map":  "text/plain",
		"no-extension":   "text/plain",
		"archive.tar.gz": "text/plain",
	}
	for name, want := range tests {
		assert.Equal(t, want, MIMEType(name), name)
	}
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "text/css", detectMIMEType("a.css", []byte("{")))
	assert.Equal(t, "application/json", detectMIMEType("a.js.map", []byte(`{"version":3}`)))
	assert.Equal(t, "text/plain", detectMIMEType("empty.bin", nil))
}
