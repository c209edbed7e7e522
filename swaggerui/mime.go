package swaggerui

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMIMEType = "text/plain"

var mimeTypes = map[string]string{
	".html": "text/html",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".css":  "text/css",
	".js":   "text/javascript",
	".xml":  "text/xml",
}

// MIMEType returns the media type for a file name by its extension,
// ignoring case. Unknown extensions are text/plain.
func MIMEType(name string) string {
	if t, ok := lookupMIMEType(name); ok {
		return t
	}
	return defaultMIMEType
}

func lookupMIMEType(name string) (string, bool) {
	t, ok := mimeTypes[strings.ToLower(path.Ext(name))]
	return t, ok
}

// detectMIMEType resolves the extension first and falls back to sniffing
// the leading bytes of the content.
func detectMIMEType(name string, head []byte) string {
	if t, ok := lookupMIMEType(name); ok {
		return t
	}
	if len(head) == 0 {
		return defaultMIMEType
	}
	return mimetype.Detect(head).String()
}
