package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/schema"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// ContentType returns the media type of the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/x-yaml"
	}
	return "application/json"
}

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ParseFormat parses "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("openapi: unknown format %q", s)
}

// Encode serializes the document. Pretty only affects JSON output.
func Encode(doc *Document, format Format, pretty bool) ([]byte, error) {
	if format == FormatYAML {
		return EncodeYAML(doc)
	}
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// EncodeYAML serializes the document as YAML. Keys keep the order of the
// JSON encoding.
func EncodeYAML(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resetStyle drops the flow and quoting styles picked up from JSON input.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// BuildFunc produces a document on demand.
type BuildFunc func() (*Document, error)

type documentQuery struct {
	Pretty bool `schema:"pretty"`
}

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// Handler serves the document produced by build in the given format. The
// document is built and encoded once, on the first request. If build fails
// or panics, that request and every later one get a 500.
//
// JSON output is compact unless the request carries ?pretty=true.
func Handler(build BuildFunc, format Format) http.Handler {
	var (
		once     sync.Once
		compact  []byte
		indented []byte
		buildErr error
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					buildErr = fmt.Errorf("%v", rv)
				}
			}()
			var doc *Document
			doc, buildErr = build()
			if buildErr != nil {
				return
			}
			if compact, buildErr = Encode(doc, format, false); buildErr != nil {
				return
			}
			indented = compact
			if format == FormatJSON {
				indented, buildErr = Encode(doc, format, true)
			}
		})
		if buildErr != nil {
			http.Error(w, fmt.Sprintf("failed to build OpenAPI document as %s", format), http.StatusInternalServerError)
			return
		}

		var q documentQuery
		if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data := compact
		if q.Pretty {
			data = indented
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}
