// Package codec centralizes JSON encoding of corpus documents and tool output.
//
// The default codec is backed by github.com/goccy/go-json; the standard
// library codec is kept for callers that want the lowest-dependency option.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Or returns c, or Default when c is nil.
func Or(c Codec) Codec {
	if c == nil {
		return Default
	}
	return c
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	c = Or(c)
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
