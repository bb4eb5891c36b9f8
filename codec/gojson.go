package codec

import (
	gojson "github.com/goccy/go-json"

	"github.com/wippyai/payload/value"
)

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON struct{}

// Marshal encodes the tree to JSON.
func (GoJSON) Marshal(v value.Value) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal validates data with go-json and parses it keeping key order.
func (GoJSON) Unmarshal(data []byte) (value.Value, error) {
	if !gojson.Valid(data) {
		var probe any
		if err := gojson.Unmarshal(data, &probe); err != nil {
			return nil, err
		}
	}
	return value.ParseJSON(data)
}

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }
