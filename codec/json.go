package codec

import (
	"encoding/json"

	"github.com/tidwall/jsonc"

	"github.com/wippyai/payload/value"
)

// JSON is the standard-library JSON codec. Objects keep their key order.
type JSON struct{}

// Marshal encodes the tree to compact JSON.
func (JSON) Marshal(v value.Value) ([]byte, error) { return json.Marshal(v) }

// Unmarshal parses a single JSON document.
func (JSON) Unmarshal(data []byte) (value.Value, error) { return value.ParseJSON(data) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// JSONC reads JSON with comments and trailing commas. Output is plain JSON.
type JSONC struct{}

func (JSONC) Marshal(v value.Value) ([]byte, error) { return json.Marshal(v) }

func (JSONC) Unmarshal(data []byte) (value.Value, error) {
	return value.ParseJSON(jsonc.ToJSON(data))
}

func (JSONC) Name() string { return "jsonc" }
