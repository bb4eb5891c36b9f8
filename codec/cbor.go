package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/value"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// tree always produces identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR is a deterministic CBOR codec. Map keys are written in canonical
// order, so object key order does not survive a round trip.
type CBOR struct{}

// Marshal encodes the tree to CBOR.
func (CBOR) Marshal(v value.Value) ([]byte, error) {
	return encMode.Marshal(value.Interface(v))
}

// Unmarshal decodes CBOR data. Byte strings become base64 strings.
func (CBOR) Unmarshal(data []byte) (value.Value, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return encoder.Encode(raw, encoder.DisallowObjects(true))
}

// Name returns "cbor".
func (CBOR) Name() string { return "cbor" }
