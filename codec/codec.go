package codec

import (
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// Codec encodes/decodes value trees.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v value.Value) ([]byte, error)
	Unmarshal(data []byte) (value.Value, error)
	Name() string
}

// Default is the codec used when no format is named.
var Default Codec = JSON{}

var builtin = []Codec{JSON{}, JSONC{}, GoJSON{}, CBOR{}, YAML{}}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	if name == "" {
		return Default, true
	}
	for _, c := range builtin {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Names lists the built-in codec names.
func Names() []string {
	out := make([]string, len(builtin))
	for i, c := range builtin {
		out[i] = c.Name()
	}
	return out
}

// Lookup is ByName returning a codec-phase not_found error.
func Lookup(name string) (Codec, error) {
	c, ok := ByName(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseCodec, "codec", name)
	}
	return c, nil
}

// Marshal writes v with the named codec.
func Marshal(format string, v value.Value) ([]byte, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, wrap(c.Name(), err, "marshal")
	}
	return b, nil
}

// Read parses a document in the named format into a value tree. Object
// key order is kept for every format except cbor.
func Read(format string, data []byte) (value.Value, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	v, err := c.Unmarshal(data)
	if err != nil {
		return nil, wrap(c.Name(), err, "unmarshal")
	}
	return v, nil
}

func wrap(name string, err error, op string) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.New(errors.PhaseCodec, errors.KindInvalidData).
		Cause(err).
		Detail("%s %s", name, op).
		Build()
}
