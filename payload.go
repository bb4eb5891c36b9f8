package payload

import (
	"github.com/wippyai/payload/codec"
	"github.com/wippyai/payload/decoder"
	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/value"
)

// Encode converts v into a value tree. It is encoder.Encode.
func Encode(v any, opts ...encoder.Option) (value.Value, error) {
	return encoder.Encode(v, opts...)
}

// Marshal encodes v and writes the tree with the named codec ("json" when
// format is empty).
func Marshal(v any, format string, opts ...encoder.Option) ([]byte, error) {
	c, err := codec.Lookup(format)
	if err != nil {
		return nil, err
	}
	tree, err := encoder.Encode(v, opts...)
	if err != nil {
		return nil, err
	}
	return codec.Marshal(c.Name(), tree)
}

// Unmarshal reads a document in the named format and decodes reserved
// shapes (dates, pointers, objects, ops) into SDK values.
func Unmarshal(data []byte, format string) (any, error) {
	tree, err := codec.Read(format, data)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(tree)
}

// Transcode re-encodes a document with different encoding options and
// output format. It is what the payload command does for every input.
func Transcode(data []byte, inFormat, outFormat string, opts ...encoder.Option) ([]byte, error) {
	v, err := Unmarshal(data, inFormat)
	if err != nil {
		return nil, err
	}
	return Marshal(v, outFormat, opts...)
}
