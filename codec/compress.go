package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/payload/errors"
)

// Compression names accepted by Compress and Decompress.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// zstd.Encoder and zstd.Decoder are safe for concurrent use with
// EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// Compressions lists the accepted compression names.
func Compressions() []string {
	return []string{CompressionNone, CompressionZstd, CompressionLZ4}
}

// Compress compresses data with the named algorithm. lz4 output uses the
// frame format, so it is self-delimiting and readable by the lz4 tool.
func Compress(name string, data []byte) ([]byte, error) {
	switch name {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, compressErr(name, err)
		}
		if err := w.Close(); err != nil {
			return nil, compressErr(name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, errors.NotFound(errors.PhaseCodec, "compression", name)
}

// Decompress reverses Compress.
func Decompress(name string, data []byte) ([]byte, error) {
	switch name {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, compressErr(name, err)
		}
		return out, nil
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, compressErr(name, err)
		}
		return out, nil
	}
	return nil, errors.NotFound(errors.PhaseCodec, "compression", name)
}

func compressErr(name string, err error) error {
	return errors.New(errors.PhaseCodec, errors.KindInvalidData).
		Cause(err).
		Detail("%s stream", name).
		Build()
}
