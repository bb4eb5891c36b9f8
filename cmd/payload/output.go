package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/payload"
	"github.com/wippyai/payload/codec"
)

// transcode decodes data and encodes it again with cfg, then compresses.
func transcode(data []byte, cfg config, logger *zap.Logger) ([]byte, error) {
	logger.Debug("transcode",
		zap.String("input_format", cfg.InputFormat),
		zap.String("format", cfg.Format),
		zap.String("compress", cfg.Compress),
		zap.Int("bytes", len(data)))

	out, err := payload.Transcode(data, cfg.InputFormat, cfg.Format, cfg.encoderOptions(logger)...)
	if err != nil {
		return nil, err
	}
	packed, err := codec.Compress(cfg.Compress, out)
	if err != nil {
		return nil, err
	}
	logger.Debug("transcoded", zap.Int("bytes", len(out)), zap.Int("compressed", len(packed)))
	return packed, nil
}

// textual reports whether cfg produces printable output.
func (c config) textual() bool {
	if c.Compress != "" && c.Compress != codec.CompressionNone {
		return false
	}
	return c.Format != "cbor"
}

// render applies --pretty: JSON output is indented, and printable output
// is syntax highlighted when it goes to a terminal.
func render(out []byte, cfg config, tty bool) []byte {
	if !cfg.Pretty || !cfg.textual() {
		return out
	}
	lang := "yaml"
	if cfg.Format != "yaml" {
		lang = "json"
		var buf bytes.Buffer
		if err := gojson.Indent(&buf, out, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	if !tty {
		return out
	}
	var hl strings.Builder
	if err := quick.Highlight(&hl, string(out), lang, "terminal256", "monokai"); err != nil {
		return out
	}
	return []byte(hl.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
