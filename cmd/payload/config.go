package main

import (
	"bytes"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/wippyai/payload/codec"
	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
)

// config holds the transcoding settings shared by flags and the config
// file.
type config struct {
	InputFormat     string `json:"input_format"`
	Format          string `json:"format"`
	DisallowObjects bool   `json:"disallow_objects"`
	ForcePointers   bool   `json:"force_pointers"`
	Offline         bool   `json:"offline"`
	MaxDepth        int    `json:"max_depth"`
	Compress        string `json:"compress"`
	Pretty          bool   `json:"pretty"`
}

func defaultConfig() config {
	return config{
		InputFormat: "json",
		Format:      "json",
		MaxDepth:    encoder.DefaultMaxDepth,
		Compress:    codec.CompressionNone,
	}
}

// loadConfig reads a JSONC settings file. Unknown keys are rejected.
func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	var cfg config
	dec := gojson.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse "+path)
	}
	return cfg, nil
}

func (c config) withDefaults() config {
	def := defaultConfig()
	if c.InputFormat == "" {
		c.InputFormat = def.InputFormat
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.Compress == "" {
		c.Compress = def.Compress
	}
	return c
}

// override copies every flag the user set explicitly from f into c.
func (c config) override(f config, changed func(string) bool) config {
	if changed("input-format") {
		c.InputFormat = f.InputFormat
	}
	if changed("format") {
		c.Format = f.Format
	}
	if changed("disallow-objects") {
		c.DisallowObjects = f.DisallowObjects
	}
	if changed("force-pointers") {
		c.ForcePointers = f.ForcePointers
	}
	if changed("offline") {
		c.Offline = f.Offline
	}
	if changed("max-depth") {
		c.MaxDepth = f.MaxDepth
	}
	if changed("compress") {
		c.Compress = f.Compress
	}
	if changed("pretty") {
		c.Pretty = f.Pretty
	}
	return c
}

func (c config) encoderOptions(logger *zap.Logger) []encoder.Option {
	return []encoder.Option{
		encoder.DisallowObjects(c.DisallowObjects),
		encoder.ForcePointers(c.ForcePointers),
		encoder.Offline(c.Offline),
		encoder.MaxDepth(c.MaxDepth),
		encoder.WithLogger(logger),
	}
}
