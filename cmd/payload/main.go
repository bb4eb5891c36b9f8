// payload reads a wire payload document, decodes it into SDK values and
// re-encodes it with the requested encoding modes and output format.
//
// Usage:
//
//	payload --in body.json --force-pointers
//	payload --in body.yaml --input-format yaml --format cbor --compress zstd --out body.cbor.zst
//	payload --in body.json -i
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/payload/codec"
	"github.com/wippyai/payload/encoder"
)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FF6B6B"))

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		flags       config
		inPath      string
		outPath     string
		configPath  string
		verbose     bool
		interactive bool
	)

	fs := pflag.NewFlagSet("payload", pflag.ContinueOnError)
	fs.StringVar(&inPath, "in", "", "input document (default: stdin)")
	fs.StringVar(&flags.InputFormat, "input-format", "json", "input format: json, jsonc, go-json, yaml, cbor")
	fs.StringVar(&flags.Format, "format", "json", "output format: "+strings.Join(codec.Names(), ", "))
	fs.BoolVar(&flags.DisallowObjects, "disallow-objects", false, "fail on any domain object")
	fs.BoolVar(&flags.ForcePointers, "force-pointers", false, "write every domain object as a pointer")
	fs.BoolVar(&flags.Offline, "offline", false, "write locally identified objects as offline pointers")
	fs.IntVar(&flags.MaxDepth, "max-depth", encoder.DefaultMaxDepth, "maximum encode depth")
	fs.StringVar(&flags.Compress, "compress", codec.CompressionNone, "compress output: "+strings.Join(codec.Compressions(), ", "))
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	fs.BoolVar(&flags.Pretty, "pretty", false, "indent JSON output and highlight it on terminals")
	fs.StringVar(&configPath, "config", "", "JSONC file with default settings")
	fs.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	fs.BoolVarP(&interactive, "interactive", "i", false, "interactive mode with TUI")
	fs.BoolP("help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs)
			return nil
		}
		return err
	}
	if help, _ := fs.GetBool("help"); help {
		printHelp(fs)
		return nil
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg := defaultConfig()
	if configPath != "" {
		file, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = file.withDefaults()
	}
	cfg = cfg.override(flags, fs.Changed)

	data, err := readInput(inPath, stdin)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(inPath, data, cfg)
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out, err := transcode(data, cfg, logger)
	if err != nil {
		return err
	}
	if outPath == "" {
		out = render(out, cfg, isTerminal(stdout))
		_, err = stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, render(out, cfg, false), 0o644)
}

func printHelp(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `payload re-encodes SDK wire payloads.

Reads a document, decodes dates, pointers, objects and ops into SDK
values, then encodes them again with the selected modes and format.
Settings from --config apply unless the matching flag is given.

Usage:
  payload [flags]

Flags:
%s`, fs.FlagUsages())
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
