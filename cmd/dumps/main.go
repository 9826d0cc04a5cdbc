// dumps encodes documents with configurable policies for byte strings,
// date/times, non-text keys and non-finite numbers.
//
// Usage:
//
//	dumps encode [flags] [FILE]   re-encode a JSON, JSONC, YAML, CBOR or MessagePack document
//	dumps decode [flags] [FILE]   parse JSON and print the outline of the value tree
//	dumps demo                    show the library on a mixed record
//
// FILE defaults to standard input.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/kootenpv/dumps"
	"github.com/kootenpv/dumps/codec"
	"github.com/kootenpv/dumps/source/gojson"
	"github.com/kootenpv/dumps/value"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env carries the process streams so subcommands can be driven from tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errors.New("missing subcommand")
	}
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	switch args[0] {
	case "encode":
		return encodeCmd(e, args[1:])
	case "decode":
		return decodeCmd(e, args[1:])
	case "demo":
		return demoCmd(e, args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	}
	usage(stderr)
	return errors.Newf("unknown subcommand %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprint(w, `dumps: JSON with policies for bytes, date/times, keys and floats

Usage:
  dumps encode [flags] [FILE]
  dumps decode [flags] [FILE]
  dumps demo

Run "dumps <command> --help" for the flags of a command.
`)
}

// newLogger writes text records to stderr; --verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func encodeCmd(e *env, args []string) error {
	fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var (
		cfgPath string
		format  string
		verbose bool
		flags   optionFlags
	)
	fs.StringVarP(&cfgPath, "config", "c", "", "YAML file with encoder options")
	fs.StringVarP(&format, "format", "f", "", "input format: json, jsonc, yaml, cbor, msgpack (default: from extension, else json)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if e.logger == nil {
		e.logger = newLogger(e.stderr, verbose)
	}

	cfg := Config{}
	if cfgPath != "" {
		var err error
		if cfg, err = LoadConfig(cfgPath); err != nil {
			return err
		}
		e.logger.Debug("loaded config", "path", cfgPath)
	}
	flags.apply(fs, &cfg)
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	name, data, err := readInput(e, fs.Args())
	if err != nil {
		return err
	}
	f := codec.JSON
	switch {
	case format != "":
		if f, err = codec.ParseFormat(format); err != nil {
			return err
		}
	case name != "":
		if guessed, ok := codec.FormatFromPath(name); ok {
			f = guessed
		}
	}
	e.logger.Debug("decoding input", "format", f, "bytes", len(data))

	tree, err := codec.Decode(f, data)
	if err != nil {
		return errors.Wrapf(err, "read %s input", f)
	}
	out, err := dumps.Marshal(tree, opts)
	if err != nil {
		return err
	}
	e.logger.Debug("encoded output", "bytes", len(out), "indent", opts.Indent)
	_, err = fmt.Fprintf(e.stdout, "%s\n", out)
	return err
}

func decodeCmd(e *env, args []string) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var (
		comments bool
		strict   bool
		driver   string
		maxDepth int
		verbose  bool
	)
	fs.BoolVar(&comments, "comments", false, "accept // and /* */ comments and trailing commas")
	fs.BoolVar(&strict, "strict-keys", false, "fail on duplicate object keys")
	fs.StringVar(&driver, "driver", "encoding/json", "tokenizer: encoding/json or go-json")
	fs.IntVar(&maxDepth, "max-depth", 0, "nesting limit (0: default, <0: unlimited)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if e.logger == nil {
		e.logger = newLogger(e.stderr, verbose)
	}

	opt := dumps.DecodeOptions{Comments: comments, MaxDepth: maxDepth}
	if strict {
		opt.DuplicateKeys = dumps.Fail
	}
	switch driver {
	case "encoding/json", "json":
	case "go-json", "gojson":
		opt.Driver = gojson.Driver()
	default:
		return errors.Newf("unknown driver %q", driver)
	}

	_, data, err := readInput(e, fs.Args())
	if err != nil {
		return err
	}
	v, err := dumps.Unmarshal(data, opt)
	if err != nil {
		if de, ok := dumps.AsError(err); ok {
			e.logger.Debug("decode failed", "code", de.Code, "offset", de.Offset, "path", de.Path)
		}
		return err
	}
	return writeOutline(e.stdout, "", v)
}

// writeOutline prints one line per node: its JSON Pointer, kind and size.
func writeOutline(w io.Writer, path string, v value.Value) error {
	ptr := path
	if ptr == "" {
		ptr = "/"
	}
	switch x := v.(type) {
	case value.Sequence:
		if _, err := fmt.Fprintf(w, "%s %s (%d items)\n", ptr, x.Kind(), len(x)); err != nil {
			return err
		}
		for i, el := range x {
			if err := writeOutline(w, fmt.Sprintf("%s/%d", path, i), el); err != nil {
				return err
			}
		}
		return nil
	case *value.Mapping:
		if _, err := fmt.Fprintf(w, "%s %s (%d entries)\n", ptr, x.Kind(), x.Len()); err != nil {
			return err
		}
		for i := 0; i < x.Len(); i++ {
			en := x.At(i)
			if err := writeOutline(w, path+"/"+escapePointer(en.Key), en.Value); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %s\n", ptr, v.Kind())
	return err
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }

// readInput returns the file name (empty for stdin) and its content.
func readInput(e *env, args []string) (string, []byte, error) {
	switch len(args) {
	case 0:
		data, err := io.ReadAll(e.stdin)
		return "", data, errors.Wrap(err, "read stdin")
	case 1:
		if args[0] == "-" {
			data, err := io.ReadAll(e.stdin)
			return "", data, errors.Wrap(err, "read stdin")
		}
		data, err := os.ReadFile(args[0])
		return args[0], data, errors.Wrapf(err, "read %s", args[0])
	}
	return "", nil, errors.Newf("expected at most one input file, got %d", len(args))
}
