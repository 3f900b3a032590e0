// Command shapecheck decodes a JSON or YAML document against one of the
// built-in demo shapes and reports either the normalized document or the
// full error chain.
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/shapecodec"
	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/record"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	shape    string
	format   string
	output   string
	naming   string
	color    string
	describe bool
	list     bool
	quiet    bool
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg config

	flagSet := pflag.NewFlagSet("shapecheck", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&cfg.shape, "shape", "s", "service", "demo shape to decode as (see --list)")
	flagSet.StringVarP(&cfg.format, "format", "f", "", "input format: json or yaml (default: from file extension)")
	flagSet.StringVarP(&cfg.output, "output", "o", "", "output format: json or yaml (default: input format)")
	flagSet.StringVar(&cfg.naming, "naming", "snake", "field naming for untagged fields: as-is, kebab, snake, camel")
	flagSet.StringVar(&cfg.color, "color", "auto", "colorize output: auto, always, never")
	flagSet.BoolVar(&cfg.describe, "describe", false, "print the compiled shape and exit")
	flagSet.BoolVar(&cfg.list, "list", false, "list demo shapes and exit")
	flagSet.BoolVarP(&cfg.quiet, "quiet", "q", false, "do not print the normalized document")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log schema compilation to stderr")
	flagSet.Usage = func() {
		fmt.Fprintln(stderr, "Usage: shapecheck [flags] [file|-]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		flagSet.Usage()
		return exitUsage
	}

	out := newStyles(stdout, cfg.color)
	if cfg.list {
		for _, name := range demoNames() {
			fmt.Fprintf(stdout, "%s  %s\n", out.name.Render(fmt.Sprintf("%-8s", name)), out.muted.Render(demos[name].help))
		}
		return exitOK
	}

	d, ok := demos[cfg.shape]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown shape %q (known: %s)\n", cfg.shape, strings.Join(demoNames(), ", "))
		return exitUsage
	}

	naming, ok := record.ParseNaming(cfg.naming)
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown naming %q\n", cfg.naming)
		return exitUsage
	}
	opts := codec.DefaultOptions()
	opts.Naming = naming
	if cfg.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "Error: create logger: %v\n", err)
			return exitUsage
		}
		defer func() { _ = logger.Sync() }()
		opts.Logger = logger
	}
	schema, err := newDemoSchema(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if cfg.describe {
		tree, err := schema.Describe(d.typ)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		fmt.Fprintln(stdout, out.title.Render(d.name))
		fmt.Fprint(stdout, tree)
		return exitOK
	}

	path := "-"
	switch rest := flagSet.Args(); len(rest) {
	case 0:
	case 1:
		path = rest[0]
	default:
		fmt.Fprintf(stderr, "Error: unexpected argument: %s\n", rest[1])
		return exitUsage
	}

	inFormat, err := resolveFormat(cfg.format, path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	outFormat := inFormat
	if cfg.output != "" {
		if outFormat, err = resolveFormat(cfg.output, ""); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	data, err := readInput(path, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	normalized, err := check(schema, d.typ, data, inFormat, outFormat)
	if err != nil {
		out.failure(stdout, d.name, err)
		return exitInvalid
	}
	fmt.Fprintln(stdout, out.ok.Render("OK")+" "+out.name.Render(d.name))
	if !cfg.quiet {
		fmt.Fprint(stdout, string(normalized))
	}
	return exitOK
}

func resolveFormat(flag, path string) (shapecodec.Format, error) {
	if flag == "" {
		return shapecodec.FormatOf(path), nil
	}
	f, err := shapecodec.ParseFormat(flag)
	if err != nil {
		return f, fmt.Errorf("unknown format %q: %w", flag, err)
	}
	return f, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// check decodes data as typ and re-encodes the result.
func check(schema *codec.Schema, typ reflect.Type, data []byte, in, out shapecodec.Format) ([]byte, error) {
	ptr := reflect.New(typ)
	if err := shapecodec.Unmarshal(in, data, ptr.Interface(), schema); err != nil {
		return nil, err
	}
	return shapecodec.Marshal(out, ptr.Elem().Interface(), schema)
}
