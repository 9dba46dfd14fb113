// canonical - canonical value codec CLI tool
//
// Usage:
//
//	canonical to-plain [file]        Convert tagged JSON to plain JSON
//	canonical to-tagged [file]       Convert plain JSON to tagged JSON
//	canonical retype <chain> [file]  Convert plain JSON to tagged JSON with a root type chain
//	canonical inspect [file]         Decode tagged JSON and print the value tree
//	canonical version                Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/darlean-io/canonical/canonical"
)

const version = "0.1.0"

var logger zerolog.Logger

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	cfg := defaultToolConfig()
	fileArg := ""

	argStart := 2
	if cmd == "retype" {
		// The chain argument comes first: canonical retype <chain> [file]
		argStart = 3
	}
	var rest []string
	if len(os.Args) > argStart {
		rest = os.Args[argStart:]
	}
	for _, arg := range rest {
		switch {
		case arg == "--pretty":
			cfg.Pretty = true
		case strings.HasPrefix(arg, "--config="):
			loaded, err := loadToolConfig(strings.TrimPrefix(arg, "--config="))
			if err != nil {
				fatal("%v", err)
			}
			cfg = loaded
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	logger = initLogger(cfg.LogLevel)

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "to-plain":
		cmdToPlain(input, cfg)
	case "to-tagged":
		cmdToTagged(input, cfg)
	case "retype":
		if len(os.Args) < 3 {
			fatal("retype: missing type chain argument")
		}
		types, err := parseChainArg(os.Args[2])
		if err != nil {
			fatal("retype: %v", err)
		}
		cmdRetype(input, types, cfg)
	case "inspect":
		cmdInspect(input)
	case "version", "-v", "--version":
		fmt.Printf("canonical %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `canonical - canonical value codec CLI tool

Usage:
  canonical to-plain [options] [file]         Convert tagged JSON to plain JSON
  canonical to-tagged [options] [file]        Convert plain JSON to tagged JSON
  canonical retype <chain> [options] [file]   Convert plain JSON to tagged JSON with a root type chain
  canonical inspect [file]                    Decode tagged JSON and print the value tree
  canonical version                           Print version info

Options:
  --pretty            Indent the JSON output
  --config=PATH       Load options from a TOML file

If no file is given, reads from stdin.

Examples:
  echo '"Jantje (name.first-name s)"' | canonical to-plain
  # Output: "Jantje"

  echo '{"first-name":"Jantje"}' | canonical to-tagged
  # Output: {":first-name":"Jantje (- s)","type":"-"}

  echo '"Jantje"' | canonical retype name.first-name
  # Output: "Jantje (name.first-name s)"
`)
}

func initLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "canonical").Logger()
}

// cmdToPlain: tagged JSON -> plain JSON. Logical type information is
// dropped, per the plain encoding.
func cmdToPlain(r io.Reader, cfg toolConfig) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	c, err := canonical.DecodeTagged(data)
	if err != nil {
		fatal("decode tagged: %v", err)
	}
	logger.Debug().Str("physical", c.PhysicalType().String()).Msg("decoded value")

	out, err := canonical.EncodePlain(c)
	if err != nil {
		fatal("encode plain: %v", err)
	}
	emit(out, cfg)
}

// cmdToTagged: plain JSON -> tagged JSON. The decoded value is
// type-inferring, so the emitted annotations carry no logical types.
func cmdToTagged(r io.Reader, cfg toolConfig) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	c, err := canonical.DecodePlain(data)
	if err != nil {
		fatal("decode plain: %v", err)
	}

	out, err := canonical.EncodeTagged(c)
	if err != nil {
		fatal("encode tagged: %v", err)
	}
	emit(out, cfg)
}

// parseChainArg parses the retype chain argument: dot-joined type names,
// most general first. Flag-shaped arguments are rejected so a misplaced
// option is not silently taken as the chain.
func parseChainArg(chain string) ([]string, error) {
	if strings.HasPrefix(chain, "-") {
		return nil, fmt.Errorf("expected a type chain, got flag %q", chain)
	}
	types := strings.Split(chain, ".")
	for _, t := range types {
		if t == "" {
			return nil, fmt.Errorf("invalid type chain %q", chain)
		}
	}
	return types, nil
}

// cmdRetype: plain JSON -> tagged JSON with the given chain on the root.
func cmdRetype(r io.Reader, types []string, cfg toolConfig) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	c, err := canonical.DecodePlain(data)
	if err != nil {
		fatal("decode plain: %v", err)
	}

	out, err := canonical.EncodeTagged(canonical.WithTypes(c, types...))
	if err != nil {
		fatal("encode tagged: %v", err)
	}
	emit(out, cfg)
}

// cmdInspect: decode tagged JSON and print one line per node.
func cmdInspect(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	c, err := canonical.DecodeTagged(data)
	if err != nil {
		fatal("decode tagged: %v", err)
	}
	inspect(c, "$", 0)
}

func inspect(c canonical.Canonical, path string, depth int) {
	indent := strings.Repeat("  ", depth)
	chain := strings.Join(c.LogicalTypes(), ".")
	if chain == "" {
		chain = "-"
	}

	switch c.PhysicalType() {
	case canonical.TypeSequence:
		n, _ := c.Size()
		fmt.Printf("%s%s: sequence (%s) len=%d\n", indent, path, chain, n)
		it, err := c.FirstSequenceItem()
		if err != nil {
			fatal("walk %s: %v", path, err)
		}
		for i := 0; it != nil; it, i = it.Next(), i+1 {
			inspect(it.Value(), fmt.Sprintf("[%d]", i), depth+1)
		}
	case canonical.TypeMapping:
		n, _ := c.Size()
		fmt.Printf("%s%s: mapping (%s) len=%d\n", indent, path, chain, n)
		it, err := c.FirstMappingEntry()
		if err != nil {
			fatal("walk %s: %v", path, err)
		}
		for ; it != nil; it = it.Next() {
			inspect(it.Value(), it.Key(), depth+1)
		}
	default:
		fmt.Printf("%s%s: %s (%s) = %s\n", indent, path, c.PhysicalType(), chain, leafLiteral(c))
	}
}

func leafLiteral(c canonical.Canonical) string {
	data, err := canonical.EncodePlain(c)
	if err != nil {
		return "?"
	}
	return string(data)
}

func emit(out []byte, cfg toolConfig) {
	if cfg.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", cfg.Indent); err == nil {
			out = buf.Bytes()
		}
	}
	fmt.Println(string(out))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "canonical: "+format+"\n", args...)
	os.Exit(1)
}
