package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zalepa/benito/config"
	"github.com/zalepa/benito/logger"
	"github.com/zalepa/benito/parser"
)

// setup loads configuration and builds the command logger. Invalid
// configuration is fatal.
func setup() (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg, log
}

// resolveFormat uses formatName when given, otherwise the file extension.
func resolveFormat(path, formatName string) (parser.Format, error) {
	if formatName != "" {
		return parser.ParseFormat(formatName)
	}
	return parser.FormatFromPath(path)
}

// loadFile reads and normalizes one report. Dropped rows are logged and
// returned in the result; only an unreadable file is an error.
func loadFile(path, formatName string, log zerolog.Logger) (parser.Result, error) {
	format, err := resolveFormat(path, formatName)
	if err != nil {
		return parser.Result{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return parser.Result{}, err
	}
	res, err := parser.Normalize(raw, format)
	if err != nil {
		return parser.Result{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	logger.Diagnostics(log, filepath.Base(path), res.Warnings)
	log.Debug().
		Str("source", filepath.Base(path)).
		Str("format", string(format)).
		Int("records", len(res.Records)).
		Int("warnings", len(res.Warnings)).
		Msg("normalized report")
	return res, nil
}

// mustLoad is loadFile for commands: failure to read the source is fatal.
func mustLoad(path, formatName string, log zerolog.Logger) parser.Result {
	res, err := loadFile(path, formatName, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading data: %v\n", err)
		os.Exit(1)
	}
	return res
}

// reorderArgs moves positional arguments to the end so that Go's flag package
// can parse all flags regardless of where a positional file argument appears.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			// Consume the next arg as the flag's value unless it looks like a
			// flag itself or the flag is a boolean switch.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && !strings.Contains(args[i], "=") && !boolFlags[strings.TrimLeft(args[i], "-")] {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

// flagGiven reports whether name was set on the command line.
func flagGiven(fs *flag.FlagSet, name string) bool {
	given := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			given = true
		}
	})
	return given
}

// boolFlags lists switches that never take a separate value.
var boolFlags = map[string]bool{
	"strict": true,
	"force":  true,
}
