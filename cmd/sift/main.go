// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// sift is an fzf-style fuzzy picker over lines read from standard
// input. Items stream into the matcher while the interactive prompt is
// already running, so large inputs become searchable immediately.
//
//	git ls-files | sift --query "rs$"
//	ps aux | sift --multi | awk '{print $2}'
//
// The prompt renders to stderr in the alternate screen; the selection
// is printed to stdout, one item per line. Exit status: 0 when items
// were selected, 1 on a clean quit with no selection, 2 on abort or
// error.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sift-tui/sift/lib/layout"
	"github.com/sift-tui/sift/lib/picker"
	"github.com/sift-tui/sift/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("sift", pflag.ContinueOnError)
	flags.SortFlags = false

	query := flags.StringP("query", "q", "", "initial query string")
	multi := flags.BoolP("multi", "m", false, "enable multi-select (tab marks items)")
	limit := flags.Int("limit", 0, "maximum number of marked items (0 = unlimited)")
	noSort := flags.Bool("no-sort", false, "keep items in insertion order instead of ranking by score")
	tac := flags.Bool("tac", false, "rank newer items before older ones on ties")
	reversed := flags.Bool("reversed", false, "prompt at the top, best match below it")
	paths := flags.Bool("path", false, "tune scoring for path-like items")
	preferPrefix := flags.Bool("prefer-prefix", false, "favor matches near the start of items")
	caseMode := flags.String("case", "smart", "case matching: smart, ignore, or respect")
	normalization := flags.String("normalize", "smart", "diacritic folding: smart or never")
	read0 := flags.Bool("read0", false, "read NUL-delimited items instead of lines")
	print0 := flags.Bool("print0", false, "print the selection NUL-delimited")
	configPath := flags.String("config", "", "path to a JSONC config file (default: $SIFT_CONFIG)")
	logOutput := flags.String("log-output", "", "append JSON log records to this file")
	showVersion := flags.Bool("version", false, "print version and exit")
	help := flags.BoolP("help", "h", false, "show help")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flags)
			return 0
		}
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		return 2
	}
	if *help {
		printHelp(flags)
		return 0
	}
	if *showVersion {
		version.Print("sift")
		return 0
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logOutput != "" {
		logFile, err := os.OpenFile(*logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sift: opening log file: %v\n", err)
			return 2
		}
		defer logFile.Close()
		logger = slog.New(slog.NewJSONHandler(logFile, nil))
	}

	config := picker.DefaultConfig()

	path := *configPath
	if path == "" {
		path = os.Getenv("SIFT_CONFIG")
	}
	if path != "" {
		fileConfig, err := loadConfigFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sift: %v\n", err)
			return 2
		}
		if err := fileConfig.apply(&config); err != nil {
			fmt.Fprintf(os.Stderr, "sift: %s: %v\n", path, err)
			return 2
		}
		logger.Info("loaded config file", "path", path)
	}

	// Flags override the config file.
	config.Query = pick(flags.Changed("query"), *query, config.Query)
	if flags.Changed("multi") {
		config.MultiSelect = *multi
	}
	if flags.Changed("limit") {
		config.SelectionLimit = *limit
		config.MultiSelect = config.MultiSelect || *limit > 0
	}
	if flags.Changed("no-sort") {
		config.SortResults = !*noSort
	}
	if flags.Changed("tac") {
		config.ReverseItems = *tac
	}
	if flags.Changed("reversed") {
		config.Reversed = *reversed
	}
	if flags.Changed("path") {
		config.MatchPaths = *paths
	}
	if flags.Changed("prefer-prefix") {
		config.PreferPrefix = *preferPrefix
	}
	if flags.Changed("case") {
		mode, err := parseCaseMode(*caseMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sift: %v\n", err)
			return 2
		}
		config.CaseMatching = mode
	}
	if flags.Changed("normalize") {
		mode, err := parseNormalization(*normalization)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sift: %v\n", err)
			return 2
		}
		config.Normalization = mode
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "sift: no input: pipe items to standard input")
		return 2
	}

	p := picker.New[string](layout.StringRenderer{}, config)
	defer p.Close()

	injector := p.Injector()
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		if *read0 {
			scanner.Split(splitNul)
		}
		count := 0
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				injector.Push(line)
				count++
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("reading input", "error", err)
		}
		logger.Info("input drained", "items", count)
	}()

	items, err := p.Pick()
	switch {
	case err == nil && len(items) > 0:
		delimiter := byte('\n')
		if *print0 {
			delimiter = 0
		}
		out := bufio.NewWriter(os.Stdout)
		for _, item := range items {
			out.WriteString(item)
			out.WriteByte(delimiter)
		}
		out.Flush()
		return 0
	case err == nil:
		return 1
	case errors.Is(err, picker.ErrAborted):
		logger.Info("aborted by user")
		return 2
	case errors.Is(err, picker.ErrNotInteractive):
		fmt.Fprintln(os.Stderr, "sift: not a terminal")
		return 2
	default:
		logger.Error("pick failed", "error", err)
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		return 2
	}
}

// pick returns flagValue when the flag was set, fallback otherwise.
func pick(changed bool, flagValue, fallback string) string {
	if changed {
		return flagValue
	}
	return fallback
}

// splitNul is a bufio.SplitFunc for NUL-delimited input.
func splitNul(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == 0 {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func printHelp(flags *pflag.FlagSet) {
	fmt.Println("sift - interactive fuzzy picker over lines from standard input")
	fmt.Println()
	fmt.Println("Usage: <producer> | sift [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Print(flags.FlagUsages())
	fmt.Println()
	fmt.Println("Query syntax: whitespace-separated atoms, combined with AND.")
	fmt.Println("  foo     fuzzy match          'foo    exact substring")
	fmt.Println("  ^foo    prefix               foo$    suffix")
	fmt.Println("  ^foo$   exact whole line     !foo    exclude substring")
	fmt.Println("  Backslash escapes space, ', ^, $, ! and backslash.")
}
