// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jsift reads streams of JSON documents and prints the values
// selected from them, one per line.
//
// Usage:
//
//	jsift [options] [file ...]
//
// With no files, or a file named "-", jsift reads standard input.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/creachadair/jsift"
	"github.com/creachadair/jsift/internal/config"
	"github.com/creachadair/jsift/shape"
)

var (
	configFile = flag.String("config", "", "Read settings from this YAML file")
	listPaths  = flag.Bool("list-paths", false, "Print the key paths of the -sample file and exit")
	verbose    = flag.Bool("v", false, "Log progress to stderr")

	flagConfig config.Config
)

func init() {
	flagConfig.Bind(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage: %[1]s [options] [file ...]

Read JSON documents from each file (or stdin) and print the values selected,
one per line. Paths are keys separated by periods ("a.b.c"), or key path
expressions beginning with "$" ("$.a['b.c'][*].d").

Options:
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix(filepath.Base(os.Args[0]) + ": ")

	cfg := config.Default()
	if *configFile != "" {
		fc, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Loading config: %v", err)
		}
		cfg.Override(fc)
	}
	cfg.Override(&flagConfig)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	if cfg.Sample != "" {
		if err := checkSample(cfg, os.Stdout); err != nil {
			log.Fatalf("Checking sample: %v", err)
		}
		if *listPaths {
			return
		}
	} else if *listPaths {
		log.Fatal("The -list-paths flag requires -sample")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	files := flag.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		if err := scanFile(ctx, cfg, name, out); err != nil {
			out.Flush()
			log.Fatalf("Scanning %s: %v", name, err)
		}
	}
}

// checkSample verifies the paths of cfg against the sample file. If the
// -list-paths flag is set, it also writes the paths of the sample to w.
func checkSample(cfg *config.Config, w io.Writer) error {
	f, err := os.Open(cfg.Sample)
	if err != nil {
		return err
	}
	defer f.Close()
	vs, err := jsift.Parse(f)
	if err != nil {
		return err
	} else if len(vs) == 0 {
		return fmt.Errorf("no value in %s", cfg.Sample)
	}
	if *listPaths {
		for _, p := range shape.Paths(vs[0]) {
			fmt.Fprintln(w, p)
		}
	}
	paths, err := cfg.Paths()
	if err != nil {
		return err
	}
	return shape.Check(vs[0], paths...)
}

// scanFile scans the named file, or stdin if name is "-", and writes each
// value to w.
func scanFile(ctx context.Context, cfg *config.Config, name string, w io.Writer) error {
	r := io.Reader(os.Stdin)
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return scan(ctx, cfg, r, w)
}

// scan writes each value selected by cfg from r to w, one per line.
func scan(ctx context.Context, cfg *config.Config, r io.Reader, w io.Writer) error {
	s := jsift.NewScanner(jsift.FromReader(r, cfg.ChunkSize))
	if err := cfg.Apply(s); err != nil {
		return err
	}
	var n int
	for v, err := range s.Scan(ctx) {
		if err != nil {
			return err
		}
		n++
		if _, err := fmt.Fprintln(w, v.JSON()); err != nil {
			return err
		}
	}
	if *verbose {
		log.Printf("Wrote %d values", n)
	}
	return nil
}
