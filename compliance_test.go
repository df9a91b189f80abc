// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"flag"
	"io"
	"io/fs"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/creachadair/jsift"
	"github.com/creachadair/jsift/ast"
	"github.com/creachadair/jsift/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

var (
	runCompliance = flag.Bool("compliance-test", false,
		"Run the JSONTestSuite compliance cases")
	complianceRepo = flag.String("compliance-test-repo", "https://github.com/nst/JSONTestSuite",
		"Repository holding the compliance cases")
)

// The cases come from the article "Parsing JSON is a Minefield",
// https://seriot.ch/projects/parsing_json.html. Accepted (y_) and rejected
// (n_) cases are checked; implementation-defined (i_) cases are not.
const suiteArchive = "hard-test-suite.zip"

// openSuite returns the parsing cases of the suite archive, keyed by case
// name. The archive is downloaded on first use and cached in the working
// directory.
func openSuite(t *testing.T) map[string]*zip.File {
	t.Helper()
	data, err := os.ReadFile(suiteArchive)
	if errors.Is(err, fs.ErrNotExist) {
		data = fetchSuite(t)
		if err := os.WriteFile(suiteArchive, data, 0644); err != nil {
			t.Logf("WARNING: caching archive: %v", err)
		}
	} else if err != nil {
		t.Fatalf("Read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Open archive: %v", err)
	}
	cases := make(map[string]*zip.File)
	for _, f := range zr.File {
		_, tail, ok := strings.Cut(f.Name, "/test_parsing/")
		if ok && filepath.Ext(tail) == ".json" {
			cases[strings.TrimSuffix(tail, ".json")] = f
		}
	}
	return cases
}

func fetchSuite(t *testing.T) []byte {
	t.Helper()
	url := *complianceRepo + "/archive/refs/heads/master.zip"
	t.Logf("Fetching %q ...", url)
	rsp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer rsp.Body.Close()
	if ctype := rsp.Header.Get("content-type"); ctype != "application/zip" {
		t.Fatalf("Unexpected content-type: %q", ctype)
	}
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		t.Fatalf("Read archive: %v", err)
	}
	return data
}

// readCase returns the contents of zf, failing the test if it cannot be read.
func readCase(t *testing.T, zf *zip.File) []byte {
	t.Helper()
	rc, err := zf.Open()
	if err != nil {
		t.Fatalf("Open %q: %v", zf.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Read %q: %v", zf.Name, err)
	}
	return data
}

// parseCase parses chunks as a single document.
func parseCase(chunks [][]byte) (ast.Value, error) {
	var v ast.Value
	var err error
	for got, perr := range jsift.NewParser().Write(tokenSeq(chunks)) {
		v, err = got, perr
	}
	if err == nil && v == nil {
		err = errors.New("no value in input")
	}
	return v, err
}

// Duplicate keys are accepted by the test suite, but rejected here.
var knownStrict = map[string]bool{
	"y_object_duplicated_key":           true,
	"y_object_duplicated_key_and_value": true,
}

func TestCompliance(t *testing.T) {
	if !*runCompliance {
		t.Skip("Skipping compliance test because --compliance-test is false")
	}
	cases := openSuite(t)
	var numYes, numYesErrs, numNo, numNoErrs int
	for _, name := range slices.Sorted(maps.Keys(cases)) {
		f := cases[name]
		switch {
		case knownStrict[name]:
			t.Logf("Skipped %q: duplicate keys are rejected", name)

		case strings.HasPrefix(name, "y_"):
			numYes++
			t.Run(name, func(t *testing.T) {
				data := readCase(t, f)
				whole, err := parseCase([][]byte{data})
				if err != nil {
					numYesErrs++
					t.Fatalf("Parse: unexpected error: %v", err)
				}

				// The result must not depend on how the input is chunked.
				split, err := parseCase(testutil.Bytewise(string(data)))
				if err != nil {
					numYesErrs++
					t.Fatalf("Parse bytewise: unexpected error: %v", err)
				}
				if diff := cmp.Diff(whole.JSON(), split.JSON()); diff != "" {
					numYesErrs++
					t.Errorf("Parse bytewise (-want, +got):\n%s", diff)
				}
			})

		case strings.HasPrefix(name, "n_"):
			numNo++
			t.Run(name, func(t *testing.T) {
				data := readCase(t, f)
				for _, chunks := range [][][]byte{{data}, testutil.Bytewise(string(data))} {
					if v, err := parseCase(chunks); err == nil {
						numNoErrs++
						t.Fatalf("Parse %d chunks: got %v, want error", len(chunks), v)
					}
				}
			})
		}
	}
	t.Logf("Accepted cases: %d run, %d failed", numYes, numYesErrs)
	t.Logf("Rejected cases: %d run, %d failed", numNo, numNoErrs)
}
