// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jsift"
	"github.com/creachadair/jsift/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

// scanAll collects the JSON text of each value from s, and the terminal
// error if any.
func scanAll(s *jsift.Scanner) ([]string, error) {
	var got []string
	for v, err := range s.Scan(context.Background()) {
		if err != nil {
			return got, err
		}
		got = append(got, v.JSON())
	}
	return got, nil
}

const multiInput = `{"a":1} [2]"s" 3 true null{}{"b":{"c":[]}}-0.5
[ ]`

var multiWant = []string{
	`{"a":1}`, `[2]`, `"s"`, `3`, `true`, `null`, `{}`, `{"b":{"c":[]}}`, `-0.5`, `[]`,
}

func TestScannerDocuments(t *testing.T) {
	sources := map[string]func() *jsift.Source{
		"bytes": func() *jsift.Source { return jsift.FromBytes([]byte(multiInput)) },
		"bytewise": func() *jsift.Source {
			return jsift.FromChunks(testutil.Seq(testutil.Bytewise(multiInput)))
		},
		"chunks": func() *jsift.Source {
			return jsift.FromChunks(testutil.Seq(testutil.Chunks(multiInput, 5)))
		},
		"reader": func() *jsift.Source {
			return jsift.FromReader(iotest.OneByteReader(strings.NewReader(multiInput)), 0)
		},
		"small": func() *jsift.Source { return jsift.FromReader(strings.NewReader(multiInput), 3) },
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			got, err := scanAll(jsift.NewScanner(src()))
			if err != nil {
				t.Fatalf("Scan: unexpected error: %v", err)
			}
			if diff := cmp.Diff(multiWant, got); diff != "" {
				t.Errorf("Scan (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestScannerEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n\t "} {
		got, err := scanAll(jsift.NewScanner(jsift.FromBytes([]byte(input))))
		if err != nil || len(got) != 0 {
			t.Errorf("Scan %#q: got (%q, %v), want no values", input, got, err)
		}
	}
}

func TestScannerTake(t *testing.T) {
	const input = `{"a": {"b": 1, "c": 2}, "d": 3} {"a": [{"b": 4}], "e": 5} 6`
	s := jsift.NewScanner(jsift.FromBytes([]byte(input)))
	if err := s.Take("a.b"); err != nil {
		t.Fatalf("Take: %v", err)
	}
	got, err := scanAll(s)
	if err != nil {
		t.Fatalf("Scan: unexpected error: %v", err)
	}
	want := []string{`{"a":{"b":1}}`, `{"a":[{"b":4}]}`, `6`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan (-want, +got):\n%s", diff)
	}
}

func TestScannerTakeError(t *testing.T) {
	s := jsift.NewScanner(jsift.FromBytes(nil))
	if err := s.Take("a..b"); err == nil {
		t.Error("Take: got nil, want error")
	}
}

func TestScannerTakeAfterScan(t *testing.T) {
	const input = `{"a":1,"b":2} {"a":3,"b":4}`
	s := jsift.NewScanner(jsift.FromChunks(testutil.Seq(testutil.Bytewise(input))))

	var got []string
	for v, err := range s.Scan(context.Background()) {
		if err != nil {
			t.Fatalf("Scan: unexpected error: %v", err)
		}
		got = append(got, v.JSON())
		if err := s.Take("a"); !errors.Is(err, jsift.ErrRegistrationClosed) {
			t.Errorf("Take: got %v, want %v", err, jsift.ErrRegistrationClosed)
		}
		if err := s.YieldEachValue("a"); !errors.Is(err, jsift.ErrRegistrationClosed) {
			t.Errorf("YieldEachValue: got %v, want %v", err, jsift.ErrRegistrationClosed)
		}
		if err := s.YieldEachEntry(""); !errors.Is(err, jsift.ErrRegistrationClosed) {
			t.Errorf("YieldEachEntry: got %v, want %v", err, jsift.ErrRegistrationClosed)
		}
	}
	want := []string{`{"a":1,"b":2}`, `{"a":3,"b":4}`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan (-want, +got):\n%s", diff)
	}
}

func TestScannerEachValue(t *testing.T) {
	const input = `{"items": [{"id": 1, "x": 1}, {"id": 2, "x": 2}], "n": 0}
{"items": [3], "other": [4]}`
	tests := []struct {
		takes []string
		want  []string
	}{
		{nil, []string{`{"id":1,"x":1}`, `{"id":2,"x":2}`, `3`}},
		{[]string{"id"}, []string{`{"id":1}`, `{"id":2}`, `3`}},
		{[]string{"x", "id"}, []string{`{"id":1,"x":1}`, `{"id":2,"x":2}`, `3`}},
	}
	for _, test := range tests {
		s := jsift.NewScanner(jsift.FromChunks(testutil.Seq(testutil.Bytewise(input))))
		if err := s.YieldEachValue("items"); err != nil {
			t.Fatalf("YieldEachValue: %v", err)
		}
		for _, take := range test.takes {
			if err := s.Take(take); err != nil {
				t.Fatalf("Take %q: %v", take, err)
			}
		}
		got, err := scanAll(s)
		if err != nil {
			t.Fatalf("Scan: unexpected error: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan %q (-want, +got):\n%s", test.takes, diff)
		}
	}
}

func TestScannerEachEntry(t *testing.T) {
	const input = `{"a": 1, "b": [2], "c": {"d": null}}`
	tests := []struct {
		takes []string
		want  []string
	}{
		{nil, []string{`["a",1]`, `["b",[2]]`, `["c",{"d":null}]`}},
		{[]string{"a", "c"}, []string{`["a",1]`, `["c",{"d":null}]`}},
	}
	for _, test := range tests {
		s := jsift.NewScanner(jsift.FromBytes([]byte(input)))
		if err := s.YieldEachEntry(""); err != nil {
			t.Fatalf("YieldEachEntry: %v", err)
		}
		for _, take := range test.takes {
			if err := s.Take(take); err != nil {
				t.Fatalf("Take %q: %v", take, err)
			}
		}
		got, err := scanAll(s)
		if err != nil {
			t.Fatalf("Scan: unexpected error: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan %q (-want, +got):\n%s", test.takes, diff)
		}
	}
}

func TestScannerEachMode(t *testing.T) {
	s := jsift.NewScanner(jsift.FromBytes(nil))
	if err := s.YieldEachValue("a"); err != nil {
		t.Fatalf("YieldEachValue: %v", err)
	}
	if err := s.YieldEachEntry("a"); err == nil {
		t.Error("YieldEachEntry after YieldEachValue: got nil, want error")
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		want  []string
		err   error
	}{
		{`{"a":1} {"b":`, []string{`{"a":1}`}, jsift.ErrUnexpectedChar},
		{`[1] [2,]`, []string{`[1]`}, jsift.ErrInvalidTransition},
		{`{"k":1,"k":2}`, nil, nil},
		{`"ok" tru`, []string{`"ok"`}, jsift.ErrInvalidTransition},
	}
	for _, test := range tests {
		got, err := scanAll(jsift.NewScanner(jsift.FromBytes([]byte(test.input))))
		if err == nil {
			t.Errorf("Scan %#q: got %q, want error", test.input, got)
		} else if test.err != nil && !errors.Is(err, test.err) {
			t.Errorf("Scan %#q: got error %v, want %v", test.input, err, test.err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan %#q (-want, +got):\n%s", test.input, diff)
		}
	}
}

func TestSourceClaimed(t *testing.T) {
	src := jsift.FromBytes([]byte(`1`))
	if got, err := scanAll(jsift.NewScanner(src)); err != nil {
		t.Fatalf("First scan: got (%q, %v)", got, err)
	}
	if _, err := scanAll(jsift.NewScanner(src)); !errors.Is(err, jsift.ErrSourceClaimed) {
		t.Errorf("Second scan: got %v, want %v", err, jsift.ErrSourceClaimed)
	}
}

func TestSourceClaimedConcurrent(t *testing.T) {
	const numScanners = 16
	src := jsift.FromBytes([]byte(`[1, 2, 3]`))

	var wg sync.WaitGroup
	errs := make([]error, numScanners)
	for i := range numScanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = scanAll(jsift.NewScanner(src))
		}()
	}
	wg.Wait()

	var ok, claimed int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, jsift.ErrSourceClaimed):
			claimed++
		default:
			t.Errorf("Scan: unexpected error: %v", err)
		}
	}
	if ok != 1 || claimed != numScanners-1 {
		t.Errorf("Got %d successful and %d claimed, want 1 and %d", ok, claimed, numScanners-1)
	}
}

func TestSourceNotBytes(t *testing.T) {
	src := jsift.FromChunks(testutil.Seq([]any{[]byte(`[1,`), "2]"}))
	got, err := scanAll(jsift.NewScanner(src))
	if !errors.Is(err, jsift.ErrNotBytes) {
		t.Errorf("Scan: got error %v, want %v", err, jsift.ErrNotBytes)
	}
	if len(got) != 0 {
		t.Errorf("Scan: got values %q, want none", got)
	}
}

func TestSourceReadError(t *testing.T) {
	boom := errors.New("boom")
	got, err := scanAll(jsift.NewScanner(jsift.FromReader(iotest.ErrReader(boom), 0)))
	if !errors.Is(err, boom) {
		t.Errorf("Scan: got (%q, %v), want %v", got, err, boom)
	}
}

func TestScannerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := jsift.NewScanner(jsift.FromBytes([]byte(`{}`)))
	for v, err := range s.Scan(ctx) {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Scan: got (%v, %v), want %v", v, err, context.Canceled)
		}
	}
}

func TestScannerEarlyStop(t *testing.T) {
	s := jsift.NewScanner(jsift.FromBytes([]byte(multiInput)))
	var n int
	for _, err := range s.Scan(context.Background()) {
		if err != nil {
			t.Fatalf("Scan: unexpected error: %v", err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("Got %d values, want 2", n)
	}
}

func TestParse(t *testing.T) {
	vs, err := jsift.Parse(strings.NewReader(`{"a": 1, "b": 2} {"b": 3}`), "b")
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.JSON())
	}
	if diff := cmp.Diff([]string{`{"b":2}`, `{"b":3}`}, got); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}

	if _, err := jsift.Parse(strings.NewReader(`[}`)); !errors.Is(err, jsift.ErrUnexpectedChar) {
		t.Errorf("Parse: got error %v, want %v", err, jsift.ErrUnexpectedChar)
	}
	if _, err := jsift.Parse(strings.NewReader(`1`), "a."); err == nil {
		t.Error("Parse with bad path: got nil, want error")
	}
}
