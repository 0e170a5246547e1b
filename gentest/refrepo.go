// Package gentest checks the output of Go tests against rule files that
// were recorded from an earlier output.
//
// Example reads the rules from testdata/TestServe.yaml:
//
//	func TestServe(t *testing.T) {
//		var log bytes.Buffer
//		serve(&log)
//		gentest.Error(t, "", &log)
//	}
//
// Rule file, recorded with TEXGEN_RECORD=TestServe and then edited:
//
//	version: 1
//	rules:
//	  - id: start
//	    regex: '\d{2}:\d{2}:\d{2} INFO +listening on (?P<addr>\S+)'
//	  - id: request
//	    regex: '\d{2}:\d{2}:\d{2} DEBUG +GET /\S*'
//	    repeat: true
package gentest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fractalqb/texgen/verify"
)

// When this environment variable is set to a regexp and the name of the current
// test matches calls to Error or Fatal will record the subj as new rule file
// instead of comparing it. E.g.
//
//	TEXGEN_RECORD=TestRecording go test .
const RecordEnv = "TEXGEN_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go help
// test).
const GoTestdataDir = "testdata"

func Error(t testing.TB, hint string, subj io.Reader) error {
	return defaultConfig.Error(t, hint, subj)
}

func Fatal(t testing.TB, hint string, subj io.Reader) {
	defaultConfig.Fatal(t, hint, subj)
}

func Record(t testing.TB, hint string, subj io.Reader) {
	defaultConfig.Record(t, hint, subj)
}

type RefRepo struct {
	Dir    string
	Suffix string
}

const (
	StdSuffix = ".yaml"
	NoSuffix  = "\x00"
)

func (rr RefRepo) Filename(t testing.TB, hint string) string {
	suffix := rr.Suffix
	switch suffix {
	case "":
		suffix = StdSuffix
	case NoSuffix:
		suffix = ""
	}
	if hint == "" {
		return filepath.Join(rr.Dir, t.Name()+suffix)
	}
	if suffix == "" || strings.HasSuffix(hint, suffix) {
		return filepath.Join(rr.Dir, t.Name(), hint)
	}
	return filepath.Join(rr.Dir, t.Name(), hint+suffix)
}

type Config struct {
	RefFileName     func(t testing.TB, hint string) string
	MismatchLimit   int
	RecordOverwrite bool
	// Label is used for variable names when recording.
	Label string
}

var defaultConfig = Config{
	RefFileName:     RefRepo{Dir: GoTestdataDir}.Filename,
	MismatchLimit:   1,
	RecordOverwrite: false,
}

func (cfg Config) Error(t testing.TB, hint string, subj io.Reader) error {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, subj)
		return nil
	}
	err := cfg.compare(t, hint, subj)
	if err != nil {
		t.Error(err)
	}
	return err
}

func (cfg Config) Fatal(t testing.TB, hint string, subj io.Reader) {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, subj)
	} else if err := cfg.compare(t, hint, subj); err != nil {
		t.Fatal(err)
	}
}

func recordTest(t testing.TB) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("gentest: invalid regexp '%s' in %s, not recording: %s", rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

func (cfg *Config) compare(t testing.TB, hint string, subj io.Reader) error {
	reffile := cfg.RefFileName(t, hint)
	if _, err := os.Stat(reffile); os.IsNotExist(err) {
		t.Logf("to record a rule file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv,
			t.Name(),
		)
		return fmt.Errorf("rule file %s does not exist", reffile)
	}
	rules, err := verify.ReadRuleFile(reffile)
	if err != nil {
		return err
	}
	vrf := verify.Verify{
		MismatchLimit: cfg.MismatchLimit,
		OnMismatch:    MismatchError(t, hint, false),
	}
	_, err = vrf.Check(rules, subj)
	return err
}

func (cfg Config) Record(t testing.TB, hint string, subj io.Reader) {
	t.Helper()
	reffile := cfg.RefFileName(t, hint)
	if _, err := os.Stat(reffile); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("gentest: rule file '%s' already exists", reffile)
	}
	specs, err := verify.Prepare{Label: cfg.Label}.Rules(subj)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.MkdirAll(filepath.Dir(reffile), 0777); err != nil {
		t.Fatal(err)
	}
	wr, err := os.Create(reffile)
	if err != nil {
		t.Fatal(err)
	}
	defer wr.Close()
	if err = verify.WriteRules(wr, specs); err != nil {
		t.Error(err)
	}
	t.Errorf("gentest recorder wrote: %s", reffile)
}

// MismatchError returns a mismatch callback that reports each mismatch as
// test error.
func MismatchError(t testing.TB, hint string, abort bool) verify.MismatchFunc {
	if hint == "" {
		hint = "subject"
	}
	return func(ln int, l string, expect *verify.Rule) bool {
		t.Helper()
		lnstr := strconv.Itoa(ln)
		t.Errorf("%s:%s [%s]", hint, lnstr, l)
		if expect != nil {
			padlen := utf8.RuneCountInString(hint) + len(lnstr)
			pad := strings.Repeat(" ", padlen)
			t.Logf("%s %s [%s]", pad, expect.Name, expect.Regexp)
		}
		return abort
	}
}
