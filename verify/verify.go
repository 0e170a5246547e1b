// Package verify checks subject text against an ordered list of line rules
// that were inferred with texgen.
package verify

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"git.fractalqb.de/fractalqb/icontainer/islist"

	"github.com/fractalqb/texgen"
)

// Rule is one expected line of the subject text. A rule with Repeat set
// matches a run of one or more subject lines.
type Rule struct {
	Name   string
	Regexp *regexp.Regexp
	Repeat bool

	hits     int
	islsNext *Rule
}

// NewRule compiles regex to match whole lines.
func NewRule(name, regex string, repeat bool) (*Rule, error) {
	rx, err := regexp.Compile("^(?:" + regex + ")$")
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}
	return &Rule{Name: name, Regexp: rx, Repeat: repeat}, nil
}

// PatternRule creates a rule from the regex of a line pattern.
func PatternRule(name string, lp *texgen.LinePattern, repeat bool) (*Rule, error) {
	rx, err := lp.Compile()
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}
	return &Rule{Name: name, Regexp: rx, Repeat: repeat}, nil
}

// ListNext to implement intrusive singly linked list
func (r *Rule) ListNext() islist.Node {
	if r.islsNext == nil {
		return nil
	}
	return r.islsNext
}

// SetListNext to implement intrusive singly linked list
func (r *Rule) SetListNext(n islist.Node) {
	if n == nil {
		r.islsNext = nil
	} else {
		r.islsNext = n.(*Rule)
	}
}

// MismatchFunc is called for each subject line that does not match the
// expected rule. Expect is nil when all rules are used up. At the end of
// the subject, line is empty and lineNo is one after the last line.
type MismatchFunc func(lineNo int, line string, expect *Rule) (abort bool)

// MatchFunc is called for each matching subject line. Match holds the
// submatch indices as returned by regexp.FindStringSubmatchIndex.
type MatchFunc func(lineNo int, line string, rule *Rule, match []int)

// Verify replays a subject text against a list of rules. A zero value is
// valid for use and can be reused. It must not be used concurrently.
type Verify struct {
	// Specifies the number of detected mismatches after which the check is
	// aborted. If MismatchLimit == 0, do not abort.
	MismatchLimit int
	OnMismatch    MismatchFunc
	OnMatch       MatchFunc
}

// Row holds the named captures of one matching subject line.
type Row struct {
	Line   int
	Rule   string
	Values map[string]string
}

type Result struct {
	Lines      int
	Matches    int
	Mismatches int
	Rows       []Row
}

type MismatchCount int

func (mc MismatchCount) Error() string {
	return fmt.Sprintf("%d mismatches", mc)
}

type SubjError struct {
	Line int
	err  error
}

func (e SubjError) Error() string {
	return fmt.Sprintf("subj %d:%s", e.Line, e.err)
}

func (e SubjError) Unwrap() error { return e.err }

// Check matches the lines from subj against rules in order. Rules are not
// modified. If mismatches were detected the returned error is a
// MismatchCount.
func (v *Verify) Check(rules []*Rule, subj io.Reader) (res Result, err error) {
	queue := newQueue(rules)
	var sep lineSepScanner
	scn := bufio.NewScanner(subj)
	scn.Split(sep.ScanLines)
	abort := false
SCAN_NEXT_LINE:
	for scn.Scan() {
		res.Lines++
		line := scn.Text()
		for queue != nil && queue.Len() > 0 {
			r := queue.Front().(*Rule)
			if m := r.Regexp.FindStringSubmatchIndex(line); m != nil {
				v.match(&res, r, line, m)
				if !r.Repeat {
					queue.Drop(1)
				}
				continue SCAN_NEXT_LINE
			}
			if !r.Repeat || r.hits == 0 {
				break
			}
			queue.Drop(1)
		}
		if abort = v.mismatch(&res, res.Lines, line, front(queue)); abort {
			break
		}
	}
	if err = scn.Err(); err != nil {
		return res, SubjError{Line: res.Lines + 1, err: err}
	}
	for !abort && queue != nil && queue.Len() > 0 {
		r := queue.Front().(*Rule)
		queue.Drop(1)
		if r.Repeat && r.hits > 0 {
			continue
		}
		abort = v.mismatch(&res, res.Lines+1, "", r)
	}
	if res.Mismatches > 0 {
		return res, MismatchCount(res.Mismatches)
	}
	return res, nil
}

// newQueue copies rules into a fresh queue to keep hit counts local to a
// single check.
func newQueue(rules []*Rule) *islist.List {
	if len(rules) == 0 {
		return nil
	}
	var q *islist.List
	for _, r := range rules {
		n := &Rule{Name: r.Name, Regexp: r.Regexp, Repeat: r.Repeat}
		if q == nil {
			q = islist.New(n)
		} else {
			q.PushBack(n)
		}
	}
	return q
}

func front(q *islist.List) *Rule {
	if q == nil || q.Len() == 0 {
		return nil
	}
	return q.Front().(*Rule)
}

func (v *Verify) match(res *Result, r *Rule, line string, m []int) {
	r.hits++
	res.Matches++
	if names := r.Regexp.SubexpNames(); len(names) > 1 {
		row := Row{Line: res.Lines, Rule: r.Name, Values: make(map[string]string)}
		for i, n := range names {
			if n != "" && m[2*i] >= 0 {
				row.Values[n] = line[m[2*i]:m[2*i+1]]
			}
		}
		if len(row.Values) > 0 {
			res.Rows = append(res.Rows, row)
		}
	}
	if v.OnMatch != nil {
		v.OnMatch(res.Lines, line, r, m)
	}
}

func (v *Verify) mismatch(res *Result, lineNo int, line string, expect *Rule) (abort bool) {
	res.Mismatches++
	if v.OnMismatch != nil && v.OnMismatch(lineNo, line, expect) {
		return true
	}
	return v.limitReached(res)
}

func (v *Verify) limitReached(res *Result) bool {
	return v.MismatchLimit > 0 && res.Mismatches >= v.MismatchLimit
}
