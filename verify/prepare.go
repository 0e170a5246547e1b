package verify

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/fractalqb/texgen"
)

// Prepare creates line patterns from sample text. Label is used for the
// variable names of created patterns.
type Prepare struct {
	Label string
}

// Lines reads all lines from r. Lines may be terminated by LF or CR LF.
func Lines(r io.Reader) (lines []string, err error) {
	var sep lineSepScanner
	scn := bufio.NewScanner(r)
	scn.Split(sep.ScanLines)
	for scn.Scan() {
		lines = append(lines, scn.Text())
	}
	return lines, scn.Err()
}

// Aligned aligns all lines from r into one AlignedLine.
func (p Prepare) Aligned(r io.Reader) (*texgen.AlignedLine, error) {
	lines, err := Lines(r)
	switch {
	case err != nil:
		return nil, err
	case len(lines) == 0:
		return nil, io.ErrUnexpectedEOF
	}
	al := texgen.NewAlignedLine(lines[0], p.Label)
	for i, l := range lines[1:] {
		if err = al.Add(l); err != nil {
			return nil, SubjError{Line: i + 2, err: err}
		}
	}
	return al, nil
}

// Pattern merges all lines from r into one LinePattern. Lines can be raw
// sample lines or snippets.
func (p Prepare) Pattern(r io.Reader) (*texgen.LinePattern, error) {
	lines, err := Lines(r)
	if err != nil {
		return nil, err
	}
	lp := texgen.NewLinePattern(p.Label)
	for i, l := range lines {
		if err = lp.Merge(l); err != nil {
			return nil, SubjError{Line: i + 1, err: err}
		}
	}
	if lp.State() == texgen.StateEmpty {
		return nil, io.ErrUnexpectedEOF
	}
	return lp, nil
}

// Rules creates one literal rule per line from r. Runs of equal lines
// become a single repeating rule. Blank lines are skipped.
func (p Prepare) Rules(r io.Reader) (res []RuleSpec, err error) {
	lines, err := Lines(r)
	if err != nil {
		return nil, err
	}
	var prev string
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			continue
		case len(res) > 0 && l == prev:
			res[len(res)-1].Repeat = true
			continue
		}
		lp := texgen.NewLinePattern(p.Label)
		if _, err = lp.Symbolize(l); err != nil {
			return nil, SubjError{Line: i + 1, err: err}
		}
		var rx string
		if rx, err = lp.Regex(); err != nil {
			return nil, SubjError{Line: i + 1, err: err}
		}
		res = append(res, RuleSpec{ID: ruleID(len(res)), Regex: rx})
		prev = l
	}
	return res, nil
}

type lineSepScanner []byte

func (lsc *lineSepScanner) ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// modificated version of bufio.Scan
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		res, cr := dropCR(data[0:i])
		*lsc = data[i-cr : i+1]
		return i + 1, res, nil
	}
	if atEOF {
		res, cr := dropCR(data)
		*lsc = data[len(data)-cr:]
		return len(data), res, nil
	}
	return 0, nil, nil
}

func dropCR(data []byte) ([]byte, int) {
	// modificated version of bufio.dropCR
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[0 : len(data)-1], 1
	}
	return data, 0
}
