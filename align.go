package texgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one part of an aligned line, either a *Text or a *Change.
type Segment interface {
	Snippet() string
	Pattern() string
}

var (
	_ Segment = (*Text)(nil)
	_ Segment = (*Change)(nil)
)

type sample struct {
	raw         string
	lead, trail string
	textRuns
}

func tokenize(line string) (s sample) {
	t := Text{texts: []string{line}}
	s.raw = line
	s.lead, s.trail = t.Leading(), t.Trailing()
	s.textRuns = splitRuns(line)
	return s
}

// tail returns the words from i on, separated as in the sample.
func (s *sample) tail(i int) string {
	var sb strings.Builder
	for j := i; j < len(s.words); j++ {
		if j > i {
			sb.WriteString(s.spaces[j-1])
		}
		sb.WriteString(s.words[j])
	}
	return sb.String()
}

// AlignedLine aligns sample lines word by word. Words that are the same in
// all samples stay literal, the others become changes. If samples differ in
// their number of words the last position takes the excess words as a
// phrase. An AlignedLine must not be modified concurrently.
type AlignedLine struct {
	label   string
	samples []sample
	segs    []Segment
}

func NewAlignedLine(line, label string) *AlignedLine {
	al := &AlignedLine{label: label}
	al.samples = append(al.samples, tokenize(line))
	al.align()
	return al
}

func (al *AlignedLine) Label() string { return al.label }

// Add aligns line with the samples added before. If line cannot be aligned
// the AlignedLine stays unchanged and an AlignmentError is returned.
func (al *AlignedLine) Add(line string) error {
	s := tokenize(line)
	if err := al.check(&s); err != nil {
		return err
	}
	al.samples = append(al.samples, s)
	al.align()
	return nil
}

func (al *AlignedLine) check(s *sample) error {
	sno := len(al.samples)
	sn := len(s.words)
	for _, o := range al.samples {
		on := len(o.words)
		switch {
		case on == sn:
		case on == 0 || sn == 0:
			if on > 1 || sn > 1 {
				return AlignmentError{
					Sample: sno,
					Pos:    -1,
					Reason: "blank and multi-word samples",
				}
			}
		default:
			if err := midLineDivergence(sno, s.words, o.words); err != nil {
				return err
			}
		}
	}
	return nil
}

// midLineDivergence returns an AlignmentError if words and other differ in
// length but end in the same word. Then the extra words are not at the end
// of the line and cannot be folded into a trailing phrase.
func midLineDivergence(sno int, words, other []string) error {
	n, on := len(words), len(other)
	if n == on || n == 0 || on == 0 || words[n-1] != other[on-1] {
		return nil
	}
	return AlignmentError{
		Sample: sno,
		Pos:    min(n, on) - 1,
		Reason: fmt.Sprintf("%d words differ from %d before common last word %q",
			n, on, words[n-1]),
	}
}

func (al *AlignedLine) varName(pos int) string {
	return "v" + al.label + strconv.Itoa(pos)
}

func (al *AlignedLine) align() {
	al.segs = al.segs[:0]
	k := -1
	for i := range al.samples {
		if n := len(al.samples[i].words); n > 0 && (k < 0 || n < k) {
			k = n
		}
	}
	run := make([]string, len(al.samples))
	flush := func() {
		var t *Text
		for i, s := range run {
			if i == 0 {
				t = NewText(s)
			} else {
				t.Add(s)
			}
		}
		if !t.IsIdentical() || t.First() != "" {
			al.segs = append(al.segs, t)
		}
		clear(run)
	}
	if k < 0 {
		for i, s := range al.samples {
			run[i] = s.raw
		}
		flush()
		return
	}
	vals := make([]string, len(al.samples))
	for i, s := range al.samples {
		run[i] = s.lead
	}
	for p := 0; p < k; p++ {
		same := true
		for i := range al.samples {
			s := &al.samples[i]
			switch {
			case len(s.words) == 0:
				vals[i] = ""
			case p < k-1:
				vals[i] = s.words[p]
			default:
				vals[i] = s.tail(p)
			}
			same = same && vals[i] == vals[0]
		}
		if same {
			for i := range run {
				run[i] += vals[i]
			}
		} else {
			flush()
			c := NewChange(vals[0], al.varName(p))
			for _, v := range vals[1:] {
				c.Add(v)
			}
			al.segs = append(al.segs, c)
		}
		if p < k-1 {
			for i := range al.samples {
				if s := &al.samples[i]; len(s.words) > 0 {
					run[i] += s.spaces[p]
				}
			}
		}
	}
	for i, s := range al.samples {
		if len(s.words) > 0 {
			run[i] += s.trail
		}
	}
	flush()
}

// Samples returns the lines added so far.
func (al *AlignedLine) Samples() []string {
	res := make([]string, len(al.samples))
	for i := range al.samples {
		res[i] = al.samples[i].raw
	}
	return res
}

func (al *AlignedLine) Segments() []Segment {
	return append([]Segment(nil), al.segs...)
}

// Changes returns the varying segments in line order.
func (al *AlignedLine) Changes() (res []*Change) {
	for _, s := range al.segs {
		if c, ok := s.(*Change); ok {
			res = append(res, c)
		}
	}
	return res
}

func (al *AlignedLine) Snippet() string {
	var sb strings.Builder
	for _, s := range al.segs {
		sb.WriteString(s.Snippet())
	}
	return sb.String()
}

// Pattern returns a regexp that matches all samples. Changes are named
// capture groups.
func (al *AlignedLine) Pattern() string {
	var sb strings.Builder
	for _, s := range al.segs {
		sb.WriteString(s.Pattern())
	}
	return sb.String()
}
