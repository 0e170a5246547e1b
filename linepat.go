package texgen

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// State is the life-cycle state of a LinePattern.
type State int

const (
	StateEmpty State = iota
	StateSingleLine
	StateMerged
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSingleLine:
		return "single-line"
	case StateMerged:
		return "merged"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

type field struct {
	sep    *Text
	num    int
	change *Change
	pinned bool
	kept   bool
}

func (f *field) value() string { return f.change.history[0] }

func (f *field) attr() string {
	switch {
	case f.pinned:
		return attrCapture
	case f.kept:
		return attrKeep
	}
	return attrVar
}

func (f *field) varies() bool {
	c := f.change
	return c.Varies() || c.Kind() != Classify(c.Values()...)
}

func (f *field) pattern() string {
	c := f.change
	switch {
	case f.pinned:
		return c.Pattern()
	case f.kept || !f.varies():
		return runsPattern(f.value())
	case c.SawEmpty():
		return "(?:" + c.Fragment() + "|)"
	}
	return c.Fragment()
}

// FieldInfo describes a field of a LinePattern.
type FieldInfo struct {
	Name   string
	Kind   Kind
	Phrase bool
	Value  string
	Pinned bool
	Kept   bool
}

// LinePattern builds the pattern of one line shape from raw lines and
// edited snippets. Each token of a line becomes a field. Fields that are
// pinned with a capture directive are the named values of the pattern.
//
// A LinePattern must not be modified concurrently.
type LinePattern struct {
	label   string
	state   State
	fields  []*field
	trail   *Text
	samples int
}

// NewLinePattern creates an empty LinePattern. Label is put between the
// 'v' and the number of variable names.
func NewLinePattern(label string) *LinePattern {
	return &LinePattern{label: label}
}

// ParseLinePattern creates a LinePattern from a raw line or a snippet.
func ParseLinePattern(input, label string) (*LinePattern, error) {
	lp := NewLinePattern(label)
	if err := lp.Merge(input); err != nil {
		return nil, err
	}
	return lp, nil
}

func (lp *LinePattern) Label() string { return lp.label }

func (lp *LinePattern) State() State { return lp.state }

func (lp *LinePattern) varName(num int) string {
	return "v" + lp.label + strconv.Itoa(num)
}

func (lp *LinePattern) Fields() []FieldInfo {
	res := make([]FieldInfo, len(lp.fields))
	for i, f := range lp.fields {
		res[i] = FieldInfo{
			Name:   f.change.Name(),
			Kind:   f.change.Kind(),
			Phrase: f.change.IsPhrase(),
			Value:  f.value(),
			Pinned: f.pinned,
			Kept:   f.kept,
		}
	}
	return res
}

// Symbolize makes each token of line a field of its own kind.
func (lp *LinePattern) Symbolize(line string) (string, error) {
	if lp.state != StateEmpty {
		return "", ErrState
	}
	s := tokenize(line)
	if len(s.words) == 0 {
		return "", AlignmentError{Sample: 0, Pos: -1, Reason: "blank line"}
	}
	lp.fields = make([]*field, len(s.words))
	for i, w := range s.words {
		sep := s.lead
		if i > 0 {
			sep = s.spaces[i-1]
		}
		lp.fields[i] = &field{
			sep:    NewText(sep),
			num:    i,
			change: NewChange(w, lp.varName(i)),
		}
	}
	lp.trail = NewText(s.trail)
	lp.samples = 1
	lp.state = StateSingleLine
	return lp.Snippet(), nil
}

// ToSnippet merges input like Merge and returns the resulting snippet.
func (lp *LinePattern) ToSnippet(input string) (string, error) {
	if err := lp.Merge(input); err != nil {
		return "", err
	}
	return lp.Snippet(), nil
}

// Merge merges a raw line or a snippet into the pattern. The structure of a
// snippet replaces the current one, values already recorded for a variable
// are kept. On error the pattern stays unchanged.
func (lp *LinePattern) Merge(input string) error {
	switch {
	case IsSnippet(input):
		return lp.mergeSnippet(input)
	case lp.state == StateEmpty:
		_, err := lp.Symbolize(input)
		return err
	}
	return lp.mergeLine(input)
}

func (lp *LinePattern) advance() {
	if lp.state == StateEmpty {
		lp.state = StateSingleLine
	} else {
		lp.state = StateMerged
	}
}

func (lp *LinePattern) mergeSnippet(input string) error {
	snip, err := parseSnippet(input, lp.label)
	if err != nil {
		return err
	}
	old := make(map[string]*Change, len(lp.fields))
	for _, f := range lp.fields {
		old[f.change.Name()] = f.change
	}
	fields := make([]*field, len(snip.fields))
	for i, sf := range snip.fields {
		f := &field{
			sep:    NewText(sf.sep),
			num:    sf.num,
			pinned: sf.attr == attrCapture,
			kept:   sf.attr == attrKeep,
		}
		if c := old[sf.name]; c != nil && c.history[0] == sf.value {
			tmp := *c
			tmp.history = slices.Clone(c.history)
			f.change = &tmp
		} else {
			f.change = NewChange(sf.value, sf.name)
		}
		if err = f.change.Widen(sf.kind, sf.phrase); err != nil {
			return SnippetError{Col: sf.col, err: err}
		}
		fields[i] = f
	}
	for _, sp := range snip.splits {
		if fields, err = lp.split(fields, sp, snip.splitCol); err != nil {
			return err
		}
	}
	find := func(num, col int) (*field, error) {
		for _, f := range fields {
			if f.num == num {
				return f, nil
			}
		}
		return nil, snippetErrorf(col, "no variable %s", lp.varName(num))
	}
	for _, n := range snip.keep {
		f, err := find(n, snip.keepCol)
		if err != nil {
			return err
		}
		f.kept = true
	}
	for _, n := range snip.capture {
		f, err := find(n, snip.captCol)
		if err != nil {
			return err
		}
		f.pinned, f.kept = true, false
	}
	lp.fields = fields
	lp.trail = NewText(snip.trail)
	lp.samples = max(lp.samples, 1)
	lp.advance()
	return nil
}

func (lp *LinePattern) split(fields []*field, sp splitAction, col int) ([]*field, error) {
	idx := slices.IndexFunc(fields, func(f *field) bool { return f.num == sp.num })
	if idx < 0 {
		return nil, snippetErrorf(col, "no variable %s to split", lp.varName(sp.num))
	}
	delims := sp.delims
	if delims == "" {
		delims = DefaultDelimiters
	}
	f := fields[idx]
	hist := f.change.History()
	pieces := make([][]string, len(hist))
	pieces[0] = splitDelims(hist[0], delims)
	n := len(pieces[0])
	if n < 2 {
		return fields, nil
	}
	for i, h := range hist[1:] {
		if strings.TrimSpace(h) == "" {
			pieces[i+1] = make([]string, n)
			continue
		}
		if pieces[i+1] = splitDelims(h, delims); len(pieces[i+1]) != n {
			return nil, AlignmentError{
				Sample: i + 1,
				Pos:    idx,
				Reason: fmt.Sprintf("split of '%s' does not match '%s'", h, hist[0]),
			}
		}
	}
	next := 0
	for _, f := range fields {
		next = max(next, f.num+1)
	}
	repl := make([]*field, n)
	for j := range repl {
		nf := &field{
			sep:    NewText(""),
			num:    next + j,
			change: NewChange(pieces[0][j], lp.varName(next+j)),
		}
		for _, p := range pieces[1:] {
			nf.change.Add(p[j])
		}
		repl[j] = nf
	}
	repl[0].sep = f.sep
	return slices.Replace(fields, idx, idx+1, repl...), nil
}

// groups returns the indices of fields that are not separated by
// whitespace. Each group matches one token of a raw line.
func (lp *LinePattern) groups() (res [][]int) {
	for i, f := range lp.fields {
		if i == 0 || f.sep.First() != "" {
			res = append(res, []int{i})
		} else {
			g := &res[len(res)-1]
			*g = append(*g, i)
		}
	}
	return res
}

// groupDelims returns the runes of punctuation values in a group.
func (lp *LinePattern) groupDelims(g []int) string {
	var sb strings.Builder
	for _, i := range g {
		v := lp.fields[i].value()
		if v != "" && all(v, isPunct) {
			for _, r := range v {
				if !strings.ContainsRune(sb.String(), r) {
					sb.WriteRune(r)
				}
			}
		}
	}
	return sb.String()
}

func (lp *LinePattern) mergeLine(line string) error {
	s := tokenize(line)
	sno := lp.samples
	groups := lp.groups()
	if len(s.words) < len(groups) {
		return AlignmentError{
			Sample: sno,
			Pos:    len(s.words),
			Reason: fmt.Sprintf("%d words, expected %d", len(s.words), len(groups)),
		}
	}
	toks := slices.Clone(s.words[:len(groups)])
	if len(s.words) > len(groups) {
		last := len(groups) - 1
		if len(groups[last]) > 1 {
			return AlignmentError{
				Sample: sno,
				Pos:    last,
				Reason: "excess words after split token",
			}
		}
		for _, h := range lp.fields[groups[last][0]].change.History() {
			if strings.TrimSpace(h) == "" {
				continue
			}
			prev := append(slices.Clone(s.words[:last]), strings.Fields(h)...)
			if err := midLineDivergence(sno, s.words, prev); err != nil {
				return err
			}
		}
		toks[last] = s.tail(last)
	}
	pieces := make([][]string, len(groups))
	for gi, g := range groups {
		if len(g) == 1 {
			pieces[gi] = toks[gi : gi+1]
			continue
		}
		pieces[gi] = splitDelims(toks[gi], lp.groupDelims(g))
		if len(pieces[gi]) != len(g) {
			return AlignmentError{
				Sample: sno,
				Pos:    gi,
				Reason: fmt.Sprintf("cannot split '%s' into %d fields", toks[gi], len(g)),
			}
		}
	}
	for gi, g := range groups {
		for j, fi := range g {
			f, v := lp.fields[fi], pieces[gi][j]
			switch {
			case f.kept && v != f.value():
				return AlignmentError{
					Sample: sno,
					Pos:    gi,
					Reason: fmt.Sprintf("kept %s '%s' differs from '%s'", f.change.Name(), v, f.value()),
				}
			case f.pinned && !f.change.IsEmpty() && !Classify(v).subsetOf(f.change.Kind()):
				return AlignmentError{
					Sample: sno,
					Pos:    gi,
					Reason: fmt.Sprintf("'%s' is not %s of captured %s",
						v, f.change.KindName(), f.change.Name()),
				}
			}
		}
	}
	for gi, g := range groups {
		for j, fi := range g {
			lp.fields[fi].change.Add(pieces[gi][j])
		}
		sep := s.lead
		if gi > 0 {
			sep = s.spaces[gi-1]
		}
		lp.fields[g[0]].sep.Add(sep)
	}
	lp.trail.Add(s.trail)
	lp.samples++
	lp.advance()
	return nil
}

// Snippet renders the pattern in the snippet language. It can be edited and
// merged again.
func (lp *LinePattern) Snippet() string {
	if lp.state == StateEmpty {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(snippetHeader)
	for _, f := range lp.fields {
		sb.WriteString(f.sep.First())
		fmt.Fprintf(&sb, "%s(%s=%s, value=%s)",
			f.change.KindName(),
			f.attr(),
			f.change.Name(),
			f.value(),
		)
	}
	sb.WriteString(lp.trail.First())
	return sb.String()
}

// Regex renders the pattern as regular expression. Only pinned fields
// become named capture groups.
func (lp *LinePattern) Regex() (string, error) {
	if lp.state == StateEmpty {
		return "", ErrState
	}
	var sb strings.Builder
	for _, f := range lp.fields {
		sb.WriteString(f.sep.Pattern())
		sb.WriteString(f.pattern())
	}
	sb.WriteString(lp.trail.Pattern())
	return sb.String(), nil
}

// Compile compiles the pattern's regex to match whole lines.
func (lp *LinePattern) Compile() (*regexp.Regexp, error) {
	rx, err := lp.Regex()
	if err != nil {
		return nil, err
	}
	return regexp.Compile("^" + rx + "$")
}

// TemplateSnippet renders pinned fields as template variables and all
// other fields as their literal value.
func (lp *LinePattern) TemplateSnippet() (string, error) {
	if lp.state == StateEmpty {
		return "", ErrState
	}
	var sb strings.Builder
	for _, f := range lp.fields {
		sb.WriteString(f.sep.Snippet())
		if f.pinned {
			sb.WriteString(f.change.Snippet())
		} else {
			sb.WriteString(f.value())
		}
	}
	sb.WriteString(lp.trail.Snippet())
	return sb.String(), nil
}
