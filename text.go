package texgen

import (
	"regexp"
	"slices"
	"strings"
)

// Text holds the variants of a literal part of a line. Variants are expected
// to differ in whitespace only, as long as the part stays literal.
type Text struct {
	texts []string
}

func NewText(text string) *Text { return &Text{texts: []string{text}} }

// First returns the first text variant.
func (t *Text) First() string { return t.texts[0] }

func (t *Text) Texts() []string { return append([]string(nil), t.texts...) }

// Leading returns the leading whitespace of the first text. A blank text is
// all leading whitespace.
func (t *Text) Leading() string {
	f := t.texts[0]
	return f[:len(f)-len(strings.TrimLeftFunc(f, isSpace))]
}

func (t *Text) Trailing() string {
	f := t.texts[0]
	rest := strings.TrimLeftFunc(f, isSpace)
	return rest[len(strings.TrimRightFunc(rest, isSpace)):]
}

func (t *Text) Add(text string) { t.texts = append(t.texts, text) }

// Concat appends s to all variants.
func (t *Text) Concat(s string) {
	for i := range t.texts {
		t.texts[i] += s
	}
}

func (t *Text) IsIdentical() bool {
	for _, s := range t.texts[1:] {
		if s != t.texts[0] {
			return false
		}
	}
	return true
}

// IsClosedToIdentical is true if all variants only differ in leading and
// trailing whitespace.
func (t *Text) IsClosedToIdentical() bool {
	f := strings.TrimFunc(t.texts[0], isSpace)
	for _, s := range t.texts[1:] {
		if strings.TrimFunc(s, isSpace) != f {
			return false
		}
	}
	return true
}

type textRuns struct {
	words, spaces []string
}

func splitRuns(s string) (res textRuns) {
	s = strings.TrimFunc(s, isSpace)
	for s != "" {
		end := strings.IndexFunc(s, isSpace)
		if end < 0 {
			res.words = append(res.words, s)
			break
		}
		res.words = append(res.words, s[:end])
		s = s[end:]
		end = strings.IndexFunc(s, func(r rune) bool { return !isSpace(r) })
		res.spaces = append(res.spaces, s[:end])
		s = s[end:]
	}
	return res
}

// Group splits all variants into alternating groups of words and whitespace
// runs. With k being the least number of words in a variant, the k-th word
// group takes all remaining words of a variant. Each group is sorted and
// holds distinct values. If some variant is blank Group returns nil.
func (t *Text) Group() [][]string {
	runs := make([]textRuns, len(t.texts))
	k := -1
	for i, s := range t.texts {
		runs[i] = splitRuns(s)
		if n := len(runs[i].words); k < 0 || n < k {
			k = n
		}
	}
	if k <= 0 {
		return nil
	}
	res := make([][]string, 2*k-1)
	for _, r := range runs {
		for i := 0; i < k-1; i++ {
			res[2*i] = append(res[2*i], r.words[i])
			res[2*i+1] = append(res[2*i+1], r.spaces[i])
		}
		res[2*k-2] = append(res[2*k-2], r.words[k-1:]...)
	}
	for i, g := range res {
		slices.Sort(g)
		res[i] = slices.Compact(g)
	}
	return res
}

func generalSpace(variants []string) string {
	if len(variants) == 1 {
		return variants[0]
	}
	for _, v := range variants {
		if strings.ContainsRune(v, '\t') {
			return "\t "
		}
	}
	return "  "
}

// GeneralText returns one literal text representing all variants.
func (t *Text) GeneralText() string {
	groups := t.Group()
	if groups == nil {
		return t.texts[0]
	}
	var sb strings.Builder
	sb.WriteString(t.Leading())
	for i, g := range groups {
		switch {
		case i%2 == 1:
			sb.WriteString(generalSpace(g))
		case len(g) == 1:
			sb.WriteString(g[0])
		default:
			sb.WriteString(g[0])
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(t.Trailing())
	return sb.String()
}

func (t *Text) Snippet() string {
	if t.IsIdentical() {
		return t.texts[0]
	}
	return t.GeneralText()
}

// Pattern returns a regexp matching all variants. Variants with equal words
// get a common pattern where only whitespace is generalized.
func (t *Text) Pattern() string {
	if t.IsIdentical() {
		return runsPattern(t.texts[0])
	}
	runs := make([]textRuns, len(t.texts))
	for i, s := range t.texts {
		runs[i] = splitRuns(s)
		if !slices.Equal(runs[i].words, runs[0].words) {
			return t.altPattern()
		}
	}
	slot := make([]string, len(t.texts))
	spaces := func(get func(i int) string) string {
		for i := range t.texts {
			slot[i] = get(i)
		}
		return spacesPattern(slot)
	}
	var sb strings.Builder
	sb.WriteString(spaces(func(i int) string {
		return (&Text{texts: t.texts[i : i+1]}).Leading()
	}))
	for w, word := range runs[0].words {
		if w > 0 {
			sb.WriteString(spaces(func(i int) string { return runs[i].spaces[w-1] }))
		}
		sb.WriteString(runsPattern(word))
	}
	if len(runs[0].words) > 0 {
		sb.WriteString(spaces(func(i int) string {
			return (&Text{texts: t.texts[i : i+1]}).Trailing()
		}))
	}
	return sb.String()
}

func (t *Text) altPattern() string {
	vs := slices.Clone(t.texts)
	slices.Sort(vs)
	vs = slices.Compact(vs)
	for i, v := range vs {
		vs[i] = runsPattern(v)
	}
	return "(?:" + strings.Join(vs, "|") + ")"
}

func spacesPattern(variants []string) string {
	vs := slices.Clone(variants)
	slices.Sort(vs)
	vs = slices.Compact(vs)
	if len(vs) == 1 {
		return runsPattern(vs[0])
	}
	q := "+"
	if vs[0] == "" {
		q = "*"
	}
	for _, v := range vs {
		if strings.Trim(v, " ") != "" {
			return `\s` + q
		}
	}
	return " " + q
}

// runsPattern escapes s for regexp. Whitespace runs and runs of a repeated
// punctuation character are turned into quantified patterns.
func runsPattern(s string) string {
	var sb strings.Builder
	for s != "" {
		c := s[0]
		n := 1
		if isSpace(rune(c)) {
			for n < len(s) && isSpace(rune(s[n])) {
				n++
			}
			run := s[:n]
			switch {
			case run == " ":
				sb.WriteByte(' ')
			case n == 1:
				sb.WriteString(`\s`)
			case strings.Trim(run, " ") == "":
				sb.WriteString(" +")
			default:
				sb.WriteString(`\s+`)
			}
			s = s[n:]
			continue
		}
		for n < len(s) && s[n] == c {
			n++
		}
		if n > 1 && isPunct(rune(c)) {
			sb.WriteString(regexp.QuoteMeta(s[:1]) + "{2,}")
		} else {
			sb.WriteString(regexp.QuoteMeta(s[:n]))
		}
		s = s[n:]
	}
	return sb.String()
}
