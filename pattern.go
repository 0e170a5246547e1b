package texgen

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	numberRx      = regexp.MustCompile(`^` + RgxNumber + `$`)
	mixedNumberRx = regexp.MustCompile(`^` + RgxMixedNumber + `$`)
	wordRx        = regexp.MustCompile(`^` + RgxWord + `$`)
)

var kindRx = func() (res [kindEnd]*regexp.Regexp) {
	for k := Digit; k < kindEnd; k++ {
		res[k] = regexp.MustCompile(`^(?:` + k.Regexp() + `)$`)
	}
	return res
}()

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isAlnum(r rune) bool  { return isDigit(r) || isLetter(r) }
func isGraph(r rune) bool  { return r >= '!' && r <= '~' }
func isPunct(r rune) bool  { return isGraph(r) && !isAlnum(r) }

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func all(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

// Classify returns the most specific kind covering all values. Blank values
// are ignored. If all values are blank the result is Empty. The result does
// not depend on the order of values.
func Classify(values ...string) Kind {
	var seen kindSet
	for _, v := range values {
		if k := classifyValue(v); k != Empty {
			seen |= setOf(k)
		}
	}
	return fit(cover(seen), values)
}

// fit escalates k to its least superset whose fragment matches all non-blank
// values. Some lattice pairs are not backed by the fragments, e.g. digit is
// below word but the word fragment starts with a letter.
func fit(k Kind, values []string) Kind {
	if k == Empty || matchAll(k, values) {
		return k
	}
	best := NonWhitespacesGroup
	for s := Digit; s < kindEnd; s++ {
		if kinds[k].sups.has(s) && s.subsetOf(best) && matchAll(s, values) {
			best = s
		}
	}
	return best
}

func matchAll(k Kind, values []string) bool {
	rx := kindRx[k]
	for _, v := range values {
		v = strings.Join(strings.Fields(v), " ")
		if v != "" && !rx.MatchString(v) {
			return false
		}
	}
	return true
}

func classifyValue(v string) Kind {
	toks := strings.Fields(v)
	switch len(toks) {
	case 0:
		return Empty
	case 1:
		return classifyToken(toks[0])
	}
	var seen kindSet
	for _, tok := range toks {
		seen |= setOf(classifyToken(tok))
	}
	return fit(cover(seen), toks).Group()
}

func classifyToken(tok string) Kind {
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		switch {
		case isDigit(r):
			return Digit
		case isLetter(r):
			return Letter
		case isPunct(r):
			return Punct
		}
		return NonWhitespace
	}
	switch {
	case all(tok, isDigit):
		return Digits
	case all(tok, isLetter):
		return Letters
	case all(tok, isPunct):
		return Puncts
	case numberRx.MatchString(tok):
		return Number
	case mixedNumberRx.MatchString(tok):
		return MixedNumber
	case wordRx.MatchString(tok):
		return Word
	case all(tok, isGraph) && strings.ContainsFunc(tok, isAlnum):
		return MixedWord
	}
	return NonWhitespaces
}

// Pattern is a classification of sample values. It remembers the values it
// was created from. A Pattern is immutable.
type Pattern struct {
	kind   Kind
	values []string
}

// NewPattern classifies values and wraps the result together with the
// values.
func NewPattern(values ...string) *Pattern {
	return &Pattern{
		kind:   Classify(values...),
		values: append([]string(nil), values...),
	}
}

func (p *Pattern) Kind() Kind { return p.kind }

func (p *Pattern) Values() []string { return append([]string(nil), p.values...) }

func (p *Pattern) String() string { return p.kind.String() }

// IsPhrase reports whether every non-blank value has embedded whitespace.
func (p *Pattern) IsPhrase() bool {
	res := false
	for _, v := range p.values {
		switch toks := strings.Fields(v); {
		case len(toks) == 1:
			return false
		case len(toks) > 1:
			res = true
		}
	}
	return res
}

// Regexp returns the regexp fragment that matches the pattern's values.
func (p *Pattern) Regexp() string { return p.kind.PhraseRegexp(p.IsPhrase()) }

func (p *Pattern) check(op string, o *Pattern) error {
	if o == nil {
		return ClassificationError{Op: op, Name: "<nil>"}
	}
	return checkKinds(op, p.kind, o.kind)
}

func (p *Pattern) IsSubsetOf(o *Pattern) (bool, error) {
	if err := p.check("subset", o); err != nil {
		return false, err
	}
	return p.kind.subsetOf(o.kind), nil
}

func (p *Pattern) IsSupersetOf(o *Pattern) (bool, error) {
	if err := p.check("superset", o); err != nil {
		return false, err
	}
	return o.kind.subsetOf(p.kind), nil
}

// Recommend returns a pattern carrying the values of both p and o. Its kind
// is the join of both kinds, escalated if needed so that it still covers
// them and all values.
func (p *Pattern) Recommend(o *Pattern) (*Pattern, error) {
	if err := p.check("recommend", o); err != nil {
		return nil, err
	}
	vals := make([]string, 0, len(p.values)+len(o.values))
	vals = append(vals, p.values...)
	vals = append(vals, o.values...)
	return &Pattern{kind: fit(cover(setOf(p.kind, o.kind)), vals), values: vals}, nil
}
