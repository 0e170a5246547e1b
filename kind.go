package texgen

import "fmt"

// Kind is a category of the pattern lattice. The set of kinds is closed, the
// zero value Empty marks blank data and is not part of the lattice.
type Kind uint8

const (
	Empty Kind = iota
	Digit
	Digits
	Number
	MixedNumber
	Letter
	Letters
	AlphaNumeric
	Punct
	Puncts
	PunctsGroup
	Graph
	Word
	Words
	MixedWord
	MixedWords
	NonWhitespace
	NonWhitespaces
	NonWhitespacesGroup

	kindEnd
)

// Regexp fragments of the single-token kinds
const (
	RgxDigit       = `\d`
	RgxDigits      = `\d+`
	RgxLetter      = `[a-zA-Z]`
	RgxLetters     = `[a-zA-Z]+`
	RgxPunct       = `[\x21-\x2f\x3a-\x40\x5b-\x60\x7b-\x7e]`
	RgxPuncts      = RgxPunct + `+`
	RgxGraph       = `[\x21-\x7e]`
	RgxNonWS       = `\S`
	RgxNonWSs      = `\S+`
	RgxNumber      = `\d*[.]?\d+`
	RgxMixedNumber = `[+\(\[\$-]?(\d+([,:/-]\d+)*)?[.]?\d+[\]\)%a-zA-Z]*`
	RgxWord        = `[a-zA-Z][a-zA-Z0-9]*`
	RgxMixedWord   = `[\x21-\x7e]*[a-zA-Z0-9][\x21-\x7e]*`
)

type kindSet uint32

func setOf(ks ...Kind) (s kindSet) {
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

func (s kindSet) has(k Kind) bool { return s&(1<<k) != 0 }

// coveredBy reports whether all kinds in s are subsets of c.
func (s kindSet) coveredBy(c Kind) bool {
	for k := Digit; k < kindEnd; k++ {
		if s.has(k) && !k.subsetOf(c) {
			return false
		}
	}
	return true
}

type kindInfo struct {
	name string
	rgx  string
	// token is the single-token kind that repeats in a group kind, group the
	// group kind a single-token kind escalates to.
	token, group Kind
	// strict supersets
	sups kindSet
	// names of group kinds when some resp. all values are phrases
	orPhrase, phrase string
}

// The partial order is a design-time table. Supersets must be listed
// transitively.
var kinds = [kindEnd]kindInfo{
	Empty: {name: "empty"},
	Digit: {
		name: "digit", rgx: RgxDigit, group: MixedWords,
		sups: setOf(Digits, Number, MixedNumber, AlphaNumeric, Graph,
			Word, Words, MixedWord, MixedWords,
			NonWhitespace, NonWhitespaces, NonWhitespacesGroup),
	},
	Digits: {
		name: "digits", rgx: RgxDigits, group: MixedWords,
		sups: setOf(Number, MixedNumber, MixedWord, MixedWords,
			NonWhitespaces, NonWhitespacesGroup),
	},
	Number: {
		name: "number", rgx: RgxNumber, group: MixedWords,
		sups: setOf(MixedNumber, MixedWord, MixedWords,
			NonWhitespaces, NonWhitespacesGroup),
	},
	MixedNumber: {
		name: "mixed_number", rgx: RgxMixedNumber, group: MixedWords,
		sups: setOf(MixedWord, MixedWords, NonWhitespaces, NonWhitespacesGroup),
	},
	Letter: {
		name: "letter", rgx: RgxLetter, group: Words,
		sups: setOf(Letters, AlphaNumeric, Graph, Word, Words, MixedWord, MixedWords,
			NonWhitespace, NonWhitespaces, NonWhitespacesGroup),
	},
	Letters: {
		name: "letters", rgx: RgxLetters, group: Words,
		sups: setOf(Word, Words, MixedWord, MixedWords,
			NonWhitespaces, NonWhitespacesGroup),
	},
	AlphaNumeric: {
		name: "alphabet_numeric", rgx: RgxGraph, group: MixedWords,
		sups: setOf(Graph, Word, Words, MixedWord, MixedWords,
			NonWhitespace, NonWhitespaces, NonWhitespacesGroup),
	},
	Punct: {
		name: "punct", rgx: RgxPunct, group: PunctsGroup,
		sups: setOf(Puncts, PunctsGroup, Graph,
			NonWhitespace, NonWhitespaces, NonWhitespacesGroup),
	},
	Puncts: {
		name: "puncts", rgx: RgxPuncts, group: PunctsGroup,
		sups: setOf(PunctsGroup, NonWhitespaces, NonWhitespacesGroup),
	},
	PunctsGroup: {
		name: "puncts_group", token: Puncts, group: PunctsGroup,
		sups:     setOf(NonWhitespacesGroup),
		orPhrase: "puncts_or_phrase", phrase: "puncts_phrase",
	},
	Graph: {
		name: "graph", rgx: RgxGraph, group: NonWhitespacesGroup,
		sups: setOf(NonWhitespace, NonWhitespaces, NonWhitespacesGroup),
	},
	Word: {
		name: "word", rgx: RgxWord, group: Words,
		sups: setOf(Words, MixedWord, MixedWords, NonWhitespaces, NonWhitespacesGroup),
	},
	Words: {
		name: "words", token: Word, group: Words,
		sups:     setOf(MixedWords, NonWhitespacesGroup),
		orPhrase: "words", phrase: "phrase",
	},
	MixedWord: {
		name: "mixed_word", rgx: RgxMixedWord, group: MixedWords,
		sups: setOf(MixedWords, NonWhitespaces, NonWhitespacesGroup),
	},
	MixedWords: {
		name: "mixed_words", token: MixedWord, group: MixedWords,
		sups:     setOf(NonWhitespacesGroup),
		orPhrase: "mixed_words", phrase: "mixed_phrase",
	},
	NonWhitespace: {
		name: "non_whitespace", rgx: RgxNonWS, group: NonWhitespacesGroup,
		sups: setOf(NonWhitespaces, NonWhitespacesGroup),
	},
	NonWhitespaces: {
		name: "non_whitespaces", rgx: RgxNonWSs, group: NonWhitespacesGroup,
		sups: setOf(NonWhitespacesGroup),
	},
	NonWhitespacesGroup: {
		name: "non_whitespaces_group", token: NonWhitespaces, group: NonWhitespacesGroup,
		orPhrase: "non_whitespaces_or_phrase", phrase: "non_whitespaces_phrase",
	},
}

// Joins of single-token kinds where neither is a subset of the other. Keys
// are ordered pairs with the lower kind first. Missing pairs join to
// NonWhitespaces.
var aggregates = func() map[[2]Kind]Kind {
	res := map[[2]Kind]Kind{
		{Digit, Letter}:         AlphaNumeric,
		{Digit, Letters}:        AlphaNumeric,
		{Digit, Punct}:          NonWhitespace,
		{Letter, Punct}:         NonWhitespace,
		{Letters, AlphaNumeric}: Word,
		{AlphaNumeric, Punct}:   Graph,
	}
	for _, n := range []Kind{Digits, Number, MixedNumber} {
		for _, w := range []Kind{Letter, Letters, AlphaNumeric, Word} {
			res[[2]Kind{n, w}] = MixedWord
		}
	}
	return res
}()

// Kinds returns all lattice kinds, most specific first.
func Kinds() []Kind {
	res := make([]Kind, 0, kindEnd-1)
	for k := Digit; k < kindEnd; k++ {
		res = append(res, k)
	}
	return res
}

func (k Kind) valid() bool { return k > Empty && k < kindEnd }

func (k Kind) String() string {
	if k < kindEnd {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsGroup reports whether k describes data with embedded whitespace.
func (k Kind) IsGroup() bool { return k.valid() && kinds[k].token != Empty }

// Token returns the single-token kind of a group kind and k itself
// otherwise.
func (k Kind) Token() Kind {
	if k.IsGroup() {
		return kinds[k].token
	}
	return k
}

// Group returns the group kind k escalates to when the data contains
// whitespace.
func (k Kind) Group() Kind {
	if !k.valid() {
		return k
	}
	return kinds[k].group
}

// Regexp returns the canonical regexp fragment of k. Group kinds repeat
// their token fragment zero or more times.
func (k Kind) Regexp() string { return k.PhraseRegexp(false) }

// PhraseRegexp is like Regexp but requires at least one repetition of a
// group kind's token if phrase is true.
func (k Kind) PhraseRegexp(phrase bool) string {
	switch {
	case !k.valid():
		return ""
	case !k.IsGroup():
		return kinds[k].rgx
	}
	tok := kinds[kinds[k].token].rgx
	if phrase {
		return tok + "( " + tok + ")+"
	}
	return tok + "( " + tok + ")*"
}

// PhraseName returns the snippet name of k. For group kinds the name tells
// whether all (phrase) or only some values had embedded whitespace.
func (k Kind) PhraseName(phrase bool) string {
	if !k.IsGroup() {
		return k.String()
	}
	if phrase {
		return kinds[k].phrase
	}
	return kinds[k].orPhrase
}

func checkKinds(op string, ks ...Kind) error {
	for _, k := range ks {
		if !k.valid() {
			return ClassificationError{Op: op, Name: k.String()}
		}
	}
	return nil
}

// IsSubsetOf reports whether every value of kind k is also of kind o.
func (k Kind) IsSubsetOf(o Kind) (bool, error) {
	if err := checkKinds("subset", k, o); err != nil {
		return false, err
	}
	return k.subsetOf(o), nil
}

// IsSupersetOf reports whether every value of kind o is also of kind k.
func (k Kind) IsSupersetOf(o Kind) (bool, error) {
	if err := checkKinds("superset", k, o); err != nil {
		return false, err
	}
	return o.subsetOf(k), nil
}

func (k Kind) subsetOf(o Kind) bool { return k == o || kinds[k].sups.has(o) }

// Join returns the least kind that covers both a and b.
func Join(a, b Kind) (Kind, error) {
	if err := checkKinds("join", a, b); err != nil {
		return Empty, err
	}
	return join(a, b), nil
}

func join(a, b Kind) Kind {
	switch {
	case a.subsetOf(b):
		return b
	case b.subsetOf(a):
		return a
	case a.IsGroup() || b.IsGroup():
		return join(a.Token(), b.Token()).Group()
	}
	if a > b {
		a, b = b, a
	}
	if k, ok := aggregates[[2]Kind{a, b}]; ok {
		return k
	}
	return NonWhitespaces
}

// cover returns the kind that describes all kinds in ks. They are joined in
// lattice order. Because aggregation may yield a kind that misses one of the
// operands, e.g. digit and letters join to alphabet_numeric, the result is
// then escalated to its least superset that covers all of ks.
func cover(ks kindSet) Kind {
	res := Empty
	for k := Digit; k < kindEnd; k++ {
		switch {
		case !ks.has(k):
		case res == Empty:
			res = k
		default:
			res = join(res, k)
		}
	}
	if res == Empty || ks.coveredBy(res) {
		return res
	}
	best := NonWhitespacesGroup
	for k := Digit; k < kindEnd; k++ {
		if kinds[res].sups.has(k) && k.subsetOf(best) && ks.coveredBy(k) {
			best = k
		}
	}
	return best
}

// ParseKind returns the kind named by name. Besides the kind names it accepts
// the phrase names of group kinds, phrase tells which variant was used.
func ParseKind(name string) (k Kind, phrase bool, err error) {
	if name == "" {
		return Empty, false, ClassificationError{Op: "parse", Name: `""`}
	}
	for k = Digit; k < kindEnd; k++ {
		ki := &kinds[k]
		switch name {
		case ki.name:
			return k, false, nil
		case ki.phrase:
			return k, true, nil
		case ki.orPhrase:
			return k, false, nil
		}
	}
	return Empty, false, ClassificationError{Op: "parse", Name: name}
}
