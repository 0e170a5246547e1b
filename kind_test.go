package texgen

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleJoin() {
	k, _ := Join(Classify("1.1"), Classify("-1.1"))
	fmt.Println(k, k.Regexp())
	// Output:
	// mixed_number [+\(\[\$-]?(\d+([,:/-]\d+)*)?[.]?\d+[\]\)%a-zA-Z]*
}

func TestClassify(t *testing.T) {
	tests := []struct {
		values []string
		expect Kind
	}{
		{[]string{"1"}, Digit},
		{[]string{"a"}, Letter},
		{[]string{"+"}, Punct},
		{[]string{"\xc8"}, NonWhitespace},
		{[]string{"123"}, Digits},
		{[]string{"abc"}, Letters},
		{[]string{"++"}, Puncts},
		{[]string{"1.1"}, Number},
		{[]string{".5"}, Number},
		{[]string{"-1.1"}, MixedNumber},
		{[]string{"10%"}, MixedNumber},
		{[]string{"1,234"}, MixedNumber},
		{[]string{"abc123"}, Word},
		{[]string{"abc.123"}, MixedWord},
		{[]string{"var_abc"}, MixedWord},
		{[]string{"abc\xc8"}, NonWhitespaces},
		{[]string{"a1 b12"}, Words},
		{[]string{"a.1 b.2"}, MixedWords},
		{[]string{"-- ++ =="}, PunctsGroup},
		{[]string{"abc\xc8 xyz"}, NonWhitespacesGroup},
		{[]string{"  abc  "}, Letters},
		{[]string{"a", "1"}, AlphaNumeric},
		{[]string{"a", "1", "#"}, Graph},
		{[]string{"a", "1", "\xc8"}, NonWhitespace},
		{[]string{"abc", "1", "\xc8"}, NonWhitespaces},
		{[]string{"\xc8", "1", "abc"}, NonWhitespaces},
		{[]string{"1", "abc"}, MixedWord},
		{[]string{"1 abc"}, MixedWords},
		{[]string{"1", "abc123"}, MixedWord},
		{[]string{"1.1", "-1.1"}, MixedNumber},
		{[]string{"var_abc", "cde", "xyz"}, MixedWord},
		{[]string{"", "B", "z"}, Letter},
		{[]string{"", " \t"}, Empty},
		{nil, Empty},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%q", test.values), func(t *testing.T) {
			assert.Equal(t, test.expect, Classify(test.values...))
		})
	}
}

func TestKind_properties(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		for _, k := range Kinds() {
			ok, err := k.IsSubsetOf(k)
			require.NoError(t, err)
			assert.True(t, ok, k.String())
		}
	})
	t.Run("antisymmetric", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				if a != b && a.subsetOf(b) {
					assert.False(t, b.subsetOf(a), "%s and %s", a, b)
				}
			}
		}
	})
	t.Run("transitive", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				for _, c := range Kinds() {
					if a.subsetOf(b) && b.subsetOf(c) {
						assert.True(t, a.subsetOf(c), "%s %s %s", a, b, c)
					}
				}
			}
		}
	})
	t.Run("superset is inverse subset", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				sub, _ := a.IsSubsetOf(b)
				sup, _ := b.IsSupersetOf(a)
				assert.Equal(t, sub, sup, "%s %s", a, b)
			}
		}
	})
	t.Run("top", func(t *testing.T) {
		for _, k := range Kinds() {
			assert.True(t, k.subsetOf(NonWhitespacesGroup), k.String())
		}
	})
	t.Run("join idempotent", func(t *testing.T) {
		for _, k := range Kinds() {
			j, err := Join(k, k)
			require.NoError(t, err)
			assert.Equal(t, k, j)
		}
	})
	t.Run("join commutative", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				ab, _ := Join(a, b)
				ba, _ := Join(b, a)
				assert.Equal(t, ab, ba, "%s %s", a, b)
			}
		}
	})
	t.Run("join monotone", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				if a.subsetOf(b) {
					j, _ := Join(a, b)
					assert.Equal(t, b, j, "%s %s", a, b)
				}
			}
		}
	})
	t.Run("groups join to groups", func(t *testing.T) {
		for _, a := range Kinds() {
			for _, b := range Kinds() {
				if a.IsGroup() || b.IsGroup() {
					j, _ := Join(a, b)
					assert.True(t, j.IsGroup(), "%s %s -> %s", a, b, j)
				}
			}
		}
	})
}

func TestJoin(t *testing.T) {
	tests := []struct{ a, b, expect Kind }{
		{Digit, Letter, AlphaNumeric},
		{Digit, Letters, AlphaNumeric},
		{Digit, Punct, NonWhitespace},
		{Digit, Puncts, NonWhitespaces},
		{Digit, PunctsGroup, NonWhitespacesGroup},
		{Letter, Punct, NonWhitespace},
		{AlphaNumeric, Punct, Graph},
		{Number, MixedNumber, MixedNumber},
		{Number, Letters, MixedWord},
		{Number, Word, MixedWord},
		{Number, Words, MixedWords},
		{Word, Punct, NonWhitespaces},
		{Words, PunctsGroup, NonWhitespacesGroup},
		{Words, MixedWords, MixedWords},
		{Letters, Word, Word},
		{Word, MixedWord, MixedWord},
		{Digits, NonWhitespace, NonWhitespaces},
		// mixed_word is no superset of graph
		{Number, Graph, NonWhitespaces},
		{Digits, Graph, NonWhitespaces},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s+%s", test.a, test.b), func(t *testing.T) {
			j, err := Join(test.a, test.b)
			require.NoError(t, err)
			assert.Equal(t, test.expect, j)
		})
	}
}

func TestKind_notInLattice(t *testing.T) {
	var cerr ClassificationError
	_, err := Empty.IsSubsetOf(Digit)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "subset", cerr.Op)
	assert.Equal(t, "empty", cerr.Name)

	_, err = Digit.IsSupersetOf(Kind(200))
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Kind(200)", cerr.Name)

	_, err = Join(Letters, kindEnd)
	assert.Error(t, err)
}

var sampleValues = []string{
	"1", "a", "+", "\xc8", "123", "abc", "++", "1.1", ".5", "-1.1",
	"10%", "1,234", "(12)", "abc123", "abc.123", "var_abc", "abc\xc8",
	"a1 b12", "a.1 b.2", "-- ++ ==", "abc\xc8 xyz", "1 4",
}

func TestKind_regexpSound(t *testing.T) {
	for _, v := range sampleValues {
		k := Classify(v)
		rx := regexp.MustCompile(`^(?:` + k.Regexp() + `)$`)
		assert.True(t, rx.MatchString(v), "%q as %s", v, k)
	}
}

func TestClassify_order(t *testing.T) {
	vs := sampleValues
	for i, a := range vs {
		for j := i + 1; j < len(vs); j++ {
			for _, c := range vs[j+1:] {
				b := vs[j]
				perms := [][]string{
					{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
				}
				k := Classify(perms[0]...)
				for _, p := range perms {
					assert.Equal(t, k, Classify(p...), "%q", p)
					ch := newChange(p[0], p[1:]...)
					assert.Equal(t, k, ch.Kind(), "%q", p)
					rx := regexp.MustCompile(`^(?:` + ch.Pattern() + `)$`)
					for _, v := range p {
						assert.True(t, rx.MatchString(v), "%q in %s", v, ch.Pattern())
					}
				}
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		p, phrase, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, p)
		assert.False(t, phrase)
	}
	k, phrase, err := ParseKind("mixed_phrase")
	require.NoError(t, err)
	assert.Equal(t, MixedWords, k)
	assert.True(t, phrase)
	k, phrase, err = ParseKind("puncts_or_phrase")
	require.NoError(t, err)
	assert.Equal(t, PunctsGroup, k)
	assert.False(t, phrase)
	_, _, err = ParseKind("floats")
	assert.ErrorAs(t, err, &ClassificationError{})
}

func TestPattern_Recommend(t *testing.T) {
	p := NewPattern("1")
	q := NewPattern("abc")
	r, err := p.Recommend(q)
	require.NoError(t, err)
	assert.Equal(t, MixedWord, r.Kind())
	assert.Equal(t, []string{"1", "abc"}, r.Values())

	sub, err := p.IsSubsetOf(NewPattern("1.1"))
	require.NoError(t, err)
	assert.True(t, sub)
	sup, err := NewPattern("1 2").IsSupersetOf(p)
	require.NoError(t, err)
	assert.True(t, sup)

	_, err = p.Recommend(nil)
	assert.ErrorAs(t, err, &ClassificationError{})
	_, err = p.Recommend(NewPattern(" "))
	assert.ErrorAs(t, err, &ClassificationError{})
}

func TestPattern_IsPhrase(t *testing.T) {
	assert.True(t, NewPattern("a b", "", "c d").IsPhrase())
	assert.False(t, NewPattern("a b", "c").IsPhrase())
	assert.Equal(t, RgxWord+"( "+RgxWord+")+", NewPattern("a1 b1", "x y").Regexp())
	assert.Equal(t, RgxWord+"( "+RgxWord+")*", NewPattern("a1 b1", "x").Regexp())
}
