package texgen

import (
	"fmt"
	"strings"
)

// Change accumulates the values observed at one varying position of a line.
// A Change must not be modified concurrently.
type Change struct {
	name    string
	history []string
	seen    kindSet
	kind    Kind
	// single resp. multi-token values seen
	single, multi bool
	sawEmpty      bool
}

func NewChange(text, name string) *Change {
	c := &Change{name: name}
	c.Add(text)
	return c
}

// Add records text as it is. Blank text only sets the saw-empty flag for
// rendering.
func (c *Change) Add(text string) {
	c.history = append(c.history, text)
	switch toks := strings.Fields(text); len(toks) {
	case 0:
		c.sawEmpty = true
		return
	case 1:
		c.single = true
	default:
		c.multi = true
	}
	c.widen(classifyValue(text))
}

// Widen generalizes the change's kind to cover k. If k is a group kind and
// phrase is false the change renders as mixed single and multi-token data.
func (c *Change) Widen(k Kind, phrase bool) error {
	if err := checkKinds("widen", k); err != nil {
		return err
	}
	c.widen(k)
	if k.IsGroup() && !phrase {
		c.single = true
	}
	return nil
}

func (c *Change) widen(k Kind) {
	c.seen |= setOf(k)
	c.kind = fit(cover(c.seen), c.history)
}

func (c *Change) Name() string { return c.name }

// History returns all recorded texts in the order they were added.
func (c *Change) History() []string { return append([]string(nil), c.history...) }

// Values returns the non-blank recorded texts.
func (c *Change) Values() (res []string) {
	for _, h := range c.history {
		if strings.TrimSpace(h) != "" {
			res = append(res, h)
		}
	}
	return res
}

// IsEmpty is true as long as only blank texts were recorded.
func (c *Change) IsEmpty() bool { return c.kind == Empty }

// SawEmpty reports whether a blank text was recorded besides non-blank
// ones.
func (c *Change) SawEmpty() bool { return c.sawEmpty && c.kind != Empty }

// Varies reports whether at least two different texts were recorded.
func (c *Change) Varies() bool {
	for _, h := range c.history[1:] {
		if h != c.history[0] {
			return true
		}
	}
	return false
}

func (c *Change) Kind() Kind { return c.kind }

// IsPhrase reports whether all non-blank values have embedded whitespace.
func (c *Change) IsPhrase() bool { return c.multi && !c.single }

func (c *Change) KindName() string { return c.kind.PhraseName(c.IsPhrase()) }

// Fragment is the regexp of the change's kind without a capture group.
func (c *Change) Fragment() string { return c.kind.PhraseRegexp(c.IsPhrase()) }

func (c *Change) Snippet() string {
	if c.SawEmpty() {
		return fmt.Sprintf("%s(var_%s, or_empty)", c.KindName(), c.name)
	}
	return fmt.Sprintf("%s(var_%s)", c.KindName(), c.name)
}

// Pattern returns the change as named capture group.
func (c *Change) Pattern() string {
	if c.SawEmpty() {
		return "(?P<" + c.name + ">(" + c.Fragment() + ")|)"
	}
	return "(?P<" + c.name + ">" + c.Fragment() + ")"
}

func (c *Change) String() string { return c.Snippet() }
