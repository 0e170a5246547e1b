package verify

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalqb/texgen"
)

func ExampleVerify() {
	lp := texgen.NewLinePattern("")
	lp.Merge("eth0 mtu 1500")
	lp.Merge("capture(0,2) keep() action(): word(var=v0, value=eth0) letters(var=v1, value=mtu) digits(var=v2, value=1500)")
	rule, _ := PatternRule("iface", lp, true)
	var vrf Verify
	res, err := vrf.Check([]*Rule{rule}, strings.NewReader("eth0 mtu 1500\nwlan0 mtu 9000\n"))
	fmt.Println(res.Matches, err)
	for _, row := range res.Rows {
		fmt.Println(row.Line, row.Values["v0"], row.Values["v2"])
	}
	// Output:
	// 2 <nil>
	// 1 eth0 1500
	// 2 wlan0 9000
}

func mustRules(t *testing.T, specs ...RuleSpec) []*Rule {
	t.Helper()
	rf := RuleFile{Version: RuleFileVersion, Rules: specs}
	rules, err := rf.Compile()
	require.NoError(t, err)
	return rules
}

type mismatch struct {
	lineNo int
	line   string
	expect string
}

func TestVerify_Check(t *testing.T) {
	rules := mustRules(t,
		RuleSpec{ID: "start", Regex: "start"},
		RuleSpec{ID: "item", Regex: `item \d+`, Repeat: true},
		RuleSpec{ID: "end", Regex: "end"},
	)
	tests := []struct {
		name       string
		subj       string
		matches    int
		mismatches []mismatch
	}{
		{"all", "start\nitem 1\nitem 2\nend\n", 4, nil},
		{"crlf", "start\r\nitem 1\r\nend\r\n", 3, nil},
		{"skip", "start\nitem 1\nbogus\nend", 3, []mismatch{{3, "bogus", "end"}}},
		{"short", "start\nitem 1", 2, []mismatch{{3, "", "end"}}},
		{"no repeat", "start\nitem\nitem 2\nend", 3, []mismatch{{2, "item", "item"}}},
		{"excess", "start\nitem 1\nend\nmore", 3, []mismatch{{4, "more", ""}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got []mismatch
			vrf := Verify{
				OnMismatch: func(lno int, line string, expect *Rule) bool {
					m := mismatch{lineNo: lno, line: line}
					if expect != nil {
						m.expect = expect.Name
					}
					got = append(got, m)
					return false
				},
			}
			res, err := vrf.Check(rules, strings.NewReader(test.subj))
			assert.Equal(t, test.matches, res.Matches)
			assert.Equal(t, test.mismatches, got)
			if len(test.mismatches) == 0 {
				assert.NoError(t, err)
				return
			}
			var mc MismatchCount
			require.True(t, errors.As(err, &mc))
			assert.Equal(t, len(test.mismatches), int(mc))
			assert.Equal(t, int(mc), res.Mismatches)
		})
	}
}

func TestVerify_limit(t *testing.T) {
	rules := mustRules(t, RuleSpec{Regex: "a"})
	vrf := Verify{MismatchLimit: 1}
	res, err := vrf.Check(rules, strings.NewReader("x\ny\nz"))
	assert.Equal(t, MismatchCount(1), err)
	assert.Equal(t, 1, res.Lines)

	vrf.OnMismatch = func(int, string, *Rule) bool { return true }
	vrf.MismatchLimit = 0
	res, err = vrf.Check(rules, strings.NewReader("x\ny\nz"))
	assert.Equal(t, MismatchCount(1), err)
	assert.Equal(t, 1, res.Lines)

	vrf.OnMismatch = nil
	_, err = vrf.Check(nil, strings.NewReader("x\ny"))
	assert.Equal(t, MismatchCount(2), err)
}

func TestVerify_rulesUnchanged(t *testing.T) {
	rules := mustRules(t, RuleSpec{ID: "n", Regex: `\d+`, Repeat: true})
	var vrf Verify
	for i := 0; i < 2; i++ {
		res, err := vrf.Check(rules, strings.NewReader("1\n2\n3"))
		require.NoError(t, err)
		assert.Equal(t, 3, res.Matches)
	}
	assert.Equal(t, 0, rules[0].hits)
}

func TestVerify_rows(t *testing.T) {
	rules := mustRules(t,
		RuleSpec{ID: "kv", Regex: `(?P<key>\w+)=(?P<val>\w*)`, Repeat: true},
	)
	var matched []int
	vrf := Verify{OnMatch: func(lno int, _ string, _ *Rule, _ []int) {
		matched = append(matched, lno)
	}}
	res, err := vrf.Check(rules, strings.NewReader("a=1\nb=\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, matched)
	assert.Equal(t, []Row{
		{Line: 1, Rule: "kv", Values: map[string]string{"key": "a", "val": "1"}},
		{Line: 2, Rule: "kv", Values: map[string]string{"key": "b", "val": ""}},
	}, res.Rows)
}

func TestNewRule(t *testing.T) {
	r, err := NewRule("r", "a|b", false)
	require.NoError(t, err)
	assert.True(t, r.Regexp.MatchString("b"))
	assert.False(t, r.Regexp.MatchString("ab"))
	_, err = NewRule("bad", "(", false)
	assert.ErrorContains(t, err, "rule bad")
}
