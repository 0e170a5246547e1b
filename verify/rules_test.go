package verify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruleFile = `version: 1
rules:
  - id: header
    regex: 'Kernel Interface table'
  - regex: '(?P<iface>\w+) +(?P<mtu>\d+)'
    template: 'word(var_iface) digits(var_mtu)'
    repeat: true
`

func TestReadRules(t *testing.T) {
	rules, err := ReadRules(strings.NewReader(ruleFile))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "header", rules[0].Name)
	assert.False(t, rules[0].Repeat)
	assert.Equal(t, "line2", rules[1].Name)
	assert.True(t, rules[1].Repeat)
	assert.Equal(t, []string{"", "iface", "mtu"}, rules[1].Regexp.SubexpNames())

	rules, err = ReadRules(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, rules)

	_, err = ReadRules(strings.NewReader("version: 2\n"))
	assert.ErrorContains(t, err, "version 2")
	_, err = ReadRules(strings.NewReader("rules:\n  - regex: '('\n"))
	assert.Error(t, err)
}

func TestWriteRules(t *testing.T) {
	specs := []RuleSpec{
		{ID: "a", Regex: `a \d+`, Repeat: true},
		{ID: "b", Regex: `b: (?P<v1>\S+)`, Template: "b: non_whitespaces(var_v1)"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteRules(&buf, specs))
	rules, err := ReadRules(&buf)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Name)
	assert.True(t, rules[0].Repeat)
	assert.True(t, rules[1].Regexp.MatchString("b: x=1"))
}
