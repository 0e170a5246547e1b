package verify

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalqb/texgen"
)

func TestLineSepScanner(t *testing.T) {
	tests := []struct {
		text  string
		lines []string
		seps  []string
	}{
		{"line1\r\nline2", []string{"line1", "line2"}, []string{"\r\n", ""}},
		{"line1\r\n", []string{"line1"}, []string{"\r\n"}},
		{"line1\nline2", []string{"line1", "line2"}, []string{"\n", ""}},
		{"line1\n", []string{"line1"}, []string{"\n"}},
		{"line1\r", []string{"line1"}, []string{"\r"}},
	}
	for _, test := range tests {
		scn := bufio.NewScanner(strings.NewReader(test.text))
		var sep lineSepScanner
		scn.Split(sep.ScanLines)
		var lines, seps []string
		for scn.Scan() {
			lines = append(lines, scn.Text())
			seps = append(seps, string(sep))
		}
		assert.Equal(t, test.lines, lines, "%q", test.text)
		assert.Equal(t, test.seps, seps, "%q", test.text)
	}
}

func TestPrepare_Aligned(t *testing.T) {
	al, err := Prepare{Label: "1"}.Aligned(strings.NewReader("eth0 up 1500\r\neth1 down 1500\n"))
	require.NoError(t, err)
	assert.Equal(t, "word(var_v10) letters(var_v11) 1500", al.Snippet())

	_, err = Prepare{}.Aligned(strings.NewReader("total 5 items\ntotal 12 new items"))
	var serr SubjError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Line)
	assert.ErrorAs(t, err, &texgen.AlignmentError{})

	_, err = Prepare{}.Aligned(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPrepare_Pattern(t *testing.T) {
	const input = `eth0 mtu 1500
capture(0,2) keep() action(): word(var=v0, value=eth0) letters(var=v1, value=mtu) digits(var=v2, value=1500)
wlan0 mtu 9000
`
	lp, err := Prepare{}.Pattern(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, texgen.StateMerged, lp.State())
	rx, err := lp.Regex()
	require.NoError(t, err)
	assert.Equal(t, `(?P<v0>[a-zA-Z][a-zA-Z0-9]*) mtu (?P<v2>\d+)`, rx)

	_, err = Prepare{}.Pattern(strings.NewReader("eth0 mtu 1500\neth0 mtu"))
	var serr SubjError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Line)

	_, err = Prepare{}.Pattern(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPrepare_Rules(t *testing.T) {
	specs, err := Prepare{}.Rules(strings.NewReader("a b\na b\n\nc  d (x)\n"))
	require.NoError(t, err)
	assert.Equal(t, []RuleSpec{
		{ID: "line1", Regex: "a b", Repeat: true},
		{ID: "line2", Regex: `c +d \(x\)`},
	}, specs)
}
