package texgen

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Attributes of snippet fields
const (
	attrVar     = "var"
	attrCapture = "cvar"
	attrKeep    = "kvar"
)

const snippetHeader = "capture() keep() action(): "

var (
	headerRx = regexp.MustCompile(`^capture\(([^)]*)\)\s*keep\(([^)]*)\)\s*action\((.*?)\):`)
	fieldRx  = regexp.MustCompile(`([a-z_]+)\((c?var|kvar)=(v\w*), value=`)
	splitRx  = regexp.MustCompile(`(?:^|,\s*)(\d+)-split`)
)

// IsSnippet reports whether input starts with a snippet header.
func IsSnippet(input string) bool { return headerRx.MatchString(input) }

// DefaultDelimiters are used to split a field when a split action names no
// delimiters.
var DefaultDelimiters = func() string {
	var sb strings.Builder
	for c := '!'; c <= '~'; c++ {
		if isPunct(c) {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}()

type splitAction struct {
	num    int
	delims string
}

type directives struct {
	capture, keep    []int
	captCol, keepCol int
	splits           []splitAction
	splitCol         int
}

type snipField struct {
	col    int
	sep    string
	kind   Kind
	phrase bool
	attr   string
	name   string
	num    int
	value  string
}

type snippet struct {
	directives
	fields []snipField
	trail  string
}

func parseNums(s string, col int) (res []int, err error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	for _, n := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, SnippetError{Col: col, err: err}
		}
		res = append(res, i)
	}
	return res, nil
}

func parseActions(s string, col int) (res []splitAction, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	locs := splitRx.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 || locs[0][0] != 0 {
		return nil, snippetErrorf(col, "unknown action '%s'", s)
	}
	for i, loc := range locs {
		n, _ := strconv.Atoi(s[loc[2]:loc[3]])
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		act := splitAction{num: n}
		switch rest := s[loc[1]:end]; {
		case rest == "":
		case rest[0] == '-' && len(rest) > 1:
			act.delims = rest[1:]
		default:
			return nil, snippetErrorf(col+loc[1], "invalid split delimiters '%s'", rest)
		}
		res = append(res, act)
	}
	return res, nil
}

func parseVarNum(name, label string) (int, error) {
	prefix := "v" + label
	if !strings.HasPrefix(name, prefix) {
		return 0, errors.New("variable name does not match label")
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 0 {
		return 0, errors.New("variable name has no number")
	}
	return n, nil
}

func parseSnippet(input, label string) (res snippet, err error) {
	m := headerRx.FindStringSubmatchIndex(input)
	if m == nil {
		return res, snippetErrorf(0, "missing snippet header")
	}
	if res.capture, err = parseNums(input[m[2]:m[3]], m[2]); err != nil {
		return res, err
	}
	res.captCol = m[2]
	if res.keep, err = parseNums(input[m[4]:m[5]], m[4]); err != nil {
		return res, err
	}
	res.keepCol = m[4]
	if res.splits, err = parseActions(input[m[6]:m[7]], m[6]); err != nil {
		return res, err
	}
	res.splitCol = m[6]
	off := m[1]
	if strings.HasPrefix(input[off:], " ") {
		off++
	}
	body := input[off:]
	locs := fieldRx.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return res, snippetErrorf(off, "no fields")
	}
	sep := body[:locs[0][0]]
	if strings.TrimFunc(sep, isSpace) != "" {
		return res, snippetErrorf(off, "unexpected text '%s'", sep)
	}
	seen := make(map[int]bool)
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := body[loc[1]:end]
		rest := strings.TrimRightFunc(seg, isSpace)
		if !strings.HasSuffix(rest, ")") {
			return res, snippetErrorf(off+loc[1]+len(rest), "missing ')'")
		}
		f := snipField{
			col:   off + loc[0],
			sep:   sep,
			attr:  body[loc[4]:loc[5]],
			name:  body[loc[6]:loc[7]],
			value: rest[:len(rest)-1],
		}
		if f.kind, f.phrase, err = ParseKind(body[loc[2]:loc[3]]); err != nil {
			return res, SnippetError{Col: off + loc[2], err: err}
		}
		if f.num, err = parseVarNum(f.name, label); err != nil {
			return res, SnippetError{Col: off + loc[6], err: err}
		}
		if seen[f.num] {
			return res, snippetErrorf(off+loc[6], "duplicate variable %s", f.name)
		}
		seen[f.num] = true
		res.fields = append(res.fields, f)
		sep = seg[len(rest):]
	}
	res.trail = sep
	return res, nil
}

// splitDelims cuts s into alternating runs of delimiter and other runes.
func splitDelims(s, delims string) (res []string) {
	start, inDelim := 0, false
	for i, r := range s {
		d := strings.ContainsRune(delims, r)
		if i > 0 && d != inDelim {
			res = append(res, s[start:i])
			start = i
		}
		inDelim = d
	}
	if start < len(s) {
		res = append(res, s[start:])
	}
	return res
}
