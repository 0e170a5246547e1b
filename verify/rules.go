package verify

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFileVersion is the version of the rule file format written by
// WriteRules.
const RuleFileVersion = 1

// RuleFile is the YAML representation of a list of rules.
//
//	version: 1
//	rules:
//	  - id: ifconfig
//	    regex: '(?P<v4>[a-zA-Z][a-zA-Z0-9]*): flags=(?P<v8>\d+)<.*'
//	    template: 'word(var_v4): flags=digits(var_v8)<...'
//	  - id: option
//	    regex: '\s+options=.*'
//	    repeat: true
type RuleFile struct {
	Version int        `yaml:"version"`
	Rules   []RuleSpec `yaml:"rules"`
}

// RuleSpec is the YAML representation of a Rule. Snippet and Template are
// informational and not used for matching.
type RuleSpec struct {
	ID       string `yaml:"id"`
	Regex    string `yaml:"regex"`
	Snippet  string `yaml:"snippet,omitempty"`
	Template string `yaml:"template,omitempty"`
	Repeat   bool   `yaml:"repeat,omitempty"`
}

func ruleID(i int) string { return fmt.Sprintf("line%d", i+1) }

// Compile compiles all rule specs in order.
func (rf *RuleFile) Compile() ([]*Rule, error) {
	res := make([]*Rule, len(rf.Rules))
	for i, s := range rf.Rules {
		id := s.ID
		if id == "" {
			id = ruleID(i)
		}
		r, err := NewRule(id, s.Regex, s.Repeat)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}

// ReadRules reads a rule file from r and compiles its rules.
func ReadRules(r io.Reader) ([]*Rule, error) {
	var rf RuleFile
	if err := yaml.NewDecoder(r).Decode(&rf); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if rf.Version > RuleFileVersion {
		return nil, fmt.Errorf("unsupported rule file version %d", rf.Version)
	}
	return rf.Compile()
}

// ReadRuleFile reads the rule file with the given name.
func ReadRuleFile(name string) ([]*Rule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rules, err := ReadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rules, nil
}

// WriteRules writes specs as rule file to w.
func WriteRules(w io.Writer, specs []RuleSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(RuleFile{Version: RuleFileVersion, Rules: specs}); err != nil {
		return err
	}
	return enc.Close()
}
