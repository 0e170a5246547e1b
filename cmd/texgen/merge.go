package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fractalqb/texgen/verify"
)

func init() {
	mergeCmd.RunE = mergeFiles
	mergeCmd.Flags().StringVar(&mergeCmd.id, "id", "",
		"Set the rule id for yaml output (default: file name)")
	mergeCmd.Flags().BoolVarP(&mergeCmd.repeat, "repeat", "r", false,
		"Mark the rule as matching a run of lines")
	rootCmd.AddCommand(&mergeCmd.Command)
}

var mergeCmd = struct {
	cobra.Command
	id     string
	repeat bool
}{
	Command: cobra.Command{
		Use:   "merge [file...]",
		Short: "Merge sample lines and snippets of each file into one line pattern",
		Long: `Merge sample lines and snippets of each file into one line pattern.

Each input line is either a raw sample line or a snippet. The text output
shows the resulting snippet, regex and template.`,
	},
}

func mergeFiles(cmd *cobra.Command, files []string) error {
	prep := verify.Prepare{Label: viper.GetString(cfgLabel)}
	var specs []verify.RuleSpec
	err := eachInput(cmd, files, func(name string, r io.Reader) error {
		lp, err := prep.Pattern(r)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		spec := verify.RuleSpec{
			ID:      ruleName(mergeCmd.id, name),
			Snippet: lp.Snippet(),
			Repeat:  mergeCmd.repeat,
		}
		if spec.Regex, err = lp.Regex(); err != nil {
			return err
		}
		if spec.Template, err = lp.TemplateSnippet(); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"input":  name,
			"state":  lp.State(),
			"fields": len(lp.Fields()),
		}).Debug("merged")
		specs = append(specs, spec)
		return nil
	})
	if err != nil {
		return err
	}
	return writeSpecs(cmd.OutOrStdout(), specs)
}

func ruleName(id, input string) string {
	if id != "" {
		return id
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeSpecs(w io.Writer, specs []verify.RuleSpec) error {
	if viper.GetString(cfgOutput) == outYAML {
		return verify.WriteRules(w, specs)
	}
	for i, s := range specs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Snippet != "" {
			fmt.Fprintf(w, "snippet:  %s\n", s.Snippet)
		}
		fmt.Fprintf(w, "regex:    %s\n", s.Regex)
		fmt.Fprintf(w, "template: %s\n", s.Template)
	}
	return nil
}
