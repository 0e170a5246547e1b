package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fractalqb/texgen"
	"github.com/fractalqb/texgen/verify"
)

func init() {
	symbolizeCmd.RunE = symbolizeFiles
	rootCmd.AddCommand(&symbolizeCmd.Command)
}

var symbolizeCmd = struct {
	cobra.Command
}{
	Command: cobra.Command{
		Use:   "symbolize [file...]",
		Short: "Turn each line into a snippet with one field per token",
	},
}

func symbolizeFiles(cmd *cobra.Command, files []string) error {
	var specs []verify.RuleSpec
	err := eachInput(cmd, files, func(name string, r io.Reader) error {
		lines, err := verify.Lines(r)
		if err != nil {
			return err
		}
		for i, l := range lines {
			if strings.TrimSpace(l) == "" {
				continue
			}
			lp := texgen.NewLinePattern(viper.GetString(cfgLabel))
			snip, err := lp.Symbolize(l)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", name, i+1, err)
			}
			rx, err := lp.Regex()
			if err != nil {
				return fmt.Errorf("%s:%d: %w", name, i+1, err)
			}
			specs = append(specs, verify.RuleSpec{
				ID:      fmt.Sprintf("line%d", len(specs)+1),
				Regex:   rx,
				Snippet: snip,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithField("lines", len(specs)).Debug("symbolized")
	if viper.GetString(cfgOutput) == outYAML {
		return verify.WriteRules(cmd.OutOrStdout(), specs)
	}
	for _, s := range specs {
		fmt.Fprintln(cmd.OutOrStdout(), s.Snippet)
	}
	return nil
}
