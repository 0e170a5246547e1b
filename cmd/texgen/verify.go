package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fractalqb/texgen/verify"
)

func init() {
	verifyCmd.RunE = verifyFiles
	verifyCmd.Flags().StringVarP(&verifyCmd.rulefile, "rules", "r", "",
		"Set rule file name")
	if err := verifyCmd.MarkFlagRequired("rules"); err != nil {
		panic(fmt.Sprintf("failed to mark rules flag as required: %v", err))
	}
	verifyCmd.Flags().Int(cfgMissLim, 0,
		"Set the mismatch limit for verification")
	if err := viper.BindPFlag(cfgMissLim, verifyCmd.Flags().Lookup(cfgMissLim)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", cfgMissLim, err))
	}
	rootCmd.AddCommand(&verifyCmd.Command)
}

var verifyCmd = struct {
	cobra.Command
	rulefile string
}{
	Command: cobra.Command{
		Use:   "verify [file...]",
		Short: "Verify subject files against a rule file",
	},
}

type verifyRow struct {
	Input  string            `yaml:"input"`
	Line   int               `yaml:"line"`
	Rule   string            `yaml:"rule"`
	Values map[string]string `yaml:"values"`
}

func verifyFiles(cmd *cobra.Command, files []string) error {
	rules, err := verify.ReadRuleFile(verifyCmd.rulefile)
	if err != nil {
		return err
	}
	var (
		rows     []verifyRow
		failed   int
		lastName string
	)
	vrf := verify.Verify{
		MismatchLimit: viper.GetInt(cfgMissLim),
		OnMismatch: func(n int, l string, expect *verify.Rule) bool {
			entry := logrus.WithFields(logrus.Fields{"input": lastName, "line": n})
			if expect != nil {
				entry = entry.WithField("expect", expect.Name)
			}
			entry.Warnf("mismatch: '%s'", l)
			return false
		},
	}
	err = eachInput(cmd, files, func(name string, r io.Reader) error {
		lastName = name
		res, err := vrf.Check(rules, r)
		log := logrus.WithFields(logrus.Fields{
			"input":   name,
			"rules":   verifyCmd.rulefile,
			"lines":   res.Lines,
			"matches": res.Matches,
		})
		var mc verify.MismatchCount
		switch {
		case err == nil:
			log.Info("subject matches rules")
		case errors.As(err, &mc):
			log.WithField("mismatches", int(mc)).Error("subject does not match rules")
			failed++
		default:
			return err
		}
		for _, row := range res.Rows {
			rows = append(rows, verifyRow{name, row.Line, row.Rule, row.Values})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err = writeRows(cmd.OutOrStdout(), rows); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs do not match", failed, max(len(files), 1))
	}
	return nil
}

func writeRows(w io.Writer, rows []verifyRow) error {
	if viper.GetString(cfgOutput) == outYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, r := range rows {
		keys := make([]string, 0, len(r.Values))
		for k := range r.Values {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%q", k, r.Values[k])
		}
		fmt.Fprintf(w, "%s:%d %s%s\n", r.Input, r.Line, r.Rule, sb.String())
	}
	return nil
}
