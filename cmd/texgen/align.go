package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fractalqb/texgen/verify"
)

func init() {
	alignCmd.RunE = alignFiles
	alignCmd.Flags().StringVar(&alignCmd.id, "id", "",
		"Set the rule id for yaml output (default: file name)")
	rootCmd.AddCommand(&alignCmd.Command)
}

var alignCmd = struct {
	cobra.Command
	id string
}{
	Command: cobra.Command{
		Use:   "align [file...]",
		Short: "Align the sample lines of each file into one pattern",
	},
}

func alignFiles(cmd *cobra.Command, files []string) error {
	prep := verify.Prepare{Label: viper.GetString(cfgLabel)}
	var specs []verify.RuleSpec
	err := eachInput(cmd, files, func(name string, r io.Reader) error {
		al, err := prep.Aligned(r)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logrus.WithFields(logrus.Fields{
			"input":   name,
			"samples": len(al.Samples()),
			"changes": len(al.Changes()),
		}).Debug("aligned")
		specs = append(specs, verify.RuleSpec{
			ID:       ruleName(alignCmd.id, name),
			Regex:    al.Pattern(),
			Template: al.Snippet(),
		})
		return nil
	})
	if err != nil {
		return err
	}
	return writeSpecs(cmd.OutOrStdout(), specs)
}
