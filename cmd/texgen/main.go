// A command line tool to infer line patterns from sample text
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	cfgLabel    = "label"
	cfgOutput   = "output"
	cfgMissLim  = "mismatch-limit"
	cfgLogLevel = "log-level"
	cfgLogJSON  = "log-json"
)

const (
	outText = "text"
	outYAML = "yaml"
)

var rootCmd = struct {
	cobra.Command
	cfgFile string
}{
	Command: cobra.Command{
		Use:   "texgen",
		Short: "Infer regex line patterns from sample text",
		Long: `Infer regex line patterns from sample text.

Sample lines are generalized into snippets of the form

  capture() keep() action(): letters(var=v0, value=total) digits(var=v1, value=12)

Edit a snippet to capture (cvar), keep (kvar) or split fields and merge it
again to get the final regex and template.

Configuration is read from flags, TEXGEN_* environment variables and an
optional config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	},
}

func init() {
	rootCmd.PersistentPreRunE = setup
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootCmd.cfgFile, "config", "", "Configuration file path")
	pf.StringP(cfgLabel, "l", "", "Label put into variable names")
	pf.StringP(cfgOutput, "o", outText, "Output format (text, yaml)")
	pf.String(cfgLogLevel, "info", "Logging level (debug, info, warn, error)")
	pf.Bool(cfgLogJSON, false, "Use JSON log format")
	if err := viper.BindPFlags(pf); err != nil {
		panic(fmt.Sprintf("failed to bind persistent flags: %v", err))
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := loadConfig(rootCmd.cfgFile); err != nil {
		return err
	}
	if err := setupLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}
	switch out := viper.GetString(cfgOutput); out {
	case outText, outYAML:
	default:
		return fmt.Errorf("unknown output format '%s'", out)
	}
	return nil
}

func loadConfig(file string) error {
	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	viper.SetEnvPrefix("TEXGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	return nil
}

func setupLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(viper.GetString(cfgLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(w)
	if viper.GetBool(cfgLogJSON) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// eachInput calls do for each named file or for stdin if there are no files.
func eachInput(cmd *cobra.Command, files []string, do func(name string, r io.Reader) error) error {
	if len(files) == 0 {
		return do("stdin", cmd.InOrStdin())
	}
	for _, f := range files {
		if err := eachFile(f, do); err != nil {
			return err
		}
	}
	return nil
}

func eachFile(name string, do func(name string, r io.Reader) error) error {
	rd, err := os.Open(name)
	if err != nil {
		return err
	}
	defer rd.Close()
	logrus.WithField("file", name).Debug("reading input")
	return do(name, rd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("texgen failed")
		os.Exit(1)
	}
}
