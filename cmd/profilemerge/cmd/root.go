package cmd

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "PROFILEMERGE"

type rootOpts struct {
	cfgFile string
	debug   bool
}

var longRootCmdDescription = `profilemerge applies an operation (update, increment, decrement, delete,
array_add, array_remove or get) from a source delta document onto a target
profile document and reports every path it changed.
`

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own configuration, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "profilemerge",
		Short:         "Apply delta documents to profile documents.",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (json or yaml) holding default flag values")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "turn on debug logging")
	rootCmd.DisableAutoGenTag = true

	rootCmd.AddCommand(NewApplyCmd(v), NewVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("profilemerge: %v", err)
		os.Exit(1)
	}
}

// initConfig reads the optional config file and PROFILEMERGE_* environment
// variables, then sets up logging.
func initConfig(cmd *cobra.Command, v *viper.Viper, opts *rootOpts) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.cfgFile != "" {
		v.SetConfigFile(opts.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", opts.cfgFile)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	if opts.debug || v.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}
