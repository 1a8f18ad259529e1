package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/btraven00/korpus/internal/filter"
	"github.com/btraven00/korpus/internal/normalize"
)

var (
	cfgFile      string
	quiet        bool
	verbose      bool
	output       string
	logFormat    string
	logFile      string
	profilesFile string
)

var log = logrus.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "korpus",
	Short: "Build monolingual and parallel corpora for minority Finnic languages",
	Long: `Korpus turns page text scraped from Wikipedia, news sites and dictionary
corpora into clean sentence lists for Livvi, Veps, Karelian Proper and Ludian.

Each document goes through appendix stripping, normalization, sentence
splitting, abbreviation and continuation repair, sentence isolation and a
language validity filter.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels running batches after their current documents.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.korpus.yaml)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "quiet output (warnings and errors only)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVarP(&output, "output", "o", "human", "output format (human, json)")
	flags.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	flags.StringVar(&profilesFile, "profiles", "", "YAML file with additional language profiles")

	flags.StringP("lang", "l", "", "language code (default: taken from the input file name)")
	flags.Bool("norm", true, "apply the normalization stage")
	flags.Bool("filter", true, "apply the sentence and document filters")
	flags.Float64("max-foreign-ratio", filter.DefaultMaxForeignRatio, "maximum ratio of foreign-script characters to native words")
	flags.Int("min-length", filter.DefaultMinLength, "minimum number of native words per sentence")
	flags.String("rules", normalize.SetWiki, "normalization rule set ("+strings.Join(normalize.RuleSetNames(), ", ")+")")

	for _, name := range []string{"lang", "norm", "filter", "max-foreign-ratio", "min-length", "rules"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".korpus")
	}

	viper.SetEnvPrefix("korpus")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !quiet {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup configures logging and loads extra language profiles before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := configureLogger(log, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if profilesFile != "" {
		if err := registerProfiles(profilesFile); err != nil {
			return err
		}
	}

	return nil
}

func configureLogger(l *logrus.Logger, stderr io.Writer) error {
	switch logFormat {
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	default:
		return fmt.Errorf("unsupported log format '%s' (text, json)", logFormat)
	}

	switch {
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	case quiet:
		l.SetLevel(logrus.WarnLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}

	if logFile != "" {
		l.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
		return nil
	}

	l.SetOutput(stderr)
	return nil
}
