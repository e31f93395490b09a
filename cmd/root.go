package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/doc-comments/internal/comments"
	"github.com/Bitlatte/doc-comments/internal/config"
	"github.com/Bitlatte/doc-comments/internal/model"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "doc-comments",
	Short: "Add comment widgets to documentation sites",
	Long: `doc-comments builds documentation sites from Markdown content and injects
third-party commenting widgets (hypothes.is, dokieli, utterances, giscus)
configured under comments_config into every page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		log.SetLevel(level)

		appConfig, err = config.Load(cfgFile)
		return err
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			log.Info("hint: " + hint)
		}
		os.Exit(1)
	}
}

// extensions enabled for every build.
func extensions() []model.Extension {
	return []model.Extension{comments.Extension{}}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
