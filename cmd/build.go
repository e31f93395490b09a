package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Bitlatte/doc-comments/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site with comment widgets",
	Long: `The build command renders Markdown from the content directory through the
layouts, copies static assets, and adds the configured comment widgets to the
head of every generated page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return site.NewBuilder(appConfig, extensions()...).Build()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
