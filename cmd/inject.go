package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/doc-comments/internal/site"
)

var injectCmd = &cobra.Command{
	Use:   "inject <dir>",
	Short: "Adds comment widgets to an already built HTML site",
	Long: `The inject command adds the configured comment widgets to every HTML page
below <dir>, for sites generated by another documentation builder. Pages that
were injected before are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir)
		}
		assets, err := site.Init(appConfig, extensions()...)
		if err != nil {
			return err
		}
		n, err := site.InjectDir(dir, assets)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Injected %d page(s) in %s\n", n, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(injectCmd)
}
