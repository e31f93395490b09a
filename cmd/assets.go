package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/doc-comments/internal/site"
)

var assetsFormat string

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Prints the assets the current configuration injects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := site.Init(appConfig, extensions()...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch assetsFormat {
		case "html":
			head, err := assets.HeadHTML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, head)
			return err
		case "yaml":
			b, err := yaml.Marshal(assets.List())
			if err != nil {
				return fmt.Errorf("failed to encode assets: %w", err)
			}
			_, err = out.Write(b)
			return err
		default:
			return fmt.Errorf("unknown format %q, use html or yaml", assetsFormat)
		}
	},
}

func init() {
	assetsCmd.Flags().StringVarP(&assetsFormat, "format", "f", "html", "output format (html, yaml)")
	rootCmd.AddCommand(assetsCmd)
}
