package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "deckweaver",
	Short: "Tool for compiling plain-text card files into Anki packages",
	Long: `Deckweaver is a command-line tool for turning plain-text study-card files
into Anki-importable .apkg packages. Source files hold a KEY: value header,
card blocks delimited by ---, SUBDECK: directives for nested decks, and
inline <img src="..."> and [sound:...] media references resolved against a
media directory.`,
}

func init() {
	RootCmd.AddCommand(buildCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
