package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/deckweaver/internal/config"
	"github.com/arcanaland/deckweaver/internal/validator"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [input_file]",
	Short: "Check a card source file without building a package",
	Long: `Check parses a card source file and reports what a build would produce:
header keys, card and subdeck counts, dropped blocks and missing media.
Nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		mediaDir, _ := cmd.Flags().GetString("media-dir")

		if _, err := os.Stat(inputPath); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", inputPath)
		}

		if mediaDir == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("error loading config: %v", err)
			}
			mediaDir = cfg.MediaDir
		}

		v := validator.NewValidator(inputPath, mediaDir)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("check error: %v", err)
		}

		fmt.Println("Check Results:")
		fmt.Println("--------------")
		fmt.Printf("Header keys: %s\n", formatList(v.HeaderKeys))
		fmt.Printf("Cards:       %d\n", v.CardCount)
		fmt.Printf("Subdecks:    %s\n", formatList(v.Subdecks))

		if len(results.Errors) == 0 {
			fmt.Printf("\n✅ '%s' would build successfully.\n", inputPath)
		} else {
			fmt.Printf("\n❌ '%s' has %d errors:\n", inputPath, len(results.Errors))
			for i, e := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, e)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func init() {
	RootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("media-dir", "", "Directory holding referenced media files (default \"media\")")
}
