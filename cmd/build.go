package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/deckweaver/internal/anki"
	"github.com/arcanaland/deckweaver/internal/config"
	"github.com/arcanaland/deckweaver/internal/deck"
	"github.com/arcanaland/deckweaver/internal/document"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [input_file]",
	Short: "Compile a card source file into an Anki package",
	Long: `Build parses a plain-text card source file and writes an Anki-importable
.apkg package. Media referenced by the cards is looked up in the media
directory (media/ by default) relative to the current directory; missing
files are skipped with a warning.

The base deck name is taken from the DECK_NAME header if present, then from
the --deck-name flag, then derived from the input filename.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		outputPath, _ := cmd.Flags().GetString("output")
		deckName, _ := cmd.Flags().GetString("deck-name")
		cssPath, _ := cmd.Flags().GetString("css")
		mediaDir, _ := cmd.Flags().GetString("media-dir")

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %v", err)
		}
		if deckName == "" {
			deckName = cfg.DefaultDeckName
		}
		if cssPath == "" {
			cssPath = cfg.CSSFile
		}
		if mediaDir == "" {
			mediaDir = cfg.MediaDir
		}

		// Load CSS or fall back to the default style
		css := ""
		if cssPath != "" {
			data, err := os.ReadFile(cssPath)
			if err != nil {
				color.Yellow("⚠️  CSS file not found at '%s'. Using default style.", cssPath)
			} else {
				css = string(data)
				fmt.Printf("🎨 Loaded custom style from '%s'\n", cssPath)
			}
		}

		raw, err := os.ReadFile(inputPath)
		if err != nil {
			color.Red("❌ Error: input file not found at '%s'", inputPath)
			return nil
		}

		fmt.Printf("Parsing input file: '%s'...\n", inputPath)
		doc := document.Parse(string(raw))

		if len(doc.Cards) == 0 {
			fmt.Println("No cards found. Exiting.")
			return nil
		}

		d := deck.Build(doc, deckName, inputPath)
		fmt.Printf("Building deck: '%s'\n", d.Name)

		found, missing := d.ResolveMedia(mediaDir)
		for _, path := range missing {
			color.Yellow("⚠️  Media file not found at '%s' and will be skipped.", path)
		}

		model := anki.NewModel(css)
		if err := anki.WritePackage(d, model, found, outputPath); err != nil {
			return fmt.Errorf("error writing .apkg file: %v", err)
		}

		color.Green("✅ Success! Anki package '%s' created with %d cards.", outputPath, d.CardCount())
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("output", "o", "output.apkg", "Path for the output .apkg file")
	buildCmd.Flags().StringP("deck-name", "d", "", "Default deck name (overridden by DECK_NAME in the file header)")
	buildCmd.Flags().String("css", "", "Path to a custom CSS file for card styling")
	buildCmd.Flags().String("media-dir", "", "Directory holding referenced media files (default \"media\")")
}
