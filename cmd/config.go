package cmd

import (
	"fmt"
	"os"

	"github.com/arcanaland/deckweaver/internal/config"
	"github.com/spf13/cobra"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deckweaver configuration",
	Long:  `Commands for inspecting and updating the deckweaver configuration file.`,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		configPath := config.GetConfigFilePath()

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Config file at %s does not exist.\n", configPath)
			fmt.Println("Run 'deckweaver config init' to create it.")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		fmt.Println("Config file:", configPath)
		fmt.Println("  default_deck_name:", orNone(cfg.DefaultDeckName))
		fmt.Println("  media_dir:        ", cfg.MediaDir)
		fmt.Println("  css_file:         ", orNone(cfg.CSSFile))
	},
}

// configSetDeckNameCmd represents the config set-deck-name command
var configSetDeckNameCmd = &cobra.Command{
	Use:   "set-deck-name [name]",
	Short: "Set the default deck name used when a file has no DECK_NAME header",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		if err := config.SetDefaultDeckName(name); err != nil {
			fmt.Printf("Error setting default deck name: %v\n", err)
			return
		}

		fmt.Printf("Default deck name set to: %s\n", name)
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		_, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error initializing config: %v\n", err)
			return
		}

		fmt.Println("Config file initialized at:", config.GetConfigFilePath())
	},
}

func orNone(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDeckNameCmd)
	configCmd.AddCommand(configInitCmd)
}
