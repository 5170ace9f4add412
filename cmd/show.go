package cmd

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/arcanaland/deckweaver/internal/card"
	"github.com/arcanaland/deckweaver/internal/config"
	"github.com/arcanaland/deckweaver/internal/deck"
	"github.com/arcanaland/deckweaver/internal/document"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [input_file]",
	Short: "Display a parsed card in the terminal with ANSI art",
	Long: `Show parses a card source file and displays one card, rendering the first
image referenced by the card as ANSI terminal art when it resolves under the
media directory.

Examples:
  deckweaver show chemistry.txt
  deckweaver show chemistry.txt --card 12
  deckweaver show chemistry.txt --media-dir assets`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		index, _ := cmd.Flags().GetInt("card")
		mediaDir, _ := cmd.Flags().GetString("media-dir")

		if mediaDir == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("error loading config: %v", err)
			}
			mediaDir = cfg.MediaDir
		}

		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("error reading input file: %v", err)
		}

		doc := document.Parse(string(raw))
		if len(doc.Cards) == 0 {
			return fmt.Errorf("no cards found in %s", inputPath)
		}
		if index < 1 || index > len(doc.Cards) {
			return fmt.Errorf("card %d out of range (file has %d cards)", index, len(doc.Cards))
		}

		c := doc.Cards[index-1]
		deckName := deck.ResolveName(doc.Header, "", inputPath)

		// ANSI art is optional: cards without resolvable image media are
		// shown as text only.
		ansiArt := ""
		if imagePath := findCardImage(c, mediaDir); imagePath != "" {
			ansiPath, err := cachedAnsiFile(imagePath)
			if err != nil {
				return fmt.Errorf("error rendering media preview: %v", err)
			}
			ansiArt, err = loadAnsiArt(ansiPath)
			if err != nil {
				return fmt.Errorf("error loading ANSI art: %v", err)
			}
		}

		displayCard(&c, index, deckName, ansiArt)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Int("card", 1, "1-based index of the card to display")
	showCmd.Flags().String("media-dir", "", "Directory holding referenced media files (default \"media\")")
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// findCardImage returns the path of the first image media referenced by the
// card that exists under mediaDir, or "" if there is none.
func findCardImage(c card.Card, mediaDir string) string {
	for _, basename := range c.MediaFiles {
		ext := strings.ToLower(filepath.Ext(basename))
		isImage := false
		for _, imageExt := range imageExtensions {
			if ext == imageExt {
				isImage = true
				break
			}
		}
		if !isImage {
			continue
		}

		path := filepath.Join(mediaDir, basename)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// cachedAnsiFile returns the path to the ANSI rendering of an image,
// generating and caching it under the cache directory on first use.
func cachedAnsiFile(imagePath string) (string, error) {
	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %v", err)
	}

	// Create a cache filename based on the image path
	cacheFilename := fmt.Sprintf("%x.ansi", md5.Sum([]byte(imagePath)))
	cachePath := filepath.Join(cacheDir, cacheFilename)

	// Check if we already have a cached version
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		return cachePath, nil
	}

	if err := generateAnsiArt(imagePath, cachePath); err != nil {
		return "", fmt.Errorf("failed to generate ANSI art: %v", err)
	}

	return cachePath, nil
}

// generateAnsiArt converts an image file to ANSI art and saves it to the specified output path
func generateAnsiArt(imagePath, outputPath string) error {
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	ansiArt, err := imageToAnsi(img, 40, 32)
	if err != nil {
		return fmt.Errorf("failed to convert image to ANSI: %v", err)
	}

	if err := os.WriteFile(outputPath, []byte(ansiArt), 0644); err != nil {
		return fmt.Errorf("failed to write ANSI art to file: %v", err)
	}

	return nil
}

// imageToAnsi converts an image to ANSI art using half-block characters
func imageToAnsi(img image.Image, width, height int) (string, error) {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder

	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Get the four pixels that will make up one character cell
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			// Top pixels as foreground, bottom pixels as background
			upperHalfFg := averageColor(col1, col2)
			lowerHalfBg := averageColor(col3, col4)

			fg := colorfulToColor(upperHalfFg)
			bg := colorfulToColor(lowerHalfBg)

			buffer.WriteString(ansiColorString('▀', fg, bg))
		}
		buffer.WriteString("\n")
	}

	return buffer.String(), nil
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// colorfulToColor converts a colorful.Color to a standard color.Color
func colorfulToColor(c colorful.Color) color.Color {
	return color.RGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: 255,
	}
}

// ansiColorString formats a character with truecolor ANSI codes
func ansiColorString(char rune, fg, bg color.Color) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// Convert from uint32 to uint8 (RGBA() returns values in range 0-65535)
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}

// loadAnsiArt loads the ANSI art from a file
func loadAnsiArt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// plainText flattens a card field for terminal display: <br> markers become
// spaces and remaining HTML tags are stripped.
func plainText(field string) string {
	flat := strings.ReplaceAll(field, "<br>", " ")
	flat = htmlTagPattern.ReplaceAllString(flat, "")
	return strings.Join(strings.Fields(flat), " ")
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40 // Use a sensible default if width is too small
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// displayCard displays the card information with optional ANSI art
func displayCard(c *card.Card, index int, deckName, ansiArt string) {
	ansiLines := []string{}
	maxAnsiWidth := 0
	if ansiArt != "" {
		ansiLines = strings.Split(ansiArt, "\n")
		for _, line := range ansiLines {
			// Calculate the visible width (excluding ANSI escape sequences)
			visibleWidth := len(stripAnsi(line))
			if visibleWidth > maxAnsiWidth {
				maxAnsiWidth = visibleWidth
			}
		}
	}

	// Get terminal width
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80 // Default if we can't get terminal width
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card: ")+colorize.HiWhiteString("#%d", index))
	infoLines = append(infoLines, colorize.CyanString("Deck: ")+colorize.HiWhiteString(c.FullDeckName(deckName)))

	// Calculate layout: art on the left, card text on the right
	spacing := 4
	infoStartCol := maxAnsiWidth + spacing

	infoWidth := width - infoStartCol - 2 // Leave a small margin
	if infoWidth < 20 {
		infoWidth = 20 // Minimum width for text
	}

	infoLines = append(infoLines, "")
	infoLines = append(infoLines, colorize.CyanString("Front:"))
	infoLines = append(infoLines, wrapText(plainText(c.Front), infoWidth)...)
	infoLines = append(infoLines, "")
	infoLines = append(infoLines, colorize.CyanString("Back:"))
	infoLines = append(infoLines, wrapText(plainText(c.Back), infoWidth)...)

	if len(c.MediaFiles) > 0 {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("Media: ")+
			colorize.HiWhiteString(strings.Join(c.MediaFiles, ", ")))
	}

	fmt.Println()

	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		// Print 2-character wide left padding
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			// Pad to infoStartCol
			visibleWidth := len(stripAnsi(ansiLines[i]))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}

		fmt.Println()
	}

	fmt.Println()
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// max returns the maximum of two integers
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
