package deck

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/deckweaver/internal/card"
	"github.com/arcanaland/deckweaver/internal/document"
)

// Group is one deck in the hierarchy together with the cards filed under it.
type Group struct {
	FullName string
	Cards    []card.Card
}

// Deck is the deck tree built from a parsed document, ready for packaging.
type Deck struct {
	Name   string
	Groups []Group
}

// ResolveName picks the base deck name. The DECK_NAME header wins, then the
// caller-supplied default, then a title derived from the input filename.
func ResolveName(header document.Header, fallback, inputPath string) string {
	if name := header.Get("DECK_NAME"); name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return TitleFromFilename(inputPath)
}

// TitleFromFilename derives a human-readable deck name from a file path,
// e.g. "chapters/organic_chemistry.txt" becomes "Organic Chemistry".
func TitleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.Split(stem, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// Build groups the parsed cards under their full deck names. Group order
// follows the first appearance of each deck in the card sequence; card order
// inside a group is source order.
func Build(doc *document.Document, fallbackName, inputPath string) *Deck {
	d := &Deck{Name: ResolveName(doc.Header, fallbackName, inputPath)}

	index := make(map[string]int)
	for _, c := range doc.Cards {
		full := c.FullDeckName(d.Name)
		i, ok := index[full]
		if !ok {
			i = len(d.Groups)
			index[full] = i
			d.Groups = append(d.Groups, Group{FullName: full})
		}
		d.Groups[i].Cards = append(d.Groups[i].Cards, c)
	}

	return d
}

// CardCount returns the total number of cards across all groups.
func (d *Deck) CardCount() int {
	count := 0
	for _, g := range d.Groups {
		count += len(g.Cards)
	}
	return count
}

// MediaFiles returns the union of media basenames referenced by all cards,
// sorted and deduplicated.
func (d *Deck) MediaFiles() []string {
	var texts []string
	for _, g := range d.Groups {
		for _, c := range g.Cards {
			texts = append(texts, c.Front, c.Back)
		}
	}
	return card.FindMediaFiles(texts...)
}

// ResolveMedia locates the referenced media files under mediaDir. Files
// present on disk are returned as paths to package; files that do not exist
// are returned separately so callers can warn without failing the build.
func (d *Deck) ResolveMedia(mediaDir string) (found []string, missing []string) {
	for _, basename := range d.MediaFiles() {
		path := filepath.Join(mediaDir, basename)
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		} else {
			missing = append(missing, path)
		}
	}
	return found, missing
}
