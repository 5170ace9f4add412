package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arcanaland/deckweaver/internal/document"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Validator inspects a card source file and collects findings without
// building a package.
type Validator struct {
	InputPath string
	MediaDir  string
	Results   ValidationResults

	// Summary of the parsed file, filled by Validate
	HeaderKeys []string
	CardCount  int
	Subdecks   []string
}

func NewValidator(inputPath, mediaDir string) *Validator {
	return &Validator{
		InputPath: inputPath,
		MediaDir:  mediaDir,
		Results:   ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	raw, err := os.ReadFile(v.InputPath)
	if err != nil {
		return v.Results, fmt.Errorf("error reading input file: %v", err)
	}

	doc := document.Parse(string(raw))

	v.checkHeader(doc)
	v.checkCards(doc)
	v.checkMedia(doc)

	return v.Results, nil
}

// checkHeader records the header keys and warns when no deck name override
// is present, since the deck name then depends on flags or the filename.
func (v *Validator) checkHeader(doc *document.Document) {
	for key := range doc.Header {
		v.HeaderKeys = append(v.HeaderKeys, key)
	}
	sort.Strings(v.HeaderKeys)

	if doc.Header.Get("DECK_NAME") == "" {
		v.Results.Warnings = append(v.Results.Warnings,
			"no DECK_NAME header; the deck name will fall back to the --deck-name flag or the filename")
	}
}

// checkCards verifies that at least one complete card was parsed and
// reports dropped blocks and the subdecks in use.
func (v *Validator) checkCards(doc *document.Document) {
	v.CardCount = len(doc.Cards)

	if len(doc.Cards) == 0 {
		v.Results.Errors = append(v.Results.Errors, "no cards found")
	}

	if doc.Dropped > 0 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%d block(s) dropped (missing FRONT: or BACK: field)", doc.Dropped))
	}

	seen := make(map[string]bool)
	for _, c := range doc.Cards {
		if c.Subdeck != "" && !seen[c.Subdeck] {
			seen[c.Subdeck] = true
			v.Subdecks = append(v.Subdecks, c.Subdeck)
		}
	}
}

// checkMedia verifies that every referenced media file resolves under the
// media directory. Missing files are warnings: the cards still package, the
// media is just skipped.
func (v *Validator) checkMedia(doc *document.Document) {
	checked := make(map[string]bool)
	for _, c := range doc.Cards {
		for _, basename := range c.MediaFiles {
			if checked[basename] {
				continue
			}
			checked[basename] = true

			path := filepath.Join(v.MediaDir, basename)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				v.Results.Warnings = append(v.Results.Warnings,
					fmt.Sprintf("media file not found: %s", path))
			}
		}
	}
}
