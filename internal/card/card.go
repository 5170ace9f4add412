package card

import (
	"regexp"
	"sort"
)

// Card represents a single study card parsed from a source file
type Card struct {
	Front      string   // HTML-bearing front text, source lines joined by <br>
	Back       string   // HTML-bearing back text, same joining rule
	Subdeck    string   // Nested deck path relative to the base deck; empty means the base deck itself
	MediaFiles []string // Sorted, deduplicated media basenames referenced by either side
}

// FullDeckName returns the deck path the card belongs to, joining the base
// deck name with the card's subdeck using the Anki hierarchy separator.
func (c *Card) FullDeckName(baseName string) string {
	if c.Subdeck == "" {
		return baseName
	}
	return baseName + "::" + c.Subdeck
}

var (
	imgPattern   = regexp.MustCompile(`(?i)<img src="([^"]+)"\s*/?>`)
	soundPattern = regexp.MustCompile(`(?i)\[sound:([^\]]+)\]`)
)

// FindMediaFiles finds all media references (images and audio) in the given
// strings. Each string is scanned independently for the <img src="..."> and
// [sound:...] syntaxes (both case-insensitive) and the captured basenames are
// unioned, sorted and deduplicated.
func FindMediaFiles(texts ...string) []string {
	found := make(map[string]struct{})
	for _, text := range texts {
		for _, m := range imgPattern.FindAllStringSubmatch(text, -1) {
			found[m[1]] = struct{}{}
		}
		for _, m := range soundPattern.FindAllStringSubmatch(text, -1) {
			found[m[1]] = struct{}{}
		}
	}

	var results []string
	for name := range found {
		results = append(results, name)
	}
	sort.Strings(results)
	return results
}
