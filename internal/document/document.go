package document

import (
	"strings"

	"github.com/arcanaland/deckweaver/internal/card"
)

// Header holds the key/value metadata lines found before the first block
// delimiter. Keys are stored uppercased with surrounding whitespace stripped.
type Header map[string]string

// Get looks up a header value by key, case-insensitively.
func (h Header) Get(key string) string {
	return h[strings.ToUpper(strings.TrimSpace(key))]
}

// Document is the parsed form of a card source file.
type Document struct {
	Header Header
	Cards  []card.Card

	// Number of body blocks that were neither a subdeck directive nor a
	// complete card and were therefore dropped.
	Dropped int
}
