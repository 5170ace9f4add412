package document

import (
	"strings"

	"github.com/arcanaland/deckweaver/internal/card"
)

// Delimiter separates the header from the body and card blocks from each
// other inside the body.
const Delimiter = "---"

// Field and directive markers, matched case-insensitively on trimmed lines.
const (
	frontMarker   = "FRONT:"
	backMarker    = "BACK:"
	subdeckMarker = "SUBDECK:"
)

// Parse turns a card source text into its header and ordered cards.
//
// The header region is everything before the first delimiter occurrence; the
// body is then split again on every remaining occurrence. The two passes use
// different split counts on purpose: the body may start with a leading empty
// block, which is skipped like any other empty block.
//
// Parse never fails on content. Malformed header lines, stray blocks and
// cards missing a field are dropped silently; the only caller-observable
// degradation is a shorter (possibly empty) card sequence.
func Parse(text string) *Document {
	parts := strings.SplitN(text, Delimiter, 2)
	headerRegion := parts[0]
	bodyRegion := ""
	if len(parts) > 1 {
		bodyRegion = parts[1]
	}

	doc := &Document{Header: parseHeader(headerRegion)}

	// The running subdeck applies to every following card until the next
	// SUBDECK directive or the end of input.
	subdeck := ""
	for _, block := range strings.Split(bodyRegion, Delimiter) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if name, ok := subdeckDirective(block); ok {
			subdeck = name
			continue
		}

		if c, ok := parseCard(block, subdeck); ok {
			doc.Cards = append(doc.Cards, c)
		} else {
			doc.Dropped++
		}
	}

	return doc
}

// parseHeader parses the KEY: value lines of the header region.
// Blank lines, comment lines and lines without a colon are ignored.
// The last occurrence of a duplicate key wins.
func parseHeader(region string) Header {
	header := Header{}
	for _, line := range strings.Split(region, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		header[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return header
}

// subdeckDirective reports whether the block declares a subdeck and, if so,
// returns the new subdeck name. An empty name reverts to the base deck.
func subdeckDirective(block string) (string, bool) {
	firstLine := strings.TrimSpace(strings.SplitN(block, "\n", 2)[0])
	if !strings.HasPrefix(strings.ToUpper(firstLine), subdeckMarker) {
		return "", false
	}

	_, name, _ := strings.Cut(firstLine, ":")
	return strings.TrimSpace(name), true
}

// fieldState tracks which card field non-marker lines accumulate into.
type fieldState int

const (
	fieldNone fieldState = iota
	fieldFront
	fieldBack
)

// parseCard parses a non-directive block into a card. A FRONT: or BACK:
// marker switches the active field and seeds it with the remainder of the
// line; any other non-blank, non-comment line appends to the active field.
// Lines seen before the first marker are discarded. The card is kept only if
// both fields accumulated at least one fragment.
func parseCard(block, subdeck string) (card.Card, bool) {
	var front, back []string
	state := fieldNone

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, frontMarker):
			state = fieldFront
			line = line[len(frontMarker):]
		case strings.HasPrefix(upper, backMarker):
			state = fieldBack
			line = line[len(backMarker):]
		}

		switch state {
		case fieldFront:
			front = append(front, strings.TrimSpace(line))
		case fieldBack:
			back = append(back, strings.TrimSpace(line))
		}
	}

	if len(front) == 0 || len(back) == 0 {
		return card.Card{}, false
	}

	frontText := strings.Join(front, "<br>")
	backText := strings.Join(back, "<br>")
	return card.Card{
		Front:      frontText,
		Back:       backText,
		Subdeck:    subdeck,
		MediaFiles: card.FindMediaFiles(frontText, backText),
	}, true
}
