package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckweaver/internal/card"
	"github.com/arcanaland/deckweaver/internal/document"
)

func TestParseBasic(t *testing.T) {
	doc := document.Parse("DECK_NAME: X\n---\nFRONT: a\nBACK: b\n")

	assert.Equal(t, document.Header{"DECK_NAME": "X"}, doc.Header)
	require.Len(t, doc.Cards, 1)
	assert.Equal(t, card.Card{Front: "a", Back: "b"}, doc.Cards[0])
}

func TestParseNoDelimiter(t *testing.T) {
	doc := document.Parse("DECK_NAME: X\nAUTHOR: Y\nFRONT: not a card\n")

	// Without a delimiter the whole text is header and there is no body.
	assert.Equal(t, "X", doc.Header.Get("DECK_NAME"))
	assert.Equal(t, "Y", doc.Header.Get("AUTHOR"))
	assert.Empty(t, doc.Cards)
}

func TestParseEmptyInput(t *testing.T) {
	doc := document.Parse("")

	assert.Empty(t, doc.Header)
	assert.Empty(t, doc.Cards)
}

func TestParseHeader(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected document.Header
	}{
		{
			name:     "KeyUppercasedAndTrimmed",
			input:    "  deck_name :  My Deck  \n---\n",
			expected: document.Header{"DECK_NAME": "My Deck"},
		},
		{
			name:     "CommentLineIgnored",
			input:    "# DECK_NAME: ignored\nAUTHOR: me\n---\n",
			expected: document.Header{"AUTHOR": "me"},
		},
		{
			name:     "LineWithoutColonIgnored",
			input:    "just some text\nTAGS: chem\n---\n",
			expected: document.Header{"TAGS": "chem"},
		},
		{
			name:     "DuplicateKeyLastWins",
			input:    "DECK_NAME: first\nDECK_NAME: second\n---\n",
			expected: document.Header{"DECK_NAME": "second"},
		},
		{
			name:     "ValueSplitOnFirstColon",
			input:    "URL: https://example.com\n---\n",
			expected: document.Header{"URL": "https://example.com"},
		},
		{
			name:     "BlankLinesSkipped",
			input:    "\n\nDECK_NAME: X\n\n---\n",
			expected: document.Header{"DECK_NAME": "X"},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			doc := document.Parse(tc.input)
			assert.Equal(t, tc.expected, doc.Header)
		})
	}
}

func TestParseTwoBlocks(t *testing.T) {
	doc := document.Parse("---\nFRONT: q1\nBACK: a1\n---\nFRONT: q2\nBACK: a2\n")

	require.Len(t, doc.Cards, 2)
	// No bleed-through of lines between blocks
	assert.Equal(t, "q1", doc.Cards[0].Front)
	assert.Equal(t, "a1", doc.Cards[0].Back)
	assert.Equal(t, "q2", doc.Cards[1].Front)
	assert.Equal(t, "a2", doc.Cards[1].Back)
}

func TestParseMultilineFields(t *testing.T) {
	doc := document.Parse("---\nFRONT: line one\nline two\nBACK: answer\nmore answer\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "line one<br>line two", doc.Cards[0].Front)
	assert.Equal(t, "answer<br>more answer", doc.Cards[0].Back)
}

func TestParseSubdeckScope(t *testing.T) {
	input := "---\nSUBDECK: Chapter1\n---\nFRONT: q\nBACK: r\n---\nSUBDECK:\n---\nFRONT: s\nBACK: t\n"
	doc := document.Parse(input)

	require.Len(t, doc.Cards, 2)
	assert.Equal(t, "Chapter1", doc.Cards[0].Subdeck)
	// An empty SUBDECK directive reverts to the base deck
	assert.Equal(t, "", doc.Cards[1].Subdeck)
}

func TestParseSubdeckAppliesUntilNextDirective(t *testing.T) {
	input := "---\nSUBDECK: A\n---\nFRONT: q1\nBACK: a1\n---\nFRONT: q2\nBACK: a2\n---\nSUBDECK: B\n---\nFRONT: q3\nBACK: a3\n"
	doc := document.Parse(input)

	require.Len(t, doc.Cards, 3)
	assert.Equal(t, "A", doc.Cards[0].Subdeck)
	assert.Equal(t, "A", doc.Cards[1].Subdeck)
	assert.Equal(t, "B", doc.Cards[2].Subdeck)
}

func TestParseMedia(t *testing.T) {
	doc := document.Parse("---\nFRONT: see <img src=\"diagram.png\"> and [sound:clip.mp3]\nBACK: ok\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, []string{"clip.mp3", "diagram.png"}, doc.Cards[0].MediaFiles)
}

func TestParseMediaUnionOfBothSides(t *testing.T) {
	doc := document.Parse("---\nFRONT: <img src=\"a.png\">\nBACK: <img src=\"b.png\"> and <img src=\"a.png\">\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, []string{"a.png", "b.png"}, doc.Cards[0].MediaFiles)
}

func TestParseIncompleteCardDropped(t *testing.T) {
	testcases := []struct {
		name  string
		input string
	}{
		{name: "FrontOnly", input: "---\nFRONT: a\n"},
		{name: "BackOnly", input: "---\nBACK: b\n"},
		{name: "NoMarkers", input: "---\nsome stray text\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			doc := document.Parse(tc.input)
			assert.Empty(t, doc.Cards)
			assert.Equal(t, 1, doc.Dropped)
		})
	}
}

func TestParseMarkersCaseInsensitive(t *testing.T) {
	doc := document.Parse("---\nsubdeck: Greek\n---\nfront: alpha\nBack: beta\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "alpha", doc.Cards[0].Front)
	assert.Equal(t, "beta", doc.Cards[0].Back)
	assert.Equal(t, "Greek", doc.Cards[0].Subdeck)
}

func TestParseLinesBeforeMarkerDiscarded(t *testing.T) {
	doc := document.Parse("---\nstray line\nFRONT: a\nBACK: b\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "a", doc.Cards[0].Front)
}

func TestParseCommentInsideBlockIgnored(t *testing.T) {
	doc := document.Parse("---\nFRONT: a\n# a comment\nBACK: b\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "a", doc.Cards[0].Front)
	assert.Equal(t, "b", doc.Cards[0].Back)
}

func TestParseLeadingDelimiterInBody(t *testing.T) {
	// The header/body split consumes only the first delimiter; the body is
	// then split on every remaining occurrence, so a delimiter opening the
	// body leaves a leading empty block that is skipped.
	doc := document.Parse("DECK_NAME: X\n---\n---\nFRONT: a\nBACK: b\n")

	require.Len(t, doc.Cards, 1)
	assert.Equal(t, 0, doc.Dropped)
}

func TestParseConcurrentUse(t *testing.T) {
	input := "---\nFRONT: a\nBACK: b\n"

	done := make(chan *document.Document, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- document.Parse(input) }()
	}
	for i := 0; i < 8; i++ {
		doc := <-done
		assert.Len(t, doc.Cards, 1)
	}
}

func TestParseRoundTrip(t *testing.T) {
	input := "DECK_NAME: Chemistry\nAUTHOR: me\n---\nFRONT: q1\nextra\nBACK: a1\n---\nSUBDECK: Organic\n---\nFRONT: <img src=\"mol.png\">\nBACK: benzene\n"
	doc := document.Parse(input)
	require.Len(t, doc.Cards, 2)

	reparsed := document.Parse(reconstruct(doc))
	assert.Equal(t, doc.Header, reparsed.Header)
	assert.Equal(t, doc.Cards, reparsed.Cards)
}

// reconstruct serializes a document back to source text using the same
// markers and delimiter the parser consumes.
func reconstruct(doc *document.Document) string {
	var b strings.Builder
	for key, value := range doc.Header {
		b.WriteString(key + ": " + value + "\n")
	}

	subdeck := ""
	for _, c := range doc.Cards {
		if c.Subdeck != subdeck {
			subdeck = c.Subdeck
			b.WriteString("---\nSUBDECK: " + subdeck + "\n")
		}
		b.WriteString("---\nFRONT: " + c.Front + "\nBACK: " + c.Back + "\n")
	}
	return b.String()
}
