package card_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcanaland/deckweaver/internal/card"
)

func TestFindMediaFiles(t *testing.T) {
	testcases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "ImageTag",
			text:     `see <img src="diagram.png"> for details`,
			expected: []string{"diagram.png"},
		},
		{
			name:     "SelfClosingImageTag",
			text:     `<img src="diagram.png" />`,
			expected: []string{"diagram.png"},
		},
		{
			name:     "ImageTagCaseInsensitive",
			text:     `<IMG SRC="Diagram.PNG">`,
			expected: []string{"Diagram.PNG"},
		},
		{
			name:     "SoundMarker",
			text:     `listen: [sound:clip.mp3]`,
			expected: []string{"clip.mp3"},
		},
		{
			name:     "SoundMarkerCaseInsensitive",
			text:     `[SOUND:clip.mp3]`,
			expected: []string{"clip.mp3"},
		},
		{
			name:     "BothKindsSorted",
			text:     `see <img src="diagram.png"> and [sound:clip.mp3]`,
			expected: []string{"clip.mp3", "diagram.png"},
		},
		{
			name:     "DuplicatesCollapse",
			text:     `<img src="a.png"> then <img src="a.png"> again`,
			expected: []string{"a.png"},
		},
		{
			name:     "NoReferences",
			text:     "plain text with <b>markup</b>",
			expected: nil,
		},
		{
			name:     "UnclosedSoundBracketIgnored",
			text:     "[sound:clip.mp3",
			expected: nil,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, card.FindMediaFiles(tc.text))
		})
	}
}

func TestFindMediaFilesUnionsTexts(t *testing.T) {
	front := `<img src="front.png"> and <img src="shared.png">`
	back := `[sound:back.mp3] and <img src="shared.png">`

	assert.Equal(t, []string{"back.mp3", "front.png", "shared.png"},
		card.FindMediaFiles(front, back))
}

func TestFullDeckName(t *testing.T) {
	base := card.Card{Front: "q", Back: "a"}
	assert.Equal(t, "Chemistry", base.FullDeckName("Chemistry"))

	nested := card.Card{Front: "q", Back: "a", Subdeck: "Organic"}
	assert.Equal(t, "Chemistry::Organic", nested.FullDeckName("Chemistry"))
}
