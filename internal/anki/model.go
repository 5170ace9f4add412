package anki

// DefaultCSS is the card styling applied when no custom stylesheet is given.
const DefaultCSS = `.card {
  font-family: arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
}
.nightMode .card { color: white; background-color: #333; }
img { max-width: 90%; }
`

// ModelID identifies the note model inside the collection. Anki matches
// models across imports by ID, so it must stay stable between builds.
const ModelID = 1607392319

// Model describes the note type used for every generated card.
type Model struct {
	ID             int64
	Name           string
	Fields         []string
	QuestionFormat string
	AnswerFormat   string
	CSS            string
}

// NewModel creates the two-field front/back model with the provided CSS.
// An empty css falls back to DefaultCSS.
func NewModel(css string) *Model {
	if css == "" {
		css = DefaultCSS
	}
	return &Model{
		ID:             ModelID,
		Name:           "Simple Model with Media (CSS)",
		Fields:         []string{"Front", "Back"},
		QuestionFormat: `<div class="question">{{Front}}</div>`,
		AnswerFormat:   `{{FrontSide}}<hr id="answer"><div class="answer">{{Back}}</div>`,
		CSS:            css,
	}
}
