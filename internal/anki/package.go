package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arcanaland/deckweaver/internal/deck"
)

// schema is the collection.anki2 layout, schema version 11. Anki reads this
// database directly out of the .apkg archive on import.
const schema = `
CREATE TABLE col (
  id integer primary key,
  crt integer not null,
  mod integer not null,
  scm integer not null,
  ver integer not null,
  dty integer not null,
  usn integer not null,
  ls integer not null,
  conf text not null,
  models text not null,
  decks text not null,
  dconf text not null,
  tags text not null
);
CREATE TABLE notes (
  id integer primary key,
  guid text not null,
  mid integer not null,
  mod integer not null,
  usn integer not null,
  tags text not null,
  flds text not null,
  sfld integer not null,
  csum integer not null,
  flags integer not null,
  data text not null
);
CREATE TABLE cards (
  id integer primary key,
  nid integer not null,
  did integer not null,
  ord integer not null,
  mod integer not null,
  usn integer not null,
  type integer not null,
  queue integer not null,
  due integer not null,
  ivl integer not null,
  factor integer not null,
  reps integer not null,
  lapses integer not null,
  left integer not null,
  odue integer not null,
  odid integer not null,
  flags integer not null,
  data text not null
);
CREATE TABLE revlog (
  id integer primary key,
  cid integer not null,
  usn integer not null,
  ease integer not null,
  ivl integer not null,
  lastIvl integer not null,
  factor integer not null,
  time integer not null,
  type integer not null
);
CREATE TABLE graves (
  usn integer not null,
  oid integer not null,
  type integer not null
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

// fieldSeparator joins note fields inside the flds column.
const fieldSeparator = "\x1f"

// WritePackage serializes a deck tree into an .apkg file at outputPath,
// bundling the resolved media files under their basenames.
func WritePackage(d *deck.Deck, model *Model, mediaPaths []string, outputPath string) error {
	tmpDir, err := os.MkdirTemp("", "deckweaver-")
	if err != nil {
		return fmt.Errorf("error creating temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	collectionPath := filepath.Join(tmpDir, "collection.anki2")
	if err := writeCollection(collectionPath, d, model); err != nil {
		return err
	}

	return writeArchive(outputPath, collectionPath, mediaPaths)
}

// writeCollection creates the collection database and fills it with the
// model, the deck tree and one note/card pair per parsed card.
func writeCollection(path string, d *deck.Deck, model *Model) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("error creating collection database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("error creating collection schema: %v", err)
	}

	now := time.Now()
	if err := insertCol(db, d, model, now); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	insertNote, err := tx.Prepare(`INSERT INTO notes
		(id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return fmt.Errorf("error preparing note insert: %v", err)
	}
	defer insertNote.Close()

	insertCard, err := tx.Prepare(`INSERT INTO cards
		(id, nid, did, ord, mod, usn, type, queue, due, ivl, factor,
		 reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return fmt.Errorf("error preparing card insert: %v", err)
	}
	defer insertCard.Close()

	// Anki uses epoch-millisecond IDs; successive rows bump the base
	// timestamp to keep them unique.
	nextID := now.UnixMilli()
	mod := now.Unix()
	due := 0
	for _, group := range d.Groups {
		did := DeckID(group.FullName)
		for _, c := range group.Cards {
			noteID := nextID
			cardID := nextID + 1
			nextID += 2
			due++

			flds := c.Front + fieldSeparator + c.Back
			if _, err := insertNote.Exec(noteID, guidFor(flds), model.ID, mod,
				flds, c.Front, fieldChecksum(c.Front)); err != nil {
				return fmt.Errorf("error inserting note: %v", err)
			}
			if _, err := insertCard.Exec(cardID, noteID, did, mod, due); err != nil {
				return fmt.Errorf("error inserting card: %v", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing collection: %v", err)
	}
	return nil
}

// insertCol writes the single col row holding the collection configuration
// and the JSON-encoded model and deck definitions.
func insertCol(db *sql.DB, d *deck.Deck, model *Model, now time.Time) error {
	conf, err := json.Marshal(map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"timeLim":       0,
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newBury":       true,
		"newSpread":     0,
		"dueCounts":     true,
		"curModel":      strconv.FormatInt(model.ID, 10),
		"collapseTime":  1200,
	})
	if err != nil {
		return fmt.Errorf("error encoding collection conf: %v", err)
	}

	models, err := json.Marshal(map[string]any{
		strconv.FormatInt(model.ID, 10): modelJSON(model, now),
	})
	if err != nil {
		return fmt.Errorf("error encoding models: %v", err)
	}

	decks, err := json.Marshal(decksJSON(d, now))
	if err != nil {
		return fmt.Errorf("error encoding decks: %v", err)
	}

	dconf, err := json.Marshal(map[string]any{"1": deckConfJSON(now)})
	if err != nil {
		return fmt.Errorf("error encoding deck conf: %v", err)
	}

	_, err = db.Exec(`INSERT INTO col
		(id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now.Unix(), now.UnixMilli(), now.UnixMilli(),
		string(conf), string(models), string(decks), string(dconf))
	if err != nil {
		return fmt.Errorf("error inserting col row: %v", err)
	}
	return nil
}

// modelJSON renders a model in the shape Anki stores inside col.models.
func modelJSON(model *Model, now time.Time) map[string]any {
	flds := make([]map[string]any, len(model.Fields))
	for i, name := range model.Fields {
		flds[i] = map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	return map[string]any{
		"id":    model.ID,
		"name":  model.Name,
		"type":  0,
		"mod":   now.Unix(),
		"usn":   -1,
		"sortf": 0,
		"did":   1,
		"tmpls": []map[string]any{{
			"name":  "Card 1",
			"ord":   0,
			"qfmt":  model.QuestionFormat,
			"afmt":  model.AnswerFormat,
			"bqfmt": "",
			"bafmt": "",
			"did":   nil,
		}},
		"flds":      flds,
		"css":       model.CSS,
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"req":       []any{[]any{0, "all", []int{0}}},
		"tags":      []string{},
		"vers":      []string{},
	}
}

// decksJSON renders the deck tree plus the mandatory default deck.
func decksJSON(d *deck.Deck, now time.Time) map[string]any {
	decks := map[string]any{
		"1": deckJSON(1, "Default", now),
	}
	for _, group := range d.Groups {
		id := DeckID(group.FullName)
		decks[strconv.FormatInt(id, 10)] = deckJSON(id, group.FullName, now)
	}
	return decks
}

func deckJSON(id int64, name string, now time.Time) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"desc":             "",
		"mod":              now.Unix(),
		"usn":              -1,
		"collapsed":        false,
		"browserCollapsed": false,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"dyn":              0,
		"extendNew":        0,
		"extendRev":        0,
		"conf":             1,
	}
}

func deckConfJSON(now time.Time) map[string]any {
	return map[string]any{
		"id":       1,
		"name":     "Default",
		"mod":      now.Unix(),
		"usn":      -1,
		"maxTaken": 60,
		"autoplay": true,
		"timer":    0,
		"replayq":  true,
		"dyn":      false,
		"new": map[string]any{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"lapse": map[string]any{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
}

// DeckID derives a stable 31-bit deck ID from the full deck name, in the
// range Anki expects for user decks. Rebuilding the same source file yields
// the same IDs, so re-imports update decks instead of duplicating them.
func DeckID(fullName string) int64 {
	h := fnv.New32a()
	h.Write([]byte(fullName))
	return int64(1<<30 + h.Sum32()%(1<<30))
}

// guidFor derives a stable note GUID from the joined field content.
func guidFor(flds string) string {
	h := fnv.New64a()
	h.Write([]byte(flds))
	return strconv.FormatUint(h.Sum64(), 36)
}

// fieldChecksum computes Anki's sort-field checksum: the first 8 hex digits
// of the SHA1 of the field, as an integer.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	checksum, _ := strconv.ParseInt(fmt.Sprintf("%x", sum[:4]), 16, 64)
	return checksum
}

// writeArchive zips the collection and media files into the .apkg layout:
// collection.anki2, media files under numeric names, and a "media" manifest
// mapping those names back to basenames.
func writeArchive(outputPath, collectionPath string, mediaPaths []string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %v", err)
	}
	defer out.Close()

	archive := zip.NewWriter(out)

	if err := addFile(archive, "collection.anki2", collectionPath); err != nil {
		return err
	}

	manifest := make(map[string]string, len(mediaPaths))
	for i, mediaPath := range mediaPaths {
		name := strconv.Itoa(i)
		manifest[name] = filepath.Base(mediaPath)
		if err := addFile(archive, name, mediaPath); err != nil {
			return err
		}
	}

	encoded, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("error encoding media manifest: %v", err)
	}
	w, err := archive.Create("media")
	if err != nil {
		return fmt.Errorf("error adding media manifest: %v", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("error writing media manifest: %v", err)
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("error finalizing archive: %v", err)
	}
	return nil
}

// addFile copies a file from disk into the archive under the given name.
func addFile(archive *zip.Writer, name, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %v", path, err)
	}
	defer file.Close()

	w, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("error adding %s to archive: %v", name, err)
	}
	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("error writing %s to archive: %v", name, err)
	}
	return nil
}
