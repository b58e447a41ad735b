package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// DeckFile is the JSON import and export format.
type DeckFile struct {
	Version    string      `json:"version"`
	ExportedAt string      `json:"exportedAt"`
	Deck       DeckInput   `json:"deck"`
	Cards      []CardInput `json:"cards"`
}

const ExportVersion = "1.0"

// DefaultImportPath is listed and imported from when no path is given.
const DefaultImportPath = "cefr/english"

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var importExts = map[string]bool{".json": true, ".csv": true, ".xlsx": true}

// cardColumns is the header row of csv and xlsx files, in export order.
var cardColumns = []string{"vocab", "pronunciation", "meaning", "example", "exampleTranslation"}

// SafeJoin joins untrusted relative parts onto base, rejecting absolute paths
// and anything that climbs out with "..".
func SafeJoin(base string, parts ...string) (string, error) {
	for _, p := range parts {
		clean := filepath.Clean(p)
		if strings.Contains(clean, "..") || filepath.IsAbs(clean) || strings.HasPrefix(p, "/") {
			return "", invalid("path", "Invalid path or filename")
		}
	}
	return filepath.Join(append([]string{base}, parts...)...), nil
}

type ImportFileInfo struct {
	Filename   string `json:"filename"`
	DeckName   string `json:"deckName"`
	CardCount  int    `json:"cardCount"`
	Category   string `json:"category"`
	SourceLang string `json:"sourceLang,omitempty"`
	TargetLang string `json:"targetLang,omitempty"`
}

// ListImportFiles describes every importable file directly under
// dataDir/sub. Files that fail to parse are listed with a zero card count.
func ListImportFiles(dataDir, sub string) ([]ImportFileInfo, error) {
	if sub == "" {
		sub = DefaultImportPath
	}
	dir, err := SafeJoin(dataDir, sub)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound("directory " + sub)
		}
		return nil, errors.Wrap(err, "read import directory")
	}

	out := []ImportFileInfo{}
	for _, e := range entries {
		if e.IsDir() || !importExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info := ImportFileInfo{Filename: e.Name(), DeckName: "Error reading file", Category: "Unknown"}
		if f, err := ReadDeckFile(filepath.Join(dir, e.Name())); err == nil {
			info.DeckName = f.Deck.Name
			info.CardCount = len(f.Cards)
			info.Category = orDefault(f.Deck.Category, "Unknown")
			info.SourceLang = orDefault(f.Deck.SourceLang, DefaultSourceLang)
			info.TargetLang = orDefault(f.Deck.TargetLang, DefaultTargetLang)
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// ReadDeckFile parses a .json, .csv or .xlsx deck file. Cards without vocab or
// meaning are dropped. Tabular files take the deck name from the file name.
func ReadDeckFile(path string) (*DeckFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var f *DeckFile
	var err error
	switch ext {
	case ".json":
		f, err = readJSONDeck(path)
	case ".csv":
		f, err = readCSVDeck(path)
	case ".xlsx":
		f, err = readXLSXDeck(path)
	default:
		return nil, invalid("filename", "unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if f.Deck.Name == "" {
		f.Deck.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	kept := f.Cards[:0]
	for _, c := range f.Cards {
		if c.valid() {
			kept = append(kept, c)
		}
	}
	f.Cards = kept
	return f, nil
}

func readJSONDeck(path string) (*DeckFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read deck file")
	}
	var f DeckFile
	if err := json.Unmarshal(raw, &f); err != nil || f.Cards == nil {
		return nil, invalid("filename", "Failed to parse JSON file")
	}
	return &f, nil
}

func readCSVDeck(path string) (*DeckFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open deck file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, invalid("filename", "Failed to parse CSV file: %v", err)
	}
	return &DeckFile{Cards: cardsFromRows(rows)}, nil
}

func readXLSXDeck(path string) (*DeckFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read deck file")
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, invalid("filename", "Failed to parse XLSX file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &DeckFile{Cards: []CardInput{}}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "read xlsx rows")
	}
	return &DeckFile{Cards: cardsFromRows(rows)}, nil
}

// cardsFromRows maps a header row to card fields. "front" and "back" are
// accepted for vocab and meaning.
func cardsFromRows(rows [][]string) []CardInput {
	cards := []CardInput{}
	if len(rows) == 0 {
		return cards
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		switch h {
		case "front":
			h = "vocab"
		case "back":
			h = "meaning"
		}
		col[h] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for _, row := range rows[1:] {
		cards = append(cards, CardInput{
			Vocab:              cell(row, "vocab"),
			Pronunciation:      cell(row, "pronunciation"),
			Meaning:            cell(row, "meaning"),
			Example:            cell(row, "example"),
			ExampleTranslation: cell(row, "exampleTranslation"),
		})
	}
	return cards
}

// ImportDeck creates a deck for the user and adds the file's cards in chunks
// of BatchSize. Each chunk commits with its share of the card count, so a
// failure part way keeps the count in step with the cards that landed.
func (s *Store) ImportDeck(ctx context.Context, userID uint, f *DeckFile) (*models.Deck, error) {
	deck, err := s.CreateDeck(ctx, userID, f.Deck)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Card, 0, len(f.Cards))
	for _, c := range f.Cards {
		card, err := s.newCard(deck, c)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	for _, chunk := range chunks(cards) {
		err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&chunk).Error; err != nil {
				return errors.Wrap(err, "create cards")
			}
			return errors.Wrap(adjustCardCount(tx, deck.ID, len(chunk)), "update card count")
		})
		if err != nil {
			return nil, errors.Wrapf(err, "import into deck %s after %d cards", deck.PublicID, deck.CardCount)
		}
		deck.CardCount += len(chunk)
	}
	s.Log.Info("imported deck", "deck", deck.PublicID, "user", userID, "cards", deck.CardCount)
	return deck, nil
}

// ImportFile reads dataDir/sub/filename and imports it for the user.
func (s *Store) ImportFile(ctx context.Context, dataDir, sub, filename string, userID uint) (*models.Deck, error) {
	if filename == "" {
		return nil, missing("filename")
	}
	if sub == "" {
		sub = DefaultImportPath
	}
	path, err := SafeJoin(dataDir, sub, filename)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, notFound("file " + sub + "/" + filename)
		}
		return nil, errors.Wrap(err, "stat import file")
	}
	f, err := ReadDeckFile(path)
	if err != nil {
		return nil, err
	}
	return s.ImportDeck(ctx, userID, f)
}

// UpdateCardByID applies a data API patch to any card, scheduling fields
// included.
func (s *Store) UpdateCardByID(ctx context.Context, publicID string, patch CardPatch) (*models.Card, error) {
	var card models.Card
	if err := first(s.db(ctx).Where("public_id = ?", publicID), &card, "card"); err != nil {
		return nil, err
	}
	if err := applyCardPatch(&card, patch, true); err != nil {
		return nil, err
	}
	if err := s.db(ctx).Save(&card).Error; err != nil {
		return nil, errors.Wrap(err, "update card")
	}
	return &card, nil
}

// UpdateDeckByID applies a data API patch to any deck.
func (s *Store) UpdateDeckByID(ctx context.Context, publicID string, patch DeckPatch) (*models.Deck, error) {
	return s.UpdateDeck(ctx, AnyUser, publicID, patch)
}

type DeletedDecks struct {
	Decks int `json:"decks"`
	Cards int `json:"cards"`
}

// DeleteUserDecks wipes every deck and card the user owns, cards first.
// Chunks commit one at a time and are not rolled back on a later failure.
func (s *Store) DeleteUserDecks(ctx context.Context, userID uint) (DeletedDecks, error) {
	var out DeletedDecks
	var cardIDs, deckIDs []uint
	if err := s.db(ctx).Model(&models.Card{}).Where("user_id = ?", userID).Pluck("id", &cardIDs).Error; err != nil {
		return out, errors.Wrap(err, "list cards")
	}
	if err := s.db(ctx).Model(&models.Deck{}).Where("user_id = ?", userID).Pluck("id", &deckIDs).Error; err != nil {
		return out, errors.Wrap(err, "list decks")
	}

	var err error
	out.Cards, err = s.inChunks(ctx, cardIDs, func(tx *gorm.DB, chunk []uint) error {
		return tx.Unscoped().Where("id IN ?", chunk).Delete(&models.Card{}).Error
	})
	if err != nil {
		return out, errors.Wrap(err, "delete cards")
	}
	out.Decks, err = s.inChunks(ctx, deckIDs, func(tx *gorm.DB, chunk []uint) error {
		return tx.Unscoped().Where("id IN ?", chunk).Delete(&models.Deck{}).Error
	})
	return out, errors.Wrap(err, "delete decks")
}

// Export is a rendered deck file.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportDeck renders a deck and its cards as json, csv or xlsx.
func (s *Store) ExportDeck(ctx context.Context, userID uint, deckPublicID, format string) (*Export, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV && format != FormatXLSX {
		return nil, invalid("format", "format must be json, csv or xlsx")
	}
	deck, err := s.GetDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, err
	}
	var cards []models.Card
	if err := s.db(ctx).Where("deck_id = ?", deck.ID).Order("id asc").Find(&cards).Error; err != nil {
		return nil, errors.Wrap(err, "load cards")
	}

	base := strings.Join(strings.Fields(deck.Name), "_") + "_flashcards." + format
	var buf bytes.Buffer
	out := &Export{Filename: base}
	switch format {
	case FormatJSON:
		out.ContentType = "application/json"
		err = s.writeJSONDeck(&buf, deck, cards)
	case FormatCSV:
		out.ContentType = "text/csv"
		err = writeCSVDeck(&buf, cards)
	case FormatXLSX:
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = writeXLSXDeck(&buf, cards)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "render %s", format)
	}
	out.Body = buf.Bytes()
	return out, nil
}

func cardRow(c models.Card) []string {
	return []string{c.Vocab, c.Pronunciation, c.Meaning, c.Example, c.ExampleTranslation}
}

func (s *Store) writeJSONDeck(w io.Writer, deck *models.Deck, cards []models.Card) error {
	f := DeckFile{
		Version:    ExportVersion,
		ExportedAt: s.now().Format(time.RFC3339),
		Deck: DeckInput{
			Name:        deck.Name,
			Description: deck.Description,
			Category:    deck.Category,
			Tags:        deck.Tags,
			SourceLang:  deck.SourceLang,
			TargetLang:  deck.TargetLang,
		},
		Cards: make([]CardInput, len(cards)),
	}
	for i, c := range cards {
		f.Cards[i] = CardInput{
			Vocab:              c.Vocab,
			Pronunciation:      c.Pronunciation,
			Meaning:            c.Meaning,
			Example:            c.Example,
			ExampleTranslation: c.ExampleTranslation,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

func writeCSVDeck(w io.Writer, cards []models.Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cardColumns); err != nil {
		return err
	}
	for _, c := range cards {
		if err := cw.Write(cardRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSXDeck(w io.Writer, cards []models.Card) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	rows := [][]string{cardColumns}
	for _, c := range cards {
		rows = append(rows, cardRow(c))
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
