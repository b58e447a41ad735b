package services

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleDeck = `{
  "version": "1.0",
  "exportedAt": "2026-03-01T00:00:00Z",
  "deck": {"name": "A1 Greetings", "category": "A1", "tags": ["cefr"], "sourceLang": "en", "targetLang": "th"},
  "cards": [
    {"vocab": "hello", "pronunciation": "sa-wat-dee", "meaning": "สวัสดี"},
    {"vocab": "thanks", "meaning": "ขอบคุณ", "example": "Thanks a lot"},
    {"vocab": "", "meaning": "dropped"}
  ]
}`

func TestSafeJoin(t *testing.T) {
	got, err := SafeJoin("data", "cefr/english", "a1.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "cefr", "english", "a1.json"), got)

	for _, bad := range []string{"../secrets", "cefr/../../etc", "/etc/passwd"} {
		_, err := SafeJoin("data", bad)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, bad)
	}
}

func TestListImportFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cefr/english/a1.json"), sampleDeck)
	writeFile(t, filepath.Join(dir, "cefr/english/broken.json"), "{")
	writeFile(t, filepath.Join(dir, "cefr/english/notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "cefr/english/b1.csv"), "vocab,meaning\nbook,หนังสือ\n")

	files, err := ListImportFiles(dir, "")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a1.json", files[0].Filename)
	assert.Equal(t, "A1 Greetings", files[0].DeckName)
	assert.Equal(t, 2, files[0].CardCount)
	assert.Equal(t, "b1", files[1].DeckName)
	assert.Equal(t, "Error reading file", files[2].DeckName)

	_, err = ListImportFiles(dir, "cefr/chinese")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ListImportFiles(dir, "../")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestImportFile(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|imp")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cefr/english/a1.json"), sampleDeck)

	deck, err := s.ImportFile(ctx, dir, "cefr/english", "a1.json", u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1 Greetings", deck.Name)
	assert.Equal(t, 2, deck.CardCount)
	assert.Equal(t, []string{"cefr"}, deck.Tags)

	cards, err := s.ListCards(ctx, u.ID, deck.PublicID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "sa-wat-dee", cards[0].Pronunciation)

	_, err = s.ImportFile(ctx, dir, "cefr/english", "missing.json", u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ImportFile(ctx, dir, "cefr/english", "../a1.json", u.ID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	_, err = s.ImportFile(ctx, dir, "cefr/english", "", u.ID)
	assert.ErrorAs(t, err, &verr)
}

func TestImportDeck_Chunks(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|big")

	f := &DeckFile{Deck: DeckInput{Name: "Big"}}
	for i := 0; i < BatchSize+25; i++ {
		f.Cards = append(f.Cards, CardInput{Vocab: "w", Meaning: "m"})
	}
	deck, err := s.ImportDeck(ctx, u.ID, f)
	require.NoError(t, err)
	assert.Equal(t, BatchSize+25, deck.CardCount)

	stored, err := s.GetDeck(ctx, u.ID, deck.PublicID)
	require.NoError(t, err)
	assert.Equal(t, BatchSize+25, stored.CardCount)

	deleted, err := s.DeleteUserDecks(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, DeletedDecks{Decks: 1, Cards: BatchSize + 25}, deleted)
}

func TestExportDeck(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|exp")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a1.json"), sampleDeck)
	deck, err := s.ImportFile(ctx, dir, ".", "a1.json", u.ID)
	require.NoError(t, err)

	out, err := s.ExportDeck(ctx, AnyUser, deck.PublicID, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "A1_Greetings_flashcards.json", out.Filename)
	var f DeckFile
	require.NoError(t, json.Unmarshal(out.Body, &f))
	assert.Equal(t, ExportVersion, f.Version)
	assert.Len(t, f.Cards, 2)

	out, err = s.ExportDeck(ctx, u.ID, deck.PublicID, FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "vocab,pronunciation,meaning,example,exampleTranslation", lines[0])

	out, err = s.ExportDeck(ctx, u.ID, deck.PublicID, FormatXLSX)
	require.NoError(t, err)
	x, err := excelize.OpenReader(bytes.NewReader(out.Body))
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "thanks", rows[2][0])

	// An exported sheet imports back as the same cards.
	writeFile(t, filepath.Join(dir, "roundtrip.xlsx"), string(out.Body))
	back, err := ReadDeckFile(filepath.Join(dir, "roundtrip.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", back.Deck.Name)
	require.Len(t, back.Cards, 2)
	assert.Equal(t, "Thanks a lot", back.Cards[1].Example)

	_, err = s.ExportDeck(ctx, u.ID, deck.PublicID, "pdf")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGames(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "auth0|gm")
	player := newTestUser(t, s, "auth0|pl")
	deck := newTestDeck(t, s, owner.ID, "Game deck", 4)

	_, err := s.CreateScore(ctx, player.ID, deck.PublicID, "blocks", ScoreInput{TimeSeconds: 30, CorrectAttempts: 4, TotalAttempts: 4})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.CreateScore(ctx, owner.ID, deck.PublicID, "blocks", ScoreInput{TimeSeconds: 40, CorrectAttempts: 4, TotalAttempts: 5})
	require.NoError(t, err)
	_, err = s.CreateScore(ctx, owner.ID, deck.PublicID, "blocks", ScoreInput{TimeSeconds: 25, CorrectAttempts: 4, TotalAttempts: 4})
	require.NoError(t, err)
	_, err = s.CreateScore(ctx, owner.ID, deck.PublicID, "chess", ScoreInput{TimeSeconds: 25})
	assert.Error(t, err)
	_, err = s.CreateScore(ctx, owner.ID, deck.PublicID, "blocks", ScoreInput{TimeSeconds: 25, CorrectAttempts: 5, TotalAttempts: 4})
	assert.Error(t, err)

	board, err := s.Leaderboard(ctx, owner.ID, deck.PublicID, "blocks")
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 25, board[0].TimeSeconds)
	assert.Equal(t, "auth0|gm", board[0].User.Nickname)
}
