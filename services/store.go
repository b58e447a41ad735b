package services

import (
	"context"
	"time"

	"github.com/andrewpaige1/lingodeck-api/logger"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BatchSize caps how many rows one bulk write commits at a time.
const BatchSize = 400

// Store is the data-access layer. It loads study history, runs the
// evaluators over it and writes the derived views back.
//
// Concurrent writers to the same row are not coordinated: the last write wins.
type Store struct {
	*gorm.DB
	Location *time.Location
	Now      func() time.Time
	Log      *logger.Logger
}

func New(db *gorm.DB, loc *time.Location, log *logger.Logger) *Store {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{DB: db, Location: loc, Now: time.Now, Log: log}
}

func (s *Store) now() time.Time {
	return s.Now().In(s.Location)
}

func (s *Store) startOfDay(t time.Time) time.Time {
	t = t.In(s.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.Location)
}

func (s *Store) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// first loads one row and maps gorm's not-found error to ErrNotFound.
func first(q *gorm.DB, dest interface{}, what string) error {
	if err := q.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(what)
		}
		return errors.Wrapf(err, "load %s", what)
	}
	return nil
}

// chunks splits ids into runs of at most BatchSize.
func chunks[T any](items []T) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += BatchSize {
		end := min(start+BatchSize, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// inChunks runs fn over ids in chunks of BatchSize, one transaction per
// chunk. A failure stops the loop and leaves earlier chunks committed.
func (s *Store) inChunks(ctx context.Context, ids []uint, fn func(tx *gorm.DB, chunk []uint) error) (int, error) {
	done := 0
	for _, chunk := range chunks(ids) {
		err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx, chunk)
		})
		if err != nil {
			return done, errors.Wrapf(err, "chunk after %d rows", done)
		}
		done += len(chunk)
	}
	return done, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
