package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// Notes the daily journal, at most one note per calendar date
type Notes struct {
	entries *Entries[schema.DailyNote, *schema.DailyNote]
}

func NewNotes(repo EntryRepository[schema.DailyNote], logger *zap.Logger) *Notes {
	return &Notes{
		entries: NewEntries[schema.DailyNote, *schema.DailyNote]("Daily note", repo, logger, keepNoteDate),
	}
}

// keepNoteDate a note stays on its date
func keepNoteDate(ctx context.Context, note *schema.DailyNote, previous *schema.DailyNote) *common.DetailedError {
	if previous != nil {
		note.Date = previous.Date
	}
	return nil
}

func (n *Notes) byDate(ctx context.Context, day string) (*schema.DailyNote, *common.DetailedError) {
	if _, err := common.ParseDay(day); err != nil {
		return nil, errorInvalidDate.Wrap(err)
	}
	note, derr := n.entries.FindOne(ctx, common.EntryQuery{}.Where("date", day))
	if derr != nil {
		return nil, derr
	}
	if note == nil {
		nf := errorNotFound.WithMessage(fmt.Sprintf("No daily note found for %s", day))
		return nil, &nf
	}
	return note, nil
}

func (n *Notes) Create(ctx context.Context, note *schema.DailyNote) (*schema.DailyNote, *common.DetailedError) {
	existing, derr := n.entries.FindOne(ctx, common.EntryQuery{}.Where("date", note.Date))
	if derr != nil {
		return nil, derr
	}
	if existing != nil {
		dup := errorAlreadyExists.WithMessage(fmt.Sprintf("Daily note for %s already exists. Use PUT to update.", note.Date))
		return nil, &dup
	}
	return n.entries.Create(ctx, note)
}

func (n *Notes) Get(ctx context.Context, day string) (*schema.DailyNote, *common.DetailedError) {
	return n.byDate(ctx, day)
}

func (n *Notes) Update(ctx context.Context, day string, apply func(note *schema.DailyNote) error) (*schema.DailyNote, *common.DetailedError) {
	note, derr := n.byDate(ctx, day)
	if derr != nil {
		return nil, derr
	}
	return n.entries.Update(ctx, note.ID, apply)
}

func (n *Notes) Delete(ctx context.Context, day string) *common.DetailedError {
	note, derr := n.byDate(ctx, day)
	if derr != nil {
		return derr
	}
	return n.entries.Delete(ctx, note.ID)
}

// Between notes of a date range, most recent first
func (n *Notes) Between(ctx context.Context, dates common.Date) ([]schema.DailyNote, *common.DetailedError) {
	return n.entries.List(ctx, common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("date")))
}
