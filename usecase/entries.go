package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// PrepareFunc adjust an entry before it is validated and stored.
// previous is nil on creation.
type PrepareFunc[T any] func(ctx context.Context, entry *T, previous *T) *common.DetailedError

// Entries CRUD of one kind of user entry
type Entries[T any, PT interface {
	*T
	schema.Entry
}] struct {
	name     string
	repo     EntryRepository[T]
	logger   *zap.Logger
	prepares []PrepareFunc[T]
	now      func() time.Time
}

// NewEntries name is used in error messages ("Food entry not found")
func NewEntries[T any, PT interface {
	*T
	schema.Entry
}](name string, repo EntryRepository[T], logger *zap.Logger, prepares ...PrepareFunc[T]) *Entries[T, PT] {
	return &Entries[T, PT]{
		name:     name,
		repo:     repo,
		logger:   logger,
		prepares: prepares,
		now:      time.Now,
	}
}

// Repository the underlying storage
func (e *Entries[T, PT]) Repository() EntryRepository[T] {
	return e.repo
}

func (e *Entries[T, PT]) prepare(ctx context.Context, entry *T, previous *T) *common.DetailedError {
	if c, ok := any(entry).(schema.Clocked); ok {
		schema.SyncDay(c, false)
	}
	for _, p := range e.prepares {
		if err := p(ctx, entry, previous); err != nil {
			return err
		}
	}
	return validateStruct(entry)
}

func (e *Entries[T, PT]) Create(ctx context.Context, entry *T) (*T, *common.DetailedError) {
	PT(entry).SetID(0)
	PT(entry).SetOwner(schema.DefaultUserID)
	if err := e.prepare(ctx, entry, nil); err != nil {
		return nil, err
	}
	PT(entry).Touch(e.now().UTC())
	if err := e.repo.Create(ctx, entry); err != nil {
		return nil, e.writeError(ctx, "Create", err)
	}
	e.logger.Debug("entry_created", zap.String("entry", e.name), zap.Int64("id", PT(entry).GetID()), zap.String("trace_id", common.TraceID(ctx)))
	return entry, nil
}

func (e *Entries[T, PT]) Get(ctx context.Context, id int64) (*T, *common.DetailedError) {
	entry, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "Get "+e.name, err)
	}
	if entry == nil {
		return nil, ErrorNotFound(e.name)
	}
	return entry, nil
}

// Update load the entry, apply the client changes on top of it then store it back.
// The identity fields cannot be changed by apply.
func (e *Entries[T, PT]) Update(ctx context.Context, id int64, apply func(entry *T) error) (*T, *common.DetailedError) {
	entry, derr := e.Get(ctx, id)
	if derr != nil {
		return nil, derr
	}
	previous := *entry
	record := recordOf(PT(entry))
	if err := apply(entry); err != nil {
		return nil, ErrorInvalidBody(err)
	}
	restoreRecord(PT(entry), record)
	if derr = e.prepare(ctx, entry, &previous); derr != nil {
		return nil, derr
	}
	PT(entry).Touch(e.now().UTC())
	found, err := e.repo.Update(ctx, entry)
	if err != nil {
		return nil, e.writeError(ctx, "Update", err)
	}
	if !found {
		return nil, ErrorNotFound(e.name)
	}
	return entry, nil
}

func (e *Entries[T, PT]) Delete(ctx context.Context, id int64) *common.DetailedError {
	found, err := e.repo.Delete(ctx, id)
	if err != nil {
		return storeError(ctx, "Delete "+e.name, err)
	}
	if !found {
		return ErrorNotFound(e.name)
	}
	return nil
}

// List entries of the local user matching q
func (e *Entries[T, PT]) List(ctx context.Context, q common.EntryQuery) ([]T, *common.DetailedError) {
	q.UserID = schema.DefaultUserID
	entries, err := e.repo.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "List "+e.name, err)
	}
	return entries, nil
}

// FindOne first entry of the local user matching q, nil when none
func (e *Entries[T, PT]) FindOne(ctx context.Context, q common.EntryQuery) (*T, *common.DetailedError) {
	q.UserID = schema.DefaultUserID
	entry, err := e.repo.FindOne(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "FindOne "+e.name, err)
	}
	return entry, nil
}

func (e *Entries[T, PT]) writeError(ctx context.Context, method string, err error) *common.DetailedError {
	if errors.Is(err, common.ErrDuplicate) {
		dup := errorAlreadyExists.WithMessage(e.name + " already exists")
		return dup.Wrap(err)
	}
	return storeError(ctx, method+" "+e.name, err)
}

type identity struct {
	id      int64
	created time.Time
}

func recordOf(entry schema.Entry) identity {
	return identity{id: entry.GetID(), created: entry.Created()}
}

func restoreRecord(entry schema.Entry, id identity) {
	entry.SetID(id.id)
	entry.SetOwner(schema.DefaultUserID)
	entry.SetCreated(id.created)
}
